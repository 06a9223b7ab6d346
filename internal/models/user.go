package models

// Role is the closed set of account types.
type Role string

const (
	RoleManager        Role = "Manager"
	RoleSpecialist     Role = "Specialist"
	RoleOperator       Role = "Operator"
	RoleCustomer       Role = "Customer"
	RoleQualityManager Role = "QualityManager"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleSpecialist, RoleOperator, RoleCustomer, RoleQualityManager:
		return true
	}
	return false
}

type User struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Login    string `json:"login"`
	Role     Role   `json:"role"`
	// IsAdmin marks the reserved superuser login. Resolved once at
	// authentication, never stored.
	IsAdmin bool `json:"isAdmin"`
}
