// Package policy is the authoritative role capability matrix. The HTTP
// layer asks it before every mutating or administrative action; nothing
// else re-derives permissions from role strings.
package policy

import "repairdesk/internal/models"

// Capability is one gated action.
type Capability int

const (
	CreateTicket Capability = iota
	ChangeStatus
	AssignMaster
	SelfAssign
	AddComment
	ViewStatistics
	ManageUsers
	GenerateQR
	ViewUnassigned
)

// Principal is the authenticated caller as seen by the policy layer.
// IsAdmin is the reserved superuser login, decided at authentication.
type Principal struct {
	UserID  int64
	Role    models.Role
	IsAdmin bool
}

// adminCaps is everything the superuser may do. Commenting stays with
// specialists (comment authors must hold that role) and the unassigned
// pickup queue with its self-assignment is specialist workflow, so
// neither is granted here.
var adminCaps = capSet(CreateTicket, ChangeStatus, AssignMaster, ViewStatistics, ManageUsers, GenerateQR)

var roleCaps = map[models.Role]map[Capability]bool{
	models.RoleCustomer:       capSet(CreateTicket),
	models.RoleSpecialist:     capSet(SelfAssign, AddComment, ViewUnassigned),
	models.RoleOperator:       capSet(CreateTicket, ChangeStatus, AssignMaster, ViewStatistics),
	models.RoleManager:        capSet(ChangeStatus, AssignMaster, ViewStatistics),
	models.RoleQualityManager: capSet(ChangeStatus, ViewStatistics, GenerateQR),
}

// Allowed reports whether the principal may perform the capability.
func Allowed(p Principal, c Capability) bool {
	if p.IsAdmin {
		return adminCaps[c]
	}
	return roleCaps[p.Role][c]
}

// CanDeleteUser guards user removal: only the superuser manages users,
// and the superuser account itself is never deletable.
func CanDeleteUser(p Principal, target *models.User, adminLogin string) bool {
	if !Allowed(p, ManageUsers) {
		return false
	}
	return target.Login != adminLogin
}

func capSet(caps ...Capability) map[Capability]bool {
	m := make(map[Capability]bool, len(caps))
	for _, c := range caps {
		m[c] = true
	}
	return m
}
