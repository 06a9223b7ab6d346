package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"repairdesk/internal/middleware"
	"repairdesk/internal/models"
	"repairdesk/internal/repository"
	"repairdesk/internal/service"
	"repairdesk/internal/utils"
)

type AuthHTTP struct {
	svc   *service.AuthService
	users repository.UserRepository
}

func NewAuthHTTP(s *service.AuthService, users repository.UserRepository) *AuthHTTP {
	return &AuthHTTP{svc: s, users: users}
}

// Register handles self-registration. The quality-manager role and the
// superuser account are provisioned by the administrator, not via this
// endpoint.
func (h *AuthHTTP) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			FullName string      `json:"fullName"`
			Phone    string      `json:"phone"`
			Login    string      `json:"login"`
			Password string      `json:"password"`
			Role     models.Role `json:"role"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		switch in.Role {
		case models.RoleCustomer, models.RoleSpecialist, models.RoleOperator, models.RoleManager:
		default:
			utils.Error(w, http.StatusBadRequest, "role not open for registration")
			return
		}

		u, err := h.svc.Register(r.Context(), in.FullName, in.Phone, in.Login, in.Password, in.Role)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateLogin) {
				utils.Error(w, http.StatusConflict, err.Error())
				return
			}
			utils.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, u)
	}
}

func (h *AuthHTTP) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Login    string `json:"login"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		token, u, err := h.svc.Login(r.Context(), in.Login, in.Password)
		if err != nil {
			// Unknown login and wrong password answer identically.
			utils.Error(w, http.StatusUnauthorized, "invalid credentials")
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			Expires:  time.Now().Add(24 * time.Hour),
		})
		utils.JSON(w, http.StatusOK, u)
	}
}

func (h *AuthHTTP) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{
			Name:     "session",
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
			Expires:  time.Unix(0, 0),
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *AuthHTTP) Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := middleware.Principal(r.Context())
		if !ok {
			utils.Error(w, http.StatusUnauthorized, "not authenticated")
			return
		}
		u, err := h.users.GetByID(r.Context(), p.UserID)
		if err != nil {
			utils.Error(w, http.StatusNotFound, "user not found")
			return
		}
		u.IsAdmin = p.IsAdmin
		utils.JSON(w, http.StatusOK, u)
	}
}
