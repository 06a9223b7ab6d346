package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"repairdesk/internal/middleware"
	"repairdesk/internal/models"
	"repairdesk/internal/policy"
	"repairdesk/internal/repository"
	"repairdesk/internal/service"
	"repairdesk/internal/utils"
)

// UserHTTP exposes the administrative user views plus the specialist
// picker used by assignment forms.
type UserHTTP struct {
	repo       repository.UserRepository
	auth       *service.AuthService
	adminLogin string
}

func NewUserHTTP(repo repository.UserRepository, auth *service.AuthService, adminLogin string) *UserHTTP {
	return &UserHTTP{repo: repo, auth: auth, adminLogin: adminLogin}
}

// GET /api/users
func (h *UserHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.repo.List(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
	}
}

// POST /api/users — administrator provisioning; unlike self-registration
// this accepts any role, quality managers included.
func (h *UserHTTP) Create() http.HandlerFunc {
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
		u, err := h.auth.Register(r.Context(), in.FullName, in.Phone, in.Login, in.Password, in.Role)
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

// DELETE /api/users/{id} — refuses the reserved admin account.
func (h *UserHTTP) Delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		target, err := h.repo.GetByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		p, _ := middleware.Principal(r.Context())
		if !policy.CanDeleteUser(p, target, h.adminLogin) {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		if err := h.repo.Delete(r.Context(), id); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /api/users/specialists — ordered by name for assignment pickers.
func (h *UserHTTP) Specialists() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.repo.ListSpecialists(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": users, "total": len(users)})
	}
}
