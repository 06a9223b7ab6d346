package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"repairdesk/internal/middleware"
	"repairdesk/internal/models"
	"repairdesk/internal/repository"
	"repairdesk/internal/utils"
)

// TicketHTTP wires the request-lifecycle endpoints to the stores.
type TicketHTTP struct {
	tickets  repository.TicketRepository
	comments repository.CommentRepository
	users    repository.UserRepository
}

func NewTicketHTTP(tickets repository.TicketRepository, comments repository.CommentRepository, users repository.UserRepository) *TicketHTTP {
	return &TicketHTTP{tickets: tickets, comments: comments, users: users}
}

// -----------------------------------------------------------------------------
// GET /api/tickets?status=&q=
// -----------------------------------------------------------------------------
func (h *TicketHTTP) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := middleware.Principal(r.Context())
		qv := r.URL.Query()
		q := strings.TrimSpace(qv.Get("q"))
		status := models.Status(strings.TrimSpace(qv.Get("status")))
		if status != "" && !status.Valid() {
			utils.Error(w, http.StatusBadRequest, "unknown status")
			return
		}

		var (
			items []models.Ticket
			err   error
		)
		if q != "" {
			items, err = h.tickets.Search(r.Context(), q)
		} else {
			items, err = h.tickets.List(r.Context(), status)
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}

		// Customers only ever see their own requests.
		if p.Role == models.RoleCustomer && !p.IsAdmin {
			filtered := make([]models.Ticket, 0, len(items))
			for _, t := range items {
				if t.ClientID == p.UserID {
					filtered = append(filtered, t)
				}
			}
			items = filtered
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/mine — the caller's view of their own work:
// customers get the requests they filed, specialists the repairs
// assigned to them, the superuser everything.
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Mine() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := middleware.Principal(r.Context())

		var (
			items []models.Ticket
			err   error
		)
		switch {
		case p.IsAdmin:
			items, err = h.tickets.List(r.Context(), "")
		case p.Role == models.RoleCustomer:
			items, err = h.tickets.ListByClient(r.Context(), p.UserID)
		case p.Role == models.RoleSpecialist:
			items, err = h.tickets.ListByMaster(r.Context(), p.UserID)
		default:
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/unassigned — the specialist pickup queue.
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Unassigned() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.tickets.ListUnassigned(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		p, _ := middleware.Principal(r.Context())
		if p.Role == models.RoleCustomer && !p.IsAdmin && t.ClientID != p.UserID {
			utils.Error(w, http.StatusForbidden, "forbidden")
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets
// Customers always file for themselves; operators and the superuser may
// file on behalf of a client by passing clientId.
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Create() http.HandlerFunc {
	type inDTO struct {
		EquipmentType  string `json:"equipmentType"`
		EquipmentModel string `json:"equipmentModel"`
		ProblemText    string `json:"problemText"`
		ClientID       int64  `json:"clientId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.EquipmentType = strings.TrimSpace(in.EquipmentType)
		in.EquipmentModel = strings.TrimSpace(in.EquipmentModel)
		in.ProblemText = strings.TrimSpace(in.ProblemText)
		if in.EquipmentType == "" || in.EquipmentModel == "" {
			utils.Error(w, http.StatusBadRequest, "equipment type and model are required")
			return
		}

		p, _ := middleware.Principal(r.Context())
		clientID := in.ClientID
		if p.Role == models.RoleCustomer || clientID == 0 {
			clientID = p.UserID
		}

		t := &models.Ticket{
			EquipmentType:  in.EquipmentType,
			EquipmentModel: in.EquipmentModel,
			ProblemText:    in.ProblemText,
			ClientID:       clientID,
		}
		if err := h.tickets.Create(r.Context(), t); err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, t)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets/{id}/assign
// One UPDATE carries both the assignment and the InRepair transition; a
// ticket already ready for pickup refuses with 409.
// -----------------------------------------------------------------------------
func (h *TicketHTTP) AssignMaster() http.HandlerFunc {
	type inDTO struct {
		MasterID int64 `json:"masterId"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.MasterID == 0 {
			utils.Error(w, http.StatusBadRequest, "masterId is required")
			return
		}

		master, err := h.users.GetByID(r.Context(), in.MasterID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusBadRequest, "master not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if master.Role != models.RoleSpecialist {
			utils.Error(w, http.StatusBadRequest, "master must be a specialist")
			return
		}

		h.finishAssign(w, r, id, in.MasterID)
	}
}

// -----------------------------------------------------------------------------
// POST /api/tickets/{id}/claim — a specialist takes an unassigned ticket.
// -----------------------------------------------------------------------------
func (h *TicketHTTP) Claim() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		p, _ := middleware.Principal(r.Context())

		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		if t.MasterID != nil {
			utils.Error(w, http.StatusConflict, "ticket already assigned")
			return
		}

		h.finishAssign(w, r, id, p.UserID)
	}
}

func (h *TicketHTTP) finishAssign(w http.ResponseWriter, r *http.Request, ticketID, masterID int64) {
	if err := h.tickets.AssignMaster(r.Context(), ticketID, masterID); err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			utils.Error(w, http.StatusNotFound, "not found")
		case errors.Is(err, models.ErrInvalidTransition):
			utils.Error(w, http.StatusConflict, "completed ticket cannot be reassigned")
		default:
			utils.Error(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	t, err := h.tickets.Get(r.Context(), ticketID)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, t)
}

// -----------------------------------------------------------------------------
// PATCH /api/tickets/{id}/status
// -----------------------------------------------------------------------------
func (h *TicketHTTP) UpdateStatus() http.HandlerFunc {
	type inDTO struct {
		Status models.Status `json:"status"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil || !in.Status.Valid() {
			utils.Error(w, http.StatusBadRequest, "unknown status")
			return
		}

		if err := h.tickets.UpdateStatus(r.Context(), id, in.Status); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		t, err := h.tickets.Get(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, t)
	}
}

// -----------------------------------------------------------------------------
// GET /api/tickets/{id}/comments
// POST /api/tickets/{id}/comments — specialists only (policy-gated).
// -----------------------------------------------------------------------------
func (h *TicketHTTP) ListComments() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		items, err := h.comments.ListByTicket(r.Context(), id)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
	}
}

func (h *TicketHTTP) AddComment() http.HandlerFunc {
	type inDTO struct {
		Message string `json:"message"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := utils.PathInt64(chi.URLParam(r, "id"))
		if !ok {
			utils.Error(w, http.StatusBadRequest, "invalid id")
			return
		}
		var in inDTO
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			utils.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.Message = strings.TrimSpace(in.Message)
		if in.Message == "" {
			utils.Error(w, http.StatusBadRequest, "message is required")
			return
		}

		p, _ := middleware.Principal(r.Context())
		c, err := h.comments.Add(r.Context(), in.Message, p.UserID, id)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				utils.Error(w, http.StatusNotFound, "not found")
				return
			}
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusCreated, c)
	}
}
