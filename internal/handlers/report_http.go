package handlers

import (
	"net/http"

	"repairdesk/internal/repository"
	"repairdesk/internal/utils"
)

type ReportsHTTP struct {
	tickets repository.TicketRepository
}

func NewReportsHTTP(tickets repository.TicketRepository) *ReportsHTTP {
	return &ReportsHTTP{tickets: tickets}
}

// GET /api/reports/statistics
// Totals, completion count, average repair days, and the per-type and
// per-status breakdowns for the manager dashboard.
func (h *ReportsHTTP) Statistics() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := h.tickets.Statistics(r.Context())
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		utils.JSON(w, http.StatusOK, s)
	}
}
