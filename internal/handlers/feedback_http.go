package handlers

import (
	"net/http"

	"repairdesk/internal/qr"
	"repairdesk/internal/utils"
)

type FeedbackHTTP struct {
	qr *qr.Generator
}

func NewFeedbackHTTP(g *qr.Generator) *FeedbackHTTP { return &FeedbackHTTP{qr: g} }

// GET /api/feedback/qr?ticket=123&size=350
// Returns the survey link as a PNG QR code; the ticket parameter is
// optional and tags the survey response with the request id.
func (h *FeedbackHTTP) QR() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qv := r.URL.Query()
		ticketID := utils.QueryInt64(qv, "ticket", 0)
		size := int(utils.QueryInt64(qv, "size", 350))

		png, err := h.qr.PNG(ticketID, size)
		if err != nil {
			utils.Error(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}
