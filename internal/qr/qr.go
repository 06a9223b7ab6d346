// Package qr renders the customer-feedback survey link as a scannable
// PNG. The link can carry the ticket id so individual repairs can be
// rated.
package qr

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

type Generator struct {
	feedbackURL string
}

func NewGenerator(feedbackURL string) *Generator {
	return &Generator{feedbackURL: feedbackURL}
}

// FeedbackLink is the survey URL, suffixed with the ticket id when one
// is given.
func (g *Generator) FeedbackLink(ticketID int64) string {
	if ticketID > 0 {
		return fmt.Sprintf("%s?entry.request_id=%d", g.feedbackURL, ticketID)
	}
	return g.feedbackURL
}

// PNG encodes the feedback link at high error correction so the code
// stays scannable on a printed receipt.
func (g *Generator) PNG(ticketID int64, size int) ([]byte, error) {
	if size <= 0 {
		size = 350
	}
	return qrcode.Encode(g.FeedbackLink(ticketID), qrcode.High, size)
}
