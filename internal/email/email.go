package email

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aenrique-byte/author-microsite-sub001/config"
	"github.com/aenrique-byte/author-microsite-sub001/internal/kafka"
)

// Sender turns booking_approved events into the confirmation email a
// guest receives, including the reply shoutout code(s) the admin has
// configured for the exchange.
type Sender struct {
	siteName   string
	replyCodes []string
}

func NewSender(cfg config.ShoutoutConfig) *Sender {
	return &Sender{siteName: cfg.SiteName, replyCodes: cfg.ReplyCodes}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Type != "booking_approved" {
		return nil
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nYour shoutout for %s on %s was approved.\nPlease feature the following code(s) in your story: %s\n\n%s",
		event.AuthorName, event.StoryID, event.Date, strings.Join(s.replyCodes, ", "), s.siteName,
	)
	log.Printf("send approval email to %s for story %s date %s:\n%s", event.Email, event.StoryID, event.Date, body)
	return nil
}
