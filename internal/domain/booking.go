package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type BookingStatus string

const (
	BookingStatusPending  BookingStatus = "pending"
	BookingStatusApproved BookingStatus = "approved"
)

// Booking is a guest shoutout request for one (story, date) slot.
// Rejected and cancelled bookings are deleted, so every stored row
// is active and blocks further requests for its slot.
type Booking struct {
	ID           uuid.UUID
	StoryID      string
	Date         time.Time
	AuthorName   string
	Email        string
	StoryLink    string
	ShoutoutCode string
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the booking blocks new requests for its slot.
// With deletion-on-reject this is always true for stored rows; the
// method exists so callers do not encode that assumption.
func (b *Booking) Active() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusApproved
}
