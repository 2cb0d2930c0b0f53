package domain

import "time"

// DateSlot marks a calendar date an admin has toggled for a story.
// A missing row means the date is closed.
type DateSlot struct {
	StoryID   string
	Date      time.Time
	Open      bool
	UpdatedAt time.Time
}

// SlotState is the admin-facing state of one (story, date) slot,
// derived from the slot row and any booking on it.
type SlotState string

const (
	SlotClosed  SlotState = "closed"
	SlotOpen    SlotState = "open"
	SlotPending SlotState = "pending"
	SlotBooked  SlotState = "booked"
)

// StateOf derives the slot state from an availability flag and the
// booking occupying the slot, if any.
func StateOf(open bool, booking *Booking) SlotState {
	if booking != nil {
		if booking.Status == BookingStatusApproved {
			return SlotBooked
		}
		return SlotPending
	}
	if open {
		return SlotOpen
	}
	return SlotClosed
}
