package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateOf(t *testing.T) {
	assert.Equal(t, SlotClosed, StateOf(false, nil))
	assert.Equal(t, SlotOpen, StateOf(true, nil))
	assert.Equal(t, SlotPending, StateOf(true, &Booking{Status: BookingStatusPending}))
	assert.Equal(t, SlotBooked, StateOf(true, &Booking{Status: BookingStatusApproved}))
}
