package calendar

import (
	"context"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/aenrique-byte/author-microsite-sub001/internal/repository"
)

// The calendar service is the read side: everything here is recomputed
// from the slot and booking tables on demand. The redis copy of open
// dates is a cache, never the source of truth.

type CalendarUseCase interface {
	OpenDates(ctx context.Context, storyID string) ([]string, error)
	GuestCalendar(ctx context.Context, storyID string) (map[string]DayStatus, error)
	AdminCalendar(ctx context.Context, storyID string) (*AdminCalendar, error)
	Bookings(ctx context.Context, storyID, status string) ([]domain.Booking, error)
}

type Cache interface {
	GetOpenDates(ctx context.Context, storyID string) ([]string, error)
	SetOpenDates(ctx context.Context, storyID string, dates []string) error
}

// DayStatus is the guest-facing state of a date. Pending and approved
// bookings both read as taken so a guest cannot race a request that is
// merely awaiting approval.
type DayStatus string

const (
	DayBookable DayStatus = "bookable"
	DayTaken    DayStatus = "taken"
)

type AdminDay struct {
	Date  string           `json:"date"`
	State domain.SlotState `json:"state"`
}

type AdminCalendar struct {
	StoryID  string           `json:"storyId"`
	Days     []AdminDay       `json:"days"`
	Bookings []domain.Booking `json:"-"`
}

type CalendarService struct {
	slots  repository.SlotRepository
	ledger repository.BookingRepository
	cache  Cache
}

func NewCalendarService(slots repository.SlotRepository, ledger repository.BookingRepository, cache Cache) *CalendarService {
	return &CalendarService{slots: slots, ledger: ledger, cache: cache}
}

func (s *CalendarService) OpenDates(ctx context.Context, storyID string) ([]string, error) {
	if storyID == "" {
		return nil, domain.NewValidation("storyId is required")
	}

	if s.cache != nil {
		if cached, err := s.cache.GetOpenDates(ctx, storyID); err == nil && cached != nil {
			return cached, nil
		}
	}

	days, err := s.slots.ListOpen(ctx, storyID)
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.Format(domain.DateLayout))
	}
	if s.cache != nil {
		_ = s.cache.SetOpenDates(ctx, storyID, dates)
	}
	return dates, nil
}

func (s *CalendarService) GuestCalendar(ctx context.Context, storyID string) (map[string]DayStatus, error) {
	if storyID == "" {
		return nil, domain.NewValidation("storyId is required")
	}

	days, err := s.slots.ListOpen(ctx, storyID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.ledger.ListByStory(ctx, storyID, "")
	if err != nil {
		return nil, err
	}

	taken := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.Active() {
			taken[b.Date.Format(domain.DateLayout)] = true
		}
	}

	view := make(map[string]DayStatus, len(days))
	for _, day := range days {
		date := day.Format(domain.DateLayout)
		if taken[date] {
			view[date] = DayTaken
		} else {
			view[date] = DayBookable
		}
	}
	return view, nil
}

func (s *CalendarService) AdminCalendar(ctx context.Context, storyID string) (*AdminCalendar, error) {
	if storyID == "" {
		return nil, domain.NewValidation("storyId is required")
	}

	slots, err := s.slots.ListSlots(ctx, storyID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.ledger.ListByStory(ctx, storyID, "")
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*domain.Booking, len(bookings))
	for i := range bookings {
		byDate[bookings[i].Date.Format(domain.DateLayout)] = &bookings[i]
	}

	days := make([]AdminDay, 0, len(slots))
	for _, slot := range slots {
		date := slot.Date.Format(domain.DateLayout)
		days = append(days, AdminDay{Date: date, State: domain.StateOf(slot.Open, byDate[date])})
	}

	return &AdminCalendar{StoryID: storyID, Days: days, Bookings: bookings}, nil
}

func (s *CalendarService) Bookings(ctx context.Context, storyID, status string) ([]domain.Booking, error) {
	if storyID == "" {
		return nil, domain.NewValidation("storyId is required")
	}

	var filter domain.BookingStatus
	switch status {
	case "":
	case string(domain.BookingStatusPending), string(domain.BookingStatusApproved):
		filter = domain.BookingStatus(status)
	default:
		return nil, domain.NewValidation("unknown status filter %q", status)
	}

	return s.ledger.ListByStory(ctx, storyID, filter)
}

var _ CalendarUseCase = (*CalendarService)(nil)
