package reservation

import (
	"context"
	"log"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/aenrique-byte/author-microsite-sub001/internal/kafka"
	"github.com/aenrique-byte/author-microsite-sub001/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ReservationUseCase interface {
	RequestBooking(ctx context.Context, input RequestBookingInput) (*domain.Booking, error)
	Approve(ctx context.Context, id uuid.UUID) (*ApprovalResult, error)
	Reject(ctx context.Context, id uuid.UUID) error
	CancelApproved(ctx context.Context, id uuid.UUID) error
	Withdraw(ctx context.Context, id uuid.UUID) error
	ToggleAvailability(ctx context.Context, storyID, date string, open bool) error
}

type Cache interface {
	AcquireSlotHold(ctx context.Context, storyID, date string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, storyID, date string) error
	InvalidateCalendar(ctx context.Context, storyID string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// RequestBookingInput is the guest request form. Validation runs here,
// not in the transport layer, so every caller gets the same rules.
type RequestBookingInput struct {
	StoryID      string `json:"storyId" validate:"required"`
	Date         string `json:"dateStr" validate:"required,datetime=2006-01-02"`
	AuthorName   string `json:"authorName" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	StoryLink    string `json:"storyLink" validate:"required,url"`
	ShoutoutCode string `json:"shoutoutCode" validate:"required"`
}

// ApprovalResult carries the approved booking plus the outcome of the
// best-effort notification dispatch. NotifyErr never rolls back the
// approval; callers surface it as a warning.
type ApprovalResult struct {
	Booking   *domain.Booking
	NotifyErr error
}

type ReservationService struct {
	ledger             repository.BookingRepository
	slots              repository.SlotRepository
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	validate           *validator.Validate
}

type ReservationServiceOption func(*ReservationService)

func WithNotificationsTopic(topic string) ReservationServiceOption {
	return func(s *ReservationService) {
		s.notificationsTopic = topic
	}
}

func NewReservationService(
	ledger repository.BookingRepository,
	slots repository.SlotRepository,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...ReservationServiceOption,
) *ReservationService {
	service := &ReservationService{
		ledger:       ledger,
		slots:        slots,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		validate:     validator.New(),
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *ReservationService) RequestBooking(ctx context.Context, input RequestBookingInput) (*domain.Booking, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.NewValidation("invalid booking request: %v", err)
	}
	day, err := parseDate(input.Date)
	if err != nil {
		return nil, err
	}

	// Fast-path refusal for closed dates. CreatePending re-checks this
	// under the slot row lock, so a close committing after this read
	// still cannot let the insert through.
	open, err := s.slots.IsOpen(ctx, input.StoryID, day)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, domain.NewConflict("date %s is not open for booking", input.Date)
	}

	// The redis hold only sheds duplicate submits early; losing it is
	// a conflict, but a redis outage must not block bookings because
	// the unique index on (story_id, day) is the real guarantee.
	held := false
	if s.cache != nil {
		ok, holdErr := s.cache.AcquireSlotHold(ctx, input.StoryID, input.Date, s.holdTTL)
		if holdErr != nil {
			log.Printf("WARNING: slot hold unavailable for story %s date %s: %v", input.StoryID, input.Date, holdErr)
		} else if !ok {
			return nil, domain.NewConflict("date %s is already requested or booked", input.Date)
		} else {
			held = true
		}
	}

	booking := &domain.Booking{
		ID:           uuid.New(),
		StoryID:      input.StoryID,
		Date:         day,
		AuthorName:   input.AuthorName,
		Email:        input.Email,
		StoryLink:    input.StoryLink,
		ShoutoutCode: input.ShoutoutCode,
	}

	createErr := s.ledger.CreatePending(ctx, booking)
	if held {
		_ = s.cache.ReleaseSlotHold(ctx, input.StoryID, input.Date)
	}
	if createErr != nil {
		return nil, createErr
	}

	s.invalidateCalendar(ctx, booking.StoryID)
	s.publish(ctx, "booking_requested", booking)
	return booking, nil
}

func (s *ReservationService) Approve(ctx context.Context, id uuid.UUID) (*ApprovalResult, error) {
	// The pending guard rides in the UPDATE itself; two racing
	// approvals cannot both commit, so the notification below fires
	// at most once per booking.
	updated, err := s.ledger.UpdateStatus(ctx, id, domain.BookingStatusPending, domain.BookingStatusApproved)
	if err != nil {
		return nil, err
	}

	s.invalidateCalendar(ctx, updated.StoryID)
	s.publish(ctx, "booking_approved", updated)

	// The approval is already committed; a failed dispatch is
	// reported, never rolled back.
	var notifyErr error
	if s.producer != nil && s.notificationsTopic != "" {
		event := eventFrom("booking_approved", updated)
		notifyErr = s.producer.Publish(ctx, s.notificationsTopic, updated.ID.String(), event)
		if notifyErr != nil {
			log.Printf("WARNING: failed to queue approval notification for booking %s: %v", updated.ID, notifyErr)
		}
	}

	return &ApprovalResult{Booking: updated, NotifyErr: notifyErr}, nil
}

func (s *ReservationService) Reject(ctx context.Context, id uuid.UUID) error {
	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != domain.BookingStatusPending {
		return domain.NewInvalidState("booking %s is not pending", id)
	}
	return s.remove(ctx, current, domain.BookingStatusPending, "booking_rejected")
}

func (s *ReservationService) CancelApproved(ctx context.Context, id uuid.UUID) error {
	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status != domain.BookingStatusApproved {
		return domain.NewInvalidState("booking %s is not approved", id)
	}
	return s.remove(ctx, current, domain.BookingStatusApproved, "booking_cancelled")
}

// Withdraw removes a booking whatever its status, freeing the slot.
// It backs DELETE /bookings, which does not know whether the target is
// still pending or already approved.
func (s *ReservationService) Withdraw(ctx context.Context, id uuid.UUID) error {
	current, err := s.ledger.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status == domain.BookingStatusApproved {
		return s.remove(ctx, current, "", "booking_cancelled")
	}
	return s.remove(ctx, current, "", "booking_rejected")
}

func (s *ReservationService) ToggleAvailability(ctx context.Context, storyID, date string, open bool) error {
	if storyID == "" {
		return domain.NewValidation("storyId is required")
	}
	day, err := parseDate(date)
	if err != nil {
		return err
	}

	if err := s.slots.SetAvailability(ctx, storyID, day, open); err != nil {
		return err
	}
	s.invalidateCalendar(ctx, storyID)
	return nil
}

// remove deletes a booking while it still has the expected status;
// the guard lives in the DELETE so a reject racing an approval is
// refused instead of silently dropping the approved booking.
func (s *ReservationService) remove(ctx context.Context, booking *domain.Booking, expected domain.BookingStatus, eventType string) error {
	if err := s.ledger.Delete(ctx, booking.ID, expected); err != nil {
		return err
	}
	s.invalidateCalendar(ctx, booking.StoryID)
	s.publish(ctx, eventType, booking)
	return nil
}

func (s *ReservationService) invalidateCalendar(ctx context.Context, storyID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCalendar(ctx, storyID); err != nil {
		log.Printf("WARNING: failed to invalidate calendar cache for story %s: %v", storyID, err)
	}
}

func (s *ReservationService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := eventFrom(eventType, booking)
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.ID.String(), event); err != nil {
		log.Printf("WARNING: failed to publish %s event for booking %s: %v", eventType, booking.ID, err)
	}
}

func eventFrom(eventType string, booking *domain.Booking) kafka.BookingEvent {
	return kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID.String(),
		StoryID:      booking.StoryID,
		Date:         booking.Date.Format(domain.DateLayout),
		AuthorName:   booking.AuthorName,
		Email:        booking.Email,
		StoryLink:    booking.StoryLink,
		ShoutoutCode: booking.ShoutoutCode,
		Status:       string(booking.Status),
		OccurredAt:   time.Now(),
	}
}

func parseDate(value string) (time.Time, error) {
	day, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, domain.NewValidation("invalid date %q: expected YYYY-MM-DD", value)
	}
	return day, nil
}

var _ ReservationUseCase = (*ReservationService)(nil)
