package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/calendar"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockReservationUseCase struct {
	mock.Mock
}

func (m *MockReservationUseCase) RequestBooking(ctx context.Context, input reservation.RequestBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockReservationUseCase) Approve(ctx context.Context, id uuid.UUID) (*reservation.ApprovalResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reservation.ApprovalResult), args.Error(1)
}

func (m *MockReservationUseCase) Reject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationUseCase) CancelApproved(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationUseCase) Withdraw(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservationUseCase) ToggleAvailability(ctx context.Context, storyID, date string, open bool) error {
	args := m.Called(ctx, storyID, date, open)
	return args.Error(0)
}

type MockCalendarUseCase struct {
	mock.Mock
}

func (m *MockCalendarUseCase) OpenDates(ctx context.Context, storyID string) ([]string, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCalendarUseCase) GuestCalendar(ctx context.Context, storyID string) (map[string]calendar.DayStatus, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]calendar.DayStatus), args.Error(1)
}

func (m *MockCalendarUseCase) AdminCalendar(ctx context.Context, storyID string) (*calendar.AdminCalendar, error) {
	args := m.Called(ctx, storyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*calendar.AdminCalendar), args.Error(1)
}

func (m *MockCalendarUseCase) Bookings(ctx context.Context, storyID, status string) ([]domain.Booking, error) {
	args := m.Called(ctx, storyID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func sampleBooking(status domain.BookingStatus) *domain.Booking {
	date, _ := time.Parse(domain.DateLayout, "2025-06-01")
	return &domain.Booking{
		ID:           uuid.New(),
		StoryID:      "story-1",
		Date:         date,
		AuthorName:   "Ana Quill",
		Email:        "ana@example.com",
		StoryLink:    "https://example.com/stories/ana",
		ShoutoutCode: "AQ-01",
		Status:       status,
		CreatedAt:    time.Now(),
	}
}

func TestBookingHandler_create(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	input := reservation.RequestBookingInput{
		StoryID:      "story-1",
		Date:         "2025-06-01",
		AuthorName:   "Ana Quill",
		Email:        "ana@example.com",
		StoryLink:    "https://example.com/stories/ana",
		ShoutoutCode: "AQ-01",
	}
	body, _ := json.Marshal(input)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	booking := sampleBooking(domain.BookingStatusPending)
	mockReservations.On("RequestBooking", c.Request.Context(), input).Return(booking, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, booking.ID.String(), response.ID)
	assert.Equal(t, "pending", response.Status)
	assert.Equal(t, "2025-06-01", response.Date)

	mockReservations.AssertExpectations(t)
}

func TestBookingHandler_create_conflict(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(reservation.RequestBookingInput{StoryID: "story-1", Date: "2025-06-01"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockReservations.On("RequestBooking", c.Request.Context(), mock.Anything).
		Return(nil, domain.NewConflict("date 2025-06-01 is already requested or booked"))

	handler.create(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "conflict")
}

func TestBookingHandler_create_validation(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(reservation.RequestBookingInput{StoryID: "story-1", Date: "2025-06-01", Email: "not-an-email"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockReservations.On("RequestBooking", c.Request.Context(), mock.Anything).
		Return(nil, domain.NewValidation("invalid booking request"))

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation")
}

func TestBookingHandler_update_approve(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	booking := sampleBooking(domain.BookingStatusApproved)
	body, _ := json.Marshal(updateBookingRequest{ID: booking.ID.String(), Status: "approved"})
	c.Request = httptest.NewRequest("PUT", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockReservations.On("Approve", c.Request.Context(), booking.ID).
		Return(&reservation.ApprovalResult{Booking: booking}, nil)

	handler.update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "approved")
	assert.NotContains(t, w.Body.String(), "warning")

	mockReservations.AssertExpectations(t)
}

func TestBookingHandler_update_approveWithNotifyWarning(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	booking := sampleBooking(domain.BookingStatusApproved)
	body, _ := json.Marshal(updateBookingRequest{ID: booking.ID.String(), Status: "approved"})
	c.Request = httptest.NewRequest("PUT", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockReservations.On("Approve", c.Request.Context(), booking.ID).
		Return(&reservation.ApprovalResult{Booking: booking, NotifyErr: assert.AnError}, nil)

	handler.update(c)

	// The approval committed; the failed dispatch is only a warning.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warning")
}

func TestBookingHandler_update_illegalStatus(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(updateBookingRequest{ID: uuid.NewString(), Status: "pending"})
	c.Request = httptest.NewRequest("PUT", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.update(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_state")
	mockReservations.AssertNotCalled(t, "Approve")
}

func TestBookingHandler_update_notFound(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := uuid.New()
	body, _ := json.Marshal(updateBookingRequest{ID: id.String(), Status: "approved"})
	c.Request = httptest.NewRequest("PUT", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockReservations.On("Approve", c.Request.Context(), id).Return(nil, domain.ErrNotFound)

	handler.update(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_remove(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := uuid.New()
	c.Request = httptest.NewRequest("DELETE", "/bookings?id="+id.String(), nil)

	mockReservations.On("Withdraw", c.Request.Context(), id).Return(nil)

	handler.remove(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockReservations.AssertExpectations(t)
}

func TestBookingHandler_remove_notFound(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	id := uuid.New()
	c.Request = httptest.NewRequest("DELETE", "/bookings?id="+id.String(), nil)

	mockReservations.On("Withdraw", c.Request.Context(), id).Return(domain.ErrNotFound)

	handler.remove(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBookingHandler_remove_badID(t *testing.T) {
	mockReservations := &MockReservationUseCase{}
	handler := NewBookingHandler(mockReservations, &MockCalendarUseCase{})

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("DELETE", "/bookings?id=not-a-uuid", nil)

	handler.remove(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockReservations.AssertNotCalled(t, "Withdraw")
}

func TestBookingHandler_list(t *testing.T) {
	mockCalendars := &MockCalendarUseCase{}
	handler := NewBookingHandler(&MockReservationUseCase{}, mockCalendars)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Request = httptest.NewRequest("GET", "/bookings?storyId=story-1&status=pending", nil)

	booking := sampleBooking(domain.BookingStatusPending)
	mockCalendars.On("Bookings", c.Request.Context(), "story-1", "pending").Return([]domain.Booking{*booking}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []bookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, booking.ID.String(), response[0].ID)

	mockCalendars.AssertExpectations(t)
}
