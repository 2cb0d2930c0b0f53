package api

import (
	"net/http"
	"time"

	"github.com/aenrique-byte/author-microsite-sub001/internal/domain"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/calendar"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	reservations reservation.ReservationUseCase
	calendars    calendar.CalendarUseCase
}

type updateBookingRequest struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type bookingResponse struct {
	ID           string `json:"id"`
	StoryID      string `json:"storyId"`
	Date         string `json:"dateStr"`
	AuthorName   string `json:"authorName"`
	Email        string `json:"email"`
	StoryLink    string `json:"storyLink"`
	ShoutoutCode string `json:"shoutoutCode"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

func NewBookingHandler(reservations reservation.ReservationUseCase, calendars calendar.CalendarUseCase) *BookingHandler {
	return &BookingHandler{reservations: reservations, calendars: calendars}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.list)
	router.POST("", h.create)
	router.PUT("", h.update)
	router.DELETE("", h.remove)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.calendars.Bookings(c.Request.Context(), c.Query("storyId"), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) create(c *gin.Context) {
	var input reservation.RequestBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	booking, err := h.reservations.RequestBooking(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(booking))
}

func (h *BookingHandler) update(c *gin.Context) {
	var req updateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}
	id, err := uuid.Parse(req.ID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id", "kind": "validation"})
		return
	}

	// The only legal status change is pending -> approved.
	if req.Status != string(domain.BookingStatusApproved) {
		respondError(c, domain.NewInvalidState("bookings cannot transition to status %q", req.Status))
		return
	}

	result, err := h.reservations.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"booking": toBookingResponse(result.Booking)}
	if result.NotifyErr != nil {
		body["warning"] = "approved, but the confirmation email could not be queued"
	}
	c.JSON(http.StatusOK, body)
}

func (h *BookingHandler) remove(c *gin.Context) {
	id, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id", "kind": "validation"})
		return
	}

	if err := h.reservations.Withdraw(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:           b.ID.String(),
		StoryID:      b.StoryID,
		Date:         b.Date.Format(domain.DateLayout),
		AuthorName:   b.AuthorName,
		Email:        b.Email,
		StoryLink:    b.StoryLink,
		ShoutoutCode: b.ShoutoutCode,
		Status:       string(b.Status),
		CreatedAt:    b.CreatedAt.Format(time.RFC3339),
	}
}
