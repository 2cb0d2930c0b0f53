package api

import (
	"net/http"

	"github.com/aenrique-byte/author-microsite-sub001/internal/service/calendar"
	"github.com/aenrique-byte/author-microsite-sub001/internal/service/reservation"
	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	reservations reservation.ReservationUseCase
	calendars    calendar.CalendarUseCase
}

type toggleAvailabilityRequest struct {
	StoryID     string `json:"storyId"`
	Date        string `json:"dateStr"`
	IsAvailable bool   `json:"isAvailable"`
}

func NewAvailabilityHandler(reservations reservation.ReservationUseCase, calendars calendar.CalendarUseCase) *AvailabilityHandler {
	return &AvailabilityHandler{reservations: reservations, calendars: calendars}
}

func (h *AvailabilityHandler) Register(router *gin.Engine) {
	router.GET("/availability", h.list)
	router.POST("/availability", h.toggle)
	router.GET("/calendar", h.guestCalendar)
	router.GET("/admin/calendar", h.adminCalendar)
}

func (h *AvailabilityHandler) list(c *gin.Context) {
	dates, err := h.calendars.OpenDates(c.Request.Context(), c.Query("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dates)
}

func (h *AvailabilityHandler) toggle(c *gin.Context) {
	var req toggleAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	if err := h.reservations.ToggleAvailability(c.Request.Context(), req.StoryID, req.Date, req.IsAvailable); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"storyId": req.StoryID, "dateStr": req.Date, "isAvailable": req.IsAvailable})
}

func (h *AvailabilityHandler) guestCalendar(c *gin.Context) {
	view, err := h.calendars.GuestCalendar(c.Request.Context(), c.Query("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AvailabilityHandler) adminCalendar(c *gin.Context) {
	view, err := h.calendars.AdminCalendar(c.Request.Context(), c.Query("storyId"))
	if err != nil {
		respondError(c, err)
		return
	}

	bookings := make([]bookingResponse, 0, len(view.Bookings))
	for i := range view.Bookings {
		bookings = append(bookings, toBookingResponse(&view.Bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"storyId":  view.StoryID,
		"days":     view.Days,
		"bookings": bookings,
	})
}
