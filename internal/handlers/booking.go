package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/events"
	"github.com/ukydev/ac-service-backend/internal/metrics"
	"github.com/ukydev/ac-service-backend/internal/models"
	"github.com/ukydev/ac-service-backend/internal/validation"
)

// BookingHandler serves the booking lifecycle endpoints
type BookingHandler struct {
	bookings  db.BookingCollection
	publisher events.Publisher
	auditor   AuditRecorder
	logger    log.FieldLogger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookings db.BookingCollection, publisher events.Publisher, auditor AuditRecorder, logger log.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookings:  bookings,
		publisher: publisher,
		auditor:   auditor,
		logger:    logger,
	}
}

// CreateBooking stores a booking as Pending. A caller with a valid token
// becomes the owner; everyone else books as a guest.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid date")
		return
	}

	owner := callerObjectID(c)
	booking, err := h.bookings.InsertBooking(c.Request.Context(), models.Booking{
		Service: req.Service,
		Date:    date,
		Time:    req.Time,
		Name:    req.Name,
		Phone:   req.Phone,
		Area:    req.Area,
		Status:  models.BookingPending,
		UserID:  owner,
	})
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to create booking")
		return
	}

	metrics.IncBookingCreated(owner == nil)
	h.publisher.Publish(events.NewBooking, booking)

	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns every booking, newest first
func (h *BookingHandler) ListBookings(c *gin.Context) {
	bookings, err := h.bookings.FindBookings(c.Request.Context())
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to list bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// ListMyBookings returns the caller's bookings, newest first
func (h *BookingHandler) ListMyBookings(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	bookings, err := h.bookings.FindBookingsByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrInvalidID) {
			c.JSON(http.StatusOK, []models.Booking{})
			return
		}
		respondServerError(c, h.logger, err, "Failed to list user bookings")
		return
	}
	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus moves a booking to any status of the enum, backwards
// included. A cost recorded here feeds the revenue rollup.
func (h *BookingHandler) UpdateBookingStatus(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req models.UpdateBookingStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if !models.IsValidBookingStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status value")
		return
	}

	id := c.Param("id")
	booking, err := h.bookings.UpdateBookingStatus(c.Request.Context(), id, req.Status, req.Cost)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to update booking status")
		return
	}

	metrics.IncBookingStatusUpdate(string(booking.Status))
	h.publisher.Publish(events.BookingStatusUpdated, booking)

	action := models.ActionBookingStatusChange
	if req.Status == models.BookingCancelled {
		action = models.ActionBookingCancel
	}
	details := gin.H{"status": req.Status}
	if req.Cost != nil {
		details["cost"] = *req.Cost
	}
	h.auditor.Record(auditEntry(c, claims, action, "Booking", id, details))

	c.JSON(http.StatusOK, booking)
}
