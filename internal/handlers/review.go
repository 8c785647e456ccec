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
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecentReviewsLimit caps the public testimonials feed
const RecentReviewsLimit = 10

// ReviewHandler serves review endpoints
type ReviewHandler struct {
	reviews   db.ReviewCollection
	bookings  db.BookingCollection
	users     db.UserCollection
	publisher events.Publisher
	logger    log.FieldLogger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews db.ReviewCollection, bookings db.BookingCollection, users db.UserCollection, publisher events.Publisher, logger log.FieldLogger) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		bookings:  bookings,
		users:     users,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitReview records one review per booking
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req models.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	booking, err := h.bookings.FindBookingByID(c.Request.Context(), req.BookingID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondError(c, http.StatusNotFound, "Booking not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to load booking")
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Token is not valid")
		return
	}

	review, err := h.reviews.InsertReview(c.Request.Context(), models.Review{
		BookingID:    booking.ID,
		Rating:       req.Rating,
		Comment:      req.Comment,
		CustomerName: h.reviewerName(c, claims.UserID, booking),
		UserID:       userID,
	})
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			respondError(c, http.StatusBadRequest, "Review already submitted for this booking")
			return
		}
		respondServerError(c, h.logger, err, "Failed to save review")
		return
	}

	metrics.IncReviewCreated()
	h.publisher.Publish(events.NewReview, review)

	c.JSON(http.StatusCreated, review)
}

// ListRecentReviews is the public testimonials feed
func (h *ReviewHandler) ListRecentReviews(c *gin.Context) {
	reviews, err := h.reviews.FindRecentReviews(c.Request.Context(), RecentReviewsLimit)
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to list reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// reviewerName prefers the profile name, then the name on the booking
func (h *ReviewHandler) reviewerName(c *gin.Context, userID string, booking *models.Booking) string {
	user, err := h.users.FindUserByID(c.Request.Context(), userID)
	if err == nil && user.Name != "" {
		return user.Name
	}
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		h.logger.WithError(err).WithField("user_id", userID).Warn("Could not load reviewer profile")
	}
	if booking.Name != "" {
		return booking.Name
	}
	return models.DefaultReviewerName
}
