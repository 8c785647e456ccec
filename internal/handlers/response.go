package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/audit"
	"github.com/ukydev/ac-service-backend/internal/middleware"
	"github.com/ukydev/ac-service-backend/internal/models"
	"github.com/ukydev/ac-service-backend/internal/validation"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// AuditRecorder appends admin audit entries without blocking the request
type AuditRecorder interface {
	Record(entry audit.Entry)
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors,omitempty"`
}

// MessageResponse acknowledges an action without returning a resource
type MessageResponse struct {
	Message string `json:"message"`
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message})
}

// respondServerError logs the cause and hides it from the caller
func respondServerError(c *gin.Context, logger log.FieldLogger, err error, context string) {
	logger.WithError(err).WithFields(log.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"path":       c.FullPath(),
	}).Error(context)
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "Server error")
}

// bindJSON decodes, trims and validates the body into dst. On failure it
// writes the 400 response and returns false.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	validation.TrimStrings(dst)

	if err := validation.Struct(dst); err != nil {
		var fieldErrs validation.Errors
		if errors.As(err, &fieldErrs) {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Message: "Validation failed",
				Errors:  fieldErrs,
			})
			return false
		}
		respondError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// callerObjectID returns the resolved caller as an owner reference, or nil for guests
func callerObjectID(c *gin.Context) *primitive.ObjectID {
	claims, ok := middleware.IdentityFromContext(c)
	if !ok {
		return nil
	}
	oid, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil
	}
	return &oid
}

// mustClaims is used behind RequireAuth, where the identity is guaranteed
func mustClaims(c *gin.Context) (*models.Claims, bool) {
	claims, ok := middleware.IdentityFromContext(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "No token, authorization denied")
	}
	return claims, ok
}

// auditEntry captures actor and request context for an admin action
func auditEntry(c *gin.Context, claims *models.Claims, action models.AuditAction, targetType, targetID string, details interface{}) audit.Entry {
	entry := audit.Entry{
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		IPAddress:  c.ClientIP(),
		UserAgent:  c.Request.UserAgent(),
	}
	if claims != nil {
		entry.AdminID = claims.UserID
	}
	return entry
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return value
}

func parsePagination(c *gin.Context) (int, int) {
	page := queryInt(c, "page", defaultPage)
	limit := queryInt(c, "limit", defaultLimit)
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit
}
