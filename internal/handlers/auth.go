package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const (
	msgUserExists         = "User already exists."
	msgInvalidCredentials = "Invalid Credentials"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService    *auth.Service
	userCollection db.UserCollection
	auditor        AuditRecorder
	logger         log.FieldLogger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(authService *auth.Service, userCollection db.UserCollection, auditor AuditRecorder, logger log.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		userCollection: userCollection,
		auditor:        auditor,
		logger:         logger,
	}
}

// Register creates a customer account and returns a session token
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	req.Email = strings.ToLower(req.Email)

	if err := h.authService.ValidatePassword(req.Password); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	_, err := h.userCollection.FindUserByEmailOrPhone(c.Request.Context(), req.Email, req.PhoneNumber)
	if err == nil {
		respondError(c, http.StatusBadRequest, msgUserExists)
		return
	}
	if !errors.Is(err, db.ErrNotFound) {
		respondServerError(c, h.logger, err, "Failed to look up existing user")
		return
	}

	passwordHash, err := h.authService.HashPassword(req.Password)
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to hash password")
		return
	}

	user, err := h.userCollection.InsertUser(c.Request.Context(), models.User{
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		PasswordHash: passwordHash,
		Role:         models.RoleCustomer,
	})
	if err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, db.ErrDuplicate) {
			respondError(c, http.StatusBadRequest, msgUserExists)
			return
		}
		respondServerError(c, h.logger, err, "Failed to create user")
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to generate token")
		return
	}

	h.logger.WithField("user_id", user.ID.Hex()).Info("User registered")
	c.JSON(http.StatusCreated, models.TokenResponse{Token: token})
}

// Login accepts an email or phone number. Unknown accounts and wrong
// passwords get the same response.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userCollection.FindUserByEmailOrPhone(c.Request.Context(), strings.ToLower(req.Identifier), req.Identifier)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusBadRequest, msgInvalidCredentials)
			return
		}
		respondServerError(c, h.logger, err, "Failed to look up user")
		return
	}

	if !h.authService.CheckPassword(req.Password, user.PasswordHash) {
		respondError(c, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	token, err := h.authService.GenerateToken(user)
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to generate token")
		return
	}

	if user.Role == models.RoleAdmin {
		claims := &models.Claims{UserID: user.ID.Hex(), Role: user.Role}
		entry := auditEntry(c, claims, models.ActionLogin, "User", user.ID.Hex(), nil)
		entry.AdminEmail = user.Email
		h.auditor.Record(entry)
	}

	c.JSON(http.StatusOK, models.TokenResponse{Token: token})
}

// Logout only acknowledges; tokens are not tracked server-side and the
// client discards its copy.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	if claims.IsAdmin() {
		h.auditor.Record(auditEntry(c, claims, models.ActionLogout, "User", claims.UserID, nil))
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Logged out"})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	user, err := h.userCollection.FindUserByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondError(c, http.StatusNotFound, "User not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, user)
}
