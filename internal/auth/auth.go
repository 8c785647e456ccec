package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ukydev/ac-service-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// PasswordLength is the exact password length accepted at registration.
const PasswordLength = 8

// LegacyTokenHeader is still sent by older admin screens.
const LegacyTokenHeader = "x-auth-token"

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token expired")
	ErrMissingToken   = errors.New("missing token")
	ErrPasswordLength = fmt.Errorf("password must be exactly %d characters long", PasswordLength)
)

// tokenUser is the identity nested under "user" in the token payload
type tokenUser struct {
	ID   string      `json:"id"`
	Role models.Role `json:"role"`
}

type tokenClaims struct {
	User tokenUser `json:"user"`
	jwt.RegisteredClaims
}

// Service handles authentication operations
type Service struct {
	jwtSecret  []byte
	tokenExp   time.Duration
	bcryptCost int
}

// NewService creates a new authentication service
func NewService(secret string, tokenExp time.Duration, bcryptCost int) (*Service, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if tokenExp <= 0 {
		tokenExp = 5 * 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{
		jwtSecret:  []byte(secret),
		tokenExp:   tokenExp,
		bcryptCost: bcryptCost,
	}, nil
}

// HashPassword hashes a password using bcrypt
func (s *Service) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(bytes), nil
}

// CheckPassword checks if a password matches a hash
func (s *Service) CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken signs a session token carrying the user's id and role
func (s *Service) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		User: tokenUser{ID: user.ID.Hex(), Role: user.Role},
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenExp)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken verifies signature and expiry and returns the identity
func (s *Service) ValidateToken(tokenString string) (*models.Claims, error) {
	// Remove "Bearer " prefix if present
	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	if tokenString == "" {
		return nil, ErrMissingToken
	}

	var claims tokenClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.User.ID == "" || !models.IsValidRole(claims.User.Role) {
		return nil, ErrInvalidToken
	}

	return &models.Claims{
		UserID: claims.User.ID,
		Role:   claims.User.Role,
		Exp:    claims.ExpiresAt.Unix(),
	}, nil
}

// ExtractToken reads the bearer token from the Authorization header, falling
// back to the legacy x-auth-token header.
func (s *Service) ExtractToken(header http.Header) (string, error) {
	if authHeader := header.Get("Authorization"); authHeader != "" {
		return s.ExtractTokenFromHeader(authHeader)
	}
	if legacy := strings.TrimSpace(header.Get(LegacyTokenHeader)); legacy != "" {
		return legacy, nil
	}
	return "", ErrMissingToken
}

// ExtractTokenFromHeader extracts token from Authorization header
func (s *Service) ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// ValidatePassword enforces the registration password policy
func (s *Service) ValidatePassword(password string) error {
	if len(password) != PasswordLength {
		return ErrPasswordLength
	}
	return nil
}
