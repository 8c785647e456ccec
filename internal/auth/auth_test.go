package auth

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	service, err := NewService("test-secret", 5*24*time.Hour, bcrypt.MinCost)
	require.NoError(t, err)
	return service
}

func TestNewService(t *testing.T) {
	service, err := NewService("secret", 0, 0)
	assert.NoError(t, err)
	assert.NotNil(t, service)
	assert.Equal(t, 5*24*time.Hour, service.tokenExp)
	assert.Equal(t, bcrypt.DefaultCost, service.bcryptCost)

	_, err = NewService("", time.Hour, bcrypt.MinCost)
	assert.Error(t, err)
}

func TestService_HashPassword(t *testing.T) {
	service := newTestService(t)

	password := "abcd1234"
	hash, err := service.HashPassword(password)

	assert.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)
}

func TestService_CheckPassword(t *testing.T) {
	service := newTestService(t)

	password := "abcd1234"
	hash, _ := service.HashPassword(password)

	assert.True(t, service.CheckPassword(password, hash))
	assert.False(t, service.CheckPassword("wrong123", hash))
}

func TestService_ValidateToken(t *testing.T) {
	service := newTestService(t)

	user := &models.User{
		ID:   primitive.NewObjectID(),
		Role: models.RoleAdmin,
	}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	// Test valid token
	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Role, claims.Role)

	// Test invalid token
	_, err = service.ValidateToken("invalid-token")
	assert.Equal(t, ErrInvalidToken, err)

	// Test token with Bearer prefix
	_, err = service.ValidateToken("Bearer " + token)
	assert.NoError(t, err)

	// Test empty token
	_, err = service.ValidateToken("")
	assert.Equal(t, ErrMissingToken, err)
}

func TestService_TokenPayloadShape(t *testing.T) {
	service := newTestService(t)
	user := &models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer}

	token, err := service.GenerateToken(user)
	require.NoError(t, err)

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	require.NoError(t, err)
	payload := parsed.Claims.(jwt.MapClaims)

	nested, ok := payload["user"].(map[string]interface{})
	require.True(t, ok, "payload carries a nested user object")
	assert.Equal(t, user.ID.Hex(), nested["id"])
	assert.Equal(t, "customer", nested["role"])
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	service := newTestService(t)
	other, err := NewService("another-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)

	token, err := other.GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service, err := NewService("test-secret", time.Millisecond, bcrypt.MinCost)
	require.NoError(t, err)

	token, err := service.GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer})
	require.NoError(t, err)

	time.Sleep(1100 * time.Millisecond)
	_, err = service.ValidateToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestService_ValidateToken_RejectsUnknownRole(t *testing.T) {
	service := newTestService(t)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]string{"id": primitive.NewObjectID().Hex(), "role": "superuser"},
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.ValidateToken(signed)
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ExtractTokenFromHeader(t *testing.T) {
	service := newTestService(t)

	extracted, err := service.ExtractTokenFromHeader("Bearer valid-token")
	assert.NoError(t, err)
	assert.Equal(t, "valid-token", extracted)

	_, err = service.ExtractTokenFromHeader("")
	assert.Equal(t, ErrMissingToken, err)

	_, err = service.ExtractTokenFromHeader("InvalidFormat")
	assert.Equal(t, ErrInvalidToken, err)

	_, err = service.ExtractTokenFromHeader("Bearer ")
	assert.Equal(t, ErrInvalidToken, err)
}

func TestService_ExtractToken_LegacyHeader(t *testing.T) {
	service := newTestService(t)

	header := http.Header{}
	header.Set(LegacyTokenHeader, "legacy-token")
	token, err := service.ExtractToken(header)
	assert.NoError(t, err)
	assert.Equal(t, "legacy-token", token)

	header.Set("Authorization", "Bearer bearer-token")
	token, err = service.ExtractToken(header)
	assert.NoError(t, err)
	assert.Equal(t, "bearer-token", token, "Authorization wins over the legacy header")

	_, err = service.ExtractToken(http.Header{})
	assert.Equal(t, ErrMissingToken, err)
}

func TestService_ValidatePassword(t *testing.T) {
	service := newTestService(t)

	for _, password := range []string{"abcd1234", "        ", "ÄÖÜ12"} {
		if len(password) == PasswordLength {
			assert.NoError(t, service.ValidatePassword(password), password)
		} else {
			assert.ErrorIs(t, service.ValidatePassword(password), ErrPasswordLength, password)
		}
	}

	for _, password := range []string{"", "short", "abcd123", "abcd12345", strings.Repeat("x", 64)} {
		err := service.ValidatePassword(password)
		assert.ErrorIs(t, err, ErrPasswordLength, password)
		assert.Contains(t, err.Error(), "exactly 8 characters")
	}
}

func TestService_TokenExpiration(t *testing.T) {
	service := newTestService(t)

	token, _ := service.GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})

	claims, err := service.ValidateToken(token)
	assert.NoError(t, err)

	now := time.Now().Unix()
	assert.Greater(t, claims.Exp, now)
	assert.LessOrEqual(t, claims.Exp, now+int64(service.tokenExp.Seconds())+1)
}
