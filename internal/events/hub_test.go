package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/auth"
	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func newHubServer(t *testing.T) (*Hub, *auth.Service, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authService, err := auth.NewService("test-secret", time.Hour, bcrypt.MinCost)
	require.NoError(t, err)

	logger, _ := test.NewNullLogger()
	hub := NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	router := gin.New()
	router.GET("/api/events/ws", hub.ServeWs(authService))
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return hub, authService, server
}

func wsURL(server *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/api/events/ws?token=" + token
}

func TestHub_RejectsNonAdmins(t *testing.T) {
	_, authService, server := newHubServer(t)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(server, ""), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token, err := authService.GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleCustomer})
	require.NoError(t, err)
	_, resp, err = websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_BroadcastsToAdmin(t *testing.T) {
	hub, authService, server := newHubServer(t)

	token, err := authService.GenerateToken(&models.User{ID: primitive.NewObjectID(), Role: models.RoleAdmin})
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(server, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.Deliver(context.Background(), Event{
		Type:      BookingStatusUpdated,
		Payload:   map[string]string{"status": "Confirmed"},
		Timestamp: time.Now(),
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal(message, &got))
	assert.Equal(t, BookingStatusUpdated, got.Type)
}

func TestHub_DeliverWithoutListeners(t *testing.T) {
	hub, _, _ := newHubServer(t)
	assert.NoError(t, hub.Deliver(context.Background(), Event{Type: NewReview}))
	assert.Equal(t, 0, hub.ClientCount())
}
