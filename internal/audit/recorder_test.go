package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/db/dbmock"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const chromeOnWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

func waitFor(t *testing.T, r *Recorder) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, r.Wait(ctx))
}

func TestRecorder_ResolvesEmailAndDevice(t *testing.T) {
	logs := new(dbmock.AuditLogCollection)
	users := new(dbmock.UserCollection)
	logger, _ := test.NewNullLogger()

	users.On("FindUserByID", mock.Anything, "admin-1").Return(&models.User{Email: "admin@coolair.in"}, nil)

	var stored models.AuditLog
	logs.On("InsertAuditLog", mock.Anything, mock.AnythingOfType("models.AuditLog")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(models.AuditLog) }).
		Return(nil)

	r := NewRecorder(logs, users, logger)
	r.Record(Entry{
		AdminID:    "admin-1",
		Action:     models.ActionBookingStatusChange,
		TargetType: "Booking",
		TargetID:   "b-1",
		Details:    map[string]string{"status": "Confirmed"},
		IPAddress:  "10.0.0.1",
		UserAgent:  chromeOnWindows,
	})
	waitFor(t, r)

	logs.AssertExpectations(t)
	assert.Equal(t, "admin@coolair.in", stored.AdminEmail)
	assert.Equal(t, models.ActionBookingStatusChange, stored.Action)
	assert.Equal(t, "desktop", stored.Device.DeviceType)
	assert.Contains(t, stored.Device.Browser, "Chrome")
	assert.False(t, stored.Timestamp.IsZero())
}

func TestRecorder_KeepsSuppliedEmail(t *testing.T) {
	logs := new(dbmock.AuditLogCollection)
	users := new(dbmock.UserCollection)

	logs.On("InsertAuditLog", mock.Anything, mock.MatchedBy(func(entry models.AuditLog) bool {
		return entry.AdminEmail == "ops@coolair.in"
	})).Return(nil)

	r := NewRecorder(logs, users, nil)
	r.Record(Entry{AdminID: "admin-1", AdminEmail: "ops@coolair.in", Action: models.ActionLogin})
	waitFor(t, r)

	logs.AssertExpectations(t)
	users.AssertNotCalled(t, "FindUserByID", mock.Anything, mock.Anything)
}

func TestRecorder_FailuresAreSwallowed(t *testing.T) {
	logs := new(dbmock.AuditLogCollection)
	users := new(dbmock.UserCollection)
	logger, hook := test.NewNullLogger()

	users.On("FindUserByID", mock.Anything, "admin-1").Return(nil, db.ErrNotFound)
	logs.On("InsertAuditLog", mock.Anything, mock.Anything).Return(errors.New("write concern timeout"))

	r := NewRecorder(logs, users, logger)
	assert.NotPanics(t, func() {
		r.Record(Entry{AdminID: "admin-1", Action: models.ActionOther})
	})
	waitFor(t, r)

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, "Failed to write audit log", hook.LastEntry().Message)
}

func TestRecorder_Wait_Timeout(t *testing.T) {
	logs := new(dbmock.AuditLogCollection)
	release := make(chan struct{})
	logs.On("InsertAuditLog", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(nil)

	r := NewRecorder(logs, nil, nil)
	r.Record(Entry{AdminID: "admin-1", AdminEmail: "a@b.in", Action: models.ActionLogout})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, r.Wait(ctx), context.DeadlineExceeded)

	close(release)
	waitFor(t, r)
}

func TestParseUserAgent(t *testing.T) {
	tests := []struct {
		name       string
		userAgent  string
		deviceType string
		isBot      bool
	}{
		{"empty", "", "unknown", false},
		{"desktop chrome", chromeOnWindows, "desktop", false},
		{"android phone", "Mozilla/5.0 (Linux; Android 13; Pixel 7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36", "mobile", false},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 16_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.0 Mobile/15E148 Safari/604.1", "tablet", false},
		{"crawler", "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)", "bot", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseUserAgent(tt.userAgent)
			assert.Equal(t, tt.deviceType, info.DeviceType)
			assert.Equal(t, tt.isBot, info.IsBot)
		})
	}
}
