package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/analytics"
	"github.com/ukydev/ac-service-backend/internal/models"
)

func TestAnalyticsHandler_Reports(t *testing.T) {
	env := newTestEnv(t)
	admin, _ := env.token(t, models.RoleAdmin)

	for _, path := range []string{"revenue", "trends", "services", "dashboard"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/analytics/"+path+"?days=7", admin, nil)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, 7, env.reports.days)
		})
	}

	t.Run("days default and clamp", func(t *testing.T) {
		env.do(http.MethodGet, "/api/analytics/revenue", admin, nil)
		assert.Equal(t, analytics.DefaultDays, env.reports.days)

		env.do(http.MethodGet, "/api/analytics/revenue?days=9999", admin, nil)
		assert.Equal(t, analytics.MaxDays, env.reports.days)
	})

	t.Run("customer is forbidden", func(t *testing.T) {
		customer, _ := env.token(t, models.RoleCustomer)
		w := env.do(http.MethodGet, "/api/analytics/dashboard", customer, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestAnalyticsHandler_Export(t *testing.T) {
	env := newTestEnv(t)
	env.reports.xlsxBytes = []byte("PK\x03\x04workbook")
	admin, _ := env.token(t, models.RoleAdmin)

	w := env.do(http.MethodGet, "/api/analytics/export?days=14", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "-14d.xlsx")
	assert.Equal(t, "PK\x03\x04workbook", w.Body.String())

	entries := env.auditor.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.ActionReportGenerate, entries[0].Action)
}

func TestAnalyticsHandler_ReportFailure(t *testing.T) {
	env := newTestEnv(t)
	env.reports.err = errors.New("snapshot query failed")
	admin, _ := env.token(t, models.RoleAdmin)

	w := env.do(http.MethodGet, "/api/analytics/revenue", admin, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Server error", decodeError(t, w).Message)
	assert.NotContains(t, w.Body.String(), "snapshot query failed")
}
