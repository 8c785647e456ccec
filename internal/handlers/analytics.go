package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/analytics"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalyticsReports builds the dashboard read models from snapshots
type AnalyticsReports interface {
	Revenue(ctx context.Context, days int) (*analytics.RevenueReport, error)
	Trends(ctx context.Context, days int) (*analytics.TrendsReport, error)
	Services(ctx context.Context, days int) (*analytics.ServicesReport, error)
	Dashboard(ctx context.Context, days int) (*analytics.Dashboard, error)
	WriteXLSX(ctx context.Context, w io.Writer, days int) error
}

// AnalyticsHandler serves the admin analytics endpoints. It never writes snapshots.
type AnalyticsHandler struct {
	reports AnalyticsReports
	auditor AuditRecorder
	logger  log.FieldLogger
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(reports AnalyticsReports, auditor AuditRecorder, logger log.FieldLogger) *AnalyticsHandler {
	return &AnalyticsHandler{reports: reports, auditor: auditor, logger: logger}
}

func (h *AnalyticsHandler) days(c *gin.Context) int {
	return analytics.NormalizeDays(queryInt(c, "days", analytics.DefaultDays))
}

// Revenue returns the daily revenue series
func (h *AnalyticsHandler) Revenue(c *gin.Context) {
	report, err := h.reports.Revenue(c.Request.Context(), h.days(c))
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to build revenue report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Trends returns booking volume over time
func (h *AnalyticsHandler) Trends(c *gin.Context) {
	report, err := h.reports.Trends(c.Request.Context(), h.days(c))
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to build trends report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Services returns the service ranking
func (h *AnalyticsHandler) Services(c *gin.Context) {
	report, err := h.reports.Services(c.Request.Context(), h.days(c))
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to build services report")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Dashboard returns the headline summary
func (h *AnalyticsHandler) Dashboard(c *gin.Context) {
	report, err := h.reports.Dashboard(c.Request.Context(), h.days(c))
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, report)
}

// Export downloads the snapshots as an xlsx workbook
func (h *AnalyticsHandler) Export(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	days := h.days(c)
	var buf bytes.Buffer
	if err := h.reports.WriteXLSX(c.Request.Context(), &buf, days); err != nil {
		respondServerError(c, h.logger, err, "Failed to export analytics")
		return
	}

	h.auditor.Record(auditEntry(c, claims, models.ActionReportGenerate, "Analytics", "", gin.H{"days": days, "format": "xlsx"}))

	filename := fmt.Sprintf("analytics-%s-%dd.xlsx", time.Now().Format("20060102"), days)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
