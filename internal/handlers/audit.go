package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
	"github.com/ukydev/ac-service-backend/internal/validation"
)

// Pagination is the page metadata of a listing
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// AuditLogPage is one page of the audit listing
type AuditLogPage struct {
	Logs       []models.AuditLog `json:"logs"`
	Pagination Pagination        `json:"pagination"`
}

// AuditHandler serves the admin audit trail
type AuditHandler struct {
	logs    db.AuditLogCollection
	auditor AuditRecorder
	logger  log.FieldLogger
}

// NewAuditHandler creates a new audit log handler
func NewAuditHandler(logs db.AuditLogCollection, auditor AuditRecorder, logger log.FieldLogger) *AuditHandler {
	return &AuditHandler{logs: logs, auditor: auditor, logger: logger}
}

// ListAuditLogs filters by action and date range, newest first
func (h *AuditHandler) ListAuditLogs(c *gin.Context) {
	query := models.AuditQuery{}
	query.Page, query.Limit = parsePagination(c)

	if action := models.AuditAction(c.Query("action")); action != "" {
		if !models.IsValidAuditAction(action) {
			respondError(c, http.StatusBadRequest, "Invalid action filter")
			return
		}
		query.Action = action
	}

	if raw := c.Query("startDate"); raw != "" {
		start, err := validation.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid startDate")
			return
		}
		query.StartDate = &start
	}
	if raw := c.Query("endDate"); raw != "" {
		end, err := validation.ParseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Invalid endDate")
			return
		}
		// a bare date includes the whole day
		if len(raw) == len("2006-01-02") {
			end = end.Add(24*time.Hour - time.Millisecond)
		}
		query.EndDate = &end
	}

	logs, total, err := h.logs.FindAuditLogs(c.Request.Context(), query)
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to list audit logs")
		return
	}

	pages := (total + int64(query.Limit) - 1) / int64(query.Limit)
	c.JSON(http.StatusOK, AuditLogPage{
		Logs: logs,
		Pagination: Pagination{
			Page:  query.Page,
			Limit: query.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

// CreateAuditLog records an action reported by the admin console
func (h *AuditHandler) CreateAuditLog(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req models.CreateAuditLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if !models.IsValidAuditAction(req.Action) {
		respondError(c, http.StatusBadRequest, "Invalid action")
		return
	}

	h.auditor.Record(auditEntry(c, claims, req.Action, req.TargetType, req.TargetID, req.Details))
	c.JSON(http.StatusCreated, MessageResponse{Message: "Audit log recorded"})
}
