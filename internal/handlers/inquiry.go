package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/events"
	"github.com/ukydev/ac-service-backend/internal/metrics"
	"github.com/ukydev/ac-service-backend/internal/models"
	"github.com/ukydev/ac-service-backend/internal/storage"
)

// QuotationFileField is the multipart field carrying the quotation PDF
const QuotationFileField = "quotation"

// PDFStore persists uploaded quotation files
type PDFStore interface {
	SavePDF(r io.Reader) (string, error)
	Remove(ref string) error
}

// InquiryHandler serves corporate inquiry endpoints
type InquiryHandler struct {
	inquiries db.InquiryCollection
	files     PDFStore
	publisher events.Publisher
	auditor   AuditRecorder
	logger    log.FieldLogger
}

// NewInquiryHandler creates a new corporate inquiry handler
func NewInquiryHandler(inquiries db.InquiryCollection, files PDFStore, publisher events.Publisher, auditor AuditRecorder, logger log.FieldLogger) *InquiryHandler {
	return &InquiryHandler{
		inquiries: inquiries,
		files:     files,
		publisher: publisher,
		auditor:   auditor,
		logger:    logger,
	}
}

// CreateInquiry stores a corporate lead, owned when the caller is known
func (h *InquiryHandler) CreateInquiry(c *gin.Context) {
	var req models.CreateInquiryRequest
	if !bindJSON(c, &req) {
		return
	}

	inquiry, err := h.inquiries.InsertInquiry(c.Request.Context(), models.CorporateInquiry{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Email:         strings.ToLower(req.Email),
		Requirements:  req.Requirements,
		Notes:         req.Notes,
		UserID:        callerObjectID(c),
		Status:        models.InquiryPending,
	})
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to create corporate inquiry")
		return
	}

	metrics.IncInquiryCreated()
	h.publisher.Publish(events.NewCorporateInquiry, inquiry)

	c.JSON(http.StatusCreated, inquiry)
}

// ListInquiries returns every inquiry, newest first
func (h *InquiryHandler) ListInquiries(c *gin.Context) {
	inquiries, err := h.inquiries.FindInquiries(c.Request.Context())
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to list inquiries")
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

// ListMyInquiries returns the caller's inquiries, newest first
func (h *InquiryHandler) ListMyInquiries(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	inquiries, err := h.inquiries.FindInquiriesByUser(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, db.ErrInvalidID) {
			c.JSON(http.StatusOK, []models.CorporateInquiry{})
			return
		}
		respondServerError(c, h.logger, err, "Failed to list user inquiries")
		return
	}
	c.JSON(http.StatusOK, inquiries)
}

// UpdateInquiryStatus partially updates status and admin notes
func (h *InquiryHandler) UpdateInquiryStatus(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	var req models.UpdateInquiryStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Status == "" && req.AdminNotes == nil {
		respondError(c, http.StatusBadRequest, "Nothing to update")
		return
	}
	if req.Status != "" && !models.IsValidInquiryStatus(req.Status) {
		respondError(c, http.StatusBadRequest, "Invalid status value")
		return
	}

	id := c.Param("id")
	inquiry, err := h.inquiries.UpdateInquiry(c.Request.Context(), id, models.InquiryUpdate{
		Status:     req.Status,
		AdminNotes: req.AdminNotes,
	})
	if err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to update inquiry")
		return
	}

	h.publisher.Publish(events.InquiryStatusUpdated, inquiry)
	h.auditor.Record(auditEntry(c, claims, models.ActionOther, "CorporateInquiry", id, gin.H{
		"operation": "inquiry_status_update",
		"status":    inquiry.Status,
	}))

	c.JSON(http.StatusOK, inquiry)
}

// SendQuotation attaches a PDF quotation and marks the inquiry Quotation
// Sent. The file write and the document update are separate steps; a
// failed update removes the file again.
func (h *InquiryHandler) SendQuotation(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(QuotationFileField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Quotation PDF file is required")
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("amount")), 64)
	if err != nil || amount < 0 {
		respondError(c, http.StatusBadRequest, "Amount must be a non-negative number")
		return
	}
	notes := strings.TrimSpace(c.PostForm("notes"))
	if len(notes) > 1000 {
		respondError(c, http.StatusBadRequest, "Notes must be at most 1000 characters")
		return
	}

	id := c.Param("id")
	if _, err := h.inquiries.FindInquiryByID(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to load inquiry")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondServerError(c, h.logger, err, "Failed to open uploaded quotation")
		return
	}
	defer file.Close()

	ref, err := h.files.SavePDF(file)
	if err != nil {
		if errors.Is(err, storage.ErrNotPDF) {
			respondError(c, http.StatusBadRequest, "Quotation must be a PDF file")
			return
		}
		respondServerError(c, h.logger, err, "Failed to store quotation")
		return
	}

	inquiry, err := h.inquiries.SetQuotation(c.Request.Context(), id, models.Quotation{
		Amount:   amount,
		Notes:    notes,
		FilePath: ref,
		SentAt:   time.Now().UTC(),
	})
	if err != nil {
		if rmErr := h.files.Remove(ref); rmErr != nil {
			h.logger.WithError(rmErr).WithField("file", ref).Warn("Failed to remove orphaned quotation file")
		}
		if errors.Is(err, db.ErrNotFound) {
			respondError(c, http.StatusNotFound, "Inquiry not found")
			return
		}
		respondServerError(c, h.logger, err, "Failed to save quotation")
		return
	}

	metrics.IncQuotationSent()
	h.publisher.Publish(events.InquiryStatusUpdated, inquiry)
	h.auditor.Record(auditEntry(c, claims, models.ActionOther, "CorporateInquiry", id, gin.H{
		"operation": "quotation_sent",
		"amount":    amount,
		"file":      ref,
	}))

	c.JSON(http.StatusOK, inquiry)
}
