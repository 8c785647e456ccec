package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InquiryStatus is the lifecycle state of a corporate inquiry
type InquiryStatus string

const (
	InquiryPending       InquiryStatus = "Pending"
	InquiryQuotationSent InquiryStatus = "Quotation Sent"
	InquiryContacted     InquiryStatus = "Contacted"
	InquiryClosed        InquiryStatus = "Closed"
)

// Requirement is one line of a corporate lead, e.g. 40 units of AMC
type Requirement struct {
	Type  string `bson:"type" json:"type" validate:"required"`
	Units int    `bson:"units" json:"units" validate:"min=1,max=1000"`
}

// Quotation is only ever written by the send-quotation operation
type Quotation struct {
	Amount   float64   `bson:"amount" json:"amount"`
	Notes    string    `bson:"notes,omitempty" json:"notes,omitempty"`
	FilePath string    `bson:"file_path" json:"filePath"`
	SentAt   time.Time `bson:"sent_at" json:"sentAt"`
}

// CorporateInquiry is a bulk service lead from a business
type CorporateInquiry struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CompanyName   string              `bson:"company_name" json:"companyName"`
	ContactPerson string              `bson:"contact_person" json:"contactPerson"`
	Phone         string              `bson:"phone" json:"phone"`
	Email         string              `bson:"email,omitempty" json:"email,omitempty"`
	Requirements  []Requirement       `bson:"requirements" json:"requirements"`
	Notes         string              `bson:"notes,omitempty" json:"notes,omitempty"`
	UserID        *primitive.ObjectID `bson:"user_id,omitempty" json:"user,omitempty"`
	Quotation     *Quotation          `bson:"quotation,omitempty" json:"quotation,omitempty"`
	Status        InquiryStatus       `bson:"status" json:"status"`
	AdminNotes    string              `bson:"admin_notes" json:"adminNotes"`
	CreatedAt     time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updatedAt"`
}

// CreateInquiryRequest is the corporate-lead form payload
type CreateInquiryRequest struct {
	CompanyName   string        `json:"companyName" validate:"required,min=2,max=100"`
	ContactPerson string        `json:"contactPerson" validate:"required,min=2,max=30,alphaspace"`
	Phone         string        `json:"phone" validate:"required,phone10"`
	Email         string        `json:"email" validate:"omitempty,email,max=25"`
	Requirements  []Requirement `json:"requirements" validate:"required,min=1,dive"`
	Notes         string        `json:"notes" validate:"max=500"`
}

// UpdateInquiryStatusRequest is a partial update; empty fields are left untouched
type UpdateInquiryStatusRequest struct {
	Status     InquiryStatus `json:"status"`
	AdminNotes *string       `json:"adminNotes" validate:"omitempty,max=1000"`
}

// InquiryUpdate carries the fields an admin status update may change
type InquiryUpdate struct {
	Status     InquiryStatus
	AdminNotes *string
}

// IsValidInquiryStatus checks membership in the inquiry status enum
func IsValidInquiryStatus(status InquiryStatus) bool {
	switch status {
	case InquiryPending, InquiryQuotationSent, InquiryContacted, InquiryClosed:
		return true
	default:
		return false
	}
}
