package models

import (
	"testing"
)

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"customer role", RoleCustomer, true},
		{"invalid role", "manager", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestClaims_IsAdmin(t *testing.T) {
	if !(&Claims{Role: RoleAdmin}).IsAdmin() {
		t.Error("expected admin claims to report IsAdmin")
	}
	if (&Claims{Role: RoleCustomer}).IsAdmin() {
		t.Error("expected customer claims not to report IsAdmin")
	}
}

func TestStatusEnums(t *testing.T) {
	tests := []struct {
		name     string
		valid    bool
		expected bool
	}{
		{"booking pending", IsValidBookingStatus(BookingPending), true},
		{"booking confirmed", IsValidBookingStatus(BookingConfirmed), true},
		{"booking completed", IsValidBookingStatus(BookingCompleted), true},
		{"booking cancelled", IsValidBookingStatus(BookingCancelled), true},
		{"booking lower-case completed", IsValidBookingStatus("completed"), false},
		{"booking american canceled", IsValidBookingStatus("Canceled"), false},
		{"inquiry quotation sent", IsValidInquiryStatus(InquiryQuotationSent), true},
		{"inquiry contacted", IsValidInquiryStatus(InquiryContacted), true},
		{"inquiry unknown", IsValidInquiryStatus("Archived"), false},
		{"audit login", IsValidAuditAction(ActionLogin), true},
		{"audit other", IsValidAuditAction(ActionOther), true},
		{"audit unknown", IsValidAuditAction("DROP_TABLE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.valid != tt.expected {
				t.Errorf("got %v, want %v", tt.valid, tt.expected)
			}
		})
	}
}
