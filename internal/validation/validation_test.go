package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/models"
)

func validBooking() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		Service: "Lite Refresh Service",
		Date:    "2024-05-01",
		Time:    "9:00 AM - 11:00 AM",
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Area:    "Alkapuri, Vadodara",
	}
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field] = fe.Message
	}
	return out
}

func TestStruct_ValidBooking(t *testing.T) {
	req := validBooking()
	assert.NoError(t, Struct(req))
}

func TestStruct_BookingFieldErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CreateBookingRequest)
		field  string
	}{
		{"missing service", func(r *models.CreateBookingRequest) { r.Service = "" }, "service"},
		{"non ISO date", func(r *models.CreateBookingRequest) { r.Date = "01/05/2024" }, "date"},
		{"name with digits", func(r *models.CreateBookingRequest) { r.Name = "Asha 2" }, "name"},
		{"name too short", func(r *models.CreateBookingRequest) { r.Name = "A" }, "name"},
		{"phone nine digits", func(r *models.CreateBookingRequest) { r.Phone = "987654321" }, "phone"},
		{"phone with letters", func(r *models.CreateBookingRequest) { r.Phone = "98765abcde" }, "phone"},
		{"area too short", func(r *models.CreateBookingRequest) { r.Area = "Alk" }, "area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validBooking()
			tt.mutate(&req)
			got := fields(t, Struct(req))
			assert.Contains(t, got, tt.field)
			assert.Len(t, got, 1)
		})
	}
}

func TestStruct_InquiryRequirements(t *testing.T) {
	req := models.CreateInquiryRequest{
		CompanyName:   "Acme Corp",
		ContactPerson: "Ravi Shah",
		Phone:         "9876543210",
		Requirements:  []models.Requirement{},
	}
	got := fields(t, Struct(req))
	assert.Contains(t, got, "requirements")

	req.Requirements = []models.Requirement{{Type: "AMC", Units: 0}}
	got = fields(t, Struct(req))
	assert.Equal(t, "must be at least 1", got["requirements[0].units"])

	req.Requirements = []models.Requirement{{Type: "AMC", Units: 40}}
	assert.NoError(t, Struct(req))

	req.Email = "averyveryverylong@example.com"
	got = fields(t, Struct(req))
	assert.Contains(t, got, "email")
}

func TestStruct_ReviewBookingID(t *testing.T) {
	req := models.CreateReviewRequest{BookingID: "not-an-id", Rating: 6, Comment: "short"}
	got := fields(t, Struct(req))
	assert.Contains(t, got, "bookingId")
	assert.Contains(t, got, "rating")
	assert.Contains(t, got, "comment")
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-05-01")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	_, err = ParseDate("2024-05-01T10:00:00Z")
	assert.NoError(t, err)

	_, err = ParseDate("tomorrow")
	assert.Error(t, err)
}

func TestTrimStrings(t *testing.T) {
	req := models.CreateInquiryRequest{
		CompanyName:  "  Acme Corp ",
		Requirements: []models.Requirement{{Type: " AMC "}},
	}
	TrimStrings(&req)
	assert.Equal(t, "Acme Corp", req.CompanyName)
	assert.Equal(t, "AMC", req.Requirements[0].Type)

	// non-pointers are ignored
	TrimStrings(req)
}

func TestTrimStrings_SkipsPasswords(t *testing.T) {
	req := models.RegisterRequest{Email: " a@b.co ", Password: " abcdefg"}
	TrimStrings(&req)
	assert.Equal(t, "a@b.co", req.Email)
	assert.Equal(t, " abcdefg", req.Password)

	login := models.LoginRequest{Identifier: " 9876543210 ", Password: "abcdefgh "}
	TrimStrings(&login)
	assert.Equal(t, "9876543210", login.Identifier)
	assert.Equal(t, "abcdefgh ", login.Password)
}

func TestErrors_Error(t *testing.T) {
	err := Errors{{Field: "phone", Message: "must be exactly 10 digits"}}
	assert.Equal(t, "phone: must be exactly 10 digits", err.Error())
}
