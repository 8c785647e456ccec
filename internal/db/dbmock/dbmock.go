// Package dbmock provides testify mocks of the db collection interfaces.
package dbmock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
)

var (
	_ db.UserCollection     = (*UserCollection)(nil)
	_ db.BookingCollection  = (*BookingCollection)(nil)
	_ db.InquiryCollection  = (*InquiryCollection)(nil)
	_ db.ReviewCollection   = (*ReviewCollection)(nil)
	_ db.AuditLogCollection = (*AuditLogCollection)(nil)
	_ db.SnapshotCollection = (*SnapshotCollection)(nil)
)

// UserCollection is a mock implementation of db.UserCollection
type UserCollection struct {
	mock.Mock
}

func (m *UserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) FindUserByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	args := m.Called(ctx, email, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserCollection) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

// BookingCollection is a mock implementation of db.BookingCollection
type BookingCollection struct {
	mock.Mock
}

func (m *BookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	args := m.Called(ctx, booking)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *BookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *BookingCollection) FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *BookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *BookingCollection) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, cost *float64) (*models.Booking, error) {
	args := m.Called(ctx, id, status, cost)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *BookingCollection) FindBookingsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *BookingCollection) CountBookingsByPhoneBefore(ctx context.Context, phone string, before time.Time) (int64, error) {
	args := m.Called(ctx, phone, before)
	return args.Get(0).(int64), args.Error(1)
}

// InquiryCollection is a mock implementation of db.InquiryCollection
type InquiryCollection struct {
	mock.Mock
}

func (m *InquiryCollection) InsertInquiry(ctx context.Context, inquiry models.CorporateInquiry) (*models.CorporateInquiry, error) {
	args := m.Called(ctx, inquiry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CorporateInquiry), args.Error(1)
}

func (m *InquiryCollection) FindInquiries(ctx context.Context) ([]models.CorporateInquiry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CorporateInquiry), args.Error(1)
}

func (m *InquiryCollection) FindInquiriesByUser(ctx context.Context, userID string) ([]models.CorporateInquiry, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CorporateInquiry), args.Error(1)
}

func (m *InquiryCollection) FindInquiryByID(ctx context.Context, id string) (*models.CorporateInquiry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CorporateInquiry), args.Error(1)
}

func (m *InquiryCollection) UpdateInquiry(ctx context.Context, id string, update models.InquiryUpdate) (*models.CorporateInquiry, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CorporateInquiry), args.Error(1)
}

func (m *InquiryCollection) SetQuotation(ctx context.Context, id string, quotation models.Quotation) (*models.CorporateInquiry, error) {
	args := m.Called(ctx, id, quotation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CorporateInquiry), args.Error(1)
}

// ReviewCollection is a mock implementation of db.ReviewCollection
type ReviewCollection struct {
	mock.Mock
}

func (m *ReviewCollection) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *ReviewCollection) FindRecentReviews(ctx context.Context, limit int64) ([]models.Review, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

// AuditLogCollection is a mock implementation of db.AuditLogCollection
type AuditLogCollection struct {
	mock.Mock
}

func (m *AuditLogCollection) InsertAuditLog(ctx context.Context, entry models.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditLogCollection) FindAuditLogs(ctx context.Context, query models.AuditQuery) ([]models.AuditLog, int64, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.AuditLog), args.Get(1).(int64), args.Error(2)
}

// SnapshotCollection is a mock implementation of db.SnapshotCollection
type SnapshotCollection struct {
	mock.Mock
}

func (m *SnapshotCollection) UpsertSnapshot(ctx context.Context, snapshot models.AnalyticsSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *SnapshotCollection) FindSnapshotsBetween(ctx context.Context, start, end time.Time) ([]models.AnalyticsSnapshot, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AnalyticsSnapshot), args.Error(1)
}
