package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookingStatus is the lifecycle state of a service booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCompleted BookingStatus = "Completed"
	BookingCancelled BookingStatus = "Cancelled"
)

// Booking is a single home-service appointment. UserID is nil for guest bookings.
type Booking struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Service         string              `bson:"service" json:"service"`
	Date            time.Time           `bson:"date" json:"date"`
	Time            string              `bson:"time" json:"time"`
	Name            string              `bson:"name" json:"name"`
	Phone           string              `bson:"phone" json:"phone"`
	Area            string              `bson:"area" json:"area"`
	Status          BookingStatus       `bson:"status" json:"status"`
	UserID          *primitive.ObjectID `bson:"user_id,omitempty" json:"user,omitempty"`
	Cost            float64             `bson:"cost,omitempty" json:"cost,omitempty"`
	StatusChangedAt *time.Time          `bson:"status_changed_at,omitempty" json:"statusChangedAt,omitempty"`
	CreatedAt       time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updated_at" json:"updatedAt"`
}

// CreateBookingRequest is the public booking widget payload
type CreateBookingRequest struct {
	Service string `json:"service" validate:"required"`
	Date    string `json:"date" validate:"required,isodate"`
	Time    string `json:"time" validate:"required"`
	Name    string `json:"name" validate:"required,min=2,max=30,alphaspace"`
	Phone   string `json:"phone" validate:"required,phone10"`
	Area    string `json:"area" validate:"required,min=5,max=100"`
}

// UpdateBookingStatusRequest changes a booking's status. Cost is recorded when present.
type UpdateBookingStatusRequest struct {
	Status BookingStatus `json:"status" validate:"required"`
	Cost   *float64      `json:"cost" validate:"omitempty,min=0"`
}

// IsValidBookingStatus checks membership in the booking status enum
func IsValidBookingStatus(status BookingStatus) bool {
	switch status {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	default:
		return false
	}
}
