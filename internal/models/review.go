package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultReviewerName is shown when neither the profile nor the booking carries a name
const DefaultReviewerName = "Valued Customer"

// Review is a customer testimonial, at most one per booking
type Review struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID    primitive.ObjectID `bson:"booking_id" json:"bookingId"`
	Rating       int                `bson:"rating" json:"rating"`
	Comment      string             `bson:"comment" json:"comment"`
	CustomerName string             `bson:"customer_name" json:"customerName"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
}

// CreateReviewRequest is the review submission payload
type CreateReviewRequest struct {
	BookingID string `json:"bookingId" validate:"required,objectid"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"required,min=10,max=500"`
}
