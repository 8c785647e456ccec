package db

import (
	"context"
	"time"

	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookingCollection defines the interface for booking data operations.
type BookingCollection interface {
	InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
	FindBookings(ctx context.Context) ([]models.Booking, error)
	FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	FindBookingByID(ctx context.Context, id string) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, cost *float64) (*models.Booking, error)
	FindBookingsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	CountBookingsByPhoneBefore(ctx context.Context, phone string, before time.Time) (int64, error)
}

// MongoBookingCollection implements BookingCollection for MongoDB.
type MongoBookingCollection struct {
	Collection *mongo.Collection
}

// InsertBooking stores a new booking. Status defaults to Pending.
func (c *MongoBookingCollection) InsertBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	now := time.Now().UTC()
	booking.ID = primitive.NewObjectID()
	if booking.Status == "" {
		booking.Status = models.BookingPending
	}
	booking.CreatedAt = now
	booking.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// FindBookings returns every booking, most recent first.
func (c *MongoBookingCollection) FindBookings(ctx context.Context) ([]models.Booking, error) {
	return c.find(ctx, bson.M{}, newestFirst())
}

// FindBookingsByUser returns the bookings owned by a user, most recent first.
func (c *MongoBookingCollection) FindBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return c.find(ctx, bson.M{"user_id": oid}, newestFirst())
}

// FindBookingByID finds a booking by its ID.
func (c *MongoBookingCollection) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var booking models.Booking
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// UpdateBookingStatus sets the status (and cost, when given) and returns the updated record.
// status_changed_at keeps the time of the first move away from Pending.
func (c *MongoBookingCollection) UpdateBookingStatus(ctx context.Context, id string, status models.BookingStatus, cost *float64) (*models.Booking, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := statusUpdate(status, cost, time.Now().UTC())
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var booking models.Booking
	err = c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.A{bson.M{"$set": set}}, opts).Decode(&booking)
	if err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// statusUpdate builds the $set stage of a status change. Writing Pending
// never stamps status_changed_at.
func statusUpdate(status models.BookingStatus, cost *float64, now time.Time) bson.M {
	set := bson.M{
		"status":     string(status),
		"updated_at": now,
	}
	if status != models.BookingPending {
		set["status_changed_at"] = bson.M{"$ifNull": bson.A{"$status_changed_at", now}}
	}
	if cost != nil {
		set["cost"] = *cost
	}
	return set
}

// FindBookingsCreatedBetween returns bookings created in [start, end).
func (c *MongoBookingCollection) FindBookingsCreatedBetween(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	filter := bson.M{"created_at": bson.M{"$gte": start, "$lt": end}}
	return c.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
}

// CountBookingsByPhoneBefore counts earlier bookings made with the same phone number.
func (c *MongoBookingCollection) CountBookingsByPhoneBefore(ctx context.Context, phone string, before time.Time) (int64, error) {
	n, err := c.Collection.CountDocuments(ctx, bson.M{"phone": phone, "created_at": bson.M{"$lt": before}})
	return n, translate(err)
}

func (c *MongoBookingCollection) find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Booking, error) {
	cursor, err := c.Collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}
