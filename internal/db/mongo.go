package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	UsersCollection     = "users"
	BookingsCollection  = "bookings"
	InquiriesCollection = "corporate_inquiries"
	ReviewsCollection   = "reviews"
	AuditLogsCollection = "audit_logs"
	SnapshotsCollection = "analytics_snapshots"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrInvalidID = errors.New("invalid object id")
)

// ConnectMongo connects to MongoDB and verifies the connection with a ping.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo.Ping error: %w", err)
	}
	return client, nil
}

// Store bundles the collection wrappers of one database.
type Store struct {
	Users     *MongoUserCollection
	Bookings  *MongoBookingCollection
	Inquiries *MongoInquiryCollection
	Reviews   *MongoReviewCollection
	AuditLogs *MongoAuditLogCollection
	Snapshots *MongoSnapshotCollection
}

// NewStore wires collection wrappers for the given database.
func NewStore(database *mongo.Database) *Store {
	return &Store{
		Users:     &MongoUserCollection{Collection: database.Collection(UsersCollection)},
		Bookings:  &MongoBookingCollection{Collection: database.Collection(BookingsCollection)},
		Inquiries: &MongoInquiryCollection{Collection: database.Collection(InquiriesCollection)},
		Reviews:   &MongoReviewCollection{Collection: database.Collection(ReviewsCollection)},
		AuditLogs: &MongoAuditLogCollection{Collection: database.Collection(AuditLogsCollection)},
		Snapshots: &MongoSnapshotCollection{Collection: database.Collection(SnapshotsCollection)},
	}
}

// EnsureIndexes creates the unique and sort indexes the application relies on.
// The unique indexes back the duplicate-account and one-review-per-booking rules.
func EnsureIndexes(ctx context.Context, database *mongo.Database) error {
	specs := map[string][]mongo.IndexModel{
		UsersCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "phone_number", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		BookingsCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "phone", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		InquiriesCollection: {
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		ReviewsCollection: {
			{Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "created_at", Value: -1}}},
		},
		AuditLogsCollection: {
			{Keys: bson.D{{Key: "timestamp", Value: -1}}},
			{Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
		},
		SnapshotsCollection: {
			{Keys: bson.D{{Key: "date", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}

	for name, models := range specs {
		if _, err := database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// objectID parses a hex id, mapping failures to ErrInvalidID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// translate maps driver errors onto the package sentinels.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	default:
		return err
	}
}

// newestFirst sorts by creation time descending.
func newestFirst() *options.FindOptions {
	return options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
}
