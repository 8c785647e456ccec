package db

import (
	"context"
	"time"

	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SnapshotCollection defines the interface for daily analytics snapshots.
type SnapshotCollection interface {
	UpsertSnapshot(ctx context.Context, snapshot models.AnalyticsSnapshot) error
	FindSnapshotsBetween(ctx context.Context, start, end time.Time) ([]models.AnalyticsSnapshot, error)
}

// MongoSnapshotCollection implements SnapshotCollection for MongoDB.
type MongoSnapshotCollection struct {
	Collection *mongo.Collection
}

// UpsertSnapshot replaces the snapshot for the snapshot's date, creating it if needed.
func (c *MongoSnapshotCollection) UpsertSnapshot(ctx context.Context, snapshot models.AnalyticsSnapshot) error {
	snapshot.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"date":                snapshot.Date,
		"totals":              snapshot.Totals,
		"service_breakdown":   snapshot.ServiceBreakdown,
		"hourly_distribution": snapshot.HourlyDistribution,
		"customers":           snapshot.Customers,
		"updated_at":          snapshot.UpdatedAt,
	}
	_, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"date": snapshot.Date},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	return translate(err)
}

// FindSnapshotsBetween returns snapshots with start <= date < end, oldest first.
func (c *MongoSnapshotCollection) FindSnapshotsBetween(ctx context.Context, start, end time.Time) ([]models.AnalyticsSnapshot, error) {
	filter := bson.M{"date": bson.M{"$gte": start, "$lt": end}}
	cursor, err := c.Collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	snapshots := []models.AnalyticsSnapshot{}
	if err := cursor.All(ctx, &snapshots); err != nil {
		return nil, err
	}
	return snapshots, nil
}
