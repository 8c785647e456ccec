package db

import (
	"context"

	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditLogCollection defines the interface for audit log operations.
type AuditLogCollection interface {
	InsertAuditLog(ctx context.Context, entry models.AuditLog) error
	FindAuditLogs(ctx context.Context, query models.AuditQuery) ([]models.AuditLog, int64, error)
}

// MongoAuditLogCollection implements AuditLogCollection for MongoDB.
type MongoAuditLogCollection struct {
	Collection *mongo.Collection
}

// InsertAuditLog appends an entry.
func (c *MongoAuditLogCollection) InsertAuditLog(ctx context.Context, entry models.AuditLog) error {
	_, err := c.Collection.InsertOne(ctx, entry)
	return translate(err)
}

// FindAuditLogs returns one page of matching entries, newest first, and the total match count.
func (c *MongoAuditLogCollection) FindAuditLogs(ctx context.Context, query models.AuditQuery) ([]models.AuditLog, int64, error) {
	filter := auditFilter(query)

	total, err := c.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translate(err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64((query.Page - 1) * query.Limit)).
		SetLimit(int64(query.Limit))

	cursor, err := c.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translate(err)
	}
	defer cursor.Close(ctx)

	logs := []models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func auditFilter(query models.AuditQuery) bson.M {
	filter := bson.M{}
	if query.Action != "" {
		filter["action"] = query.Action
	}
	window := bson.M{}
	if query.StartDate != nil {
		window["$gte"] = *query.StartDate
	}
	if query.EndDate != nil {
		window["$lte"] = *query.EndDate
	}
	if len(window) > 0 {
		filter["timestamp"] = window
	}
	return filter
}
