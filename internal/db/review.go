package db

import (
	"context"
	"time"

	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ReviewCollection defines the interface for review operations.
type ReviewCollection interface {
	InsertReview(ctx context.Context, review models.Review) (*models.Review, error)
	FindRecentReviews(ctx context.Context, limit int64) ([]models.Review, error)
}

// MongoReviewCollection implements ReviewCollection for MongoDB.
type MongoReviewCollection struct {
	Collection *mongo.Collection
}

// InsertReview stores a review. A second review for the same booking returns ErrDuplicate.
func (c *MongoReviewCollection) InsertReview(ctx context.Context, review models.Review) (*models.Review, error) {
	review.ID = primitive.NewObjectID()
	review.CreatedAt = time.Now().UTC()

	if _, err := c.Collection.InsertOne(ctx, review); err != nil {
		return nil, translate(err)
	}
	return &review, nil
}

// FindRecentReviews returns the newest reviews.
func (c *MongoReviewCollection) FindRecentReviews(ctx context.Context, limit int64) ([]models.Review, error) {
	cursor, err := c.Collection.Find(ctx, bson.M{}, newestFirst().SetLimit(limit))
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}
