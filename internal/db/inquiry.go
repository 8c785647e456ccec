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

// InquiryCollection defines the interface for corporate inquiry operations.
type InquiryCollection interface {
	InsertInquiry(ctx context.Context, inquiry models.CorporateInquiry) (*models.CorporateInquiry, error)
	FindInquiries(ctx context.Context) ([]models.CorporateInquiry, error)
	FindInquiriesByUser(ctx context.Context, userID string) ([]models.CorporateInquiry, error)
	FindInquiryByID(ctx context.Context, id string) (*models.CorporateInquiry, error)
	UpdateInquiry(ctx context.Context, id string, update models.InquiryUpdate) (*models.CorporateInquiry, error)
	SetQuotation(ctx context.Context, id string, quotation models.Quotation) (*models.CorporateInquiry, error)
}

// MongoInquiryCollection implements InquiryCollection for MongoDB.
type MongoInquiryCollection struct {
	Collection *mongo.Collection
}

// InsertInquiry stores a new corporate lead with status Pending.
func (c *MongoInquiryCollection) InsertInquiry(ctx context.Context, inquiry models.CorporateInquiry) (*models.CorporateInquiry, error) {
	now := time.Now().UTC()
	inquiry.ID = primitive.NewObjectID()
	if inquiry.Status == "" {
		inquiry.Status = models.InquiryPending
	}
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, inquiry); err != nil {
		return nil, translate(err)
	}
	return &inquiry, nil
}

// FindInquiries returns all inquiries, most recent first.
func (c *MongoInquiryCollection) FindInquiries(ctx context.Context) ([]models.CorporateInquiry, error) {
	return c.find(ctx, bson.M{})
}

// FindInquiriesByUser returns the inquiries owned by a user, most recent first.
func (c *MongoInquiryCollection) FindInquiriesByUser(ctx context.Context, userID string) ([]models.CorporateInquiry, error) {
	oid, err := objectID(userID)
	if err != nil {
		return nil, err
	}
	return c.find(ctx, bson.M{"user_id": oid})
}

// FindInquiryByID finds an inquiry by its ID.
func (c *MongoInquiryCollection) FindInquiryByID(ctx context.Context, id string) (*models.CorporateInquiry, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var inquiry models.CorporateInquiry
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&inquiry); err != nil {
		return nil, translate(err)
	}
	return &inquiry, nil
}

// UpdateInquiry applies a partial status/notes update.
func (c *MongoInquiryCollection) UpdateInquiry(ctx context.Context, id string, update models.InquiryUpdate) (*models.CorporateInquiry, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Status != "" {
		set["status"] = update.Status
	}
	if update.AdminNotes != nil {
		set["admin_notes"] = *update.AdminNotes
	}
	return c.update(ctx, id, set)
}

// SetQuotation records a sent quotation and forces the status to Quotation Sent.
func (c *MongoInquiryCollection) SetQuotation(ctx context.Context, id string, quotation models.Quotation) (*models.CorporateInquiry, error) {
	return c.update(ctx, id, bson.M{
		"quotation":  quotation,
		"status":     models.InquiryQuotationSent,
		"updated_at": time.Now().UTC(),
	})
}

func (c *MongoInquiryCollection) update(ctx context.Context, id string, set bson.M) (*models.CorporateInquiry, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var inquiry models.CorporateInquiry
	if err := c.Collection.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&inquiry); err != nil {
		return nil, translate(err)
	}
	return &inquiry, nil
}

func (c *MongoInquiryCollection) find(ctx context.Context, filter interface{}) ([]models.CorporateInquiry, error) {
	cursor, err := c.Collection.Find(ctx, filter, newestFirst())
	if err != nil {
		return nil, translate(err)
	}
	defer cursor.Close(ctx)

	inquiries := []models.CorporateInquiry{}
	if err := cursor.All(ctx, &inquiries); err != nil {
		return nil, err
	}
	return inquiries, nil
}
