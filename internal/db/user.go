package db

import (
	"context"
	"time"

	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// UserCollection defines the interface for user database operations
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error)
	UpdateUserRole(ctx context.Context, id string, role models.Role) error
}

// MongoUserCollection implements UserCollection for MongoDB
type MongoUserCollection struct {
	Collection *mongo.Collection
}

// InsertUser inserts a new user and returns it with its generated ID
func (c *MongoUserCollection) InsertUser(ctx context.Context, user models.User) (*models.User, error) {
	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := c.Collection.InsertOne(ctx, user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByID finds a user by their ID
func (c *MongoUserCollection) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := c.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// FindUserByEmailOrPhone finds the account matching either identifier.
// Login passes the same value for both.
func (c *MongoUserCollection) FindUserByEmailOrPhone(ctx context.Context, email, phone string) (*models.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": email},
		bson.M{"phone_number": phone},
	}}

	var user models.User
	if err := c.Collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateUserRole changes a user's role. There is no HTTP route for this.
func (c *MongoUserCollection) UpdateUserRole(ctx context.Context, id string, role models.Role) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := c.Collection.UpdateOne(
		ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"role": role, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return translate(err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
