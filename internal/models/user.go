package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role represents user roles in the system
type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

// User represents a registered customer or administrator
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name,omitempty" json:"name,omitempty"`
	Email        string             `bson:"email" json:"email"`
	PhoneNumber  string             `bson:"phone_number" json:"phoneNumber"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Name        string `json:"name" validate:"omitempty,max=30,alphaspace"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
	Password    string `json:"password" validate:"required" trim:"-"`
}

// LoginRequest represents a login request. Identifier is an email or a phone number.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required" trim:"-"`
}

// TokenResponse is returned by register and login
type TokenResponse struct {
	Token string `json:"token"`
}

// Claims is the identity carried by a verified session token
type Claims struct {
	UserID string `json:"id"`
	Role   Role   `json:"role"`
	Exp    int64  `json:"exp"`
}

// IsAdmin reports whether the token was issued to an administrator
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsValidRole checks if a role is valid
func IsValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleAdmin:
		return true
	default:
		return false
	}
}
