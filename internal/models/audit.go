package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction is the closed set of administrative actions that are recorded
type AuditAction string

const (
	ActionLogin               AuditAction = "LOGIN"
	ActionLogout              AuditAction = "LOGOUT"
	ActionBookingStatusChange AuditAction = "BOOKING_STATUS_CHANGE"
	ActionBookingCancel       AuditAction = "BOOKING_CANCEL"
	ActionUserCreate          AuditAction = "USER_CREATE"
	ActionUserDelete          AuditAction = "USER_DELETE"
	ActionReportGenerate      AuditAction = "REPORT_GENERATE"
	ActionSettingsUpdate      AuditAction = "SETTINGS_UPDATE"
	ActionOther               AuditAction = "OTHER"
)

// DeviceInfo is derived from the requester's User-Agent
type DeviceInfo struct {
	DeviceType string `bson:"device_type" json:"deviceType"`
	OS         string `bson:"os" json:"os"`
	Browser    string `bson:"browser" json:"browser"`
	IsBot      bool   `bson:"is_bot" json:"isBot"`
}

// AuditLog is an append-only record of an admin action
type AuditLog struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AdminID    string             `bson:"admin_id" json:"adminId"`
	AdminEmail string             `bson:"admin_email" json:"adminEmail"`
	Action     AuditAction        `bson:"action" json:"action"`
	TargetType string             `bson:"target_type,omitempty" json:"targetType,omitempty"`
	TargetID   string             `bson:"target_id,omitempty" json:"targetId,omitempty"`
	Details    interface{}        `bson:"details,omitempty" json:"details,omitempty"`
	IPAddress  string             `bson:"ip_address" json:"ipAddress"`
	UserAgent  string             `bson:"user_agent" json:"userAgent"`
	Device     DeviceInfo         `bson:"device" json:"device"`
	Timestamp  time.Time          `bson:"timestamp" json:"timestamp"`
}

// AuditQuery filters the admin audit listing
type AuditQuery struct {
	Action    AuditAction
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}

// CreateAuditLogRequest lets the admin console record client-side actions
type CreateAuditLogRequest struct {
	Action     AuditAction `json:"action" validate:"required"`
	TargetType string      `json:"targetType" validate:"max=50"`
	TargetID   string      `json:"targetId" validate:"max=100"`
	Details    interface{} `json:"details"`
}

// IsValidAuditAction checks membership in the audit action enum
func IsValidAuditAction(action AuditAction) bool {
	switch action {
	case ActionLogin, ActionLogout, ActionBookingStatusChange, ActionBookingCancel,
		ActionUserCreate, ActionUserDelete, ActionReportGenerate, ActionSettingsUpdate, ActionOther:
		return true
	default:
		return false
	}
}
