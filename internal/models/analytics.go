package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SnapshotTotals are the per-day headline counters
type SnapshotTotals struct {
	Bookings           int     `bson:"bookings" json:"bookings"`
	Completed          int     `bson:"completed" json:"completed"`
	Cancelled          int     `bson:"cancelled" json:"cancelled"`
	Pending            int     `bson:"pending" json:"pending"`
	Revenue            float64 `bson:"revenue" json:"revenue"`
	AvgResponseMinutes float64 `bson:"avg_response_minutes" json:"avgResponseMinutes"`
}

// ServiceStat is one row of the per-service breakdown
type ServiceStat struct {
	Service string  `bson:"service" json:"service"`
	Count   int     `bson:"count" json:"count"`
	Revenue float64 `bson:"revenue" json:"revenue"`
}

// HourBucket counts bookings created during one hour of the day
type HourBucket struct {
	Hour  int `bson:"hour" json:"hour"`
	Count int `bson:"count" json:"count"`
}

// CustomerStats splits the day's distinct customers by history
type CustomerStats struct {
	New       int `bson:"new" json:"new"`
	Returning int `bson:"returning" json:"returning"`
}

// AnalyticsSnapshot is the precomputed aggregate for one calendar day.
// Only the rollup job writes it.
type AnalyticsSnapshot struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date               time.Time          `bson:"date" json:"date"`
	Totals             SnapshotTotals     `bson:"totals" json:"totals"`
	ServiceBreakdown   []ServiceStat      `bson:"service_breakdown" json:"serviceBreakdown"`
	HourlyDistribution []HourBucket       `bson:"hourly_distribution" json:"hourlyDistribution"`
	Customers          CustomerStats      `bson:"customers" json:"customers"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}
