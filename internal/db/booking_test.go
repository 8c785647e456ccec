package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/ac-service-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func sampleBooking() models.Booking {
	return models.Booking{
		Service: "Lite Refresh Service",
		Date:    time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Time:    "9:00 AM - 11:00 AM",
		Name:    "Asha Rao",
		Phone:   "9876543210",
		Area:    "Alkapuri, Vadodara",
	}
}

func TestMongoBookingCollection_InsertAndList(t *testing.T) {
	store := NewStore(testDatabase(t))
	ctx := context.Background()

	owner := primitive.NewObjectID()
	guest, err := store.Bookings.InsertBooking(ctx, sampleBooking())
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, guest.Status)
	assert.Nil(t, guest.UserID)

	owned := sampleBooking()
	owned.UserID = &owner
	mine, err := store.Bookings.InsertBooking(ctx, owned)
	require.NoError(t, err)

	all, err := store.Bookings.FindBookings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, mine.ID, all[0].ID, "newest booking first")

	byUser, err := store.Bookings.FindBookingsByUser(ctx, owner.Hex())
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, mine.ID, byUser[0].ID)
}

func TestMongoBookingCollection_UpdateBookingStatus(t *testing.T) {
	store := NewStore(testDatabase(t))
	ctx := context.Background()

	booking, err := store.Bookings.InsertBooking(ctx, sampleBooking())
	require.NoError(t, err)

	untouched, err := store.Bookings.UpdateBookingStatus(ctx, booking.ID.Hex(), models.BookingPending, nil)
	require.NoError(t, err)
	assert.Nil(t, untouched.StatusChangedAt, "pending to pending is not a status change")

	cost := 1499.0
	updated, err := store.Bookings.UpdateBookingStatus(ctx, booking.ID.Hex(), models.BookingCompleted, &cost)
	require.NoError(t, err)
	assert.Equal(t, models.BookingCompleted, updated.Status)
	assert.Equal(t, cost, updated.Cost)
	require.NotNil(t, updated.StatusChangedAt)
	first := *updated.StatusChangedAt

	again, err := store.Bookings.UpdateBookingStatus(ctx, booking.ID.Hex(), models.BookingPending, nil)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPending, again.Status)
	assert.Equal(t, cost, again.Cost)
	assert.True(t, first.Equal(*again.StatusChangedAt), "first status change time is kept")

	_, err = store.Bookings.UpdateBookingStatus(ctx, primitive.NewObjectID().Hex(), models.BookingConfirmed, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMongoReviewCollection_DuplicateBooking(t *testing.T) {
	store := NewStore(testDatabase(t))
	ctx := context.Background()

	review := models.Review{BookingID: primitive.NewObjectID(), Rating: 5, Comment: "Great service, on time."}
	_, err := store.Reviews.InsertReview(ctx, review)
	require.NoError(t, err)

	_, err = store.Reviews.InsertReview(ctx, review)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMongoSnapshotCollection_UpsertReplaces(t *testing.T) {
	store := NewStore(testDatabase(t))
	ctx := context.Background()
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Snapshots.UpsertSnapshot(ctx, models.AnalyticsSnapshot{
		Date:   day,
		Totals: models.SnapshotTotals{Bookings: 3, Revenue: 100},
	}))
	require.NoError(t, store.Snapshots.UpsertSnapshot(ctx, models.AnalyticsSnapshot{
		Date:   day,
		Totals: models.SnapshotTotals{Bookings: 1},
	}))

	snapshots, err := store.Snapshots.FindSnapshotsBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, 1, snapshots[0].Totals.Bookings)
	assert.Zero(t, snapshots[0].Totals.Revenue)
}

func TestStatusUpdate(t *testing.T) {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	pending := statusUpdate(models.BookingPending, nil, now)
	assert.Equal(t, "Pending", pending["status"])
	assert.NotContains(t, pending, "status_changed_at")
	assert.NotContains(t, pending, "cost")

	cost := 1500.0
	completed := statusUpdate(models.BookingCompleted, &cost, now)
	assert.Equal(t, bson.M{"$ifNull": bson.A{"$status_changed_at", now}}, completed["status_changed_at"])
	assert.Equal(t, 1500.0, completed["cost"])
}
