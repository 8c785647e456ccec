package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/metrics"
	"github.com/ukydev/ac-service-backend/internal/models"
)

// Rollup computes daily analytics snapshots from raw bookings. Days are
// processed one at a time; nothing else writes snapshots.
type Rollup struct {
	bookings  db.BookingCollection
	snapshots db.SnapshotCollection
	loc       *time.Location
	logger    log.FieldLogger
	now       func() time.Time
}

// NewRollup creates a rollup whose day boundaries follow loc
func NewRollup(bookings db.BookingCollection, snapshots db.SnapshotCollection, loc *time.Location, logger log.FieldLogger) *Rollup {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Rollup{
		bookings:  bookings,
		snapshots: snapshots,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

// DayBounds returns [start, end) of the calendar day containing t
func (r *Rollup) DayBounds(t time.Time) (time.Time, time.Time) {
	return dayBounds(t, r.loc)
}

func dayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := t.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// SyncDay recomputes and upserts the snapshot for the day containing date.
// Running it twice without booking changes yields the same snapshot.
func (r *Rollup) SyncDay(ctx context.Context, date time.Time) (*models.AnalyticsSnapshot, error) {
	snapshot, err := r.syncDay(ctx, date)
	metrics.IncRollupDay(err == nil)
	return snapshot, err
}

func (r *Rollup) syncDay(ctx context.Context, date time.Time) (*models.AnalyticsSnapshot, error) {
	start, end := r.DayBounds(date)

	bookings, err := r.bookings.FindBookingsCreatedBetween(ctx, start.UTC(), end.UTC())
	if err != nil {
		return nil, fmt.Errorf("load bookings for %s: %w", start.Format("2006-01-02"), err)
	}

	snapshot := buildSnapshot(start, bookings, r.loc)

	customers, err := r.classifyCustomers(ctx, bookings, start)
	if err != nil {
		return nil, fmt.Errorf("classify customers for %s: %w", start.Format("2006-01-02"), err)
	}
	snapshot.Customers = customers

	if err := r.snapshots.UpsertSnapshot(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("upsert snapshot for %s: %w", start.Format("2006-01-02"), err)
	}

	r.logger.WithFields(log.Fields{
		"date":     start.Format("2006-01-02"),
		"bookings": snapshot.Totals.Bookings,
		"revenue":  snapshot.Totals.Revenue,
	}).Info("Analytics day synced")

	return &snapshot, nil
}

// SyncHistorical syncs the last days calendar days, oldest first and
// including today. A failing day is logged and skipped. It returns the
// number of days synced.
func (r *Rollup) SyncHistorical(ctx context.Context, days int) (int, error) {
	if days <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", days)
	}

	today, _ := r.DayBounds(r.now())
	synced := 0
	for i := days - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return synced, err
		}

		day := today.AddDate(0, 0, -i)
		if _, err := r.SyncDay(ctx, day); err != nil {
			r.logger.WithError(err).WithField("date", day.Format("2006-01-02")).Error("Analytics day sync failed")
			continue
		}
		synced++
	}
	return synced, nil
}

// classifyCustomers counts each distinct phone of the day once: returning
// when it booked before the day started, new otherwise.
func (r *Rollup) classifyCustomers(ctx context.Context, bookings []models.Booking, start time.Time) (models.CustomerStats, error) {
	var stats models.CustomerStats
	seen := make(map[string]bool, len(bookings))
	for _, b := range bookings {
		if b.Phone == "" || seen[b.Phone] {
			continue
		}
		seen[b.Phone] = true

		earlier, err := r.bookings.CountBookingsByPhoneBefore(ctx, b.Phone, start.UTC())
		if err != nil {
			return stats, err
		}
		if earlier > 0 {
			stats.Returning++
		} else {
			stats.New++
		}
	}
	return stats, nil
}

func buildSnapshot(start time.Time, bookings []models.Booking, loc *time.Location) models.AnalyticsSnapshot {
	revenue := decimal.Zero
	responseTotal := decimal.Zero
	responded := 0

	type serviceAgg struct {
		count   int
		revenue decimal.Decimal
	}
	services := make(map[string]*serviceAgg)
	hours := make([]models.HourBucket, 24)
	for h := range hours {
		hours[h].Hour = h
	}

	var totals models.SnapshotTotals
	for _, b := range bookings {
		totals.Bookings++

		agg, ok := services[b.Service]
		if !ok {
			agg = &serviceAgg{revenue: decimal.Zero}
			services[b.Service] = agg
		}
		agg.count++

		switch b.Status {
		case models.BookingCompleted:
			totals.Completed++
			cost := decimal.NewFromFloat(b.Cost)
			revenue = revenue.Add(cost)
			agg.revenue = agg.revenue.Add(cost)
		case models.BookingCancelled:
			totals.Cancelled++
		case models.BookingPending:
			totals.Pending++
		}

		hours[b.CreatedAt.In(loc).Hour()].Count++

		if b.StatusChangedAt != nil && b.StatusChangedAt.After(b.CreatedAt) {
			minutes := decimal.NewFromFloat(b.StatusChangedAt.Sub(b.CreatedAt).Minutes())
			responseTotal = responseTotal.Add(minutes)
			responded++
		}
	}

	totals.Revenue = revenue.Round(2).InexactFloat64()
	if responded > 0 {
		totals.AvgResponseMinutes = responseTotal.Div(decimal.NewFromInt(int64(responded))).Round(2).InexactFloat64()
	}

	breakdown := make([]models.ServiceStat, 0, len(services))
	for name, agg := range services {
		breakdown = append(breakdown, models.ServiceStat{
			Service: name,
			Count:   agg.count,
			Revenue: agg.revenue.Round(2).InexactFloat64(),
		})
	}
	sort.Slice(breakdown, func(i, j int) bool { return breakdown[i].Service < breakdown[j].Service })

	return models.AnalyticsSnapshot{
		Date:               start.UTC(),
		Totals:             totals,
		ServiceBreakdown:   breakdown,
		HourlyDistribution: hours,
	}
}
