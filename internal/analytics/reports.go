package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/ukydev/ac-service-backend/internal/db"
	"github.com/ukydev/ac-service-backend/internal/models"
)

const (
	DefaultDays = 30
	MaxDays     = 365
)

// NormalizeDays applies the default and the upper bound to a requested window
func NormalizeDays(days int) int {
	switch {
	case days <= 0:
		return DefaultDays
	case days > MaxDays:
		return MaxDays
	default:
		return days
	}
}

// DailyRevenue is one point of the revenue series
type DailyRevenue struct {
	Date      string  `json:"date"`
	Revenue   float64 `json:"revenue"`
	Completed int     `json:"completed"`
}

// RevenueReport is the admin revenue view
type RevenueReport struct {
	Days          int            `json:"days"`
	TotalRevenue  float64        `json:"totalRevenue"`
	AveragePerDay float64        `json:"averagePerDay"`
	Daily         []DailyRevenue `json:"daily"`
}

// DailyTrend is one point of the booking volume series
type DailyTrend struct {
	Date      string `json:"date"`
	Bookings  int    `json:"bookings"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
	Pending   int    `json:"pending"`
}

// TrendsReport is the admin booking trends view
type TrendsReport struct {
	Days               int                 `json:"days"`
	Daily              []DailyTrend        `json:"daily"`
	HourlyDistribution []models.HourBucket `json:"hourlyDistribution"`
}

// ServicesReport ranks services over the window
type ServicesReport struct {
	Days     int                  `json:"days"`
	Services []models.ServiceStat `json:"services"`
}

// Dashboard is the headline summary of the window
type Dashboard struct {
	Days               int     `json:"days"`
	TotalBookings      int     `json:"totalBookings"`
	Completed          int     `json:"completed"`
	Cancelled          int     `json:"cancelled"`
	Pending            int     `json:"pending"`
	Revenue            float64 `json:"revenue"`
	CompletionRate     float64 `json:"completionRate"`
	AvgResponseMinutes float64 `json:"avgResponseMinutes"`
	NewCustomers       int     `json:"newCustomers"`
	ReturningCustomers int     `json:"returningCustomers"`
	TopService         string  `json:"topService,omitempty"`
}

// Reports builds the admin read models. They only ever read snapshots.
type Reports struct {
	snapshots db.SnapshotCollection
	loc       *time.Location
	now       func() time.Time
}

// NewReports creates a report builder using loc for day boundaries
func NewReports(snapshots db.SnapshotCollection, loc *time.Location) *Reports {
	if loc == nil {
		loc = time.UTC
	}
	return &Reports{snapshots: snapshots, loc: loc, now: time.Now}
}

// window loads the snapshots of the last days days, today included
func (r *Reports) window(ctx context.Context, days int) ([]models.AnalyticsSnapshot, error) {
	today, tomorrow := dayBounds(r.now(), r.loc)
	start := today.AddDate(0, 0, -(days - 1))
	return r.snapshots.FindSnapshotsBetween(ctx, start.UTC(), tomorrow.UTC())
}

func (r *Reports) dateKey(t time.Time) string {
	return t.In(r.loc).Format("2006-01-02")
}

// Revenue returns the daily revenue series
func (r *Reports) Revenue(ctx context.Context, days int) (*RevenueReport, error) {
	days = NormalizeDays(days)
	snapshots, err := r.window(ctx, days)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	report := &RevenueReport{Days: days, Daily: make([]DailyRevenue, 0, len(snapshots))}
	for _, s := range snapshots {
		total = total.Add(decimal.NewFromFloat(s.Totals.Revenue))
		report.Daily = append(report.Daily, DailyRevenue{
			Date:      r.dateKey(s.Date),
			Revenue:   s.Totals.Revenue,
			Completed: s.Totals.Completed,
		})
	}
	report.TotalRevenue = total.Round(2).InexactFloat64()
	report.AveragePerDay = total.Div(decimal.NewFromInt(int64(days))).Round(2).InexactFloat64()
	return report, nil
}

// Trends returns daily booking volume and the summed hour histogram
func (r *Reports) Trends(ctx context.Context, days int) (*TrendsReport, error) {
	days = NormalizeDays(days)
	snapshots, err := r.window(ctx, days)
	if err != nil {
		return nil, err
	}

	hours := make([]models.HourBucket, 24)
	for h := range hours {
		hours[h].Hour = h
	}

	report := &TrendsReport{Days: days, Daily: make([]DailyTrend, 0, len(snapshots))}
	for _, s := range snapshots {
		report.Daily = append(report.Daily, DailyTrend{
			Date:      r.dateKey(s.Date),
			Bookings:  s.Totals.Bookings,
			Completed: s.Totals.Completed,
			Cancelled: s.Totals.Cancelled,
			Pending:   s.Totals.Pending,
		})
		for _, b := range s.HourlyDistribution {
			if b.Hour >= 0 && b.Hour < 24 {
				hours[b.Hour].Count += b.Count
			}
		}
	}
	report.HourlyDistribution = hours
	return report, nil
}

// Services merges the per-day breakdowns, busiest service first
func (r *Reports) Services(ctx context.Context, days int) (*ServicesReport, error) {
	days = NormalizeDays(days)
	snapshots, err := r.window(ctx, days)
	if err != nil {
		return nil, err
	}
	return &ServicesReport{Days: days, Services: mergeServices(snapshots)}, nil
}

// Dashboard summarises the window
func (r *Reports) Dashboard(ctx context.Context, days int) (*Dashboard, error) {
	days = NormalizeDays(days)
	snapshots, err := r.window(ctx, days)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{Days: days}
	revenue := decimal.Zero
	weightedResponse := decimal.Zero
	weight := 0
	for _, s := range snapshots {
		d.TotalBookings += s.Totals.Bookings
		d.Completed += s.Totals.Completed
		d.Cancelled += s.Totals.Cancelled
		d.Pending += s.Totals.Pending
		d.NewCustomers += s.Customers.New
		d.ReturningCustomers += s.Customers.Returning
		revenue = revenue.Add(decimal.NewFromFloat(s.Totals.Revenue))

		if s.Totals.AvgResponseMinutes > 0 && s.Totals.Bookings > 0 {
			weightedResponse = weightedResponse.Add(
				decimal.NewFromFloat(s.Totals.AvgResponseMinutes).Mul(decimal.NewFromInt(int64(s.Totals.Bookings))))
			weight += s.Totals.Bookings
		}
	}

	d.Revenue = revenue.Round(2).InexactFloat64()
	if d.TotalBookings > 0 {
		d.CompletionRate = decimal.NewFromInt(int64(d.Completed)).
			Div(decimal.NewFromInt(int64(d.TotalBookings))).
			Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	if weight > 0 {
		d.AvgResponseMinutes = weightedResponse.Div(decimal.NewFromInt(int64(weight))).Round(2).InexactFloat64()
	}
	if services := mergeServices(snapshots); len(services) > 0 {
		d.TopService = services[0].Service
	}
	return d, nil
}

func mergeServices(snapshots []models.AnalyticsSnapshot) []models.ServiceStat {
	counts := make(map[string]int)
	revenue := make(map[string]decimal.Decimal)
	for _, s := range snapshots {
		for _, stat := range s.ServiceBreakdown {
			counts[stat.Service] += stat.Count
			revenue[stat.Service] = revenue[stat.Service].Add(decimal.NewFromFloat(stat.Revenue))
		}
	}

	merged := make([]models.ServiceStat, 0, len(counts))
	for name, count := range counts {
		merged = append(merged, models.ServiceStat{
			Service: name,
			Count:   count,
			Revenue: revenue[name].Round(2).InexactFloat64(),
		})
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Count != merged[j].Count {
			return merged[i].Count > merged[j].Count
		}
		return merged[i].Service < merged[j].Service
	})
	return merged
}
