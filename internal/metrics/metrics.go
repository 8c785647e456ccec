package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ac_service"

var (
	once sync.Once

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Count of bookings created, by owner kind (guest or user).",
		},
		[]string{"owner"},
	)

	bookingStatusUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_status_updates_total",
			Help:      "Count of admin booking status updates by new status.",
		},
		[]string{"status"},
	)

	inquiriesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "corporate_inquiries_created_total",
			Help:      "Count of corporate inquiries submitted.",
		},
	)

	quotationsSent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quotations_sent_total",
			Help:      "Count of quotation PDFs attached to inquiries.",
		},
	)

	reviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_created_total",
			Help:      "Count of reviews submitted.",
		},
	)

	eventsDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Count of notification events that were not delivered, by reason.",
		},
		[]string{"reason"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Count of HTTP requests by method, route and status code.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	rollupDays = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analytics_rollup_days_total",
			Help:      "Count of analytics day syncs by result.",
		},
		[]string{"result"},
	)
)

// Register registers metrics (idempotent).
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			bookingsCreated,
			bookingStatusUpdates,
			inquiriesCreated,
			quotationsSent,
			reviewsCreated,
			eventsDropped,
			httpRequests,
			httpDuration,
			rollupDays,
		)
	})
}

func IncBookingCreated(guest bool) {
	owner := "user"
	if guest {
		owner = "guest"
	}
	bookingsCreated.WithLabelValues(owner).Inc()
}

func IncBookingStatusUpdate(status string) {
	bookingStatusUpdates.WithLabelValues(status).Inc()
}

func IncInquiryCreated() {
	inquiriesCreated.Inc()
}

func IncQuotationSent() {
	quotationsSent.Inc()
}

func IncReviewCreated() {
	reviewsCreated.Inc()
}

func IncEventDropped(reason string) {
	eventsDropped.WithLabelValues(reason).Inc()
}

func IncRollupDay(ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	rollupDays.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records one served request. route is the matched route
// template, not the raw path.
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
