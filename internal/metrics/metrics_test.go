package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegister_Idempotent(t *testing.T) {
	assert.NotPanics(t, func() {
		Register()
		Register()
	})
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(bookingsCreated.WithLabelValues("guest"))
	IncBookingCreated(true)
	assert.Equal(t, before+1, testutil.ToFloat64(bookingsCreated.WithLabelValues("guest")))

	before = testutil.ToFloat64(eventsDropped.WithLabelValues("queue_full"))
	IncEventDropped("queue_full")
	assert.Equal(t, before+1, testutil.ToFloat64(eventsDropped.WithLabelValues("queue_full")))

	before = testutil.ToFloat64(rollupDays.WithLabelValues("error"))
	IncRollupDay(false)
	assert.Equal(t, before+1, testutil.ToFloat64(rollupDays.WithLabelValues("error")))
}

func TestObserveHTTPRequest_Unmatched(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404"))
	ObserveHTTPRequest("GET", "", 404, 5*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues("GET", "unmatched", "404")))
}
