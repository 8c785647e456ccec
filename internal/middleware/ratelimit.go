package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimitMiddleware is a per-IP sliding window limiter
type RateLimitMiddleware struct {
	maxRequests int
	window      time.Duration
	message     string
	requests    map[string][]time.Time // IP -> request times
	mu          sync.Mutex
	now         func() time.Time
}

// NewRateLimitMiddleware creates a limiter allowing maxRequests per window
func NewRateLimitMiddleware(maxRequests int, window time.Duration, message string) *RateLimitMiddleware {
	if message == "" {
		message = "Too many requests, please try again later."
	}
	return &RateLimitMiddleware{
		maxRequests: maxRequests,
		window:      window,
		message:     message,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Handler applies the limit keyed by client IP
func (m *RateLimitMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := m.allow(c.ClientIP())
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"message": m.message})
			return
		}
		c.Next()
	}
}

// allow records a request for ip and reports whether it fits the window.
// When it does not, the duration until the oldest request expires is returned.
func (m *RateLimitMiddleware) allow(ip string) (bool, time.Duration) {
	now := m.now()
	windowStart := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	timestamps := m.requests[ip]
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	if len(valid) >= m.maxRequests {
		m.requests[ip] = valid
		return false, valid[0].Add(m.window).Sub(now)
	}

	m.requests[ip] = append(valid, now)
	return true, 0
}

// Prune drops clients with no requests inside the current window
func (m *RateLimitMiddleware) Prune() {
	windowStart := m.now().Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	for ip, timestamps := range m.requests {
		if len(timestamps) == 0 || !timestamps[len(timestamps)-1].After(windowStart) {
			delete(m.requests, ip)
		}
	}
}
