package events

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/ac-service-backend/internal/metrics"
)

// Event names published to dashboard listeners
const (
	NewBooking           = "newBooking"
	BookingStatusUpdated = "bookingStatusUpdated"
	NewCorporateInquiry  = "newCorporateInquiry"
	InquiryStatusUpdated = "inquiryStatusUpdated"
	NewReview            = "newReview"
)

const (
	defaultQueueSize   = 256
	defaultSinkTimeout = 5 * time.Second
)

// Event is one notification as delivered to sinks
type Event struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Publisher is the outbound notification port. Publish must not block.
type Publisher interface {
	Publish(eventType string, payload interface{})
}

// Sink delivers events to one destination
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event Event) error
}

// NopPublisher discards every event
type NopPublisher struct{}

func (NopPublisher) Publish(string, interface{}) {}

// Bus queues events and fans them out to sinks from a single goroutine.
// Each event reaches each sink at most once; a full queue drops the event.
type Bus struct {
	queue       chan Event
	sinks       []Sink
	logger      log.FieldLogger
	sinkTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewBus creates a bus with the given queue size. Call Start to begin delivery.
func NewBus(logger log.FieldLogger, queueSize int, sinks ...Sink) *Bus {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Bus{
		queue:       make(chan Event, queueSize),
		sinks:       sinks,
		logger:      logger,
		sinkTimeout: defaultSinkTimeout,
		done:        make(chan struct{}),
	}
}

// Start launches the delivery loop
func (b *Bus) Start() {
	go b.run()
}

// Publish enqueues an event without waiting for delivery
func (b *Bus) Publish(eventType string, payload interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		metrics.IncEventDropped("closed")
		return
	}

	event := Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case b.queue <- event:
	default:
		metrics.IncEventDropped("queue_full")
		b.logger.WithField("event", eventType).Warn("Event queue full, dropping event")
	}
}

// Close stops accepting events and waits for queued ones to be delivered
// or for ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if !b.closed {
		b.closed = true
		close(b.queue)
	}
	b.mu.Unlock()

	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) run() {
	defer close(b.done)
	for event := range b.queue {
		b.dispatch(event)
	}
}

func (b *Bus) dispatch(event Event) {
	for _, sink := range b.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), b.sinkTimeout)
		err := sink.Deliver(ctx, event)
		cancel()
		if err != nil {
			metrics.IncEventDropped("sink_" + sink.Name())
			b.logger.WithError(err).WithFields(log.Fields{
				"event": event.Type,
				"sink":  sink.Name(),
			}).Warn("Failed to deliver event")
		}
	}
}
