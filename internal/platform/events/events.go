package events

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"hrcontracts/internal/platform/metrics"
)

const (
	TypeContractCreated    = "contract.created"
	TypeContractApproved   = "contract.approved"
	TypeContractDeleted    = "contract.deleted"
	TypeContractExtended   = "contract.extended"
	TypeContractTerminated = "contract.terminated"
	TypeContractExpiring   = "contract.expiring"
	TypeNovedadCreated     = "novedad.created"
	TypeOnboardingToggled  = "onboarding.toggled"
	TypeUserStatusChanged  = "user.status_changed"
	TypeUserPasswordReset  = "user.password_reset"
)

type Event struct {
	Type       string         `json:"type"`
	EntityID   string         `json:"entityId"`
	ActorID    string         `json:"actorId,omitempty"`
	Message    string         `json:"message"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type Sink interface {
	Name() string
	Handle(ctx context.Context, event Event) error
}

type Publisher interface {
	Publish(event Event) bool
}

// Bus fans published events out to sinks from a single dispatcher goroutine.
type Bus struct {
	queue   chan Event
	sinks   []Sink
	logger  *zap.Logger
	metrics *metrics.Collector
	now     func() time.Time

	startOnce sync.Once
	closeOnce sync.Once
	done      chan struct{}

	// mu guards closed so Publish never sends on a closed queue.
	mu     sync.RWMutex
	closed bool
}

func NewBus(logger *zap.Logger, m *metrics.Collector, buffer int, sinks ...Sink) *Bus {
	if buffer <= 0 {
		buffer = 256
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		queue:   make(chan Event, buffer),
		sinks:   sinks,
		logger:  logger.Named("events"),
		metrics: m,
		now:     time.Now,
		done:    make(chan struct{}),
	}
}

// Publish never blocks; the event is dropped when the buffer is full or the bus is closed.
func (b *Bus) Publish(event Event) bool {
	if b == nil {
		return false
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = b.now().UTC()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		b.logger.Warn("event dropped, bus closed", zap.String("type", event.Type), zap.String("entity_id", event.EntityID))
		b.metrics.EventDropped()
		return false
	}
	select {
	case b.queue <- event:
		return true
	default:
		b.logger.Warn("event dropped, buffer full", zap.String("type", event.Type), zap.String("entity_id", event.EntityID))
		b.metrics.EventDropped()
		return false
	}
}

func (b *Bus) Start(ctx context.Context) {
	b.startOnce.Do(func() {
		go b.run(ctx)
	})
}

// Close stops accepting events and waits until queued events are dispatched.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.queue)
		b.mu.Unlock()
	})
	<-b.done
}

func (b *Bus) run(ctx context.Context) {
	defer close(b.done)
	for event := range b.queue {
		b.dispatch(ctx, event)
	}
}

func (b *Bus) dispatch(ctx context.Context, event Event) {
	for _, sink := range b.sinks {
		if err := sink.Handle(context.WithoutCancel(ctx), event); err != nil {
			b.logger.Error("event sink failed",
				zap.String("sink", sink.Name()),
				zap.String("type", event.Type),
				zap.String("entity_id", event.EntityID),
				zap.Error(err),
			)
		}
	}
}

type NopPublisher struct{}

func (NopPublisher) Publish(Event) bool { return true }
