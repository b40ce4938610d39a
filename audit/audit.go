// Package audit carries activity-log events out of the request path. Recording never
// blocks and never fails the caller; delivery problems are only logged.
package audit

import (
	"context"
	"log/slog"
	"time"

	"shopclock/models"
)

const (
	ActionClockIn  = "clock-in"
	ActionClockOut = "clock-out"
	ActionAdjusted = "Time Entry Adjusted"
)

type Event struct {
	Timestamp   time.Time
	Action      string
	Category    string
	Description string
	ActorName   string
}

// Recorder accepts events fire-and-forget.
type Recorder interface {
	Record(Event)
}

// Sink is a destination the Bus delivers events to.
type Sink interface {
	Write(ctx context.Context, e Event) error
}

type SinkFunc func(ctx context.Context, e Event) error

func (f SinkFunc) Write(ctx context.Context, e Event) error {
	return f(ctx, e)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(Event) {}

// Bus buffers events in a channel and fans them out to its sinks from Run.
type Bus struct {
	events chan Event
	sinks  []Sink
	logger *slog.Logger
}

func NewBus(size int, logger *slog.Logger, sinks ...Sink) *Bus {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		events: make(chan Event, size),
		sinks:  sinks,
		logger: logger,
	}
}

// Record queues e. When the buffer is full the event is dropped with a warning.
func (b *Bus) Record(e Event) {
	if e.Category == "" {
		e.Category = models.CategoryTimeTracking
	}
	select {
	case b.events <- e:
	default:
		b.logger.Warn("activity log buffer full, event dropped", "action", e.Action, "actor", e.ActorName)
	}
}

// Run delivers events until ctx is cancelled, then flushes whatever is still buffered.
func (b *Bus) Run(ctx context.Context) error {
	for {
		select {
		case e := <-b.events:
			b.deliver(ctx, e)
		case <-ctx.Done():
			b.flush()
			return nil
		}
	}
}

func (b *Bus) flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case e := <-b.events:
			b.deliver(ctx, e)
		default:
			return
		}
	}
}

func (b *Bus) deliver(ctx context.Context, e Event) {
	for _, s := range b.sinks {
		if err := s.Write(ctx, e); err != nil {
			b.logger.Error("activity log write failed", "action", e.Action, "error", err)
		}
	}
}
