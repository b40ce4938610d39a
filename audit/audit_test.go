package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"shopclock/models"
)

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) Write(ctx context.Context, e Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
	return nil
}

func (c *collector) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

func TestBus_DeliversToEverySink(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	failing := SinkFunc(func(ctx context.Context, e Event) error { return errors.New("disk full") })
	c := &collector{}
	bus := NewBus(8, logger, failing, c)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		bus.Run(ctx)
		close(done)
	}()

	bus.Record(Event{Action: ActionClockIn, Description: "Alex clocked in", ActorName: "Alex", Timestamp: time.Now()})

	deadline := time.Now().Add(2 * time.Second)
	for c.len() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if c.len() != 1 {
		t.Fatalf("expected 1 delivered event, got %d", c.len())
	}
	if got := c.events[0].Category; got != models.CategoryTimeTracking {
		t.Errorf("Category = %q, want default %q", got, models.CategoryTimeTracking)
	}
	if !strings.Contains(logs.String(), "activity log write failed") {
		t.Errorf("sink failure should be logged, got %q", logs.String())
	}
}

func TestBus_DropsWhenFull(t *testing.T) {
	var logs bytes.Buffer
	c := &collector{}
	bus := NewBus(2, slog.New(slog.NewTextHandler(&logs, nil)), c)

	for i := 0; i < 3; i++ {
		bus.Record(Event{Action: ActionClockOut})
	}
	if !strings.Contains(logs.String(), "event dropped") {
		t.Errorf("expected drop warning, got %q", logs.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if c.len() != 2 {
		t.Fatalf("expected the 2 buffered events to be flushed, got %d", c.len())
	}
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	r.Record(Event{Action: ActionAdjusted})
}

func TestSlogSink(t *testing.T) {
	var logs bytes.Buffer
	sink := SlogSink{Logger: slog.New(slog.NewTextHandler(&logs, nil))}
	err := sink.Write(context.Background(), Event{
		Action:      ActionAdjusted,
		Category:    models.CategoryTimeTracking,
		Description: "Adjusted time entry for Alex",
		ActorName:   "Sam",
	})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := logs.String()
	for _, want := range []string{"Adjusted time entry for Alex", "actor=Sam", `activity="Time Entry Adjusted"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log line %q missing %q", out, want)
		}
	}
}
