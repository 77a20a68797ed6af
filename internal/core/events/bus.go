package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Event is the contract between domain services and whoever listens.
// Payload carries a flat map so subscribers can log or ship it without
// knowing the concrete event struct.
type Event interface {
	EventType() string
	EventID() string
	OccurredAt() time.Time
	Payload() interface{}
}

type BaseEvent struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventID() string       { return e.ID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) Payload() interface{}  { return e.Data }

type HandlerFunc func(ctx context.Context, event Event) error

// EventBus fans events out to subscribers in-process. Handlers run in
// their own goroutines; a failing handler is logged and never surfaces
// to the publisher, so a broken audit sink cannot block a clock-out.
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	logger   *slog.Logger
}

func NewEventBus(logger *slog.Logger) *EventBus {
	return &EventBus{
		handlers: make(map[string][]HandlerFunc),
		logger:   logger,
	}
}

func (b *EventBus) Subscribe(eventType string, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], fn)
	b.logger.Debug("event subscriber registered",
		"event_type", eventType,
		"subscribers", len(b.handlers[eventType]))
}

func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subscribers := b.handlers[event.EventType()]
	b.mu.RUnlock()

	if len(subscribers) == 0 {
		return nil
	}

	b.logger.Info("publishing event",
		"event_type", event.EventType(),
		"event_id", event.EventID(),
		"subscribers", len(subscribers))

	for _, fn := range subscribers {
		go func(fn HandlerFunc) {
			if err := fn(ctx, event); err != nil {
				b.logger.Error("event subscriber failed",
					"event_type", event.EventType(),
					"event_id", event.EventID(),
					"error", err)
			}
		}(fn)
	}

	return nil
}
