package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/monstergarden/monstergarden/engine/metrics"
)

// Handler reacts to one event delivery. A returned error triggers a bounded
// retry; after the last attempt the failure is logged and dropped. Handler
// failures never propagate back to the write that published the event.
type Handler func(ctx context.Context, evt Event) error

const (
	defaultMaxAttempts  = 3
	defaultRetryBackoff = 100 * time.Millisecond
)

// Bus is an in-process publish/subscribe dispatcher. Publishing is
// fire-and-forget: each subscriber runs on its own goroutine, detached from the
// publisher's request lifecycle.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	wg       sync.WaitGroup

	maxAttempts  int
	retryBackoff time.Duration
}

func NewBus() *Bus {
	return &Bus{
		handlers:     make(map[string][]Handler),
		maxAttempts:  defaultMaxAttempts,
		retryBackoff: defaultRetryBackoff,
	}
}

// Subscribe registers a handler for the given event name.
func (b *Bus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches evt to every subscriber asynchronously. The caller's
// context is not reused: the triggering request may finish long before the
// handlers do.
func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	handlers := b.handlers[evt.EventName()]
	b.mu.RUnlock()

	for _, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler) {
			defer b.wg.Done()
			b.deliver(h, evt)
		}(handler)
	}
}

func (b *Bus) deliver(h Handler, evt Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked",
				slog.String("type", "event"),
				slog.String("event", evt.EventName()),
				slog.Any("error", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		if err = h(ctx, evt); err == nil {
			return
		}
		if attempt < b.maxAttempts {
			time.Sleep(time.Duration(attempt) * b.retryBackoff)
		}
	}

	metrics.TriggerFailures.WithLabelValues(evt.EventName()).Inc()
	slog.Error("Event handler failed, dropping event",
		slog.String("type", "event"),
		slog.String("event", evt.EventName()),
		slog.Int("attempts", b.maxAttempts),
		slog.Any("error", err))
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and in
// tests.
func (b *Bus) Wait() {
	b.wg.Wait()
}
