package outbox

import (
	"context"
	"errors"
	"sync"

	otelx "github.com/reallifeconnect/orgmeet/libs/otel"
)

var ErrQueueFull = errors.New("outbox queue full")

// Queue is an in-memory outbox. Events are kept in insertion order until the
// publisher marks them published. Nothing survives a restart.
type Queue struct {
	mu     sync.Mutex
	events []Event
	max    int
}

func NewQueue(max int) *Queue {
	if max <= 0 {
		max = 10000
	}
	return &Queue{max: max}
}

// Insert enqueues evt, capturing the caller's trace context so the published
// message joins the originating trace.
func (q *Queue) Insert(ctx context.Context, evt Event) error {
	if evt.Traceparent == "" {
		evt.Traceparent, evt.Tracestate = otelx.TraceContextStrings(ctx)
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= q.max {
		return ErrQueueFull
	}
	q.events = append(q.events, evt)
	return nil
}

// FetchUnpublished returns up to limit of the oldest events without removing them.
func (q *Queue) FetchUnpublished(limit int) []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	if limit > len(q.events) {
		limit = len(q.events)
	}
	out := make([]Event, limit)
	copy(out, q.events[:limit])
	return out
}

// MarkPublished drops the n oldest events.
func (q *Queue) MarkPublished(n int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if n > len(q.events) {
		n = len(q.events)
	}
	q.events = append(q.events[:0:0], q.events[n:]...)
}

func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
