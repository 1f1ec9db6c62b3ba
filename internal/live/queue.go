package live

import (
	"context"
	"sync"

	"github.com/dynamic-tournament/live-bracket/internal/frame"
)

// DefaultSubscriberQueueCap is the suggested default bounded FIFO
// capacity per subscriber (spec §4.4), used when a Registry is built
// with a non-positive cap.
const DefaultSubscriberQueueCap = 256

// EventQueue is the read side of a subscriber's event stream, the
// shape internal/session drains into the WebSocket writer half.
type EventQueue interface {
	// Next blocks until an event is available, the queue is closed, or
	// ctx is done (the second return is false in the latter two cases).
	Next(ctx context.Context) (frame.Event, bool)
}

// subscriberQueue is a bounded FIFO of events with drop-oldest
// backpressure: when full, the oldest queued events are displaced and an
// Error(Lagged) marker takes their place at the front, so the
// subscriber's next delivery reports the loss instead of silently
// skipping ahead (spec §4.4, §7). The marker counts against cap.
//
// Grounded on bureau-foundation-bureau/cmd/bureau-telemetry-relay/buffer.go's
// drop-oldest bounded buffer (push displaces the oldest entry once full
// rather than blocking or dropping the newest), generalized from "drop
// the oldest raw entry" to "drop the oldest event and mark the gap
// Lagged" since spec §4.4 requires the subscriber to stay subscribed
// and know it missed something.
type subscriberQueue struct {
	mu     sync.Mutex
	cap    int
	items  []frame.Event
	notify chan struct{}
	closed bool
}

func newSubscriberQueue(cap int) *subscriberQueue {
	if cap <= 0 {
		cap = DefaultSubscriberQueueCap
	}
	return &subscriberQueue{cap: cap, notify: make(chan struct{}, 1)}
}

func isLaggedMarker(ev frame.Event) bool {
	return ev.Kind == frame.EventError && ev.ErrKind == frame.ErrorLagged
}

func (q *subscriberQueue) push(ev frame.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}

	if len(q.items) >= q.cap {
		if len(q.items) > 0 && isLaggedMarker(q.items[0]) {
			// Already lagged: drop the next-oldest real event instead
			// of the marker itself, so the Lagged notice survives.
			if len(q.items) > 1 {
				q.items = append(q.items[:1], q.items[2:]...)
			}
		} else {
			// The marker takes the oldest event's place, and the
			// next-oldest is dropped too so the new event fits in cap.
			rest := q.items[1:]
			if len(rest) > 0 {
				rest = rest[1:]
			}
			q.items = append([]frame.Event{frame.ErrorEvent(frame.ErrorLagged)}, rest...)
		}
	}

	q.items = append(q.items, ev)
	q.wake()
}

func (q *subscriberQueue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Next blocks until an event is available, the queue is closed, or ctx
// is done.
func (q *subscriberQueue) Next(ctx context.Context) (frame.Event, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			ev := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return ev, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return frame.Event{}, false
		}

		select {
		case <-q.notify:
		case <-ctx.Done():
			return frame.Event{}, false
		}
	}
}

func (q *subscriberQueue) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.wake()
}
