package notice

import (
	"context"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/pkg/metrics"
)

const defaultCapacity = 64

// Queue is a bounded in-memory notice queue with non-blocking publish and
// channel-based consumption.
type Queue struct {
	notices  chan Notice
	capacity int
	clock    clockwork.Clock

	mu     sync.RWMutex
	closed bool
}

// NewQueue creates a queue with configuration options.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		capacity: defaultCapacity,
		clock:    clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.notices = make(chan Notice, q.capacity)
	metrics.UpdateNoticeQueue(0)
	return q
}

// Publish stamps and enqueues n. It returns false when the queue is full or
// closed; the notice is dropped in that case.
func (q *Queue) Publish(ctx context.Context, n Notice) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	if n.Time.IsZero() {
		n.Time = q.clock.Now()
	}
	if n.Kind == "" {
		n.Kind = KindNone
	}

	select {
	case q.notices <- n:
		metrics.RecordNotice(string(n.Kind))
		metrics.UpdateNoticeQueue(len(q.notices))
		return true
	case <-ctx.Done():
		return false
	default:
		return false
	}
}

// Dequeue streams notices until the queue is closed or ctx is done.
func (q *Queue) Dequeue(ctx context.Context) <-chan Notice {
	out := make(chan Notice)
	go func() {
		defer close(out)
		for n := range q.notices {
			select {
			case out <- n:
				metrics.UpdateNoticeQueue(len(q.notices))
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Drain returns every pending notice without waiting.
func (q *Queue) Drain() []Notice {
	var out []Notice
	for {
		select {
		case n, ok := <-q.notices:
			if !ok {
				return out
			}
			out = append(out, n)
		default:
			metrics.UpdateNoticeQueue(0)
			return out
		}
	}
}

// Len returns the number of pending notices.
func (q *Queue) Len() int {
	return len(q.notices)
}

// Close stops accepting notices. Pending notices can still be drained.
func (q *Queue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.notices)
	q.closed = true
	return nil
}

// IsClosed reports whether Close was called.
func (q *Queue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
