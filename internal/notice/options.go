package notice

import "github.com/jonboulle/clockwork"

// Option applies a configuration option to the Queue.
type Option func(*Queue)

// WithCapacity sets the maximum number of pending notices.
func WithCapacity(capacity int) Option {
	return func(q *Queue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithClock sets the clock used to stamp notices.
func WithClock(c clockwork.Clock) Option {
	return func(q *Queue) {
		if c != nil {
			q.clock = c
		}
	}
}
