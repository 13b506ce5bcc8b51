package rsvp

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/pkg/logger"
)

// Option applies a configuration option to the Reconciler.
type Option func(*Reconciler)

// WithNotices sets where user-visible outcomes are published.
func WithNotices(p notice.Publisher) Option {
	return func(r *Reconciler) {
		if p != nil {
			r.notices = p
		}
	}
}

// WithClock sets the clock used for check-in timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(r *Reconciler) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithWorkers bounds concurrent writes in CheckInAll.
func WithWorkers(n int) Option {
	return func(r *Reconciler) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// ScannerOption applies a configuration option to the Scanner.
type ScannerOption func(*Scanner)

// WithScanClock sets the clock driving the cool-down.
func WithScanClock(c clockwork.Clock) ScannerOption {
	return func(s *Scanner) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithCooldown sets the pause enforced after each scan attempt.
func WithCooldown(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		if d >= 0 {
			s.period = d
		}
	}
}

// WithScanNotices sets where scan outcomes are published.
func WithScanNotices(p notice.Publisher) ScannerOption {
	return func(s *Scanner) {
		if p != nil {
			s.notices = p
		}
	}
}

// WithScanLogger sets a custom logger.
func WithScanLogger(l logger.Logger) ScannerOption {
	return func(s *Scanner) {
		if l != nil {
			s.logger = l
		}
	}
}
