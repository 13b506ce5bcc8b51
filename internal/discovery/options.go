package discovery

import (
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/adapters/geo"
	"github.com/okian/eventsphere/internal/domain/dedupe"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/pkg/logger"
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the clock driving the debounce timer.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithDebounce sets the filter coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.window = d
		}
	}
}

// WithPageLimit sets the page size requested from the backend.
func WithPageLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithDefaultRadius sets the radius used by UseCurrentLocation.
func WithDefaultRadius(km float64) Option {
	return func(e *Engine) {
		if km > 0 {
			e.radiusKm = km
		}
	}
}

// WithLocator sets the source of the current position.
func WithLocator(l geo.Locator) Option {
	return func(e *Engine) {
		if l != nil {
			e.locator = l
		}
	}
}

// WithGeocoder sets the reverse geocoder used to name the current position.
func WithGeocoder(g ReverseGeocoder) Option {
	return func(e *Engine) {
		if g != nil {
			e.geocoder = g
		}
	}
}

// WithNotices sets where user-visible failures are published.
func WithNotices(p notice.Publisher) Option {
	return func(e *Engine) {
		if p != nil {
			e.notices = p
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithOnChange registers a callback invoked after every state change. It
// runs outside the engine lock and may call Snapshot.
func WithOnChange(f func(Snapshot)) Option {
	return func(e *Engine) {
		e.onChange = f
	}
}

// WithDeduper replaces the per-session seen set.
func WithDeduper(d dedupe.Deduper) Option {
	return func(e *Engine) {
		if d != nil {
			e.seen = d
		}
	}
}
