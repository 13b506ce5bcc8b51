// Package discovery keeps a de-duplicated, paginated list of events for the
// current filter.
//
// Filter changes are coalesced by a debounce window and start a new filter
// session: the list is cleared and page 1 is fetched. LoadMore appends the
// next page of the current session. Each session has a generation number and
// responses from superseded sessions are discarded, so a slow page from an
// old filter can never leak into the new list.
//
//	IDLE -> LOADING -> READY <-> LOADING_MORE -> READY
//	LOADING / LOADING_MORE -> ERROR -> (SetFilter | Retry)
package discovery

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/adapters/geo"
	"github.com/okian/eventsphere/internal/domain/dedupe"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/internal/timer"
	"github.com/okian/eventsphere/pkg/logger"
	"github.com/okian/eventsphere/pkg/metrics"
)

const (
	defaultWindow   = 300 * time.Millisecond
	defaultLimit    = 12
	defaultRadiusKm = 10

	// CurrentLocationName labels the position when reverse geocoding fails.
	CurrentLocationName = "Current Location"
)

// State is the engine's position in the fetch state machine.
type State string

// Engine states.
const (
	StateIdle        State = "IDLE"
	StateLoading     State = "LOADING"
	StateReady       State = "READY"
	StateLoadingMore State = "LOADING_MORE"
	StateError       State = "ERROR"
)

// Source lists events. *api.Client implements it.
type Source interface {
	ListEvents(ctx context.Context, p api.ListParams) (model.Page[model.Event], error)
}

// ReverseGeocoder names a position. *geo.Geocoder implements it.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, c geo.Coordinates) (geo.Place, error)
}

// Snapshot is a point-in-time copy of the engine state.
type Snapshot struct {
	State      State         `json:"state"`
	Filter     model.Filter  `json:"filter"`
	Events     []model.Event `json:"events"`
	Cursor     model.Cursor  `json:"cursor"`
	Err        error         `json:"-"`
	Generation uint64        `json:"generation"`
}

// noLocator stands in when the client has no way to obtain a position.
var noLocator = geo.LocatorFunc(func(context.Context) (geo.Coordinates, error) {
	return geo.Coordinates{}, geo.ErrUnavailable
})

// Engine is the discovery/filter engine. It is safe for concurrent use.
type Engine struct {
	source   Source
	clock    clockwork.Clock
	window   time.Duration
	debounce *timer.Debouncer
	limit    int
	radiusKm float64
	locator  geo.Locator
	geocoder ReverseGeocoder
	notices  notice.Publisher
	logger   logger.Logger
	onChange func(Snapshot)
	seen     dedupe.Deduper

	base   context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	filter   model.Filter
	events   []model.Event
	cursor   model.Cursor
	err      error
	gen      uint64
	inFlight bool
	closed   bool
}

// New creates an engine over source. The engine stays IDLE until the first
// SetFilter or Load.
func New(source Source, opts ...Option) *Engine {
	e := &Engine{
		source:   source,
		clock:    clockwork.NewRealClock(),
		window:   defaultWindow,
		limit:    defaultLimit,
		radiusKm: defaultRadiusKm,
		notices:  notice.Discard,
		state:    StateIdle,
		cursor:   model.NewCursor(0, 1),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("discovery")
	}
	if e.seen == nil {
		e.seen = dedupe.NewInMemoryDeduper()
	}
	if e.locator == nil {
		e.locator = noLocator
	}
	e.debounce = timer.NewDebouncer(e.clock, e.window)
	e.base, e.cancel = context.WithCancel(context.Background())
	return e
}

// SetFilter merges updates into the current filter and schedules a
// debounced reset-and-refetch of page 1. Calls within the window coalesce
// into one fetch carrying every update.
func (e *Engine) SetFilter(updates ...Update) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	for _, u := range updates {
		u(&e.filter)
	}
	e.mu.Unlock()

	e.debounce.Trigger(func() {
		_ = e.startSession(e.base)
	})
	e.notify()
}

// Load starts a new filter session immediately, skipping the debounce, and
// waits for page 1.
func (e *Engine) Load(ctx context.Context) error {
	e.debounce.Cancel()
	return e.startSession(ctx)
}

// ClearLocation removes the location restriction.
func (e *Engine) ClearLocation() {
	e.SetFilter(Anywhere())
}

// LoadMore fetches the next page of the current session and appends it. It
// is a no-op unless the engine is READY, more pages exist and no fetch is in
// flight, so scroll floods are harmless.
func (e *Engine) LoadMore(ctx context.Context) error {
	e.mu.Lock()
	if e.closed || e.state != StateReady || !e.cursor.HasMore || e.inFlight {
		e.mu.Unlock()
		return nil
	}
	page := e.cursor.Page + 1
	req := e.beginLocked(StateLoadingMore)
	e.mu.Unlock()

	e.notify()
	return e.fetch(ctx, req, page)
}

// Retry re-issues the fetch that failed. Outside ERROR it is a no-op.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	if e.closed || e.state != StateError || e.inFlight {
		e.mu.Unlock()
		return nil
	}
	next, page := StateLoadingMore, e.cursor.Page+1
	if e.cursor.Page == 0 {
		next, page = StateLoading, 1
	}
	req := e.beginLocked(next)
	e.mu.Unlock()

	e.notify()
	return e.fetch(ctx, req, page)
}

// UseCurrentLocation filters by the current position within the default
// radius. Reverse geocoding is best-effort. If the position cannot be
// obtained the filter is left unchanged, a notice is published and
// ErrLocationUnavailable is returned.
func (e *Engine) UseCurrentLocation(ctx context.Context) (model.GeoFilter, error) {
	pos, err := e.locator.Locate(ctx)
	if err != nil {
		e.notices.Publish(ctx, notice.Failure("Unable to get your location", err))
		e.logger.Warn(ctx, "locate failed", logger.Error(err))
		return model.GeoFilter{}, errors.Join(ErrLocationUnavailable, err)
	}

	name := CurrentLocationName
	if e.geocoder != nil {
		place, gerr := e.geocoder.Reverse(ctx, pos)
		if gerr == nil {
			name = place.ShortName()
		} else {
			e.logger.Debug(ctx, "reverse geocode failed", logger.Error(gerr))
		}
	}

	g := model.GeoFilter{Lat: pos.Lat, Lng: pos.Lng, RadiusKm: e.radiusKm, Name: name}
	e.SetFilter(Near(g))
	return g, nil
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Close cancels the pending debounce and any in-flight fetch. Responses
// arriving afterwards are dropped.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	e.debounce.Cancel()
	e.cancel()
	return nil
}

// fetchReq pins a fetch to the session it was issued in.
type fetchReq struct {
	gen    uint64
	filter model.Filter
	kind   string
}

func (e *Engine) startSession(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.gen++
	e.events = nil
	e.cursor = model.NewCursor(0, 1)
	e.err = nil
	e.seen.Reset()
	req := e.beginLocked(StateLoading)
	e.mu.Unlock()

	metrics.UpdateDiscoveryEvents(0)
	e.notify()
	return e.fetch(ctx, req, 1)
}

// beginLocked moves to a loading state and marks a fetch in flight.
func (e *Engine) beginLocked(next State) fetchReq {
	e.state = next
	e.inFlight = true
	kind := "more"
	if next == StateLoading {
		kind = "reset"
	}
	return fetchReq{gen: e.gen, filter: e.filter.Clone(), kind: kind}
}

func (e *Engine) fetch(ctx context.Context, req fetchReq, page int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(e.base, cancel)
	defer stop()

	res, err := e.source.ListEvents(ctx, api.ParamsFor(req.filter, page, e.limit))

	e.mu.Lock()
	if e.closed || req.gen != e.gen {
		e.mu.Unlock()
		metrics.RecordDiscoveryFetch(req.kind, "stale")
		e.logger.Debug(ctx, "discarded stale page",
			logger.Int("page", page),
			logger.Any("generation", req.gen))
		return nil
	}
	e.inFlight = false

	if err != nil {
		e.state = StateError
		e.err = err
		e.mu.Unlock()

		metrics.RecordDiscoveryFetch(req.kind, "error")
		e.logger.Warn(ctx, "event fetch failed", logger.Int("page", page), logger.Error(err))
		e.notices.Publish(ctx, notice.Failure("Could not load events", err))
		e.notify()
		return err
	}

	for _, ev := range res.Data {
		if e.seen.SeenAndRecord(ev.ID) {
			continue
		}
		e.events = append(e.events, ev)
	}
	e.cursor = model.NewCursor(page, res.Meta.TotalPages)
	e.state = StateReady
	e.err = nil
	count := len(e.events)
	e.mu.Unlock()

	metrics.RecordDiscoveryFetch(req.kind, "ok")
	metrics.UpdateDiscoveryEvents(count)
	e.notify()
	return nil
}

func (e *Engine) snapshotLocked() Snapshot {
	events := make([]model.Event, len(e.events))
	copy(events, e.events)
	return Snapshot{
		State:      e.state,
		Filter:     e.filter.Clone(),
		Events:     events,
		Cursor:     e.cursor,
		Err:        e.err,
		Generation: e.gen,
	}
}

func (e *Engine) notify() {
	if e.onChange == nil {
		return
	}
	e.onChange(e.Snapshot())
}
