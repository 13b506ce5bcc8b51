// Package service wires the client-side components together and exposes
// them to the command line and the local status server.
package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/adapters/geo"
	"github.com/okian/eventsphere/internal/comments"
	"github.com/okian/eventsphere/internal/config"
	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/internal/notifications"
	"github.com/okian/eventsphere/internal/rsvp"
	"github.com/okian/eventsphere/internal/session"
	"github.com/okian/eventsphere/pkg/logger"
)

// Service owns every long-lived component of a client process.
type Service struct {
	mu sync.RWMutex

	cfg *config.Config

	// Core components
	client     *api.Client
	session    *session.Session
	notices    *notice.Queue
	geocoder   *geo.Geocoder
	discovery  *discovery.Engine
	reconciler *rsvp.Reconciler
	inbox      *notifications.Inbox
	scanners   map[string]*rsvp.Scanner

	// Injected
	clock      clockwork.Clock
	locator    geo.Locator
	httpClient *http.Client

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the clock shared by timers in every component.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocator sets the source of the current position. It takes precedence
// over the configured location.
func WithLocator(l geo.Locator) Option {
	return func(s *Service) {
		if l != nil {
			s.locator = l
		}
	}
}

// WithHTTPClient sets the HTTP client used for the backend.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Service) {
		if hc != nil {
			s.httpClient = hc
		}
	}
}

// New builds every component from cfg. Nothing touches the network until
// Start or an operation is called.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Service{
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
		scanners: make(map[string]*rsvp.Scanner),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.session = session.New(session.WithClock(s.clock), session.WithLogger(s.logger.Named("session")))
	s.notices = notice.NewQueue(notice.WithCapacity(cfg.NoticeQueueSize), notice.WithClock(s.clock))

	client, err := api.New(cfg.APIURL,
		api.WithHTTPClient(s.httpClient),
		api.WithTimeout(cfg.RequestTimeout()),
		api.WithTokenStore(s.session),
		api.WithUserAgent(cfg.UserAgent),
		api.WithLogger(s.logger.Named("api")),
	)
	if err != nil {
		return nil, fmt.Errorf("build api client: %w", err)
	}
	s.client = client
	s.session.Bind(client)

	s.geocoder, err = geo.NewGeocoder(cfg.GeocoderURL, geo.WithUserAgent(cfg.UserAgent))
	if err != nil {
		return nil, fmt.Errorf("build geocoder: %w", err)
	}

	if s.locator == nil {
		lat, lng, ok, err := cfg.Coordinates()
		if err != nil {
			return nil, err
		}
		if ok {
			s.locator = geo.StaticLocator{Lat: lat, Lng: lng}
		}
	}

	s.discovery = discovery.New(client,
		discovery.WithClock(s.clock),
		discovery.WithDebounce(cfg.Debounce()),
		discovery.WithPageLimit(cfg.PageLimit),
		discovery.WithDefaultRadius(cfg.DefaultRadiusKM),
		discovery.WithLocator(s.locator),
		discovery.WithGeocoder(s.geocoder),
		discovery.WithNotices(s.notices),
		discovery.WithLogger(s.logger.Named("discovery")),
	)
	s.reconciler = rsvp.NewReconciler(client,
		rsvp.WithNotices(s.notices),
		rsvp.WithClock(s.clock),
		rsvp.WithWorkers(cfg.CheckInWorkers),
		rsvp.WithLogger(s.logger.Named("rsvp")),
	)
	s.inbox = notifications.NewInbox(client, s.notices)

	return s, nil
}

// Start restores the session. A configured access token takes precedence
// over the refresh cookie.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.cfg.AccessToken != "" {
		s.session.SetCredentials(model.User{}, s.cfg.AccessToken)
		s.logger.Info(ctx, "using configured access token")
	} else if err := s.session.Init(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.started = true
	s.logger.Info(ctx, "eventsphere client started",
		logger.String("api", s.cfg.APIURL),
		logger.Bool("authenticated", s.session.IsAuthenticated()),
		logger.Int("pageLimit", s.cfg.PageLimit),
	)
	return nil
}

// Stop closes the discovery engine and the notice queue.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping eventsphere client...")
	_ = s.discovery.Close()
	_ = s.notices.Close()

	s.started = false
	s.logger.Info(context.Background(), "eventsphere client stopped")
}

// Config returns the configuration the service was built from.
func (s *Service) Config() *config.Config { return s.cfg }

// Client returns the REST client.
func (s *Service) Client() *api.Client { return s.client }

// Session returns the session.
func (s *Service) Session() *session.Session { return s.session }

// Notices returns the notice queue.
func (s *Service) Notices() *notice.Queue { return s.notices }

// Geocoder returns the geocoder.
func (s *Service) Geocoder() *geo.Geocoder { return s.geocoder }

// Discovery returns the discovery engine.
func (s *Service) Discovery() *discovery.Engine { return s.discovery }

// Reconciler returns the RSVP reconciler.
func (s *Service) Reconciler() *rsvp.Reconciler { return s.reconciler }

// Inbox returns the notification inbox.
func (s *Service) Inbox() *notifications.Inbox { return s.inbox }

// Thread returns a fresh comment thread for an event.
func (s *Service) Thread(eventID string) *comments.Thread {
	return comments.NewThread(eventID, s.client, s.notices)
}

// Scanner returns the ticket scanner of an event, creating it on first use
// so the cool-down carries over between calls.
func (s *Service) Scanner(eventID string) *rsvp.Scanner {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sc, ok := s.scanners[eventID]; ok {
		return sc
	}
	sc := rsvp.NewScanner(eventID, s.client,
		rsvp.WithScanClock(s.clock),
		rsvp.WithCooldown(s.cfg.ScanCooldown()),
		rsvp.WithScanNotices(s.notices),
		rsvp.WithScanLogger(s.logger.Named("scanner")),
	)
	s.scanners[eventID] = sc
	return sc
}

// SetStatus records the caller's RSVP, tracking the event first if needed.
func (s *Service) SetStatus(ctx context.Context, eventID string, status model.RSVPStatus) (rsvp.Attendance, error) {
	if _, ok := s.reconciler.Attendance(eventID); !ok {
		ev, err := s.client.GetEvent(ctx, eventID)
		if err != nil {
			s.notices.Publish(ctx, notice.Failure("Event not found", err))
			return rsvp.Attendance{}, err
		}
		s.reconciler.Track(ev)
	}
	return s.reconciler.SetStatus(ctx, eventID, status)
}

// Scan submits a ticket code through the event's scanner.
func (s *Service) Scan(ctx context.Context, eventID, ticketCode string) (model.RSVP, error) {
	return s.Scanner(eventID).Scan(ctx, ticketCode)
}

// DrainNotices returns and removes every pending notice.
func (s *Service) DrainNotices() []notice.Notice {
	return s.notices.Drain()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.discovery.Snapshot()
	return map[string]any{
		"started":       s.started,
		"authenticated": s.session.IsAuthenticated(),
		"discovery":     string(snap.State),
		"events":        len(snap.Events),
		"page":          snap.Cursor.Page,
		"hasMore":       snap.Cursor.HasMore,
		"pendingNotice": s.notices.Len(),
		"scanners":      len(s.scanners),
	}
}
