// Package api declares the local status server's routes and handlers. It
// exposes the running client's discovery feed, attendance writes and
// pending notices over HTTP on a loopback address.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	rest "github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/internal/rsvp"
)

// Feed is the discovery engine surface the handlers use.
type Feed interface {
	Snapshot() discovery.Snapshot
	SetFilter(updates ...discovery.Update)
	LoadMore(ctx context.Context) error
	Retry(ctx context.Context) error
	UseCurrentLocation(ctx context.Context) (model.GeoFilter, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SetStatus(ctx context.Context, eventID string, status model.RSVPStatus) (rsvp.Attendance, error)
	Scan(ctx context.Context, eventID, ticketCode string) (model.RSVP, error)
	DrainNotices() []notice.Notice
}

// Server wires HTTP routes for the status API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	feedHandler    *FeedHandler
	eventsHandler  *EventsHandler
	noticesHandler *NoticesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(feed Feed, deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		feedHandler:    NewFeedHandler(feed),
		eventsHandler:  NewEventsHandler(deps),
		noticesHandler: NewNoticesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /feed", MetricsMiddleware(s.feedHandler.HandleGet, "feed"))
	mux.HandleFunc("POST /feed/filter", MetricsMiddleware(s.feedHandler.HandleFilter, "feed_filter"))
	mux.HandleFunc("POST /feed/location", MetricsMiddleware(s.feedHandler.HandleLocation, "feed_location"))
	mux.HandleFunc("POST /feed/more", MetricsMiddleware(s.feedHandler.HandleMore, "feed_more"))
	mux.HandleFunc("POST /feed/retry", MetricsMiddleware(s.feedHandler.HandleRetry, "feed_retry"))
	mux.HandleFunc("POST /events/{id}/rsvp", MetricsMiddleware(s.eventsHandler.HandleRSVP, "rsvp"))
	mux.HandleFunc("POST /events/{id}/scan", MetricsMiddleware(s.eventsHandler.HandleScan, "scan"))
	mux.HandleFunc("GET /notices", MetricsMiddleware(s.noticesHandler.HandleDrain, "notices"))
}

type errorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	resp := errorResponse{Code: code, Message: msg}
	var apiErr *rest.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			resp.Message = apiErr.Message
		}
		resp.Errors = apiErr.Errors
	}
	writeJSON(w, status, resp)
}

// writeFailure maps a component error onto a status code.
func writeFailure(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, rsvp.ErrInFlight), errors.Is(err, rsvp.ErrScanInFlight), errors.Is(err, rsvp.ErrCoolingDown):
		writeError(w, http.StatusTooManyRequests, "busy", err)
	case errors.Is(err, rsvp.ErrInvalidStatus), errors.Is(err, rsvp.ErrEmptyCode):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, rest.ErrNotFound), errors.Is(err, rsvp.ErrNotTracked):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, rest.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, rest.ErrRejected):
		writeError(w, http.StatusUnprocessableEntity, "rejected", err)
	case errors.Is(err, discovery.ErrLocationUnavailable):
		writeError(w, http.StatusServiceUnavailable, "location_unavailable", err)
	default:
		writeError(w, http.StatusBadGateway, "upstream", err)
	}
}
