package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/domain/model"
)

// filterRequest is a partial filter update. Absent fields are left alone;
// an empty category clears it and "anywhere" clears the location.
type filterRequest struct {
	Search   *string          `json:"search"`
	Category *model.Category  `json:"category"`
	Location *model.GeoFilter `json:"location"`
	Anywhere bool             `json:"anywhere"`
}

func (f filterRequest) updates() ([]discovery.Update, error) {
	var out []discovery.Update
	if f.Search != nil {
		out = append(out, discovery.Search(*f.Search))
	}
	if f.Category != nil {
		switch {
		case *f.Category == "":
			out = append(out, discovery.AnyCategory())
		case f.Category.Valid():
			out = append(out, discovery.Category(*f.Category))
		default:
			return nil, fmt.Errorf("%w: unknown category %q", ErrBadRequest, *f.Category)
		}
	}
	if f.Location != nil && f.Anywhere {
		return nil, fmt.Errorf("%w: location and anywhere are exclusive", ErrBadRequest)
	}
	if f.Location != nil {
		if err := validLocation(*f.Location); err != nil {
			return nil, err
		}
		out = append(out, discovery.Near(*f.Location))
	}
	if f.Anywhere {
		out = append(out, discovery.Anywhere())
	}
	return out, nil
}

func validLocation(g model.GeoFilter) error {
	switch {
	case g.Lat < -90 || g.Lat > 90:
		return fmt.Errorf("%w: lat %v outside [-90, 90]", ErrBadRequest, g.Lat)
	case g.Lng < -180 || g.Lng > 180:
		return fmt.Errorf("%w: lng %v outside [-180, 180]", ErrBadRequest, g.Lng)
	case g.RadiusKm <= 0:
		return fmt.Errorf("%w: radius must be positive", ErrBadRequest)
	}
	return nil
}

type feedResponse struct {
	State      discovery.State `json:"state"`
	Filter     model.Filter    `json:"filter"`
	Events     []model.Event   `json:"events"`
	Cursor     model.Cursor    `json:"cursor"`
	Error      string          `json:"error,omitempty"`
	Generation uint64          `json:"generation"`
}

func toFeedResponse(s discovery.Snapshot) feedResponse {
	resp := feedResponse{
		State:      s.State,
		Filter:     s.Filter,
		Events:     s.Events,
		Cursor:     s.Cursor,
		Generation: s.Generation,
	}
	if s.Err != nil {
		resp.Error = s.Err.Error()
	}
	return resp
}

// FeedHandler serves the discovery feed.
type FeedHandler struct {
	feed Feed
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(feed Feed) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// HandleGet handles GET /feed requests.
func (h *FeedHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toFeedResponse(h.feed.Snapshot()))
}

// HandleFilter handles POST /feed/filter requests. The refetch is debounced,
// so the response carries the merged filter, not the new results.
func (h *FeedHandler) HandleFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("%w: %w", ErrBadRequest, err))
		return
	}
	updates, err := req.updates()
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	h.feed.SetFilter(updates...)
	writeJSON(w, http.StatusAccepted, toFeedResponse(h.feed.Snapshot()))
}

// HandleLocation handles POST /feed/location requests. It filters by the
// client's current position; like a filter change, the refetch is debounced.
func (h *FeedHandler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	if _, err := h.feed.UseCurrentLocation(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, toFeedResponse(h.feed.Snapshot()))
}

// HandleMore handles POST /feed/more requests.
func (h *FeedHandler) HandleMore(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.feed.LoadMore)
}

// HandleRetry handles POST /feed/retry requests.
func (h *FeedHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, h.feed.Retry)
}

func (h *FeedHandler) run(w http.ResponseWriter, r *http.Request, op func(context.Context) error) {
	if err := op(r.Context()); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toFeedResponse(h.feed.Snapshot()))
}
