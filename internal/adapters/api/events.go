package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/eventsphere/internal/domain/model"
)

// ListParams are the query parameters of GET /events. Zero values are
// omitted from the query string.
type ListParams struct {
	Search   string
	Category model.Category
	Lat      *float64
	Lng      *float64
	RadiusKm float64
	Page     int
	Limit    int
}

// ParamsFor builds list parameters for a filter and page.
func ParamsFor(f model.Filter, page, limit int) ListParams {
	p := ListParams{Search: f.Search, Page: page, Limit: limit}
	if f.Category != nil {
		p.Category = *f.Category
	}
	if f.Location != nil {
		lat, lng := f.Location.Lat, f.Location.Lng
		p.Lat, p.Lng = &lat, &lng
		p.RadiusKm = f.Location.RadiusKm
	}
	return p
}

// Values encodes the parameters.
func (p ListParams) Values() url.Values {
	q := url.Values{}
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Category != "" {
		q.Set("category", string(p.Category))
	}
	if p.Lat != nil && p.Lng != nil {
		q.Set("lat", strconv.FormatFloat(*p.Lat, 'f', -1, 64))
		q.Set("lng", strconv.FormatFloat(*p.Lng, 'f', -1, 64))
		if p.RadiusKm > 0 {
			q.Set("radius", strconv.FormatFloat(p.RadiusKm, 'f', -1, 64))
		}
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	return q
}

// EventInput is the writable part of an event.
type EventInput struct {
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	Category      model.Category       `json:"category"`
	Visibility    model.Visibility     `json:"visibility,omitempty"`
	StartDateTime string               `json:"startDateTime"`
	EndDateTime   string               `json:"endDateTime"`
	Location      model.Point          `json:"location"`
	Capacity      int                  `json:"capacity"`
	Community     string               `json:"community,omitempty"`
	Photos        []string             `json:"photos,omitempty"`
	RecurringRule *model.RecurringRule `json:"recurringRule,omitempty"`
}

// ListEvents returns one page of events.
func (c *Client) ListEvents(ctx context.Context, p ListParams) (model.Page[model.Event], error) {
	var page model.Page[model.Event]
	err := c.do(ctx, request{op: "events.list", method: http.MethodGet, path: "/events", query: p.Values()}, &page)
	return page, err
}

// GetEvent fetches one event.
func (c *Client) GetEvent(ctx context.Context, id string) (model.Event, error) {
	var ev model.Event
	err := c.do(ctx, request{op: "events.get", method: http.MethodGet, path: "/events/" + escape(id)}, &ev)
	return ev, err
}

// CreateEvent creates an event owned by the current user.
func (c *Client) CreateEvent(ctx context.Context, in EventInput) (model.Event, error) {
	var ev model.Event
	err := c.do(ctx, request{op: "events.create", method: http.MethodPost, path: "/events", body: in}, &ev)
	return ev, err
}

// UpdateEvent replaces the writable fields of an event.
func (c *Client) UpdateEvent(ctx context.Context, id string, in EventInput) (model.Event, error) {
	var ev model.Event
	err := c.do(ctx, request{op: "events.update", method: http.MethodPut, path: "/events/" + escape(id), body: in}, &ev)
	return ev, err
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.do(ctx, request{op: "events.delete", method: http.MethodDelete, path: "/events/" + escape(id)}, nil)
}

// AddPhoto appends an already-uploaded photo URL to an event.
func (c *Client) AddPhoto(ctx context.Context, id, photoURL string) (model.Event, error) {
	var ev model.Event
	body := map[string]string{"url": photoURL}
	err := c.do(ctx, request{op: "events.photo", method: http.MethodPost, path: "/events/" + escape(id) + "/photos", body: body}, &ev)
	return ev, err
}
