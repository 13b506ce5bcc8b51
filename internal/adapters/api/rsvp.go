package api

import (
	"context"
	"net/http"

	"github.com/okian/eventsphere/internal/domain/model"
)

// RSVP records the caller's attendance intent for an event.
func (c *Client) RSVP(ctx context.Context, eventID string, status model.RSVPStatus) (model.RSVP, error) {
	var r model.RSVP
	body := map[string]model.RSVPStatus{"status": status}
	err := c.do(ctx, request{op: "rsvp.set", method: http.MethodPost, path: "/events/" + escape(eventID) + "/rsvp", body: body}, &r)
	return r, err
}

// Attendees lists the RSVPs of an event. Organizer only.
func (c *Client) Attendees(ctx context.Context, eventID string) ([]model.RSVP, error) {
	var out []model.RSVP
	err := c.do(ctx, request{op: "rsvp.attendees", method: http.MethodGet, path: "/events/" + escape(eventID) + "/attendees"}, &out)
	return out, err
}

// CheckIn marks an attendee as present.
func (c *Client) CheckIn(ctx context.Context, eventID, userID string) error {
	path := "/events/" + escape(eventID) + "/checkin/" + escape(userID)
	return c.do(ctx, request{op: "rsvp.checkin", method: http.MethodPost, path: path}, nil)
}

// ScanTicket submits an opaque ticket code for validation and check-in. The
// returned RSVP is empty when the backend sends no record.
func (c *Client) ScanTicket(ctx context.Context, eventID, ticketCode string) (model.RSVP, error) {
	var r model.RSVP
	body := map[string]string{"ticketCode": ticketCode}
	err := c.do(ctx, request{op: "rsvp.scan", method: http.MethodPost, path: "/events/" + escape(eventID) + "/scan", body: body}, &r)
	return r, err
}

// MyRSVPs lists the caller's RSVPs with populated events.
func (c *Client) MyRSVPs(ctx context.Context) ([]model.RSVP, error) {
	var out []model.RSVP
	err := c.do(ctx, request{op: "rsvp.mine", method: http.MethodGet, path: "/events/my-rsvps"}, &out)
	return out, err
}
