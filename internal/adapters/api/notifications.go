package api

import (
	"context"
	"net/http"

	"github.com/okian/eventsphere/internal/domain/model"
)

// Inbox is the caller's notification list.
type Inbox struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int                  `json:"unreadCount"`
}

// Notifications fetches the inbox.
func (c *Client) Notifications(ctx context.Context) (Inbox, error) {
	var out Inbox
	err := c.do(ctx, request{op: "notifications.list", method: http.MethodGet, path: "/notifications"}, &out)
	return out, err
}

// MarkRead marks one notification as read.
func (c *Client) MarkRead(ctx context.Context, id string) error {
	return c.do(ctx, request{op: "notifications.read", method: http.MethodPut, path: "/notifications/" + escape(id) + "/read"}, nil)
}

// MarkAllRead marks every notification as read.
func (c *Client) MarkAllRead(ctx context.Context) error {
	return c.do(ctx, request{op: "notifications.readAll", method: http.MethodPut, path: "/notifications/read-all"}, nil)
}
