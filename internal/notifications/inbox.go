// Package notifications keeps the caller's notification inbox.
package notifications

import (
	"context"
	"sync"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/pkg/metrics"
)

// Backend is the notification API. *api.Client implements it.
type Backend interface {
	Notifications(ctx context.Context) (api.Inbox, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// Inbox mirrors the server inbox. Marking read is optimistic and rolled back
// if the write fails.
type Inbox struct {
	backend Backend
	notices notice.Publisher

	mu     sync.Mutex
	items  []model.Notification
	unread int
}

// NewInbox creates an empty inbox.
func NewInbox(b Backend, p notice.Publisher) *Inbox {
	if p == nil {
		p = notice.Discard
	}
	return &Inbox{backend: b, notices: p}
}

// Refresh replaces the inbox with the server's.
func (i *Inbox) Refresh(ctx context.Context) error {
	res, err := i.backend.Notifications(ctx)
	if err != nil {
		i.notices.Publish(ctx, notice.Failure("Failed to load notifications", err))
		return err
	}
	i.mu.Lock()
	i.items = res.Notifications
	i.unread = res.UnreadCount
	i.mu.Unlock()
	return nil
}

// Items returns a copy of the notifications, newest first.
func (i *Inbox) Items() []model.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]model.Notification, len(i.items))
	copy(out, i.items)
	return out
}

// Unread returns the unread count.
func (i *Inbox) Unread() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.unread
}

// MarkRead marks one notification as read. Already-read and unknown ids are
// sent to the server without local changes.
func (i *Inbox) MarkRead(ctx context.Context, id string) error {
	i.mu.Lock()
	flipped := false
	for k := range i.items {
		if i.items[k].ID == id && !i.items[k].IsRead {
			i.items[k].IsRead = true
			i.unread = max(0, i.unread-1)
			flipped = true
			break
		}
	}
	i.mu.Unlock()
	if flipped {
		metrics.RecordOptimisticUpdate("notification_read")
	}

	if err := i.backend.MarkRead(ctx, id); err != nil {
		if flipped {
			i.mu.Lock()
			for k := range i.items {
				if i.items[k].ID == id && i.items[k].IsRead {
					i.items[k].IsRead = false
					i.unread++
					break
				}
			}
			i.mu.Unlock()
			metrics.RecordRollback("notification_read")
		}
		i.notices.Publish(ctx, notice.Failure("Failed to mark notification as read", err))
		return err
	}
	return nil
}

// MarkAllRead marks everything read.
func (i *Inbox) MarkAllRead(ctx context.Context) error {
	i.mu.Lock()
	var flipped []string
	for k := range i.items {
		if !i.items[k].IsRead {
			i.items[k].IsRead = true
			flipped = append(flipped, i.items[k].ID)
		}
	}
	prevUnread := i.unread
	i.unread = 0
	i.mu.Unlock()
	metrics.RecordOptimisticUpdate("notification_read_all")

	if err := i.backend.MarkAllRead(ctx); err != nil {
		i.mu.Lock()
		undo := make(map[string]bool, len(flipped))
		for _, id := range flipped {
			undo[id] = true
		}
		for k := range i.items {
			if undo[i.items[k].ID] {
				i.items[k].IsRead = false
			}
		}
		i.unread = prevUnread
		i.mu.Unlock()
		metrics.RecordRollback("notification_read_all")
		i.notices.Publish(ctx, notice.Failure("Failed to mark notifications as read", err))
		return err
	}
	i.notices.Publish(ctx, notice.Success("All notifications marked as read"))
	return nil
}
