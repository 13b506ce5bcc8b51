// Package comments keeps the discussion thread of one event.
package comments

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
)

var (
	// ErrEmptyMessage is returned for blank comments; nothing is sent.
	ErrEmptyMessage = errors.New("comment is empty")
	// ErrUnknownComment is returned when the thread has no such comment.
	ErrUnknownComment = errors.New("comment not found")
)

// Backend is the comment API. *api.Client implements it.
type Backend interface {
	Comments(ctx context.Context, eventID string, page int) (api.CommentPage, error)
	PostComment(ctx context.Context, eventID, message, parentID string) (model.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

// Thread is the comment tree of one event. Top-level comments are newest
// first; replies are oldest first.
type Thread struct {
	eventID string
	backend Backend
	notices notice.Publisher

	mu         sync.Mutex
	comments   []model.Comment
	page       int
	totalPages int
}

// NewThread creates an empty thread for eventID.
func NewThread(eventID string, b Backend, p notice.Publisher) *Thread {
	if p == nil {
		p = notice.Discard
	}
	return &Thread{eventID: eventID, backend: b, notices: p}
}

// Load fetches a page. Page 1 replaces the thread, later pages append.
func (t *Thread) Load(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	res, err := t.backend.Comments(ctx, t.eventID, page)
	if err != nil {
		t.notices.Publish(ctx, notice.Failure("Failed to load comments", err))
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if page == 1 {
		t.comments = res.Comments
	} else {
		t.comments = append(t.comments, res.Comments...)
	}
	t.page = page
	t.totalPages = max(res.TotalPages, 1)
	return nil
}

// HasMore reports whether another page can be loaded.
func (t *Thread) HasMore() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page < t.totalPages
}

// Page returns the last loaded page number.
func (t *Thread) Page() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.page
}

// Comments returns a deep copy of the tree.
func (t *Thread) Comments() []model.Comment {
	t.mu.Lock()
	defer t.mu.Unlock()
	return cloneTree(t.comments)
}

// Post adds a top-level comment.
func (t *Thread) Post(ctx context.Context, message string) (model.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.Comment{}, ErrEmptyMessage
	}
	c, err := t.backend.PostComment(ctx, t.eventID, message, "")
	if err != nil {
		t.notices.Publish(ctx, notice.Failure("Failed to post comment", err))
		return model.Comment{}, err
	}

	t.mu.Lock()
	t.comments = append([]model.Comment{c}, t.comments...)
	t.mu.Unlock()
	return c, nil
}

// Reply answers the comment parentID, which may be nested at any depth.
func (t *Thread) Reply(ctx context.Context, parentID, message string) (model.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return model.Comment{}, ErrEmptyMessage
	}
	t.mu.Lock()
	found := find(t.comments, parentID) != nil
	t.mu.Unlock()
	if !found {
		return model.Comment{}, ErrUnknownComment
	}

	c, err := t.backend.PostComment(ctx, t.eventID, message, parentID)
	if err != nil {
		t.notices.Publish(ctx, notice.Failure("Failed to post reply", err))
		return model.Comment{}, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if parent := find(t.comments, parentID); parent != nil {
		parent.Replies = append(parent.Replies, c)
	}
	return c, nil
}

// Delete removes a comment and its replies. Ids missing from the loaded
// tree are rejected before the backend is asked.
func (t *Thread) Delete(ctx context.Context, id string) error {
	t.mu.Lock()
	found := find(t.comments, id) != nil
	t.mu.Unlock()
	if !found {
		return ErrUnknownComment
	}

	if err := t.backend.DeleteComment(ctx, id); err != nil {
		t.notices.Publish(ctx, notice.Failure("Failed to delete comment", err))
		return err
	}

	t.mu.Lock()
	t.comments, _ = remove(t.comments, id)
	t.mu.Unlock()
	return nil
}

func find(list []model.Comment, id string) *model.Comment {
	for i := range list {
		if list[i].ID == id {
			return &list[i]
		}
		if c := find(list[i].Replies, id); c != nil {
			return c
		}
	}
	return nil
}

func remove(list []model.Comment, id string) ([]model.Comment, bool) {
	for i := range list {
		if list[i].ID == id {
			out := make([]model.Comment, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
		if replies, ok := remove(list[i].Replies, id); ok {
			list[i].Replies = replies
			return list, true
		}
	}
	return list, false
}

func cloneTree(list []model.Comment) []model.Comment {
	if list == nil {
		return nil
	}
	out := make([]model.Comment, len(list))
	for i, c := range list {
		c.Replies = cloneTree(c.Replies)
		out[i] = c
	}
	return out
}
