package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/okian/eventsphere/internal/domain/model"
)

// CommentPage is one page of top-level comments with nested replies.
type CommentPage struct {
	Comments   []model.Comment `json:"comments"`
	TotalPages int             `json:"totalPages"`
}

// Comments lists an event's comments.
func (c *Client) Comments(ctx context.Context, eventID string, page int) (CommentPage, error) {
	var out CommentPage
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	err := c.do(ctx, request{op: "comments.list", method: http.MethodGet, path: "/events/" + escape(eventID) + "/comments", query: q}, &out)
	return out, err
}

// PostComment creates a comment. parentID is empty for a top-level comment.
func (c *Client) PostComment(ctx context.Context, eventID, message, parentID string) (model.Comment, error) {
	body := struct {
		Message  string  `json:"message"`
		ParentID *string `json:"parentId,omitempty"`
	}{Message: message}
	if parentID != "" {
		body.ParentID = &parentID
	}
	var out model.Comment
	err := c.do(ctx, request{op: "comments.create", method: http.MethodPost, path: "/events/" + escape(eventID) + "/comments", body: body}, &out)
	return out, err
}

// DeleteComment removes a comment and its replies.
func (c *Client) DeleteComment(ctx context.Context, commentID string) error {
	return c.do(ctx, request{op: "comments.delete", method: http.MethodDelete, path: "/comments/" + escape(commentID)}, nil)
}
