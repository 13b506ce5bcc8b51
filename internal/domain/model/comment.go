package model

import "time"

// Comment is a message on an event; replies nest arbitrarily deep.
type Comment struct {
	ID        string    `json:"_id"`
	Message   string    `json:"message"`
	User      User      `json:"user"`
	Event     string    `json:"event"`
	ParentID  *string   `json:"parentId,omitempty"`
	Replies   []Comment `json:"replies,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
	UpdatedAt time.Time `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (c Comment) RefID() string { return c.ID }
