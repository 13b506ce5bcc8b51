package api

import (
	"context"
	"net/http"

	"github.com/okian/eventsphere/internal/domain/model"
)

// CommunityInput is the payload for creating a community.
type CommunityInput struct {
	Name        string              `json:"name"`
	Type        model.CommunityType `json:"type"`
	Description string              `json:"description"`
	Location    *model.Point        `json:"location,omitempty"`
}

func communityPath(id string, rest ...string) string {
	p := "/communities/" + escape(id)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// Communities lists all communities.
func (c *Client) Communities(ctx context.Context) ([]model.Community, error) {
	var out []model.Community
	err := c.do(ctx, request{op: "communities.list", method: http.MethodGet, path: "/communities"}, &out)
	return out, err
}

// MyCommunities lists communities the caller belongs to.
func (c *Client) MyCommunities(ctx context.Context) ([]model.Community, error) {
	var out []model.Community
	err := c.do(ctx, request{op: "communities.mine", method: http.MethodGet, path: "/communities/my"}, &out)
	return out, err
}

// CreateCommunity creates a community administered by the caller.
func (c *Client) CreateCommunity(ctx context.Context, in CommunityInput) (model.Community, error) {
	var out model.Community
	err := c.do(ctx, request{op: "communities.create", method: http.MethodPost, path: "/communities", body: in}, &out)
	return out, err
}

// JoinCommunity adds the caller as a member.
func (c *Client) JoinCommunity(ctx context.Context, id string) error {
	return c.do(ctx, request{op: "communities.join", method: http.MethodPost, path: communityPath(id, "join")}, nil)
}

// LeaveCommunity removes the caller from the community.
func (c *Client) LeaveCommunity(ctx context.Context, id string) error {
	return c.do(ctx, request{op: "communities.leave", method: http.MethodPost, path: communityPath(id, "leave")}, nil)
}

// CommunityEvents lists the events hosted in a community.
func (c *Client) CommunityEvents(ctx context.Context, id string) ([]model.Event, error) {
	var out []model.Event
	err := c.do(ctx, request{op: "communities.events", method: http.MethodGet, path: communityPath(id, "events")}, &out)
	return out, err
}

// CommunityMembers lists members and admins.
func (c *Client) CommunityMembers(ctx context.Context, id string) (model.Members, error) {
	var out model.Members
	err := c.do(ctx, request{op: "communities.members", method: http.MethodGet, path: communityPath(id, "members")}, &out)
	return out, err
}

// RemoveMember removes a user from the community. Admin only.
func (c *Client) RemoveMember(ctx context.Context, id, userID string) error {
	return c.do(ctx, request{op: "communities.remove", method: http.MethodDelete, path: communityPath(id, "members", escape(userID))}, nil)
}

// InviteMember invites a user by email. Admin only.
func (c *Client) InviteMember(ctx context.Context, id, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, request{op: "communities.invite", method: http.MethodPost, path: communityPath(id, "invite"), body: body}, nil)
}
