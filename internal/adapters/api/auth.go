package api

import (
	"context"
	"net/http"

	"github.com/okian/eventsphere/internal/domain/model"
)

// AuthResponse is returned by login and refresh. The refresh token travels
// as an http-only cookie held by the client's cookie jar.
type AuthResponse struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"accessToken"`
}

// Login authenticates with email and password and stores the credentials.
func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, request{op: "auth.login", method: http.MethodPost, path: pathLogin, body: body}, &out); err != nil {
		return AuthResponse{}, err
	}
	if c.tokens != nil {
		c.tokens.SetCredentials(out.User, out.AccessToken)
	}
	return out, nil
}

// Refresh exchanges the refresh cookie for a new access token without
// touching the token store.
func (c *Client) Refresh(ctx context.Context) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, request{op: "auth.refresh", method: http.MethodPost, path: pathRefresh}, &out)
	return out, err
}

// Logout ends the server session. The token store is left to the caller.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{op: "auth.logout", method: http.MethodPost, path: "/auth/logout"}, nil)
}
