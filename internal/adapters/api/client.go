// Package api is a typed client for the EventSphere REST backend.
//
// Every response is wrapped in the envelope {success, message, data, errors}.
// Failures come back as *Error (non-2xx) or wrap ErrTransport / ErrDecode.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/pkg/logger"
	"github.com/okian/eventsphere/pkg/metrics"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultUserAgent = "eventsphere-go"
	maxErrorBody     = 64 << 10

	pathLogin   = "/auth/login"
	pathRefresh = "/auth/refresh"
)

// TokenStore holds the session credentials the client authenticates with.
type TokenStore interface {
	AccessToken() string
	SetCredentials(user model.User, accessToken string)
	Clear()
}

// Client talks to the backend. It is safe for concurrent use.
type Client struct {
	base      *url.URL
	http      *http.Client
	timeout   time.Duration
	userAgent string
	tokens    TokenStore
	logger    logger.Logger

	refreshMu sync.Mutex
}

// envelope is the response wrapper used by every endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// New creates a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: invalid base url %q", baseURL)
	}

	c := &Client{
		base:      u,
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		jar, _ := cookiejar.New(nil) // cookiejar.New never fails without options
		c.http = &http.Client{Timeout: c.timeout, Jar: jar}
	}
	if c.logger == nil {
		c.logger = logger.Named("api")
	}
	return c, nil
}

// request describes one call.
type request struct {
	op     string // metrics/log label, e.g. "events.list"
	method string
	path   string
	query  url.Values
	body   any
}

// do performs req and decodes the envelope's data into out (if non-nil).
// A 401 triggers one refresh-and-replay unless the call is itself an auth
// call.
func (c *Client) do(ctx context.Context, req request, out any) error {
	status, raw, err := c.send(ctx, req)
	if err != nil {
		return err
	}

	if status == http.StatusUnauthorized && c.tokens != nil && req.path != pathLogin && req.path != pathRefresh {
		if rerr := c.refresh(ctx); rerr != nil {
			return rerr
		}
		status, raw, err = c.send(ctx, req)
		if err != nil {
			return err
		}
	}

	return decode(req.op, status, raw, out)
}

func (c *Client) send(ctx context.Context, req request) (int, []byte, error) {
	u := *c.base
	// req.path segments are already escaped.
	u.RawPath = c.base.EscapedPath() + req.path
	p, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	u.Path = p
	if len(req.query) > 0 {
		u.RawQuery = req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		b, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("%s: marshal request: %w", req.op, err)
		}
		body = bytes.NewReader(b)
	}

	hreq, err := http.NewRequestWithContext(ctx, req.method, u.String(), body)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: build request: %w", req.op, err)
	}
	requestID := uuid.NewString()
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", c.userAgent)
	hreq.Header.Set("X-Request-ID", requestID)
	if c.tokens != nil {
		if tok := c.tokens.AccessToken(); tok != "" {
			hreq.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(hreq)
	elapsed := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordAPIRequest(req.op, req.method, "error", elapsed)
		c.logger.Debug(ctx, "request failed",
			logger.String("op", req.op),
			logger.String("requestID", requestID),
			logger.Error(err))
		return 0, nil, fmt.Errorf("%s: %w: %w", req.op, ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody(resp.StatusCode)))
	metrics.RecordAPIRequest(req.op, req.method, strconv.Itoa(resp.StatusCode), elapsed)
	if err != nil {
		return 0, nil, fmt.Errorf("%s: %w: read body: %w", req.op, ErrTransport, err)
	}

	c.logger.Debug(ctx, "request completed",
		logger.String("op", req.op),
		logger.String("method", req.method),
		logger.String("path", req.path),
		logger.Int("status", resp.StatusCode),
		logger.String("requestID", requestID))
	return resp.StatusCode, raw, nil
}

func maxResponseBody(status int) int64 {
	if status >= http.StatusBadRequest {
		return maxErrorBody
	}
	return 32 << 20
}

func decode(op string, status int, raw []byte, out any) error {
	var env envelope
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && status < http.StatusBadRequest {
			return fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
		}
	}

	if status >= http.StatusBadRequest {
		return &Error{Op: op, Status: status, Message: env.Message, Errors: env.Errors}
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrDecode, err)
	}
	return nil
}

// refresh exchanges the refresh cookie for a new access token. Concurrent
// 401s share one refresh: callers that waited on the lock reuse the token a
// peer just stored.
func (c *Client) refresh(ctx context.Context) error {
	before := c.tokens.AccessToken()

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	if tok := c.tokens.AccessToken(); tok != "" && tok != before {
		return nil
	}

	var auth AuthResponse
	status, raw, err := c.send(ctx, request{op: "auth.refresh", method: http.MethodPost, path: pathRefresh})
	if err == nil {
		err = decode("auth.refresh", status, raw, &auth)
	}
	if err == nil && auth.AccessToken == "" {
		err = &Error{Op: "auth.refresh", Status: http.StatusUnauthorized, Message: "refresh returned no token"}
	}
	if err != nil {
		c.tokens.Clear()
		c.logger.Warn(ctx, "session refresh failed; logged out", logger.Error(err))
		return err
	}

	c.tokens.SetCredentials(auth.User, auth.AccessToken)
	c.logger.Debug(ctx, "session refreshed")
	return nil
}

// IsRetryable reports whether err is worth retrying as-is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrServer)
}

func escape(s string) string { return url.PathEscape(s) }
