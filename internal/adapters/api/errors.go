package api

import (
	"fmt"
	"net/http"
	"strings"
)

// Sentinel kinds for API errors. Every *Error unwraps to exactly one of them.
var (
	ErrTransport    = sentinel("transport failure")
	ErrRejected     = sentinel("request rejected")
	ErrUnauthorized = sentinel("unauthorized")
	ErrNotFound     = sentinel("not found")
	ErrServer       = sentinel("server error")
	ErrDecode       = sentinel("malformed response")
)

type sentinel string

func (s sentinel) Error() string { return string(s) }

// Error is a non-2xx response from the backend.
type Error struct {
	Op      string
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d %s", e.Op, e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if len(e.Errors) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Errors, "; "))
		b.WriteString(")")
	}
	return b.String()
}

// Unwrap returns the sentinel kind for the status code.
func (e *Error) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized:
		return ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return ErrNotFound
	case e.Status >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrRejected
	}
}
