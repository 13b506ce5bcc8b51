// Package notice carries user-visible transient notices (toasts) from the
// client flows to whatever renders them. Nothing published here is fatal.
package notice

import (
	"context"
	"errors"
	"time"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/adapters/geo"
)

// Level is the notice severity.
type Level string

// Notice levels.
const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Kind is the error taxonomy a notice belongs to.
type Kind string

// Notice kinds.
const (
	KindNone       Kind = "none"
	KindNetwork    Kind = "network"    // transport or server failure
	KindRejected   Kind = "rejected"   // validation or business rejection
	KindPermission Kind = "permission" // geolocation or auth denial
	KindRace       Kind = "race"       // double submit, cool-down
)

// Notice is one transient message.
type Notice struct {
	Level   Level     `json:"level"`
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Publisher accepts notices. Publish never blocks.
type Publisher interface {
	Publish(ctx context.Context, n Notice) bool
}

// Success builds a success notice.
func Success(msg string) Notice {
	return Notice{Level: LevelSuccess, Kind: KindNone, Message: msg}
}

// Info builds an informational notice.
func Info(msg string) Notice {
	return Notice{Level: LevelInfo, Kind: KindNone, Message: msg}
}

// Failure builds an error notice classified from err. The backend's message
// is preferred over fallback when it sent one.
func Failure(fallback string, err error) Notice {
	msg := fallback
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return Notice{Level: LevelError, Kind: KindOf(err), Message: msg}
}

// Race builds an error notice for a client-side race.
func Race(msg string) Notice {
	return Notice{Level: LevelError, Kind: KindRace, Message: msg}
}

// KindOf classifies err into the notice taxonomy.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, geo.ErrPermissionDenied), errors.Is(err, geo.ErrUnavailable), errors.Is(err, api.ErrUnauthorized):
		return KindPermission
	case errors.Is(err, api.ErrRejected), errors.Is(err, api.ErrNotFound):
		return KindRejected
	case errors.Is(err, api.ErrTransport), errors.Is(err, api.ErrServer),
		errors.Is(err, geo.ErrLookup), errors.Is(err, context.DeadlineExceeded):
		return KindNetwork
	default:
		return KindNone
	}
}

// Discard is a Publisher that drops everything.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, Notice) bool { return true }
