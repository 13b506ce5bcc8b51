package cli

import (
	"errors"
	"fmt"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/adapters/geo"
	"github.com/okian/eventsphere/internal/comments"
	"github.com/okian/eventsphere/internal/config"
	"github.com/okian/eventsphere/internal/discovery"
	"github.com/okian/eventsphere/internal/rsvp"
)

// ErrUsage marks a bad argument detected after cobra parsed the command line.
var ErrUsage = errors.New("invalid usage")

func usagef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUsage, fmt.Sprintf(format, args...))
}

// errorCode classifies err for structured output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, comments.ErrEmptyMessage), errors.Is(err, rsvp.ErrEmptyCode):
		return "usage"
	case errors.Is(err, config.ErrLoadConfig), errors.Is(err, config.ErrInvalidConfig):
		return "config"
	case errors.Is(err, api.ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, api.ErrNotFound), errors.Is(err, rsvp.ErrUnknownAttendee),
		errors.Is(err, comments.ErrUnknownComment), errors.Is(err, geo.ErrNoMatch):
		return "not_found"
	case errors.Is(err, api.ErrRejected), errors.Is(err, rsvp.ErrInvalidStatus):
		return "rejected"
	case errors.Is(err, rsvp.ErrInFlight), errors.Is(err, rsvp.ErrScanInFlight), errors.Is(err, rsvp.ErrCoolingDown):
		return "busy"
	case errors.Is(err, discovery.ErrLocationUnavailable):
		return "location"
	case errors.Is(err, api.ErrTransport), errors.Is(err, api.ErrServer), errors.Is(err, api.ErrDecode),
		errors.Is(err, geo.ErrLookup):
		return "network"
	default:
		return "failure"
	}
}

// report prints err through the formatter and returns it with an exit code.
// A bare ExitError carries an outcome the command already printed.
func report(out *OutputFormatter, err error) error {
	code := ExitFailure
	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr) && exitErr.Err == nil:
		return exitErr
	case exitErr != nil:
		code = exitErr.Code
	case errorCode(err) == "usage":
		code = ExitCommandError
	}

	msg := err.Error()
	var details []string
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			msg = apiErr.Message
		}
		details = apiErr.Errors
	}
	_ = out.Error(errorCode(err), msg, details)

	if exitErr != nil {
		return exitErr
	}
	return WrapExitError(code, errorCode(err), err)
}
