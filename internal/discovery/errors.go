package discovery

import "errors"

var (
	// ErrLocationUnavailable is returned when the current position could not
	// be obtained. The filter is left unchanged.
	ErrLocationUnavailable = errors.New("current location unavailable")

	// ErrClosed is returned by operations on a closed engine.
	ErrClosed = errors.New("discovery engine closed")
)
