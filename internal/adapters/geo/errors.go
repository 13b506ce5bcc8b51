package geo

import "errors"

// Sentinel errors for location lookups.
var (
	// ErrPermissionDenied means the user refused access to their location.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable means the position could not be determined.
	ErrUnavailable = errors.New("location unavailable")
	// ErrNoMatch means a forward lookup found nothing.
	ErrNoMatch = errors.New("no matching place")
	// ErrLookup wraps geocoder transport and decoding failures.
	ErrLookup = errors.New("geocoder lookup failed")
)
