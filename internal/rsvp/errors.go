package rsvp

import "errors"

var (
	// ErrInFlight is returned when a write for the same event or attendee is
	// still pending.
	ErrInFlight = errors.New("update already in progress")
	// ErrNotTracked is returned for events that were never passed to Track.
	ErrNotTracked = errors.New("event not tracked")
	// ErrUnknownAttendee is returned when the attendee list has no such user.
	ErrUnknownAttendee = errors.New("attendee not found")
	// ErrInvalidStatus is returned for statuses outside GOING, MAYBE, NOT_GOING.
	ErrInvalidStatus = errors.New("invalid rsvp status")

	// ErrEmptyCode is returned for blank ticket codes; nothing is submitted.
	ErrEmptyCode = errors.New("empty ticket code")
	// ErrScanInFlight is returned while a previous scan is being processed.
	ErrScanInFlight = errors.New("scan already in progress")
	// ErrCoolingDown is returned for scans inside the post-scan pause.
	ErrCoolingDown = errors.New("scanner cooling down")
)
