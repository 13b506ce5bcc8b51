package model

import "time"

// RSVPStatus is a user's attendance intent.
type RSVPStatus string

// RSVP statuses.
const (
	StatusGoing    RSVPStatus = "GOING"
	StatusMaybe    RSVPStatus = "MAYBE"
	StatusNotGoing RSVPStatus = "NOT_GOING"
)

// Valid reports whether s is a known status.
func (s RSVPStatus) Valid() bool {
	switch s {
	case StatusGoing, StatusMaybe, StatusNotGoing:
		return true
	}
	return false
}

// AttendanceDelta is the change to an event's attendee count implied by a
// status transition: +1 into GOING, -1 out of GOING, 0 otherwise.
func AttendanceDelta(from, to RSVPStatus) int {
	switch {
	case from == to:
		return 0
	case to == StatusGoing:
		return 1
	case from == StatusGoing:
		return -1
	default:
		return 0
	}
}

// RSVP links a user to an event. Cancelling is a transition to NOT_GOING.
type RSVP struct {
	ID          string     `json:"_id"`
	Event       Ref[Event] `json:"event"`
	User        Ref[User]  `json:"user"`
	Status      RSVPStatus `json:"status"`
	CheckedIn   bool       `json:"checkedIn"`
	CheckInTime *time.Time `json:"checkInTime,omitempty"`
	TicketCode  string     `json:"ticketCode,omitempty"`
	CreatedAt   time.Time  `json:"createdAt,omitzero"`
	UpdatedAt   time.Time  `json:"updatedAt,omitzero"`
}

// RefID implements Identifiable.
func (r RSVP) RefID() string { return r.ID }
