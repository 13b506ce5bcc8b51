// Package rsvp keeps the local view of attendance consistent with user
// intent without waiting for the backend.
//
// Every optimistic mutation records what it changed and, if the write fails,
// runs the paired compensating action. Compensation subtracts the applied
// delta instead of restoring a saved value, so counts refreshed by Track in
// the meantime are not clobbered.
package rsvp

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/pkg/logger"
	"github.com/okian/eventsphere/pkg/metrics"
)

const defaultWorkers = 4

// Writer performs the backend writes. *api.Client implements it.
type Writer interface {
	RSVP(ctx context.Context, eventID string, status model.RSVPStatus) (model.RSVP, error)
	Attendees(ctx context.Context, eventID string) ([]model.RSVP, error)
	CheckIn(ctx context.Context, eventID, userID string) error
}

// Attendance is the caller's view of one event.
type Attendance struct {
	EventID       string           `json:"eventId"`
	Status        model.RSVPStatus `json:"status,omitempty"`
	AttendeeCount int              `json:"attendeeCount"`
	Capacity      int              `json:"capacity"`
}

// CheckInResult is the outcome for one user of CheckInAll.
type CheckInResult struct {
	UserID string
	Err    error
}

type entry struct {
	event      model.Event
	tracked    bool
	status     model.RSVPStatus // "" when the caller has no RSVP
	pending    bool
	attendees  []model.RSVP
	checkingIn map[string]bool
}

// Reconciler holds per-event attendance state. It is safe for concurrent use.
type Reconciler struct {
	writer  Writer
	notices notice.Publisher
	clock   clockwork.Clock
	workers int
	logger  logger.Logger

	mu      sync.Mutex
	entries map[string]*entry
}

// NewReconciler creates a reconciler writing through w.
func NewReconciler(w Writer, opts ...Option) *Reconciler {
	r := &Reconciler{
		writer:  w,
		notices: notice.Discard,
		clock:   clockwork.NewRealClock(),
		workers: defaultWorkers,
		entries: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("rsvp")
	}
	return r
}

// Track seeds or refreshes an event snapshot and the caller's status from
// ev.UserRSVPStatus. While a status write is pending the local view is kept.
func (r *Reconciler) Track(ev model.Event) Attendance {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := r.entryLocked(ev.ID)
	if e.pending {
		return e.view()
	}
	e.event = ev
	e.tracked = true
	e.status = ""
	if ev.UserRSVPStatus != nil {
		e.status = *ev.UserRSVPStatus
	}
	return e.view()
}

// Attendance returns the local view of a tracked event.
func (r *Reconciler) Attendance(eventID string) (Attendance, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[eventID]
	if !ok || !e.tracked {
		return Attendance{}, false
	}
	return e.view(), true
}

// Event returns the tracked snapshot with the local count and status applied.
func (r *Reconciler) Event(eventID string) (model.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[eventID]
	if !ok || !e.tracked {
		return model.Event{}, false
	}
	ev := e.event
	if e.status != "" {
		s := e.status
		ev.UserRSVPStatus = &s
	} else {
		ev.UserRSVPStatus = nil
	}
	return ev, true
}

// SetStatus records the caller's intent for a tracked event. The count moves
// immediately by the transition delta (floor 0) and is compensated if the
// write fails. Repeating the current status is a no-op without a request.
func (r *Reconciler) SetStatus(ctx context.Context, eventID string, status model.RSVPStatus) (Attendance, error) {
	if !status.Valid() {
		return Attendance{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	r.mu.Lock()
	e, ok := r.entries[eventID]
	if !ok || !e.tracked {
		r.mu.Unlock()
		return Attendance{}, fmt.Errorf("%w: %s", ErrNotTracked, eventID)
	}
	if e.pending {
		r.mu.Unlock()
		r.notices.Publish(ctx, notice.Race("Your previous RSVP is still being saved"))
		return Attendance{}, ErrInFlight
	}
	if e.status == status {
		view := e.view()
		r.mu.Unlock()
		return view, nil
	}

	prev := e.status
	applied := e.adjust(model.AttendanceDelta(prev, status))
	e.status = status
	e.pending = true
	r.mu.Unlock()
	metrics.RecordOptimisticUpdate("rsvp")

	res, err := r.writer.RSVP(ctx, eventID, status)

	r.mu.Lock()
	e.pending = false
	if err != nil {
		e.adjust(-applied)
		e.status = prev
		view := e.view()
		r.mu.Unlock()

		metrics.RecordRollback("rsvp")
		r.logger.Warn(ctx, "rsvp failed; rolled back",
			logger.String("event", eventID),
			logger.String("status", string(status)),
			logger.Error(err))
		r.notices.Publish(ctx, notice.Failure("Failed to update RSVP", err))
		return view, err
	}

	if res.Status.Valid() && res.Status != status {
		e.adjust(model.AttendanceDelta(status, res.Status))
		e.status = res.Status
	}
	view := e.view()
	r.mu.Unlock()

	r.notices.Publish(ctx, notice.Success(rsvpMessage(view.Status)))
	return view, nil
}

func rsvpMessage(s model.RSVPStatus) string {
	switch s {
	case model.StatusGoing:
		return "You're going!"
	case model.StatusMaybe:
		return "Marked as maybe"
	default:
		return "RSVP cancelled"
	}
}

// LoadAttendees fetches and caches the attendee list of an event.
func (r *Reconciler) LoadAttendees(ctx context.Context, eventID string) ([]model.RSVP, error) {
	list, err := r.writer.Attendees(ctx, eventID)
	if err != nil {
		r.notices.Publish(ctx, notice.Failure("Failed to load attendees", err))
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.entryLocked(eventID)
	// Keep optimistic flags for check-ins still being written.
	for i := range list {
		if e.checkingIn[list[i].User.ID()] {
			if cur := findAttendee(e.attendees, list[i].User.ID()); cur != nil {
				list[i].CheckedIn = cur.CheckedIn
				list[i].CheckInTime = cur.CheckInTime
			}
		}
	}
	e.attendees = list
	return cloneAttendees(list), nil
}

// Attendees returns the cached attendee list.
func (r *Reconciler) Attendees(eventID string) []model.RSVP {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[eventID]; ok {
		return cloneAttendees(e.attendees)
	}
	return nil
}

// CheckIn marks an attendee as present immediately and rolls the flag back
// if the write fails. An attendee already checked in is left alone.
func (r *Reconciler) CheckIn(ctx context.Context, eventID, userID string) error {
	r.mu.Lock()
	e, ok := r.entries[eventID]
	var a *model.RSVP
	if ok {
		a = findAttendee(e.attendees, userID)
	}
	switch {
	case a == nil:
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrUnknownAttendee, userID)
	case e.checkingIn[userID]:
		r.mu.Unlock()
		return ErrInFlight
	case a.CheckedIn:
		r.mu.Unlock()
		return nil
	}
	now := r.clock.Now()
	a.CheckedIn = true
	a.CheckInTime = &now
	e.checkingIn[userID] = true
	r.mu.Unlock()
	metrics.RecordOptimisticUpdate("checkin")

	err := r.writer.CheckIn(ctx, eventID, userID)

	r.mu.Lock()
	delete(e.checkingIn, userID)
	if err != nil {
		if a := findAttendee(e.attendees, userID); a != nil {
			a.CheckedIn = false
			a.CheckInTime = nil
		}
	}
	r.mu.Unlock()

	if err != nil {
		metrics.RecordRollback("checkin")
		r.logger.Warn(ctx, "check-in failed; rolled back",
			logger.String("event", eventID),
			logger.String("user", userID),
			logger.Error(err))
		r.notices.Publish(ctx, notice.Failure("Check-in failed", err))
		return err
	}
	r.notices.Publish(ctx, notice.Success("User checked in successfully"))
	return nil
}

// CheckInAll checks in many attendees with at most the configured number of
// concurrent writes. Results keep the order of userIDs.
func (r *Reconciler) CheckInAll(ctx context.Context, eventID string, userIDs []string) []CheckInResult {
	results := make([]CheckInResult, len(userIDs))
	jobs := make(chan int)

	workers := min(r.workers, len(userIDs))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = CheckInResult{UserID: userIDs[i], Err: r.CheckIn(ctx, eventID, userIDs[i])}
			}
		}()
	}

	for i := range userIDs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			results[i] = CheckInResult{UserID: userIDs[i], Err: ctx.Err()}
		}
	}
	close(jobs)
	wg.Wait()
	return results
}

func (r *Reconciler) entryLocked(eventID string) *entry {
	e, ok := r.entries[eventID]
	if !ok {
		e = &entry{event: model.Event{ID: eventID}, checkingIn: make(map[string]bool)}
		r.entries[eventID] = e
	}
	return e
}

// adjust moves the count by delta with a floor of 0 and returns the change
// actually applied.
func (e *entry) adjust(delta int) int {
	before := e.event.AttendeeCount
	e.event.AttendeeCount = max(0, before+delta)
	return e.event.AttendeeCount - before
}

func (e *entry) view() Attendance {
	return Attendance{
		EventID:       e.event.ID,
		Status:        e.status,
		AttendeeCount: e.event.AttendeeCount,
		Capacity:      e.event.Capacity,
	}
}

func findAttendee(list []model.RSVP, userID string) *model.RSVP {
	for i := range list {
		if list[i].User.ID() == userID {
			return &list[i]
		}
	}
	return nil
}

func cloneAttendees(list []model.RSVP) []model.RSVP {
	if list == nil {
		return nil
	}
	out := make([]model.RSVP, len(list))
	copy(out, list)
	return out
}
