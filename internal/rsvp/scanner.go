package rsvp

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/okian/eventsphere/internal/adapters/api"
	"github.com/okian/eventsphere/internal/domain/model"
	"github.com/okian/eventsphere/internal/notice"
	"github.com/okian/eventsphere/internal/timer"
	"github.com/okian/eventsphere/pkg/logger"
	"github.com/okian/eventsphere/pkg/metrics"
)

const defaultCooldown = 2 * time.Second

// Submitter validates ticket codes. *api.Client implements it.
type Submitter interface {
	ScanTicket(ctx context.Context, eventID, ticketCode string) (model.RSVP, error)
}

// Scanner submits ticket codes for one event. Detections are processed one
// at a time and each attempt, successful or not, is followed by a cool-down
// so a code held in front of the camera is not resubmitted on every frame.
// Codes are opaque; the backend decides what they mean.
type Scanner struct {
	eventID  string
	submit   Submitter
	clock    clockwork.Clock
	period   time.Duration
	cooldown *timer.Cooldown
	notices  notice.Publisher
	logger   logger.Logger

	mu         sync.Mutex
	processing bool
}

// NewScanner creates a scanner for eventID.
func NewScanner(eventID string, s Submitter, opts ...ScannerOption) *Scanner {
	sc := &Scanner{
		eventID: eventID,
		submit:  s,
		clock:   clockwork.NewRealClock(),
		period:  defaultCooldown,
		notices: notice.Discard,
	}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = logger.Named("scanner")
	}
	sc.cooldown = timer.NewCooldown(sc.clock, sc.period)
	return sc
}

// Scan submits code. It returns ErrScanInFlight while another scan is being
// processed and ErrCoolingDown inside the pause that follows every attempt;
// in both cases nothing is sent.
func (s *Scanner) Scan(ctx context.Context, code string) (model.RSVP, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return model.RSVP{}, ErrEmptyCode
	}

	s.mu.Lock()
	switch {
	case s.processing:
		s.mu.Unlock()
		metrics.RecordTicketScan("dropped")
		return model.RSVP{}, ErrScanInFlight
	case !s.cooldown.Ready():
		s.mu.Unlock()
		metrics.RecordTicketScan("dropped")
		return model.RSVP{}, ErrCoolingDown
	}
	s.processing = true
	s.mu.Unlock()

	res, err := s.submit.ScanTicket(ctx, s.eventID, code)

	s.mu.Lock()
	s.processing = false
	s.cooldown.Start()
	s.mu.Unlock()

	if err != nil {
		result := "error"
		if errors.Is(err, api.ErrRejected) || errors.Is(err, api.ErrNotFound) {
			result = "rejected"
		}
		metrics.RecordTicketScan(result)
		s.logger.Info(ctx, "ticket scan failed",
			logger.String("event", s.eventID),
			logger.String("result", result),
			logger.Error(err))
		s.notices.Publish(ctx, notice.Failure("Invalid ticket", err))
		return model.RSVP{}, err
	}

	metrics.RecordTicketScan("ok")
	s.notices.Publish(ctx, notice.Success(checkedInMessage(res)))
	return res, nil
}

// Remaining returns how long until the next scan is accepted.
func (s *Scanner) Remaining() time.Duration {
	return s.cooldown.Remaining()
}

func checkedInMessage(r model.RSVP) string {
	if u, ok := r.User.Inline(); ok && u.Name != "" {
		return "Checked in " + u.Name
	}
	return "Ticket checked in"
}
