package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Cooldown rejects attempts for a fixed period after each Start.
type Cooldown struct {
	mu     sync.Mutex
	clock  clockwork.Clock
	period time.Duration
	until  time.Time
}

// NewCooldown creates a cool-down of the given period.
func NewCooldown(clock clockwork.Clock, period time.Duration) *Cooldown {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cooldown{clock: clock, period: period}
}

// Ready reports whether the cool-down has elapsed.
func (c *Cooldown) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.clock.Now().Before(c.until)
}

// Start begins a new cool-down window from now.
func (c *Cooldown) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.until = c.clock.Now().Add(c.period)
}

// Remaining returns the time left before Ready becomes true.
func (c *Cooldown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if left := c.until.Sub(c.clock.Now()); left > 0 {
		return left
	}
	return 0
}
