package client

import (
	"math"
	"sync"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// CountdownState is the cooldown state machine's position
type CountdownState int

// Countdown states. Idle means the user is under the cap; Counting means a
// cooldown is running down; Expired means the cooldown just hit zero and a
// refetch is in flight.
const (
	CountdownIdle CountdownState = iota
	CountdownCounting
	CountdownExpired
)

// Countdown tracks the rate-limit cooldown from the server's
// seconds-until-next value, driven by one-second ticks. Reaching zero
// transitions to Expired and fires onExpire exactly once; only a
// subsequent Apply (the refetched limit) leaves the Expired state.
type Countdown struct {
	mu        sync.Mutex
	state     CountdownState
	remaining int
	onExpire  func()
}

// NewCountdown creates a countdown that calls onExpire when a cooldown
// runs out
func NewCountdown(onExpire func()) *Countdown {
	return &Countdown{onExpire: onExpire}
}

// Apply resets the state machine from a fresh rate-limit reading
func (c *Countdown) Apply(info models.RateLimitInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if info.SecondsUntilNext != nil && *info.SecondsUntilNext > 0 {
		c.state = CountdownCounting
		c.remaining = int(math.Ceil(*info.SecondsUntilNext))
		return
	}
	c.state = CountdownIdle
	c.remaining = 0
}

// RetryIn re-enters the Counting state so the expiry refetch fires again
// after the given number of ticks. Used when the refetch itself failed;
// the cooldown stays blocked rather than silently clearing.
func (c *Countdown) RetryIn(seconds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seconds < 1 {
		seconds = 1
	}
	c.state = CountdownCounting
	c.remaining = seconds
}

// Tick advances the countdown by one second. Ticks outside the Counting
// state are ignored, so a late timer cannot fire the expiry twice.
func (c *Countdown) Tick() {
	c.mu.Lock()
	if c.state != CountdownCounting {
		c.mu.Unlock()
		return
	}
	c.remaining--
	if c.remaining > 0 {
		c.mu.Unlock()
		return
	}
	c.state = CountdownExpired
	c.remaining = 0
	hook := c.onExpire
	c.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// State returns the current state
func (c *Countdown) State() CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the seconds left in the current cooldown
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Blocked reports whether submissions should be held back
func (c *Countdown) Blocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != CountdownIdle
}
