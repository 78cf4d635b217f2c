package ratelimit

import (
	"sync"
	"time"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// Daily caps for the two rate-limited operations
const (
	ArgumentMaxPerDay       = 10
	CaseGenerationMaxPerDay = 3
	Window                  = 24 * time.Hour
)

// Limiter is a per-key sliding-window rate limiter. Each recorded attempt
// counts against the cap until it ages out of the window.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	history map[string][]time.Time
	now     func() time.Time
}

// New returns a limiter allowing max attempts per window
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		history: map[string][]time.Time{},
		now:     time.Now,
	}
}

// Allow records an attempt for key if the cap has room and reports whether
// it was admitted. Denied attempts are not recorded.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) >= l.max {
		return false
	}
	l.history[key] = append(recent, now)
	return true
}

// Remaining reports the caller's standing. SecondsUntilNext is set only
// while the caller is at the cap, counting down to the oldest attempt
// aging out of the window.
func (l *Limiter) Remaining(key string) models.RateLimitInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	l.history[key] = recent

	info := models.RateLimitInfo{
		RemainingAttempts: l.max - len(recent),
		MaxAttempts:       l.max,
	}
	if len(recent) >= l.max {
		wait := recent[0].Add(l.window).Sub(now).Seconds()
		if wait < 0 {
			wait = 0
		}
		info.SecondsUntilNext = &wait
	}
	return info
}

// Reset drops all recorded attempts for every key
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = map[string][]time.Time{}
}

// prune drops attempts older than the window. Caller must hold the lock.
func (l *Limiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	recent := l.history[key][:0:0]
	for _, t := range l.history[key] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}
	return recent
}
