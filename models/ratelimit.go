package models

// RateLimitInfo reports a caller's standing against one of the daily caps.
// SecondsUntilNext is only set while the caller is at the cap.
type RateLimitInfo struct {
	RemainingAttempts int      `json:"remaining_attempts"`
	MaxAttempts       int      `json:"max_attempts"`
	SecondsUntilNext  *float64 `json:"seconds_until_next"`
}

// AtLimit reports whether the caller has exhausted the cap
func (r RateLimitInfo) AtLimit() bool {
	return r.RemainingAttempts <= 0
}
