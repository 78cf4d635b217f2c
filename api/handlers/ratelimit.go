package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
)

// RateLimit exposes the remaining-attempt lookups the client polls
type RateLimit struct {
	Argument       *ratelimit.Limiter
	CaseGeneration *ratelimit.Limiter
}

// ArgumentLimitHandler reports the caller's standing against the argument cap
func (rl RateLimit) ArgumentLimitHandler(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(rl.Argument.Remaining(api.UserEmail(r)))
}

// CaseGenerationLimitHandler reports the caller's standing against the
// case-generation cap
func (rl RateLimit) CaseGenerationLimitHandler(w http.ResponseWriter, r *http.Request) {
	_ = json.NewEncoder(w).Encode(rl.CaseGeneration.Remaining(api.UserEmail(r)))
}
