package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParthRana1023/ai-courtroom/api/handlers"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func TestArgumentLimitHandler(t *testing.T) {
	rl := handlers.RateLimit{
		Argument:       ratelimit.New(ratelimit.ArgumentMaxPerDay, ratelimit.Window),
		CaseGeneration: ratelimit.New(ratelimit.CaseGenerationMaxPerDay, ratelimit.Window),
	}
	rl.Argument.Allow(testEmail)

	req := authedRequest(t, "GET", "/api/v1/limit/argument", nil, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rl.ArgumentLimitHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var info models.RateLimitInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&info))
	assert.Equal(t, ratelimit.ArgumentMaxPerDay-1, info.RemainingAttempts)
	assert.Equal(t, ratelimit.ArgumentMaxPerDay, info.MaxAttempts)
	assert.Nil(t, info.SecondsUntilNext)
}

func TestCaseGenerationLimitHandlerAtCap(t *testing.T) {
	rl := handlers.RateLimit{
		Argument:       ratelimit.New(ratelimit.ArgumentMaxPerDay, ratelimit.Window),
		CaseGeneration: ratelimit.New(ratelimit.CaseGenerationMaxPerDay, ratelimit.Window),
	}
	for i := 0; i < ratelimit.CaseGenerationMaxPerDay; i++ {
		rl.CaseGeneration.Allow(testEmail)
	}

	req := authedRequest(t, "GET", "/api/v1/limit/case-generation", nil, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(rl.CaseGenerationLimitHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var info models.RateLimitInfo
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&info))
	assert.Equal(t, 0, info.RemainingAttempts)
	assert.True(t, info.AtLimit())
	require.NotNil(t, info.SecondsUntilNext)
	assert.Greater(t, *info.SecondsUntilNext, 0.0)
}
