package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ParthRana1023/ai-courtroom/api"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/models"
)

const (
	testEmail = "jane@example.com"
	testCNR   = "ABCD1234EFGH5678"
)

var testUserID = primitive.NewObjectID()

func testUser() *models.User {
	return &models.User{
		ID:       testUserID,
		Email:    testEmail,
		Verified: true,
	}
}

func testCase(status models.CaseStatus) *models.Case {
	return &models.Case{
		ID:        primitive.NewObjectID(),
		CNR:       testCNR,
		UserID:    testUserID,
		Title:     "State v. Doe",
		Details:   "A dispute over a fence.",
		Status:    status,
		UserRole:  models.RoleNotStarted,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func openLimiter() *ratelimit.Limiter {
	return ratelimit.New(ratelimit.ArgumentMaxPerDay, ratelimit.Window)
}

func exhaustedLimiter() *ratelimit.Limiter {
	l := ratelimit.New(1, ratelimit.Window)
	l.Allow(testEmail)
	return l
}

// authedRequest builds a request carrying the authenticated email, the way
// the auth middleware would
func authedRequest(t *testing.T, method, target string, body interface{}, vars map[string]string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, reader)
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req.WithContext(api.WithUserEmail(req.Context(), testEmail))
}

func decodeDetail(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorDetailResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Detail
}

// stubCounsel is a canned Counsel implementation for handler tests
type stubCounsel struct {
	opening    string
	counter    string
	closing    string
	verdict    string
	openingErr error
	counterErr error
	closingErr error
	verdictErr error
}

func (s stubCounsel) OpeningStatement(_ context.Context, _ models.Role, _ string) (string, error) {
	return s.opening, s.openingErr
}

func (s stubCounsel) CounterArgument(_ context.Context, _, _ string, _ models.Role, _ string) (string, error) {
	return s.counter, s.counterErr
}

func (s stubCounsel) ClosingStatement(_ context.Context, _ string, _ models.Role) (string, error) {
	return s.closing, s.closingErr
}

func (s stubCounsel) Verdict(_ context.Context, _, _ []string, _ string) (string, error) {
	return s.verdict, s.verdictErr
}

// stubGenerator is a canned CaseGenerator for handler tests
type stubGenerator struct {
	title   string
	details string
	err     error
}

func (s stubGenerator) GenerateCase(_ context.Context, _ []string, _ []int) (string, string, error) {
	return s.title, s.details, s.err
}
