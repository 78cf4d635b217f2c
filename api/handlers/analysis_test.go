package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/ParthRana1023/ai-courtroom/api/handlers"
	"github.com/ParthRana1023/ai-courtroom/databases/mocks"
	"github.com/ParthRana1023/ai-courtroom/models"
)

// stubAnalyzer records its input and returns canned markdown
type stubAnalyzer struct {
	analysis string
	err      error
	userArgs []string
}

func (s *stubAnalyzer) AnalyzeCase(_ context.Context, _, _ string, userArgs, _ []string, _ string) (string, error) {
	s.userArgs = userArgs
	return s.analysis, s.err
}

func newAnalysisFixture(t *testing.T, courtCase *models.Case) (handlers.Analysis, *mocks.CaseDatabase) {
	cdb := mocks.NewCaseDatabase(t)
	udb := mocks.NewUserDatabase(t)
	udb.On("FindOne", mock.Anything, bson.M{"email": testEmail}).Return(testUser(), nil)
	cdb.On("FindOne", mock.Anything, bson.M{"cnr": testCNR}).Return(courtCase, nil)

	return handlers.Analysis{DB: cdb, UDB: udb}, cdb
}

func analyzeCase(h handlers.Analysis, t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	req := authedRequest(t, "POST", "/api/v1/cases/"+testCNR+"/analyze-case", nil, map[string]string{"cnr": testCNR})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.AnalyzeCaseHandler).ServeHTTP(rr, req)
	return rr
}

func TestAnalyzeCaseHandler(t *testing.T) {
	courtCase := caseWithExchange()
	courtCase.Status = models.CaseStatusResolved
	courtCase.Verdict = "Judgment for the plaintiff."

	h, cdb := newAnalysisFixture(t, courtCase)
	analyzer := &stubAnalyzer{analysis: "### Outcome\nYou won."}
	h.Analyzer = analyzer
	cdb.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	rr := analyzeCase(h, t)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.AnalysisResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "### Outcome\nYou won.", resp.Analysis)

	// every user-authored argument went into the review
	assert.Len(t, analyzer.userArgs, 4)
}

func TestAnalyzeCaseHandlerReturnsStoredAnalysis(t *testing.T) {
	courtCase := caseWithExchange()
	courtCase.Status = models.CaseStatusResolved
	courtCase.Analysis = "### Outcome\nAlready reviewed."

	// no Analyzer and no UpdateOne: the stored analysis short-circuits
	h, _ := newAnalysisFixture(t, courtCase)

	rr := analyzeCase(h, t)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.AnalysisResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "### Outcome\nAlready reviewed.", resp.Analysis)
}

func TestAnalyzeCaseHandlerUnresolvedCase(t *testing.T) {
	h, _ := newAnalysisFixture(t, testCase(models.CaseStatusActive))

	rr := analyzeCase(h, t)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Case must be resolved before it can be analyzed", decodeDetail(t, rr))
}

func TestAnalyzeCaseHandlerGenerationFailure(t *testing.T) {
	courtCase := caseWithExchange()
	courtCase.Status = models.CaseStatusResolved

	h, _ := newAnalysisFixture(t, courtCase)
	h.Analyzer = &stubAnalyzer{err: errors.New("model unavailable")}

	rr := analyzeCase(h, t)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Equal(t, "failed to analyze case", decodeDetail(t, rr))
}
