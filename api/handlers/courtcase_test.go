package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ParthRana1023/ai-courtroom/api/handlers"
	"github.com/ParthRana1023/ai-courtroom/api/ratelimit"
	"github.com/ParthRana1023/ai-courtroom/databases/mocks"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func newCaseFixture(t *testing.T) (handlers.Case, *mocks.CaseDatabase) {
	cdb := mocks.NewCaseDatabase(t)
	udb := mocks.NewUserDatabase(t)
	udb.On("FindOne", mock.Anything, bson.M{"email": testEmail}).Return(testUser(), nil)

	return handlers.Case{
		DB:      cdb,
		UDB:     udb,
		Limiter: ratelimit.New(ratelimit.CaseGenerationMaxPerDay, ratelimit.Window),
	}, cdb
}

func TestGenerateCaseHandler(t *testing.T) {
	h, cdb := newCaseFixture(t)
	h.Generator = stubGenerator{title: "State v. Doe", details: "## Facts\nA fence dispute."}

	var inserted models.Case
	cdb.On("InsertOne", mock.Anything, mock.Anything).Return(nil, nil).Run(func(args mock.Arguments) {
		inserted = args.Get(1).(models.Case)
	})

	req := authedRequest(t, "POST", "/api/v1/cases/generate",
		models.GenerateCaseRequest{SectionsInvolved: []string{"Theft"}, SectionNumbers: []int{378}}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.GenerateCaseHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var resp models.Case
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "State v. Doe", resp.Title)
	assert.Equal(t, models.CaseStatusNotStarted, resp.Status)
	assert.Equal(t, models.RoleNotStarted, resp.UserRole)
	assert.Len(t, resp.CNR, 16)

	assert.Equal(t, testUserID, inserted.UserID)
	assert.Equal(t, resp.CNR, inserted.CNR)
}

func TestGenerateCaseHandlerRateLimited(t *testing.T) {
	h, _ := newCaseFixture(t)
	h.Generator = stubGenerator{title: "State v. Doe", details: "facts"}
	h.Limiter = exhaustedLimiter()

	req := authedRequest(t, "POST", "/api/v1/cases/generate", models.GenerateCaseRequest{}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.GenerateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Too many requests. Please try again later.", decodeDetail(t, rr))
}

func TestGenerateCaseHandlerGeneratorError(t *testing.T) {
	h, _ := newCaseFixture(t)
	h.Generator = stubGenerator{err: errors.New("model unavailable")}

	req := authedRequest(t, "POST", "/api/v1/cases/generate", models.GenerateCaseRequest{}, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.GenerateCaseHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "failed to generate case", decodeDetail(t, rr))
}

func TestListCasesHandler(t *testing.T) {
	h, cdb := newCaseFixture(t)
	cdb.On("Find", mock.Anything, bson.M{"userID": testUserID}).Return([]models.Case{
		*testCase(models.CaseStatusActive),
	}, nil)

	req := authedRequest(t, "GET", "/api/v1/cases", nil, nil)
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.ListCasesHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp []models.CaseSummary
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	require.Len(t, resp, 1)
	assert.Equal(t, testCNR, resp[0].CNR)
	assert.Equal(t, "State v. Doe", resp[0].Title)
	assert.Equal(t, models.CaseStatusActive, resp[0].Status)
}

func TestCaseByCNRHandlerNotFound(t *testing.T) {
	h, cdb := newCaseFixture(t)
	cdb.On("FindOne", mock.Anything, bson.M{"cnr": testCNR}).Return(nil, errors.New("mongo: no documents in result"))

	req := authedRequest(t, "GET", "/api/v1/cases/"+testCNR, nil, map[string]string{"cnr": testCNR})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CaseByCNRHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Case not found", decodeDetail(t, rr))
}

func TestCaseByCNRHandlerWrongOwner(t *testing.T) {
	h, cdb := newCaseFixture(t)
	otherCase := testCase(models.CaseStatusActive)
	otherCase.UserID = primitive.NewObjectID()
	cdb.On("FindOne", mock.Anything, bson.M{"cnr": testCNR}).Return(otherCase, nil)

	req := authedRequest(t, "GET", "/api/v1/cases/"+testCNR, nil, map[string]string{"cnr": testCNR})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CaseByCNRHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, "Not authorized to access this case", decodeDetail(t, rr))
}

func TestDeleteCaseHandler(t *testing.T) {
	h, cdb := newCaseFixture(t)
	courtCase := testCase(models.CaseStatusActive)
	cdb.On("FindOne", mock.Anything, bson.M{"cnr": testCNR}).Return(courtCase, nil)
	cdb.On("DeleteOne", mock.Anything, bson.M{"_id": courtCase.ID}).Return(nil)

	req := authedRequest(t, "DELETE", "/api/v1/cases/"+testCNR, nil, map[string]string{"cnr": testCNR})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.DeleteCaseHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp models.MessageResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "case deleted", resp.Message)
}

func TestCaseHistoryHandlerEmptyListsNotNull(t *testing.T) {
	h, cdb := newCaseFixture(t)
	cdb.On("FindOne", mock.Anything, bson.M{"cnr": testCNR}).Return(testCase(models.CaseStatusNotStarted), nil)

	req := authedRequest(t, "GET", "/api/v1/cases/"+testCNR+"/history", nil, map[string]string{"cnr": testCNR})
	rr := httptest.NewRecorder()
	http.HandlerFunc(h.CaseHistoryHandler).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var raw map[string]json.RawMessage
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&raw))
	assert.JSONEq(t, "[]", string(raw["plaintiff_arguments"]))
	assert.JSONEq(t, "[]", string(raw["defendant_arguments"]))
}
