package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParthRana1023/ai-courtroom/client"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func TestLoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "jane@example.com", user)
		assert.Equal(t, "hunter2", pass)
		json.NewEncoder(w).Encode(models.TokenResponse{AccessToken: "tok-123", TokenType: "bearer"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.Login(context.Background(), "jane@example.com", "hunter2")

	require.NoError(t, err)
	assert.Equal(t, "tok-123", c.Token())
}

func TestLoginFailureSurfacesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "Could not validate credentials"})
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	err := c.Login(context.Background(), "jane@example.com", "wrong")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Could not validate credentials", apiErr.Detail)
	assert.Empty(t, c.Token())
}

func TestRequestsCarryBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode([]models.CaseSummary{{CNR: "ABCD1234EFGH5678", Title: "State v. Doe"}})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok-123"))
	cases, err := c.ListCases(context.Background())

	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "ABCD1234EFGH5678", cases[0].CNR)
}

func TestUnauthorizedClearsTokenAndFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(models.ErrorDetailResponse{Detail: "Could not validate credentials"})
	}))
	defer srv.Close()

	expired := 0
	c := client.New(srv.URL,
		client.WithToken("stale"),
		client.WithSessionExpiredHook(func() { expired++ }),
	)

	_, err := c.ListCases(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Empty(t, c.Token())
	assert.Equal(t, 1, expired)

	// the token is already gone, so a second rejection stays quiet
	_, err = c.ListCases(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, expired)
}

func TestErrorDetailFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := client.New(srv.URL)
	_, err := c.GetCase(context.Background(), "ABCD1234EFGH5678")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "request failed with status 502", apiErr.Detail)
	assert.Equal(t, "courtroom api 502: request failed with status 502", apiErr.Error())
}

func TestSubmitArgumentRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/cases/ABCD1234EFGH5678/arguments", r.URL.Path)

		var req models.SubmitArgumentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, models.RolePlaintiff, req.Role)
		assert.Equal(t, "My client is innocent.", req.Argument)

		json.NewEncoder(w).Encode(models.ArgumentResponse{
			AICounterArgument: "Objection.",
			AICounterRole:     models.RoleDefendant,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok"))
	resp, err := c.SubmitArgument(context.Background(), "ABCD1234EFGH5678", models.RolePlaintiff, "My client is innocent.")

	require.NoError(t, err)
	assert.Equal(t, "Objection.", resp.AICounterArgument)
	assert.Equal(t, models.RoleDefendant, resp.AICounterRole)
}

func TestArgumentLimit(t *testing.T) {
	seconds := 42.5
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/limit/argument", r.URL.Path)
		json.NewEncoder(w).Encode(models.RateLimitInfo{
			RemainingAttempts: 0,
			MaxAttempts:       10,
			SecondsUntilNext:  &seconds,
		})
	}))
	defer srv.Close()

	c := client.New(srv.URL, client.WithToken("tok"))
	info, err := c.ArgumentLimit(context.Background())

	require.NoError(t, err)
	assert.True(t, info.AtLimit())
	require.NotNil(t, info.SecondsUntilNext)
	assert.Equal(t, 42.5, *info.SecondsUntilNext)
}
