package config_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ParthRana1023/ai-courtroom/config"
	"github.com/ParthRana1023/ai-courtroom/models"
)

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("DB_URI", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "courtroom")
	t.Setenv("PORT", "8000")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("GEMINI_API_KEY", "gk-123")

	c := config.New()

	assert.Equal(t, "mongodb://localhost:27017", c.Url)
	assert.Equal(t, "courtroom", c.DatabaseName)
	assert.Equal(t, "8000", c.Port)
	assert.Equal(t, "secret", c.JWTSecret)
	assert.Equal(t, "gk-123", c.GeminiAPIKey)
}

func TestErrorStatusWritesDetail(t *testing.T) {
	rr := httptest.NewRecorder()

	config.ErrorStatus("Case not found", http.StatusNotFound, rr, errors.New("mongo: no documents in result"))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp models.ErrorDetailResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, "Case not found", resp.Detail)
}
