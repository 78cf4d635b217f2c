// Package client provides a typed Go client for the AI Courtroom API plus
// the courtroom session logic built on top of it: role resolution,
// transcript merging, submission control and the two pollers.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ParthRana1023/ai-courtroom/models"
)

// APIError is returned when the API responds with a non-2xx status. Detail
// carries the backend's human-readable message verbatim.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("courtroom api %d: %s", e.Status, e.Detail)
}

// Client is a typed client for the AI Courtroom API
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	log *zap.SugaredLogger

	mu               sync.RWMutex
	token            string
	onSessionExpired func()
}

// Option configures the client
type Option func(*Client)

// WithToken sets the bearer token
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout sets the HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithLogger sets the logger used for non-fatal client events
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) { c.log = log }
}

// WithSessionExpiredHook registers a callback fired whenever the API
// rejects the stored token. The token is cleared before the hook runs.
func WithSessionExpiredHook(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// New creates a new Client
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		log: zap.S(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken stores the bearer token used on subsequent requests
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the stored bearer token, empty when logged out
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// sessionExpired clears the token and notifies the owner exactly once per
// rejection
func (c *Client) sessionExpired() {
	c.mu.Lock()
	hadToken := c.token != ""
	c.token = ""
	hook := c.onSessionExpired
	c.mu.Unlock()

	if hadToken && hook != nil {
		hook()
	}
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: fmt.Sprintf("request failed with status %d", resp.StatusCode)}
		var detail models.ErrorDetailResponse
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.sessionExpired()
		}
		return apiErr
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Register calls POST /api/v1/auth/register
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) error {
	return c.do(ctx, "POST", "/api/v1/auth/register", req, nil)
}

// VerifyOTP calls POST /api/v1/auth/verify-otp
func (c *Client) VerifyOTP(ctx context.Context, email, code string) error {
	return c.do(ctx, "POST", "/api/v1/auth/verify-otp", models.VerifyOTPRequest{Email: email, Code: code}, nil)
}

// Login exchanges credentials for a bearer token and stores it
func (c *Client) Login(ctx context.Context, email, password string) error {
	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/api/v1/auth/token", nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(email, password)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: "login failed"}
		var detail models.ErrorDetailResponse
		if err := json.NewDecoder(resp.Body).Decode(&detail); err == nil && detail.Detail != "" {
			apiErr.Detail = detail.Detail
		}
		return apiErr
	}

	var token models.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return err
	}
	c.SetToken(token.AccessToken)
	return nil
}

// Logout revokes the stored token
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, "DELETE", "/api/v1/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

// GenerateCase calls POST /api/v1/cases/generate
func (c *Client) GenerateCase(ctx context.Context, sections []string, numbers []int) (*models.Case, error) {
	var out models.Case
	err := c.do(ctx, "POST", "/api/v1/cases/generate",
		models.GenerateCaseRequest{SectionsInvolved: sections, SectionNumbers: numbers}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListCases calls GET /api/v1/cases
func (c *Client) ListCases(ctx context.Context) ([]models.CaseSummary, error) {
	var out []models.CaseSummary
	err := c.do(ctx, "GET", "/api/v1/cases", nil, &out)
	return out, err
}

// GetCase calls GET /api/v1/cases/{cnr}
func (c *Client) GetCase(ctx context.Context, cnr string) (*models.Case, error) {
	var out models.Case
	err := c.do(ctx, "GET", "/api/v1/cases/"+cnr, nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCase calls DELETE /api/v1/cases/{cnr}
func (c *Client) DeleteCase(ctx context.Context, cnr string) error {
	return c.do(ctx, "DELETE", "/api/v1/cases/"+cnr, nil, nil)
}

// CaseHistory calls GET /api/v1/cases/{cnr}/history
func (c *Client) CaseHistory(ctx context.Context, cnr string) (*models.CaseHistory, error) {
	var out models.CaseHistory
	err := c.do(ctx, "GET", "/api/v1/cases/"+cnr+"/history", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitArgument calls POST /api/v1/cases/{cnr}/arguments
func (c *Client) SubmitArgument(ctx context.Context, cnr string, role models.Role, argument string) (*models.ArgumentResponse, error) {
	var out models.ArgumentResponse
	err := c.do(ctx, "POST", "/api/v1/cases/"+cnr+"/arguments",
		models.SubmitArgumentRequest{Role: role, Argument: argument}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitClosingStatement calls POST /api/v1/cases/{cnr}/closing-statement
func (c *Client) SubmitClosingStatement(ctx context.Context, cnr string, role models.Role, statement string) (*models.ClosingResponse, error) {
	var out models.ClosingResponse
	err := c.do(ctx, "POST", "/api/v1/cases/"+cnr+"/closing-statement",
		models.ClosingStatementRequest{Role: role, Statement: statement}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeCase calls POST /api/v1/cases/{cnr}/analyze-case
func (c *Client) AnalyzeCase(ctx context.Context, cnr string) (*models.AnalysisResponse, error) {
	var out models.AnalysisResponse
	err := c.do(ctx, "POST", "/api/v1/cases/"+cnr+"/analyze-case", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ArgumentLimit calls GET /api/v1/limit/argument
func (c *Client) ArgumentLimit(ctx context.Context) (*models.RateLimitInfo, error) {
	var out models.RateLimitInfo
	err := c.do(ctx, "GET", "/api/v1/limit/argument", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// CaseGenerationLimit calls GET /api/v1/limit/case-generation
func (c *Client) CaseGenerationLimit(ctx context.Context) (*models.RateLimitInfo, error) {
	var out models.RateLimitInfo
	err := c.do(ctx, "GET", "/api/v1/limit/case-generation", nil, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}
