package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Fallback replies returned when generation fails. These are shown to the
// user but never stored on the case transcript.
const (
	ApologyOpening = "I apologize, but I'm unable to generate an opening statement at this time. Please try again later."
	ApologyCounter = "I apologize, but I'm unable to generate a counter argument at this time. Please try again later."
	ApologyClosing = "I apologize, but I'm unable to generate a closing statement at this time. Please try again later."
	ApologyVerdict = "I apologize, but I'm unable to generate a verdict at this time. Please try again later."
)

// Client wraps the Gemini API for the courtroom personas: opposing counsel,
// the presiding judge, case drafting and performance analysis.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a Gemini-backed Client
func New(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &Client{client: c, model: defaultModel}, nil
}

// generate runs one completion with a system instruction and a user prompt
func (c *Client) generate(ctx context.Context, system, prompt string) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	}
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("model returned an empty response")
	}
	return text, nil
}
