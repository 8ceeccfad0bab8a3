// Package gemini wraps the Google Gemini API for schema-constrained
// JSON generation.
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/merchguard/merchguard/engine/domain"
	"google.golang.org/genai"
)

// Client talks to the Gemini API and always requests JSON output.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      *slog.Logger
}

// New creates a Gemini client for the given model.
func New(ctx context.Context, apiKey, model string, temperature float32, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{client: client, model: model, temperature: temperature, logger: logger}, nil
}

// Generate sends a prompt and returns the raw JSON the model produced.
// The response is constrained to the given schema, so the model cannot
// emit prose or markdown fences around the payload.
func (c *Client) Generate(ctx context.Context, system, prompt string, schema *genai.Schema) (json.RawMessage, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      genai.Ptr(c.temperature),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelInvocation, err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty response from %s", domain.ErrModelResponse, c.model)
	}
	if !json.Valid([]byte(text)) {
		c.logger.Warn("model returned invalid json", "model", c.model, "length", len(text))
		return nil, fmt.Errorf("%w: response is not valid json", domain.ErrModelResponse)
	}
	return json.RawMessage(text), nil
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}
