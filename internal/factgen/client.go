// Package factgen is a stateless adapter for OpenAI's chat completions API,
// used to generate one short winter fact at a time.
//
// Unlike the weather gateway, failures here are NOT swallowed into nil: the
// generate endpoint reports them to the client as structured JSON errors, so
// Generate returns typed apperror values — ConfigMissing when the credential
// is absent, Upstream for any transport or parse failure. Nothing in this
// package is ever fatal to the process.
package factgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sakif/weather-dashboard/internal/apperror"
)

// DefaultBaseURL is OpenAI's API root.
const DefaultBaseURL = "https://api.openai.com/v1"

// The prompt and sampling parameters are fixed — every generated fact uses
// the same request apart from the model's own randomness.
const (
	model        = "gpt-3.5-turbo"
	systemPrompt = "You are an assistant that provides fun and educational winter facts."
	userPrompt   = "Generate a fun fact about winter, dont use 'Sure! Here's a fun fact about winter' at the start, neither 'Fun Fact:', keep it short, 2-3 sentences."
	temperature  = 0.7
	maxTokens    = 50
)

// Client calls the text-generation provider. Construct with New.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a factgen Client. An empty apiKey is allowed at construction —
// the missing credential surfaces as a ConfigMissing error on Generate, so
// the app starts fine without the provider configured.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// NewWithBaseURL creates a Client pointed at a custom endpoint root.
// Used in tests to aim the client at an httptest server.
func NewWithBaseURL(apiKey, baseURL string, logger *slog.Logger) *Client {
	c := New(apiKey, logger)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// Configured reports whether a provider credential is present. The generate
// endpoint checks this before the cap pre-check so a missing key surfaces as
// a config error even when the catalog is full.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// chatRequest is the request body for POST /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the portion of the provider's response we care about —
// the first choice's message content.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate requests one completion with the fixed prompt and returns the
// trimmed fact text. Single attempt, no retry.
func (c *Client) Generate(ctx context.Context) (string, error) {
	if c.apiKey == "" {
		return "", apperror.ConfigMissing("OpenAI API key is missing.")
	}

	body, err := json.Marshal(chatRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", apperror.Upstream(fmt.Errorf("encoding completion request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", apperror.Upstream(fmt.Errorf("building completion request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("calling text-generation provider", slog.String("error", err.Error()))
		return "", apperror.Upstream(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("text-generation provider returned non-200",
			slog.Int("status", resp.StatusCode),
		)
		return "", apperror.Upstream(fmt.Errorf("provider returned status %d", resp.StatusCode))
	}

	var data chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", apperror.Upstream(fmt.Errorf("decoding completion response: %w", err))
	}

	if len(data.Choices) == 0 {
		return "", apperror.Upstream(fmt.Errorf("provider returned no choices"))
	}

	fact := strings.TrimSpace(data.Choices[0].Message.Content)
	if fact == "" {
		return "", apperror.Upstream(fmt.Errorf("provider returned an empty completion"))
	}

	return fact, nil
}
