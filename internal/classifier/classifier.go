// Package classifier wraps the Anthropic messages API call that decides
// whether a tweet shares a useful developer tool, hack, or productivity tip.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

const (
	apiURL           = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 300
)

const systemPrompt = `You are a tweet classifier. Analyze tweets to determine if they share a useful software development tool, coding hack/trick, or productivity workflow tip.

Respond ONLY with valid JSON, no other text before or after:
{"is_useful": true, "category": "tool", "tool_name": "name or null", "summary": "one-line summary or null", "confidence": 0.8}

Only mark as useful if the tweet genuinely teaches something actionable — a specific tool, technique, shortcut, or workflow. Ignore promotional/marketing tweets, vague motivational content, memes, image-only posts, or pure opinions.`

// Client calls the Anthropic API to classify tweet text.
type Client struct {
	apiKey         string
	model          string
	maxPromptChars int
	client         *http.Client
}

// New creates a classifier client. A non-positive maxPromptChars falls
// back to the 500-char cap.
func New(apiKey, model string, maxPromptChars int) *Client {
	if maxPromptChars <= 0 {
		maxPromptChars = 500
	}
	return &Client{
		apiKey:         apiKey,
		model:          model,
		maxPromptChars: maxPromptChars,
		client: &http.Client{
			Timeout: 120 * time.Second, // LLM calls can be slow
		},
	}
}

// request/response shapes for the messages API
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Content []apiContent `json:"content"`
	Error   *apiError    `json:"error,omitempty"`
}

type apiContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Classify sends one tweet's text for classification and returns the
// parsed verdict. Transport failures, non-2xx statuses and unparsable
// replies all fail with an error; the caller applies the confidence
// threshold.
func (c *Client) Classify(ctx context.Context, text string) (types.Verdict, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{
			{Role: "user", Content: "Classify this tweet:\n\n" + Sanitize(text, c.maxPromptChars)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(jsonBody))
	if err != nil {
		return types.Verdict{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("failed to call API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.Verdict{}, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return types.Verdict{}, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return types.Verdict{}, fmt.Errorf("failed to parse API response: %w", err)
	}

	if apiResp.Error != nil {
		return types.Verdict{}, fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	if len(apiResp.Content) == 0 {
		return types.Verdict{}, fmt.Errorf("empty response from model")
	}

	return ParseVerdict(apiResp.Content[0].Text)
}
