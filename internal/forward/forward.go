// Package forward is the best-effort client for the persistent store's
// loopback sync API. Failures are reported but never block acceptance;
// the scanner's local collection stays authoritative.
package forward

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

// Client talks to the store service on loopback.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a forwarder for the store listening on the given port.
func New(port int) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://127.0.0.1:%d", port),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type appendResponse struct {
	Success bool `json:"success"`
	Added   int  `json:"added"`
	Total   int  `json:"total"`
}

// Forward pushes one accepted tweet to the store.
func (c *Client) Forward(ctx context.Context, tweet types.SavedTweet) error {
	return c.post(ctx, tweet)
}

// ForwardAll pushes the whole collection, e.g. for a manual full sync.
func (c *Client) ForwardAll(ctx context.Context, tweets []types.SavedTweet) error {
	return c.post(ctx, tweets)
}

func (c *Client) post(ctx context.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("store unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("store returned status %d", resp.StatusCode)
	}

	var ar appendResponse
	if err := json.NewDecoder(resp.Body).Decode(&ar); err != nil {
		return fmt.Errorf("failed to decode store response: %w", err)
	}
	return nil
}

// SavedIDs fetches the ids already held by the store, used to pre-seed
// the dedup ledger at startup. Best effort: an unreachable store yields
// an empty list.
func (c *Client) SavedIDs(ctx context.Context) []string {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/tweets", nil)
	if err != nil {
		return nil
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	var list struct {
		Tweets []types.SavedTweet `json:"tweets"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil
	}

	ids := make([]string, 0, len(list.Tweets))
	for _, t := range list.Tweets {
		ids = append(ids, t.ID)
	}
	return ids
}
