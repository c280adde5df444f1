// Package chat implements the conversational-AI adapter.
//
// The adapter talks to the friday-relay process (POST /api/chat), which in
// turn forwards to the upstream provider. The relay answers {"reply": ...}
// for both healthy and degraded states, so the client trusts any decodable
// reply body regardless of status code; only transport or decode failures
// surface as errors.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/fridaylabs/friday/internal/adapter"
)

// Client calls the conversational-AI relay.
type Client struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// New creates a chat client against the relay base URL (e.g. "http://localhost:3000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 60 * time.Second},
		breaker: adapter.NewBreaker("chat"),
	}
}

// Send forwards the user's message and returns the relay's reply text.
// Failures collapse to adapter.ErrUnavailable.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		return c.send(ctx, message)
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", adapter.ErrUnavailable, err)
	}
	return out.(string), nil
}

func (c *Client) send(ctx context.Context, message string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("marshalling chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding chat response (status %d): %w", resp.StatusCode, err)
	}
	if body.Reply == "" {
		return "", fmt.Errorf("chat response missing reply (status %d)", resp.StatusCode)
	}

	return body.Reply, nil
}
