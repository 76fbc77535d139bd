package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"PolicyPal/internal/ports"
)

// Client talks to an external summarization service.
type Client struct {
	endpoint     string
	apiKey       string
	instructions string
	http         *http.Client
}

var _ ports.Summarizer = (*Client)(nil)

// NewClient creates a reusable HTTP client.
func NewClient(endpoint, apiKey, instructions string) *Client {
	return &Client{
		endpoint:     strings.TrimRight(endpoint, "/"),
		apiKey:       apiKey,
		instructions: instructions,
		http:         &http.Client{Timeout: 30 * time.Second},
	}
}

// Name identifies the backend inside the registry.
func (c *Client) Name() string {
	return "service"
}

// Summarize requests a summary for the bill text.
func (c *Client) Summarize(ctx context.Context, text string) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("summarization service endpoint is empty")
	}

	payload := map[string]any{
		"instructions": c.instructions,
		"content":      text,
	}

	var resp struct {
		Summary string `json:"summary"`
	}

	if err := c.post(ctx, "/summarize", payload, &resp); err != nil {
		return "", err
	}

	return strings.TrimSpace(resp.Summary), nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if v == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
