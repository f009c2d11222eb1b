package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// HTTPRemote calls the relay's /chat endpoint. The relay answers with a
// "reply" field; some deployments use "answer" instead, so both are
// accepted.
type HTTPRemote struct {
	url    string
	client *http.Client
}

func NewHTTPRemote(url string, timeout time.Duration) *HTTPRemote {
	return &HTTPRemote{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *HTTPRemote) Reply(ctx context.Context, text string) (string, error) {
	payload, err := json.Marshal(map[string]string{"message": text})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reply request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("reply endpoint returned status %d", resp.StatusCode)
	}

	var body struct {
		Reply  string `json:"reply"`
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode reply: %w", err)
	}

	if body.Reply != "" {
		return body.Reply, nil
	}
	return body.Answer, nil
}
