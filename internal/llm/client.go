// Package llm implements the outbound chat-completion backend used by the
// extraction cascade. One Client wraps one named model behind an
// OpenAI-compatible chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nefera/internal/config"
	"nefera/internal/port"
)

const (
	defaultMaxOutputTokens = 1200
	retryBackoff           = 400 * time.Millisecond
)

// Client implements port.ChatBackend for a single model.
type Client struct {
	model           string
	apiKey          string
	endpoint        string
	maxOutputTokens int
	client          *http.Client
	backoff         time.Duration
}

// NewClient creates a backend client for the given model using the shared
// LLM config.
func NewClient(cfg *config.LLMConfig, model string) *Client {
	return NewClientWithEndpoint(cfg, model, cfg.Endpoint)
}

// NewClientWithEndpoint creates a client pointing at a custom endpoint
// (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, model, endpoint string) *Client {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 45 * time.Second
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxOutputTokens
	}
	return &Client{
		model:           model,
		apiKey:          cfg.APIKey,
		endpoint:        endpoint,
		maxOutputTokens: maxTokens,
		client:          &http.Client{Timeout: timeout},
		backoff:         retryBackoff,
	}
}

// Name returns the backend's model identifier.
func (c *Client) Name() string {
	return c.model
}

// Complete issues one structured-output request. Temperature is pinned to
// zero so identical inputs produce identical outputs as far as the backend
// allows. Transient failures get exactly one transparent retry.
func (c *Client) Complete(ctx context.Context, req port.ChatRequest) (*port.ChatResponse, error) {
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.maxOutputTokens
	}

	payload := map[string]interface{}{
		"model":       c.model,
		"temperature": 0,
		"max_tokens":  maxTokens,
		"messages":    req.Messages,
	}
	if req.JSONObject {
		payload["response_format"] = map[string]string{"type": "json_object"}
	}

	status, body, latency, err := c.doWithRetry(ctx, payload)
	if err != nil {
		return nil, err
	}

	// Some models reject the json_object response format with a 400. Retry
	// once without the hint, matching the cascade's strict-JSON prompting.
	if status == http.StatusBadRequest && req.JSONObject && mentionsResponseFormat(body) {
		delete(payload, "response_format")
		status, body, latency, err = c.doWithRetry(ctx, payload)
		if err != nil {
			return nil, err
		}
	}

	if status != http.StatusOK {
		return nil, &TransportError{
			Backend: c.model,
			Status:  status,
			Err:     fmt.Errorf("%s", truncate(string(body), 500)),
		}
	}

	content, err := extractContent(body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.model, err)
	}

	return &port.ChatResponse{Content: content, LatencyMS: latency}, nil
}

// doWithRetry performs the request, retrying once on a transient condition
// with a short fixed backoff. Non-transient failures propagate immediately.
func (c *Client) doWithRetry(ctx context.Context, payload map[string]interface{}) (int, []byte, int64, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, 0, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return 0, nil, 0, &TransportError{Backend: c.model, Err: ctx.Err()}
			}
		}

		status, respBody, latency, err := c.do(ctx, bodyBytes)
		if err != nil {
			lastErr = &TransportError{Backend: c.model, Err: err}
			continue
		}
		if transientStatus(status) {
			lastErr = &TransportError{
				Backend: c.model,
				Status:  status,
				Err:     fmt.Errorf("%s", truncate(string(respBody), 500)),
			}
			continue
		}
		return status, respBody, latency, nil
	}
	return 0, nil, 0, lastErr
}

func (c *Client) do(ctx context.Context, body []byte) (int, []byte, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return 0, nil, 0, fmt.Errorf("reading response: %w", err)
	}
	return resp.StatusCode, respBody, latency, nil
}

func transientStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// apiResponse models the OpenAI-compatible chat completions response.
type apiResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func extractContent(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("invalid response format: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty response from API: no choices")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", errors.New("empty content")
	}
	return content, nil
}

func mentionsResponseFormat(body []byte) bool {
	s := string(body)
	return strings.Contains(s, "response_format") ||
		strings.Contains(s, "json_object") ||
		strings.Contains(s, "response format")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
