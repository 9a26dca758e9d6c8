package infer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.anthropic.com"

// Client asks an LLM service to suggest document structure when the
// heuristic detectors come up empty. The wire format is the Anthropic
// Messages API; BaseURL can point at any compatible gateway.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	stats      *Stats
}

func NewClient(baseURL, apiKey, model string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		stats: NewStats(time.Hour),
	}
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

// Stats returns the rolling latency window for this client.
func (c *Client) Stats() *Stats {
	return c.stats
}

// Unit is one structural unit suggested by the service.
type Unit struct {
	Title     string `json:"title"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
}

// RetryableError marks transient failures (rate limits, upstream errors)
// that deserve another attempt.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// InferUnits sends the structure prompt and parses the suggested units
// from the JSON array the service returns.
func (c *Client) InferUnits(ctx context.Context, prompt string) ([]Unit, error) {
	reqBody := apiRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages:  []message{{Role: "user", Content: prompt}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()
	c.stats.Record(time.Since(start))

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(body)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference status %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("inference error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Content) == 0 {
		return nil, fmt.Errorf("empty response content")
	}

	text := stripCodeBlock(apiResp.Content[0].Text)
	var units []Unit
	if err := json.Unmarshal([]byte(text), &units); err != nil {
		return nil, fmt.Errorf("parse units: %w (raw: %s)", err, truncate(text, 200))
	}
	return units, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// Models often wrap JSON answers in a markdown fence despite instructions.
var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
