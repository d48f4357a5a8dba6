// Package openai provides a minimal client for an Azure-OpenAI-style chat
// completion endpoint: api-key header auth, messages in, the first choice's
// message content out.
package openai

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
)

const _defaultTimeout = 60 * time.Second

// maxErrorBody caps how much of an error response body is echoed to the user.
const maxErrorBody = 512

// ErrUnreachable indicates the completion endpoint could not be reached
// (connection refused or request timeout).
var ErrUnreachable = errors.New("completion endpoint unreachable")

// Client calls the chat completion API. Zero value is not valid; use NewClient.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds a completion client. endpoint is the full request URL
// (Azure deployments encode model and api-version in it). If httpClient is
// nil, a default client with a 60s timeout is used; a hung remote then
// surfaces as a generation failure instead of blocking the run.
func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: _defaultTimeout}
	}
	return &Client{endpoint: endpoint, apiKey: apiKey, httpClient: httpClient}
}

// Message is one chat message in the request body.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Options are the sampling parameters sent with each request.
type Options struct {
	Temperature float64
	MaxTokens   int
}

type chatRequest struct {
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a system+user message pair and returns the raw content of
// the first choice. Non-200 status is an error carrying the status code and
// a body snippet; transport failure wraps ErrUnreachable.
func (c *Client) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	body := chatRequest{
		Messages: []Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("chat completion: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("chat completion: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", errors.Join(ErrUnreachable, err))
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", fmt.Errorf("chat completion: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("chat completion: parse response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("chat completion: response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
