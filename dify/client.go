package dify

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/keyishen/difyprobe/config"
	"github.com/keyishen/difyprobe/errors"
)

// Timeout bounds one blocking exchange with the remote agent.
const Timeout = 60 * time.Second

// Usage is the token accounting block of a response's metadata.
type Usage struct {
	TotalTokens int `json:"total_tokens"`
}

// Metadata carries optional usage and model information.
type Metadata struct {
	Usage Usage  `json:"usage"`
	Model string `json:"model"`
}

// Result is the structured outcome of one chat-messages call.
type Result struct {
	Answer         string   `json:"answer"`
	ConversationID string   `json:"conversation_id"`
	Metadata       Metadata `json:"metadata"`
}

// Caller performs one blocking exchange with the remote agent.
type Caller interface {
	ChatMessage(ctx context.Context, profile *config.Profile, payload *Payload) (*Result, error)
}

// Client talks to a Dify chat-messages application over HTTP.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the fixed request timeout.
func NewClient() *Client {
	return newClientWithHTTP(&http.Client{Timeout: Timeout})
}

func newClientWithHTTP(h *http.Client) *Client {
	return &Client{httpClient: h}
}

// ChatMessage posts one payload and decodes the blocking-mode response.
// Timeouts, network failures and non-2xx statuses come back as distinct,
// human-readable errors.
func (c *Client) ChatMessage(ctx context.Context, profile *config.Profile, payload *Payload) (*Result, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "could not serialize request payload")
	}

	url := strings.TrimRight(profile.BaseURL, "/") + "/chat-messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrapf(err, "could not build request for %s", url)
	}
	req.Header.Set("Authorization", "Bearer "+profile.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		var netErr net.Error
		if stderrors.As(err, &netErr) && netErr.Timeout() {
			return nil, errors.New("request timed out after %s", c.httpClient.Timeout)
		}
		return nil, errors.Wrapf(err, "network error calling %s", url)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "could not read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New("dify API returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "could not parse response body")
	}
	return &result, nil
}

// MockCaller is an offline stand-in that echoes the query back.
type MockCaller struct{}

func (m *MockCaller) ChatMessage(ctx context.Context, profile *config.Profile, payload *Payload) (*Result, error) {
	return &Result{
		Answer:         fmt.Sprintf("mock answer to: %s", payload.Query.UserInput),
		ConversationID: "mock-conversation",
	}, nil
}
