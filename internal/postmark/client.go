// Package postmark is a minimal client for Postmark's email sending API.
package postmark

//go:generate mockgen -source=client.go -destination=mock_client.go -package=postmark

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukerupert/postmark-transport/internal/message"
)

const (
	DefaultBaseURL = "https://api.postmarkapp.com"
	DefaultTimeout = 30 * time.Second
)

// Client is the set of Postmark operations the transport uses.
type Client interface {
	SendEmail(ctx context.Context, msg *message.Message) (*Result, error)
	SendEmailWithTemplate(ctx context.Context, msg *message.Message) (*Result, error)
	SendEmailBatch(ctx context.Context, msgs []*message.Message) ([]Result, error)
}

// Result is Postmark's per-message outcome. ErrorCode 0 means accepted.
type Result struct {
	To          string `json:"To,omitempty"`
	SubmittedAt string `json:"SubmittedAt,omitempty"`
	MessageID   string `json:"MessageID,omitempty"`
	ErrorCode   int    `json:"ErrorCode"`
	Message     string `json:"Message"`
}

// Options tune the HTTP client. Zero values fall back to defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// HTTPClient implements Client against the Postmark REST API.
type HTTPClient struct {
	token   string
	baseURL string
	http    *http.Client
}

// NewHTTPClient creates a client authenticating with a server token.
func NewHTTPClient(token string, opts Options) *HTTPClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &HTTPClient{
		token:   token,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    hc,
	}
}

// SendEmail posts a content message to /email.
func (c *HTTPClient) SendEmail(ctx context.Context, msg *message.Message) (*Result, error) {
	var result Result
	if err := c.post(ctx, "/email", msg, &result); err != nil {
		return nil, &TransportError{Op: "sendEmail", Err: err}
	}
	return &result, nil
}

// SendEmailWithTemplate posts a template message to /email/withTemplate.
func (c *HTTPClient) SendEmailWithTemplate(ctx context.Context, msg *message.Message) (*Result, error) {
	var result Result
	if err := c.post(ctx, "/email/withTemplate", msg, &result); err != nil {
		return nil, &TransportError{Op: "sendEmailWithTemplate", Err: err}
	}
	return &result, nil
}

// SendEmailBatch posts messages to /email/batch. Postmark answers with one
// result per message, in request order.
func (c *HTTPClient) SendEmailBatch(ctx context.Context, msgs []*message.Message) ([]Result, error) {
	var results []Result
	if err := c.post(ctx, "/email/batch", msgs, &results); err != nil {
		return nil, &TransportError{Op: "sendEmailBatch", Err: err}
	}
	return results, nil
}

func (c *HTTPClient) post(ctx context.Context, path string, payload, out any) error {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Postmark-Server-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return apiErr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

var _ Client = (*HTTPClient)(nil)
