// Package completion is the I/O boundary to the remote text-completion
// service: one POST per turn, no retries, a bounded timeout.
package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"shopchat/internal/domain"
)

const defaultTimeout = 30 * time.Second

// ClientOption configures the client.
type ClientOption func(*Client)

// WithTimeout bounds a single outbound call.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithAPIKey sets a bearer token sent with each request.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// Client is an HTTP client for the remote completion endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:   strings.TrimSuffix(endpoint, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete sends one completion request and returns the raw response
// envelope. It fails with *domain.TransportError when the service cannot
// be reached and *domain.RemoteServiceError on a non-2xx status. Retry
// policy, if any, belongs to the caller.
func (c *Client) Complete(ctx context.Context, req *domain.CompletionRequest) (Envelope, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &domain.RemoteServiceError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return Envelope(respBody), nil
}
