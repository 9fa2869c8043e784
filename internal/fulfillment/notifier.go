// Package fulfillment forwards confirmed orders to a downstream webhook.
// Delivery is fire-and-forget: a single best-effort POST with no retries,
// whose failure never surfaces to the turn that recorded the order.
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"shopchat/internal/domain"
)

const defaultTimeout = 10 * time.Second

// NotifierOption configures a Notifier.
type NotifierOption func(*Notifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) NotifierOption {
	return func(n *Notifier) {
		n.client = client
	}
}

// WithTimeout bounds a single webhook call.
func WithTimeout(d time.Duration) NotifierOption {
	return func(n *Notifier) {
		n.client.Timeout = d
	}
}

// Notifier posts order payloads to a configured webhook endpoint.
type Notifier struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

// New creates a notifier for endpoint. An empty endpoint yields a no-op
// notifier.
func New(endpoint string, logger *slog.Logger, opts ...NotifierOption) *Notifier {
	n := &Notifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultTimeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

type webhookPayload struct {
	Item      string    `json:"item"`
	Quantity  int       `json:"quantity"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Notify sends one order to the webhook. Failures are logged and
// swallowed; the order remains recorded regardless.
func (n *Notifier) Notify(ctx context.Context, order *domain.OrderRecord) {
	if n.endpoint == "" {
		return
	}

	body, err := json.Marshal(webhookPayload{
		Item:      order.Item,
		Quantity:  order.Quantity,
		Action:    string(domain.ActionCreateOrder),
		Timestamp: order.CreatedAt,
	})
	if err != nil {
		n.logger.Warn("fulfillment payload marshal failed", slog.String("error", err.Error()))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		n.logger.Warn("fulfillment request build failed", slog.String("error", err.Error()))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		n.logger.Warn("fulfillment webhook unreachable",
			slog.String("order_id", order.ID),
			slog.String("error", err.Error()))
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		n.logger.Warn("fulfillment webhook rejected order",
			slog.String("order_id", order.ID),
			slog.Int("status", resp.StatusCode))
	}
}
