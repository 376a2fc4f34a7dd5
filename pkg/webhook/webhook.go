// Package webhook posts scan reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ccollicutt/lossylines/pkg/config"
	"github.com/ccollicutt/lossylines/pkg/report"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// maxResponseBody caps how much of a response body is kept.
const maxResponseBody = 1 << 20

// Client sends scan reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
		userAgent:  "lossylines-webhook",
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Send posts a report as JSON to a webhook endpoint.
func (c *Client) Send(ctx context.Context, rep *report.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(rep)
	if err != nil {
		return fail(fmt.Errorf("failed to marshal report: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}

// ShouldFire reports whether a webhook with the given trigger fires for a
// report that does or does not contain repaired lines.
func ShouldFire(trigger config.WebhookTrigger, hasRepairs bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasRepairs
	}
}

// Notify sends rep to every hook whose trigger fires and returns how many
// deliveries failed. Outcomes are logged; failures never abort the loop.
func (c *Client) Notify(ctx context.Context, hooks []config.WebhookConfig, rep *report.Report, logger *slog.Logger) int {
	failed := 0
	for _, wh := range hooks {
		if !ShouldFire(wh.Trigger, rep.HasRepairs()) {
			logger.Debug("webhook skipped", "webhook", wh.DisplayName(), "trigger", wh.Trigger)
			continue
		}

		resp := c.Send(ctx, rep, SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})
		if resp.Success() {
			logger.Info("webhook sent", "webhook", wh.DisplayName(), "status", resp.StatusCode, "duration", resp.Duration)
			continue
		}
		failed++
		logger.Warn("webhook failed", "webhook", wh.DisplayName(), "error", resp.Error)
	}
	return failed
}
