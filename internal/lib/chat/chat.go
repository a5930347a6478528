// Package chat posts plain-text submission summaries to a Slack-compatible
// incoming webhook.
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/deppfellow/go-forms/internal/lib/breaker"
	"github.com/deppfellow/go-forms/internal/lib/utils"
	"github.com/deppfellow/go-forms/internal/metrics"
	"github.com/pkg/errors"
)

// Client sends messages to one webhook URL.
type Client struct {
	httpClient *http.Client
	webhookURL string
	breaker    breaker.CircuitBreaker
}

// NewClient returns nil when webhookURL is empty; a nil *Client is a valid
// disabled client.
func NewClient(httpClient *http.Client, webhookURL string) *Client {
	if strings.TrimSpace(webhookURL) == "" {
		return nil
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		webhookURL: webhookURL,
		breaker:    breaker.New("chat-webhook", 30*time.Second, 5),
	}
}

// Enabled reports whether a webhook is configured.
func (c *Client) Enabled() bool {
	return c != nil
}

type message struct {
	Text string `json:"text"`
}

// Send posts text to the webhook.
func (c *Client) Send(ctx context.Context, text string) error {
	if c == nil {
		return nil
	}

	return c.breaker.Execute(func() error {
		return c.post(ctx, text)
	})
}

func (c *Client) post(ctx context.Context, text string) error {
	body, err := json.Marshal(message{Text: text})
	if err != nil {
		return errors.Wrap(err, "failed to encode chat message")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		// The webhook URL is a secret; never echo it.
		return errors.New("failed to build chat webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues("chat").Observe(time.Since(start).Seconds())
	if err != nil {
		return errors.New("chat webhook request failed: " + utils.RedactAll(err.Error(), c.webhookURL))
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		reply, _ := io.ReadAll(io.LimitReader(res.Body, 1<<10))
		return fmt.Errorf("chat webhook responded %d: %s", res.StatusCode, strings.TrimSpace(string(reply)))
	}

	return nil
}

// Line is one labelled value in a summary.
type Line struct {
	Label string
	Value string
}

// FormatSummary renders a title followed by one "*Label:* value" line per
// non-empty value.
func FormatSummary(title string, lines []Line) string {
	var builder strings.Builder
	builder.WriteString(title)
	builder.WriteString("\n")
	for _, line := range lines {
		value := strings.TrimSpace(line.Value)
		if value == "" {
			continue
		}
		builder.WriteString(fmt.Sprintf("*%s:* %s\n", line.Label, value))
	}
	return strings.TrimRight(builder.String(), "\n")
}
