package forward

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/notifyhub/notifyhub/internal/notification"
)

// forwardTimeout bounds a single webhook delivery attempt.
const forwardTimeout = 10 * time.Second

// ErrNoWebhookURL is returned by New when no webhook URL is available.
var ErrNoWebhookURL = errors.New("teams webhook URL not configured")

// TeamsForwarder delivers Warning notifications to a Microsoft Teams
// incoming webhook as MessageCard payloads.
type TeamsForwarder struct {
	webhookURL string
	client     *http.Client
}

// New creates a forwarder for the given webhook URL. An empty URL is a
// construction failure: the service then runs without a forwarder for the
// rest of its lifetime rather than retrying configuration later.
func New(webhookURL string) (*TeamsForwarder, error) {
	if webhookURL == "" {
		return nil, ErrNoWebhookURL
	}
	return &TeamsForwarder{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: forwardTimeout},
	}, nil
}

// ShouldForward reports whether n qualifies for delivery. The rule is the
// severity alone: Warnings forward, everything else stays local.
func (f *TeamsForwarder) ShouldForward(n notification.Notification) bool {
	return n.Severity == notification.SeverityWarning
}

// Forward attempts one synchronous delivery of n and returns true iff the
// webhook acknowledged with a 2xx status. Transport errors, non-2xx
// responses and timeouts all collapse to false; failures are logged here
// and never surfaced to the caller.
func (f *TeamsForwarder) Forward(ctx context.Context, n notification.Notification) bool {
	body, err := json.Marshal(messageCard(n))
	if err != nil {
		slog.Error("forward: encode payload", "name", n.Name, "err", err)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.webhookURL, bytes.NewReader(body))
	if err != nil {
		slog.Error("forward: build request", "name", n.Name, "err", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		slog.Error("forward: webhook delivery failed", "name", n.Name, "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("forward: webhook rejected delivery",
			"name", n.Name,
			"status", resp.StatusCode,
		)
		return false
	}

	slog.Debug("forward: webhook delivered", "name", n.Name, "severity", n.Severity)
	return true
}

// messageCard renders n in the legacy Teams MessageCard schema.
func messageCard(n notification.Notification) map[string]any {
	return map[string]any{
		"@type":      "MessageCard",
		"@context":   "https://schema.org/extensions",
		"summary":    n.Name,
		"themeColor": severityColor(n.Severity),
		"title":      n.Name,
		"sections": []map[string]any{{
			"activityTitle": fmt.Sprintf("%s Notification", n.Severity),
			"facts": []map[string]string{
				{"name": "Type", "value": string(n.Severity)},
				{"name": "Description", "value": n.Description},
			},
		}},
	}
}

// severityColor maps a severity to its MessageCard theme color.
func severityColor(s notification.Severity) string {
	switch s {
	case notification.SeverityWarning:
		return "FF0000"
	default:
		return "00D4FF"
	}
}
