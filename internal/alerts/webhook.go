package alerts

import (
	"fmt"
	"log/slog"

	"github.com/hirelens/hirelens/internal/config"
	"github.com/hirelens/hirelens/pkg/types"
)

// deliver sends ev to every configured webhook target.
// Errors are logged but do not affect the caller.
func (n *Notifier) deliver(ev *Event) {
	n.mu.Lock()
	targets := append([]config.WebhookConfig(nil), n.webhooks...)
	n.mu.Unlock()

	for _, wh := range targets {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.post(url, slackPayload(ev))
		case "teams":
			err = n.post(url, teamsPayload(ev))
		case "http":
			err = n.post(url, map[string]interface{}{"alert": ev})
		default:
			slog.Warn("alerts: unknown webhook type, skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("alerts: webhook delivery failed",
				"type", wh.Type,
				"rule", ev.Rule,
				"err", err,
			)
		} else {
			slog.Debug("alerts: webhook delivered",
				"type", wh.Type,
				"rule", ev.Rule,
				"state", ev.State,
			)
		}
	}
}

func slackPayload(ev *Event) map[string]string {
	return map[string]string{
		"text": fmt.Sprintf("%s *%s* %s: %s", ev.Icon, stateLabel(ev), ev.Title, ev.Message),
	}
}

func teamsPayload(ev *Event) map[string]interface{} {
	return map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": severityColor(ev),
		"summary":    ev.Title,
		"title":      fmt.Sprintf("HireLens %s: %s", stateLabel(ev), ev.Title),
		"text":       ev.Message,
	}
}

func (n *Notifier) post(url string, body interface{}) error {
	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(url)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode())
	}
	return nil
}

func stateLabel(ev *Event) string {
	if ev.State == StateResolved {
		return "[RESOLVED]"
	}
	return "[" + string(ev.Severity) + "]"
}

func severityColor(ev *Event) string {
	if ev.State == StateResolved {
		return "2EB67D"
	}
	switch ev.Severity {
	case types.SeverityCritical:
		return "FF4F6A"
	case types.SeverityHigh:
		return "FFAB40"
	default:
		return "00D4FF"
	}
}
