package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"gameshelf/internal/config"
)

const userAgent = "Gameshelf/0.1.0"

// Event identifies a notification type.
type Event string

const (
	EventRefreshCompleted Event = "refresh_completed"
	EventResolveCompleted Event = "resolve_completed"
	EventError            Event = "error"
	EventTest             Event = "test"
)

// Payload carries event-specific fields referenced when formatting the
// message body.
type Payload map[string]string

// Service publishes collection events to the configured notifier.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := cfg.NotifyTimeout()
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:       topic,
		client:         &http.Client{Timeout: timeout},
		refreshEnabled: cfg.Notifications.Refresh,
		resolveEnabled: cfg.Notifications.Resolve,
		errorsEnabled:  cfg.Notifications.Errors,
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint       string
	client         *http.Client
	refreshEnabled bool
	resolveEnabled bool
	errorsEnabled  bool
}

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	if payload == nil {
		payload = Payload{}
	}

	switch event {
	case EventRefreshCompleted:
		if !n.refreshEnabled {
			return nil
		}
		return n.send(ctx, formatRefresh(payload))
	case EventResolveCompleted:
		if !n.resolveEnabled {
			return nil
		}
		return n.send(ctx, formatResolve(payload))
	case EventError:
		if !n.errorsEnabled {
			return nil
		}
		return n.send(ctx, formatError(payload))
	case EventTest:
		return n.send(ctx, message{
			title:    "Gameshelf - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"gameshelf", "test"},
			priority: "low",
		})
	default:
		return fmt.Errorf("unknown notification event %q", event)
	}
}

func formatRefresh(payload Payload) message {
	updated := count(payload, "updated")
	empty := count(payload, "empty")
	failed := count(payload, "failed")
	duration := strings.TrimSpace(payload["duration"])

	title := "Gameshelf - Refresh Complete"
	body := fmt.Sprintf("💰 Prices refreshed: %s updated, %s empty", updated, empty)
	if failed != "0" {
		title = "Gameshelf - Refresh Complete (with errors)"
		body = fmt.Sprintf("%s, %s failed", body, failed)
	}
	if duration != "" {
		body = fmt.Sprintf("%s in %s", body, duration)
	}
	return message{
		title: title,
		body:  body,
		tags:  []string{"gameshelf", "refresh", "completed"},
	}
}

func formatResolve(payload Payload) message {
	linked := count(payload, "linked")
	failed := count(payload, "failed")

	title := "Gameshelf - Resolve Complete"
	body := fmt.Sprintf("🔗 Catalog links: %s linked", linked)
	if failed != "0" {
		title = "Gameshelf - Resolve Complete (with failures)"
		body = fmt.Sprintf("%s, %s failed", body, failed)
	}
	return message{
		title: title,
		body:  body,
		tags:  []string{"gameshelf", "resolve", "completed"},
	}
}

func formatError(payload Payload) message {
	var builder strings.Builder
	builder.WriteString("❌ Error")
	if contextLabel := strings.TrimSpace(payload["context"]); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if detail := strings.TrimSpace(payload["error"]); detail != "" {
		builder.WriteString(detail)
	} else {
		builder.WriteString("unknown")
	}
	return message{
		title:    "Gameshelf - Error",
		body:     builder.String(),
		tags:     []string{"gameshelf", "error", "alert"},
		priority: "high",
	}
}

func count(payload Payload, key string) string {
	if value := strings.TrimSpace(payload[key]); value != "" {
		return value
	}
	return "0"
}

// FormatDuration renders a duration for notification payloads, rounded to
// whole seconds and never negative.
func FormatDuration(duration time.Duration) string {
	duration = duration.Round(time.Second)
	if duration <= 0 {
		return "0s"
	}
	return duration.String()
}

func (n *ntfyService) send(ctx context.Context, data message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

var (
	_ Service = noopService{}
	_ Service = (*ntfyService)(nil)
)
