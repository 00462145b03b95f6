package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fixturecal/internal/config"
)

const userAgent = "fixturecal/0.1.0"

// Service defines the notification surface exposed to scheduled jobs.
type Service interface {
	NotifyRefreshCompleted(ctx context.Context, leagues, newFixtures, calendars int, published bool) error
	NotifyRemindersSent(ctx context.Context, sent int, opponents []string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint:  topic,
		client:    &http.Client{Timeout: timeout},
		refresh:   cfg.Notifications.Refresh,
		reminders: cfg.Notifications.Reminders,
		errors:    cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint  string
	client    *http.Client
	refresh   bool
	reminders bool
	errors    bool
}

func (n *ntfyService) NotifyRefreshCompleted(ctx context.Context, leagues, newFixtures, calendars int, published bool) error {
	if !n.refresh {
		return nil
	}
	message := fmt.Sprintf("Crawled %d leagues, %d new fixtures, %d calendars rendered", leagues, newFixtures, calendars)
	if published {
		message += ", site published"
	}
	data := payload{
		title:   "Fixturecal - Refresh Complete",
		message: message,
		tags:    []string{"fixturecal", "refresh", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyRemindersSent(ctx context.Context, sent int, opponents []string) error {
	if !n.reminders || sent == 0 {
		return nil
	}
	message := fmt.Sprintf("Sent %d availability reminder(s)", sent)
	if len(opponents) > 0 {
		message = fmt.Sprintf("%s: versus %s", message, strings.Join(opponents, ", "))
	}
	data := payload{
		title:    "Fixturecal - Matchday",
		message:  message,
		tags:     []string{"fixturecal", "reminder", "sent"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Fixturecal - Error",
		message:  builder.String(),
		tags:     []string{"fixturecal", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Fixturecal - Test",
		message:  "Notification system test",
		tags:     []string{"fixturecal", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
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

func (noopService) NotifyRefreshCompleted(context.Context, int, int, int, bool) error { return nil }
func (noopService) NotifyRemindersSent(context.Context, int, []string) error          { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
