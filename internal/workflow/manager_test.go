package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/mundial"
	"fixturecal/internal/reminder"
	"fixturecal/internal/workflow"
)

type recordingNotifier struct {
	refreshes int
	reminders int
	errors    int
}

func (n *recordingNotifier) NotifyRefreshCompleted(context.Context, int, int, int, bool) error {
	n.refreshes++
	return nil
}

func (n *recordingNotifier) NotifyRemindersSent(context.Context, int, []string) error {
	n.reminders++
	return nil
}

func (n *recordingNotifier) NotifyError(context.Context, error, string) error {
	n.errors++
	return nil
}

func (n *recordingNotifier) TestNotification(context.Context) error {
	return nil
}

type stubSource struct {
	kickoff time.Time
	fail    bool
}

func (s *stubSource) LeagueGroups(context.Context) ([]mundial.GroupLink, error) {
	if s.fail {
		return nil, errors.New("site unreachable")
	}
	return []mundial.GroupLink{{Name: "York Monday", URL: "/g/1"}}, nil
}

func (s *stubSource) GroupLeagues(context.Context, string) ([]mundial.LeagueLink, error) {
	return []mundial.LeagueLink{{Name: "Division 1", URL: "/l/1"}}, nil
}

func (s *stubSource) LeagueFixtures(context.Context, string) ([]mundial.Fixture, mundial.Venue, error) {
	fixtures := []mundial.Fixture{{
		Kickoff:  s.kickoff,
		HomeTeam: "CLIVE OWEN & CO",
		AwayTeam: "Red Lion",
	}}
	venue := mundial.Venue{Name: "Huntington", URL: "/v/5", Address: "301 Huntington Rd"}
	return fixtures, venue, nil
}

func newTestManager(t *testing.T, source *stubSource) (*workflow.Manager, *catalog.Store, *config.Config, *recordingNotifier, *reminder.LogSender) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "docs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Publish.Enabled = false
	cfg.Email.Enabled = false

	store, err := catalog.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	notifier := &recordingNotifier{}
	sender := reminder.NewLogSender(nil)
	manager, err := workflow.NewManagerWithNotifier(&cfg, store, nil, notifier,
		workflow.WithSource(source), workflow.WithSender(sender))
	if err != nil {
		t.Fatalf("NewManagerWithNotifier: %v", err)
	}
	return manager, store, &cfg, notifier, sender
}

func TestRunRefreshEndToEnd(t *testing.T) {
	source := &stubSource{kickoff: time.Date(2026, time.June, 1, 17, 30, 0, 0, time.UTC)}
	manager, _, cfg, notifier, _ := newTestManager(t, source)

	outcome, err := manager.RunRefresh(context.Background())
	if err != nil {
		t.Fatalf("RunRefresh: %v", err)
	}
	if outcome.Crawl.NewFixtures != 1 || outcome.Render.Calendars != 2 {
		t.Fatalf("unexpected outcome %+v", outcome)
	}
	if outcome.Published {
		t.Fatal("publishing disabled, nothing should be pushed")
	}
	if notifier.refreshes != 1 {
		t.Fatalf("expected refresh notification, got %d", notifier.refreshes)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.OutputDir, "clive_owen_co.ics")); err != nil {
		t.Fatalf("expected rendered calendar: %v", err)
	}

	status := manager.Status(context.Background())
	if status.LastRefresh == nil || status.LastRefresh.Error != "" {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Catalog.Fixtures != 1 {
		t.Fatalf("unexpected catalog counts %+v", status.Catalog)
	}
}

func TestRunRefreshAbortsOnCrawlFailure(t *testing.T) {
	manager, store, _, notifier, _ := newTestManager(t, &stubSource{fail: true})

	if _, err := manager.RunRefresh(context.Background()); err == nil {
		t.Fatal("expected error when the site is unreachable")
	}
	if notifier.errors != 1 {
		t.Fatalf("expected error notification, got %d", notifier.errors)
	}

	health, err := store.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if health.Fixtures != 0 {
		t.Fatalf("expected nothing persisted, got %+v", health)
	}

	status := manager.Status(context.Background())
	if status.LastRefresh == nil || status.LastRefresh.Error == "" {
		t.Fatalf("expected failure recorded in status, got %+v", status)
	}
}

func TestRunRemindSendsForMatchday(t *testing.T) {
	kickoff := time.Date(2026, time.June, 1, 17, 30, 0, 0, time.UTC)
	manager, _, cfg, notifier, sender := newTestManager(t, &stubSource{kickoff: kickoff})

	if _, err := manager.RunRefresh(context.Background()); err != nil {
		t.Fatalf("RunRefresh: %v", err)
	}

	now := time.Date(2026, time.June, 1, 8, 0, 0, 0, cfg.Location())
	summary, err := manager.RunRemind(context.Background(), now)
	if err != nil {
		t.Fatalf("RunRemind: %v", err)
	}
	if summary.Sent != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(sender.Sent()) != 1 || sender.Sent()[0].Subject != "Available v Red Lion" {
		t.Fatalf("unexpected messages %+v", sender.Sent())
	}
	if notifier.reminders != 1 {
		t.Fatalf("expected reminder notification, got %d", notifier.reminders)
	}

	// Nothing to send the following day; no notification either.
	summary, err = manager.RunRemind(context.Background(), now.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("RunRemind next day: %v", err)
	}
	if summary.Sent != 0 || notifier.reminders != 1 {
		t.Fatalf("unexpected follow-up run %+v notifications=%d", summary, notifier.reminders)
	}
}
