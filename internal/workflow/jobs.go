package workflow

import (
	"context"
	"time"

	"fixturecal/internal/crawler"
	"fixturecal/internal/ical"
	"fixturecal/internal/logging"
	"fixturecal/internal/publish"
	"fixturecal/internal/reminder"
)

// RunRecord captures the outcome of the most recent run of a job.
type RunRecord struct {
	Job        string
	StartedAt  time.Time
	FinishedAt time.Time
	Error      string
}

// RefreshOutcome aggregates what a refresh run produced.
type RefreshOutcome struct {
	Crawl     crawler.Summary
	Render    ical.RenderSummary
	Publish   publish.Result
	Published bool
}

// RunRefresh crawls the site, renders the calendar directory and, when
// publishing is enabled, pushes it to the configured branch. The first
// failing step aborts the run.
func (m *Manager) RunRefresh(ctx context.Context) (RefreshOutcome, error) {
	var outcome RefreshOutcome
	record := RunRecord{Job: "refresh", StartedAt: time.Now()}
	m.logger.Info("refresh started")

	err := func() error {
		var err error
		if outcome.Crawl, err = m.crawler.Run(ctx); err != nil {
			return err
		}
		if outcome.Render, err = m.site.Render(ctx); err != nil {
			return err
		}
		if m.publisher != nil {
			if outcome.Publish, err = m.publisher.Publish(ctx, m.cfg.Paths.OutputDir); err != nil {
				return err
			}
			outcome.Published = outcome.Publish.Committed
		}
		return nil
	}()

	record.FinishedAt = time.Now()
	if err != nil {
		record.Error = err.Error()
		m.finishRun(record)
		m.logger.Error("refresh failed", logging.Error(err))
		if notifyErr := m.notifier.NotifyError(ctx, err, "refresh"); notifyErr != nil {
			m.logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return outcome, err
	}

	m.finishRun(record)
	m.logger.Info("refresh finished",
		logging.Int("leagues", outcome.Crawl.Leagues),
		logging.Int("new_fixtures", outcome.Crawl.NewFixtures),
		logging.Int("calendars", outcome.Render.Calendars),
		logging.Bool("published", outcome.Published),
		logging.Duration("elapsed", record.FinishedAt.Sub(record.StartedAt)))
	if notifyErr := m.notifier.NotifyRefreshCompleted(ctx,
		outcome.Crawl.Leagues, outcome.Crawl.NewFixtures, outcome.Render.Calendars, outcome.Published); notifyErr != nil {
		m.logger.Warn("refresh notification failed", logging.Error(notifyErr))
	}
	return outcome, nil
}

// RunRemind sends availability reminders for fixtures on the reminder day
// derived from now.
func (m *Manager) RunRemind(ctx context.Context, now time.Time) (reminder.Summary, error) {
	record := RunRecord{Job: "remind", StartedAt: time.Now()}
	m.logger.Info("reminder run started")

	summary, err := m.reminders.RemindDue(ctx, now)
	record.FinishedAt = time.Now()
	if err != nil {
		record.Error = err.Error()
		m.finishRun(record)
		m.logger.Error("reminder run failed", logging.Error(err))
		if notifyErr := m.notifier.NotifyError(ctx, err, "remind"); notifyErr != nil {
			m.logger.Warn("error notification failed", logging.Error(notifyErr))
		}
		return summary, err
	}

	m.finishRun(record)
	m.logger.Info("reminder run finished",
		logging.Int("fixtures", summary.Fixtures),
		logging.Int("sent", summary.Sent))
	if summary.Sent > 0 {
		if notifyErr := m.notifier.NotifyRemindersSent(ctx, summary.Sent, summary.Opponents); notifyErr != nil {
			m.logger.Warn("reminder notification failed", logging.Error(notifyErr))
		}
	}
	return summary, nil
}

func (m *Manager) finishRun(record RunRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch record.Job {
	case "refresh":
		m.lastRefresh = &record
	case "remind":
		m.lastRemind = &record
	}
}
