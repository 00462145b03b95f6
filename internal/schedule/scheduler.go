package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"fixturecal/internal/logging"
)

// Job is a schedulable unit of work. The context carries cancellation from
// the daemon shutting down.
type Job func(ctx context.Context)

// Scheduler wraps a cron runner evaluating expressions in a fixed timezone.
// Overlapping runs of the same job are skipped rather than queued.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc
}

// standard five-field cron, minute through day-of-week
const parseOptions = cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow

// New creates a stopped scheduler evaluating expressions in loc.
func New(loc *time.Location, logger *slog.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "schedule")
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cron.NewParser(parseOptions)),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{logger})),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Add registers a job under the given cron expression.
func (s *Scheduler) Add(name, expression string, job Job) error {
	if job == nil {
		return fmt.Errorf("job %s is nil", name)
	}
	_, err := s.cron.AddFunc(expression, func() {
		s.logger.Info("job triggered", logging.String(logging.FieldJob, name))
		job(s.ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, expression, err)
	}
	return nil
}

// Start begins evaluating the schedule in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running jobs and waits for the cron runner to drain.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// Next returns the earliest upcoming trigger time across all jobs, or the
// zero time when nothing is scheduled.
func (s *Scheduler) Next() time.Time {
	var next time.Time
	for _, entry := range s.cron.Entries() {
		if next.IsZero() || (!entry.Next.IsZero() && entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// cronLogger adapts slog to the cron library's logging interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, logging.Error(err))...)
}
