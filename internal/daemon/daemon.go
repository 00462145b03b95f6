package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/logging"
	"fixturecal/internal/notifications"
	"fixturecal/internal/schedule"
	"fixturecal/internal/workflow"
)

// Daemon schedules the recurring jobs and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *catalog.Store
	workflow *workflow.Manager
	logPath  string

	lockPath string
	lock     *flock.Flock

	scheduler *schedule.Scheduler
	running   atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	NextRun      time.Time
	Workflow     workflow.StatusSummary
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, wf *workflow.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, and workflow manager")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.WorkDir, "fixturecald.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		store:    store,
		workflow: wf,
		logPath:  filepath.Join(cfg.Paths.LogDir, "fixturecal.log"),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the daemon lock and begins evaluating the schedule.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another fixturecal daemon instance is already running")
	}

	scheduler := schedule.New(d.cfg.Location(), d.logger)
	if err := scheduler.Add("refresh", d.cfg.Schedule.RefreshCron, func(jobCtx context.Context) {
		_, _ = d.workflow.RunRefresh(jobCtx)
	}); err != nil {
		_ = d.lock.Unlock()
		return err
	}
	if err := scheduler.Add("remind", d.cfg.Schedule.RemindCron, func(jobCtx context.Context) {
		_, _ = d.workflow.RunRemind(jobCtx, time.Now())
	}); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	// Both binaries write into the same log dir; neither active file may
	// be pruned.
	logging.CleanupOldLogs(d.logger, d.cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     d.cfg.Paths.LogDir,
		Pattern: "*.log",
		Exclude: []string{
			d.logPath,
			filepath.Join(d.cfg.Paths.LogDir, "fixturecald.log"),
		},
	})

	scheduler.Start()
	d.scheduler = scheduler
	d.running.Store(true)
	d.logger.Info("fixturecal daemon started",
		logging.String("lock", d.lockPath),
		logging.String("refresh_cron", d.cfg.Schedule.RefreshCron),
		logging.String("remind_cron", d.cfg.Schedule.RemindCron))
	return nil
}

// Stop halts the schedule and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.scheduler != nil {
		d.scheduler.Stop()
		d.scheduler = nil
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.running.Store(false)
	d.logger.Info("fixturecal daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// TestNotification triggers a test notification using the current
// configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	notifier := notifications.NewService(d.cfg)
	if err := notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}

// LogPath returns the path to the daemon log file.
func (d *Daemon) LogPath() string {
	return d.logPath
}

// Status returns the current daemon status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		Workflow:     d.workflow.Status(ctx),
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
	if d.scheduler != nil {
		status.NextRun = d.scheduler.Next()
	}
	return status
}
