package workflow

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/crawler"
	"fixturecal/internal/ical"
	"fixturecal/internal/logging"
	"fixturecal/internal/mundial"
	"fixturecal/internal/notifications"
	"fixturecal/internal/publish"
	"fixturecal/internal/reminder"
)

// Manager coordinates the refresh and remind jobs.
type Manager struct {
	cfg      *config.Config
	store    *catalog.Store
	logger   *slog.Logger
	notifier notifications.Service

	crawler   *crawler.Crawler
	site      *ical.SiteWriter
	publisher *publish.Publisher
	reminders *reminder.Service

	mu          sync.Mutex
	lastRefresh *RunRecord
	lastRemind  *RunRecord
}

// ManagerOption overrides parts of the default wiring, mainly for tests.
type ManagerOption func(*managerOptions)

type managerOptions struct {
	source crawler.Source
	sender reminder.Sender
}

// WithSource substitutes the fixtures site client.
func WithSource(source crawler.Source) ManagerOption {
	return func(o *managerOptions) {
		o.source = source
	}
}

// WithSender substitutes the reminder delivery mechanism.
func WithSender(sender reminder.Sender) ManagerOption {
	return func(o *managerOptions) {
		o.sender = sender
	}
}

// NewManager constructs a workflow manager wired from the configuration.
func NewManager(cfg *config.Config, store *catalog.Store, logger *slog.Logger) (*Manager, error) {
	return NewManagerWithNotifier(cfg, store, logger, notifications.NewService(cfg))
}

// NewManagerWithNotifier constructs a workflow manager with a custom
// notifier.
func NewManagerWithNotifier(cfg *config.Config, store *catalog.Store, logger *slog.Logger, notifier notifications.Service, opts ...ManagerOption) (*Manager, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	source := options.source
	if source == nil {
		client, err := mundial.New(cfg.Source.BaseURL,
			mundial.WithUserAgent(cfg.Source.UserAgent),
			mundial.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Source.RequestTimeout) * time.Second}),
			mundial.WithRetryAttempts(cfg.Source.RetryAttempts),
			mundial.WithThrottle(time.Duration(cfg.Source.ThrottleMS)*time.Millisecond),
			mundial.WithLocation(cfg.Location()),
			mundial.WithDefaultVenueAddress(cfg.Team.DefaultLocation),
		)
		if err != nil {
			return nil, fmt.Errorf("build site client: %w", err)
		}
		source = client
	}

	builder := ical.NewBuilder(
		cfg.Calendar.Creator,
		time.Duration(cfg.Calendar.EventDurationMinutes)*time.Minute,
		cfg.Team.DefaultLocation,
	)

	var publisher *publish.Publisher
	if cfg.Publish.Enabled {
		var err error
		publisher, err = publish.New(cfg.Publish.Remote, cfg.Publish.Branch, cfg.Paths.WorkDir, logger,
			publish.WithGitBinary(cfg.GitBinary()),
			publish.WithToken(cfg.Publish.Token),
			publish.WithCommitter(cfg.Publish.CommitterName, cfg.Publish.CommitterEmail),
		)
		if err != nil {
			return nil, fmt.Errorf("build publisher: %w", err)
		}
	}

	sender := options.sender
	if sender == nil {
		if cfg.Email.Enabled {
			smtp, err := reminder.NewSMTPSender(
				cfg.Email.Host, cfg.Email.Port,
				cfg.Email.Username, cfg.Email.Password,
				cfg.Email.From, cfg.Email.Recipients,
			)
			if err != nil {
				return nil, fmt.Errorf("build smtp sender: %w", err)
			}
			sender = smtp
		} else {
			sender = reminder.NewLogSender(logger)
		}
	}

	return &Manager{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "workflow"),
		notifier: notifier,
		crawler: crawler.New(store, source, logger,
			crawler.WithGroupLimit(cfg.Source.LeagueLimit)),
		site: ical.NewSiteWriter(store, builder, logger,
			cfg.Paths.OutputDir, cfg.Calendar.TeamFeedFilename, cfg.Team.Name),
		publisher: publisher,
		reminders: reminder.NewService(store, sender, logger,
			cfg.Team.Name, cfg.Location(), cfg.Email.DaysBefore),
	}, nil
}
