package config

const (
	defaultOutputDir            = "~/.local/share/fixturecal/site"
	defaultLogDir               = "~/.local/share/fixturecal/logs"
	defaultWorkDir              = "~/.local/share/fixturecal"
	defaultBaseURL              = "https://footballmundial.com"
	defaultUserAgent            = "Mozilla/5.0 (compatible;)"
	defaultRequestTimeout       = 15
	defaultRetryAttempts        = 3
	defaultThrottleMS           = 500
	defaultTeamName             = "CLIVE OWEN & CO"
	defaultTeamPage             = "/info/teams/770267"
	defaultTimezone             = "Europe/London"
	defaultLocation             = "301 Huntington Rd, Huntington, York YO32 9WT"
	defaultEventDurationMinutes = 60
	defaultCalendarCreator      = "Fixturecal"
	defaultTeamFeedFilename     = "clive_owen_fixtures.ics"
	defaultSMTPPort             = 465
	defaultPublishBranch        = "gh-pages"
	defaultCommitterName        = "fixturecal"
	defaultCommitterEmail       = "fixturecal@localhost"
	defaultRefreshCron          = "0 8 * * *"
	defaultRemindCron           = "0 8 * * *"
	defaultNotifyTimeout        = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultLogRetentionDays     = 60
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
			WorkDir:   defaultWorkDir,
		},
		Source: Source{
			BaseURL:        defaultBaseURL,
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
			RetryAttempts:  defaultRetryAttempts,
			ThrottleMS:     defaultThrottleMS,
		},
		Team: Team{
			Name:            defaultTeamName,
			Page:            defaultTeamPage,
			Timezone:        defaultTimezone,
			DefaultLocation: defaultLocation,
		},
		Calendar: Calendar{
			EventDurationMinutes: defaultEventDurationMinutes,
			Creator:              defaultCalendarCreator,
			TeamFeedFilename:     defaultTeamFeedFilename,
		},
		Email: Email{
			Port: defaultSMTPPort,
		},
		Publish: Publish{
			Branch:         defaultPublishBranch,
			CommitterName:  defaultCommitterName,
			CommitterEmail: defaultCommitterEmail,
		},
		Schedule: Schedule{
			RefreshCron: defaultRefreshCron,
			RemindCron:  defaultRemindCron,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			Refresh:        true,
			Reminders:      true,
			Errors:         true,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
