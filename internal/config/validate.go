package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}
	if err := c.validateTeam(); err != nil {
		return err
	}
	if err := c.validateCalendar(); err != nil {
		return err
	}
	if err := c.validateEmail(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	if err := c.validateSchedule(); err != nil {
		return err
	}
	return c.validateNotifications()
}

func (c *Config) validateSource() error {
	if c.Source.BaseURL == "" {
		return errors.New("source.base_url must be set")
	}
	parsed, err := url.Parse(c.Source.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("source.base_url %q is not an absolute URL", c.Source.BaseURL)
	}
	if err := ensurePositiveMap(map[string]int{
		"source.request_timeout": c.Source.RequestTimeout,
		"source.retry_attempts":  c.Source.RetryAttempts,
	}); err != nil {
		return err
	}
	if c.Source.LeagueLimit < 0 {
		return errors.New("source.league_limit must not be negative")
	}
	return nil
}

func (c *Config) validateTeam() error {
	if c.Team.Name == "" {
		return errors.New("team.name must be set")
	}
	if c.Team.Page == "" {
		return errors.New("team.page must be set")
	}
	return nil
}

func (c *Config) validateCalendar() error {
	if c.Calendar.EventDurationMinutes <= 0 {
		return errors.New("calendar.event_duration_minutes must be positive")
	}
	if strings.TrimSpace(c.Calendar.TeamFeedFilename) == "" {
		return errors.New("calendar.team_feed_filename must be set")
	}
	return nil
}

func (c *Config) validateEmail() error {
	if !c.Email.Enabled {
		return nil
	}
	if c.Email.Host == "" {
		return errors.New("email.host must be set when email.enabled is true (or set SMTP_HOST)")
	}
	if c.Email.Port <= 0 || c.Email.Port > 65535 {
		return fmt.Errorf("email.port %d is out of range", c.Email.Port)
	}
	if c.Email.Username == "" {
		return errors.New("email.username must be set when email.enabled is true (or set SMTP_USERNAME)")
	}
	if c.Email.Password == "" {
		return errors.New("email.password must be set when email.enabled is true (or set SMTP_PASSWORD)")
	}
	if len(c.Email.Recipients) == 0 {
		return errors.New("email.recipients must list at least one address (or set RECIPIENTS)")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if !c.Publish.Enabled {
		return nil
	}
	if c.Publish.Remote == "" {
		return errors.New("publish.remote must be set when publish.enabled is true")
	}
	if c.Publish.Branch == "" {
		return errors.New("publish.branch must be set when publish.enabled is true")
	}
	return nil
}

func (c *Config) validateSchedule() error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	for name, expr := range map[string]string{
		"schedule.refresh_cron": c.Schedule.RefreshCron,
		"schedule.remind_cron":  c.Schedule.RemindCron,
	} {
		if strings.TrimSpace(expr) == "" {
			return fmt.Errorf("%s must be set", name)
		}
		if _, err := parser.Parse(expr); err != nil {
			return fmt.Errorf("%s: parse %q: %w", name, expr, err)
		}
	}
	return nil
}

func (c *Config) validateNotifications() error {
	return ensurePositiveMap(map[string]int{
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func ensurePositiveMap(values map[string]int) error {
	for name, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}
