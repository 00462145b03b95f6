package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSource()
	c.applyEnvOverrides()
	c.normalizeEmail()
	c.normalizePublish()
	c.normalizeLogging()
	return c.normalizeTeam()
}

func (c *Config) normalizePaths() error {
	expandedOutput, err := expandPath(c.Paths.OutputDir)
	if err != nil {
		return err
	}
	expandedLog, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	expandedWork, err := expandPath(c.Paths.WorkDir)
	if err != nil {
		return err
	}
	c.Paths.OutputDir = expandedOutput
	c.Paths.LogDir = expandedLog
	c.Paths.WorkDir = expandedWork
	return nil
}

func (c *Config) normalizeSource() {
	c.Source.BaseURL = strings.TrimRight(strings.TrimSpace(c.Source.BaseURL), "/")
	c.Source.UserAgent = strings.TrimSpace(c.Source.UserAgent)
	if c.Source.RequestTimeout <= 0 {
		c.Source.RequestTimeout = defaultRequestTimeout
	}
	if c.Source.RetryAttempts <= 0 {
		c.Source.RetryAttempts = defaultRetryAttempts
	}
	if c.Source.ThrottleMS < 0 {
		c.Source.ThrottleMS = 0
	}
}

// applyEnvOverrides layers the workflow secrets over file values. RECIPIENTS
// is a comma-separated list, matching the original deployment environment.
func (c *Config) applyEnvOverrides() {
	if host := strings.TrimSpace(os.Getenv("SMTP_HOST")); host != "" {
		c.Email.Host = host
		c.Email.Enabled = true
	}
	if port := strings.TrimSpace(os.Getenv("SMTP_PORT")); port != "" {
		if parsed, err := strconv.Atoi(port); err == nil {
			c.Email.Port = parsed
		}
	}
	if user := strings.TrimSpace(os.Getenv("SMTP_USERNAME")); user != "" {
		c.Email.Username = user
	}
	if pass := os.Getenv("SMTP_PASSWORD"); pass != "" {
		c.Email.Password = pass
	}
	if from := strings.TrimSpace(os.Getenv("EMAIL_SENDER_ADDRESS")); from != "" {
		c.Email.From = from
	}
	if recipients := strings.TrimSpace(os.Getenv("RECIPIENTS")); recipients != "" {
		parts := strings.Split(recipients, ",")
		cleaned := make([]string, 0, len(parts))
		for _, part := range parts {
			if addr := strings.TrimSpace(part); addr != "" {
				cleaned = append(cleaned, addr)
			}
		}
		c.Email.Recipients = cleaned
	}
	if token := strings.TrimSpace(os.Getenv("PUBLISH_TOKEN")); token != "" {
		c.Publish.Token = token
	} else if token := strings.TrimSpace(os.Getenv("GITHUB_TOKEN")); token != "" {
		c.Publish.Token = token
	}
}

func (c *Config) normalizeEmail() {
	c.Email.Host = strings.TrimSpace(c.Email.Host)
	c.Email.Username = strings.TrimSpace(c.Email.Username)
	c.Email.From = strings.TrimSpace(c.Email.From)
	if c.Email.From == "" {
		c.Email.From = c.Email.Username
	}
	if c.Email.Port <= 0 {
		c.Email.Port = defaultSMTPPort
	}
	if c.Email.DaysBefore < 0 {
		c.Email.DaysBefore = 0
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Remote = strings.TrimSpace(c.Publish.Remote)
	c.Publish.Branch = strings.TrimSpace(c.Publish.Branch)
	if c.Publish.Branch == "" {
		c.Publish.Branch = defaultPublishBranch
	}
	if strings.TrimSpace(c.Publish.CommitterName) == "" {
		c.Publish.CommitterName = defaultCommitterName
	}
	if strings.TrimSpace(c.Publish.CommitterEmail) == "" {
		c.Publish.CommitterEmail = defaultCommitterEmail
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeTeam() error {
	c.Team.Name = strings.TrimSpace(c.Team.Name)
	c.Team.Page = strings.TrimSpace(c.Team.Page)
	if c.Team.Page != "" && !strings.HasPrefix(c.Team.Page, "/") {
		c.Team.Page = "/" + c.Team.Page
	}
	tz := strings.TrimSpace(c.Team.Timezone)
	if tz == "" {
		tz = defaultTimezone
		c.Team.Timezone = tz
	}
	location, err := time.LoadLocation(tz)
	if err != nil {
		return fmt.Errorf("team.timezone: load %q: %w", tz, err)
	}
	c.location = location
	return nil
}
