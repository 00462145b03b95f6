// Package testsupport provides shared helpers for package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"fixturecal/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// Publishing and email are disabled so tests never touch the network.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "docs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Publish.Enabled = false
	cfg.Email.Enabled = false
	cfg.Notifications.NtfyTopic = ""

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithPublish enables branch publishing against the given remote.
func WithPublish(remote, branch string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Publish.Enabled = true
		cfg.Publish.Remote = remote
		cfg.Publish.Branch = branch
	}
}

// WithNtfyTopic points notifications at the given ntfy endpoint.
func WithNtfyTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Notifications.NtfyTopic = topic
		cfg.Notifications.Refresh = true
		cfg.Notifications.Reminders = true
		cfg.Notifications.Errors = true
	}
}
