// Package config loads, normalizes, and validates the TOML configuration
// shared by the fixturecal CLI and daemon. Secrets (SMTP credentials, the
// publish token) may be supplied through the environment and override file
// values.
package config
