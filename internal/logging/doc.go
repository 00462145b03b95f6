// Package logging builds the slog loggers used by the daemon and CLI.
//
// Two output formats are supported: a human console format that prints a
// header line followed by indented fields, and machine-readable JSON. Typed
// attribute helpers and standardized field keys keep job logs consistent
// across the crawler, calendar writer, and reminder sender.
package logging
