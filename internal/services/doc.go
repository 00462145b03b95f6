// Package services defines the error classification shared by workflow job
// steps. External collaborators (the fixtures site, SMTP, git) wrap their
// failures with a sentinel marker so callers can distinguish configuration
// mistakes from transient upstream trouble.
package services
