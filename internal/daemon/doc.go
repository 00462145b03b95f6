// Package daemon runs the scheduled refresh and remind jobs in the
// background, enforcing single-instance execution with a file lock.
package daemon
