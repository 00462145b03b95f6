// Package schedule drives the recurring refresh and remind jobs from cron
// expressions.
package schedule
