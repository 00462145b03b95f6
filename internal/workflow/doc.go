// Package workflow coordinates the two scheduled jobs: refreshing the
// fixture catalog plus published site, and sending matchday reminders.
//
// The Manager owns the wiring between the site client, the catalog store,
// the calendar writer, the git publisher, and the reminder service. Jobs
// run to completion or abort on the first failing step; outcomes are
// recorded for status reporting and pushed to the notifier.
package workflow
