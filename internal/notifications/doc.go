// Package notifications delivers run events via pluggable notifiers.
//
// The default implementation publishes to ntfy using the topic configured in
// config.toml and gracefully degrades to a no-op when no topic is set. The
// Service interface covers the scheduled job milestones so the workflow can
// emit consistent messages without duplicating HTTP glue.
package notifications
