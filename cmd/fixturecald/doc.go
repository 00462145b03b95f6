// Command fixturecald runs the fixture calendar scheduler headless. It loads
// the configuration, opens the catalog, and runs the refresh and reminder
// jobs on their cron schedules until it receives SIGINT or SIGTERM.
package main
