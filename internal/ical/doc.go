// Package ical renders catalog fixtures into iCalendar feeds and lays out
// the published site directory.
package ical
