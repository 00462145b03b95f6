// Package reminder emails availability requests to the squad on matchdays.
package reminder
