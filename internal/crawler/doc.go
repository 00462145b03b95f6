// Package crawler walks the fixtures site league by league and persists
// everything it finds into the catalog.
package crawler
