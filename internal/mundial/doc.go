// Package mundial scrapes league, team and venue pages from the
// footballmundial.com fixtures site.
package mundial
