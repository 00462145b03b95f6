// Package catalog persists the crawled fixture data in SQLite.
//
// The schema mirrors the site structure: league groups contain leagues,
// leagues play at venues, and fixtures join two teams at a kickoff time
// stored in UTC. Upserts are keyed on slugs (teams, leagues, groups) and
// URLs (venues) so repeated crawls converge instead of duplicating rows.
package catalog
