package catalog

import "time"

// LeagueGroup mirrors a venue-level grouping on the fixtures site.
type LeagueGroup struct {
	ID   int64
	Name string
	Slug string
}

// Venue holds the playing location shown on a league page.
type Venue struct {
	ID      int64
	URL     string
	Name    string
	Address string
}

// League belongs to a group and links to its fixtures page.
type League struct {
	ID      int64
	GroupID int64
	Name    string
	URL     string
	Slug    string
}

// LeagueListing pairs a league with its group name for feed rendering.
type LeagueListing struct {
	League
	GroupName string
}

// Team is a side appearing in at least one fixture.
type Team struct {
	ID   int64
	Name string
	Slug string
}

// Fixture is a single match. Kickoff is stored in UTC; a zero VenueID means
// the venue is unknown.
type Fixture struct {
	ID         int64
	LeagueID   int64
	VenueID    int64
	HomeTeamID int64
	AwayTeamID int64
	Kickoff    time.Time
	Result     string
}

// FixtureDetail joins a fixture with the names the calendar and reminder
// layers render.
type FixtureDetail struct {
	ID           int64
	HomeTeam     string
	AwayTeam     string
	Kickoff      time.Time
	Result       string
	VenueAddress string
}

// Opponent returns the side facing teamName, matching on exact name.
// The second return is false when the fixture does not involve teamName.
func (d FixtureDetail) Opponent(teamName string) (string, bool) {
	switch teamName {
	case d.HomeTeam:
		return d.AwayTeam, true
	case d.AwayTeam:
		return d.HomeTeam, true
	default:
		return "", false
	}
}

// HealthSummary describes aggregate catalog counts.
type HealthSummary struct {
	Groups   int
	Leagues  int
	Teams    int
	Venues   int
	Fixtures int
}
