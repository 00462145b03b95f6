package mundial

import "time"

// GroupLink is an entry from the league-finder dropdown, one per venue area.
type GroupLink struct {
	Name string
	URL  string
}

// LeagueLink points at a single league's fixtures page within a group.
type LeagueLink struct {
	Name string
	URL  string
}

// Venue describes the playing location advertised on a league page. URL is
// empty when the page carries no venue link; Address always holds a usable
// value, falling back to the configured default.
type Venue struct {
	Name    string
	URL     string
	Address string
}

// Fixture is one row from a league page accordion. Kickoff carries the
// site's local timezone; Result is empty for matches not yet played.
type Fixture struct {
	Kickoff  time.Time
	HomeTeam string
	AwayTeam string
	Result   string
}

// TeamFixture is one row from a team page, already reduced to the opponent.
type TeamFixture struct {
	Kickoff  time.Time
	Opponent string
}
