package catalog

import (
	"context"
	"fmt"
	"time"
)

// kickoffLayout is the canonical stored form of a kickoff instant: RFC 3339
// in UTC. The published database copy carries these strings, so the format
// is a contract, and keeping it UTC keeps dt_utc lexicographically sortable.
const kickoffLayout = time.RFC3339

func formatKickoff(ts time.Time) string {
	return ts.UTC().Format(kickoffLayout)
}

func parseKickoff(raw string) (time.Time, error) {
	ts, err := time.Parse(kickoffLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse kickoff %q: %w", raw, err)
	}
	return ts.UTC(), nil
}

// InsertFixture records a fixture, deduplicating on league, both teams and
// kickoff. It reports whether a new row was created; re-crawling the same
// fixture with an updated result refreshes the stored result in place.
func (s *Store) InsertFixture(ctx context.Context, fixture Fixture) (bool, error) {
	if fixture.LeagueID <= 0 || fixture.HomeTeamID <= 0 || fixture.AwayTeamID <= 0 {
		return false, fmt.Errorf("fixture requires league and team ids")
	}
	if fixture.Kickoff.IsZero() {
		return false, fmt.Errorf("fixture requires a kickoff time")
	}
	ctx = ensureContext(ctx)

	var venueID any
	if fixture.VenueID > 0 {
		venueID = fixture.VenueID
	}
	kickoff := formatKickoff(fixture.Kickoff)

	res, err := s.execWithRetry(ctx,
		`INSERT OR IGNORE INTO fixture(league_id, venue_id, home_team_id, away_team_id, dt_utc, result)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		fixture.LeagueID, venueID, fixture.HomeTeamID, fixture.AwayTeamID, kickoff, nullable(fixture.Result),
	)
	if err != nil {
		return false, fmt.Errorf("insert fixture: %w", err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert fixture rows affected: %w", err)
	}
	if inserted > 0 {
		return true, nil
	}

	if fixture.Result != "" {
		if _, err := s.execWithRetry(ctx,
			`UPDATE fixture SET result = ?
			 WHERE league_id = ? AND home_team_id = ? AND away_team_id = ? AND dt_utc = ?`,
			fixture.Result, fixture.LeagueID, fixture.HomeTeamID, fixture.AwayTeamID, kickoff,
		); err != nil {
			return false, fmt.Errorf("update fixture result: %w", err)
		}
	}
	return false, nil
}

const fixtureDetailSelect = `
SELECT f.id, home.name, away.name, f.dt_utc, COALESCE(f.result, ''), COALESCE(v.address, '')
FROM fixture f
JOIN team home ON home.id = f.home_team_id
JOIN team away ON away.id = f.away_team_id
LEFT JOIN venue v ON v.id = f.venue_id`

func (s *Store) queryFixtureDetails(ctx context.Context, query string, args ...any) ([]FixtureDetail, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fixtures: %w", err)
	}
	defer rows.Close()

	var details []FixtureDetail
	for rows.Next() {
		var (
			detail FixtureDetail
			raw    string
		)
		if err := rows.Scan(&detail.ID, &detail.HomeTeam, &detail.AwayTeam, &raw, &detail.Result, &detail.VenueAddress); err != nil {
			return nil, fmt.Errorf("scan fixture: %w", err)
		}
		if detail.Kickoff, err = parseKickoff(raw); err != nil {
			return nil, err
		}
		details = append(details, detail)
	}
	return details, rows.Err()
}

// FixturesForTeam returns every fixture involving the team, earliest first.
func (s *Store) FixturesForTeam(ctx context.Context, teamID int64) ([]FixtureDetail, error) {
	return s.queryFixtureDetails(ctx,
		fixtureDetailSelect+`
WHERE f.home_team_id = ? OR f.away_team_id = ?
ORDER BY f.dt_utc`, teamID, teamID)
}

// FixturesForLeague returns every fixture in the league, earliest first.
func (s *Store) FixturesForLeague(ctx context.Context, leagueID int64) ([]FixtureDetail, error) {
	return s.queryFixtureDetails(ctx,
		fixtureDetailSelect+`
WHERE f.league_id = ?
ORDER BY f.dt_utc`, leagueID)
}

// FixturesOn returns the team's fixtures whose kickoff, rendered in loc,
// falls on the given calendar day.
func (s *Store) FixturesOn(ctx context.Context, teamID int64, day time.Time, loc *time.Location) ([]FixtureDetail, error) {
	if loc == nil {
		loc = time.UTC
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1)
	return s.queryFixtureDetails(ctx,
		fixtureDetailSelect+`
WHERE (f.home_team_id = ? OR f.away_team_id = ?) AND f.dt_utc >= ? AND f.dt_utc < ?
ORDER BY f.dt_utc`,
		teamID, teamID, formatKickoff(start), formatKickoff(end))
}
