package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"fixturecal/internal/textutil"
)

// ErrTeamNotFound is returned by lookups for teams absent from the catalog.
var ErrTeamNotFound = errors.New("team not found")

// nullable maps empty strings to NULL so UNIQUE columns stay unique.
func nullable(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}

// UpsertLeagueGroup inserts the group if its slug is new and returns the row.
func (s *Store) UpsertLeagueGroup(ctx context.Context, name string) (LeagueGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return LeagueGroup{}, errors.New("league group name is required")
	}
	slug := textutil.Slugify(name)
	ctx = ensureContext(ctx)

	if _, err := s.execWithRetry(ctx,
		"INSERT OR IGNORE INTO league_group(name, slug) VALUES (?, ?)", name, slug,
	); err != nil {
		return LeagueGroup{}, fmt.Errorf("insert league group: %w", err)
	}

	group := LeagueGroup{Name: name, Slug: slug}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM league_group WHERE slug = ?", slug,
	).Scan(&group.ID, &group.Name)
	if err != nil {
		return LeagueGroup{}, fmt.Errorf("select league group: %w", err)
	}
	return group, nil
}

// UpsertVenue inserts the venue keyed on its URL and returns the row. A venue
// without a URL cannot be deduplicated and yields a zero Venue.
func (s *Store) UpsertVenue(ctx context.Context, url, name, address string) (Venue, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Venue{}, nil
	}
	ctx = ensureContext(ctx)

	if _, err := s.execWithRetry(ctx,
		"INSERT OR IGNORE INTO venue(url, name, address) VALUES (?, ?, ?)",
		url, nullable(name), nullable(address),
	); err != nil {
		return Venue{}, fmt.Errorf("insert venue: %w", err)
	}

	venue := Venue{URL: url}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, COALESCE(name, ''), COALESCE(address, '') FROM venue WHERE url = ?", url,
	).Scan(&venue.ID, &venue.Name, &venue.Address)
	if err != nil {
		return Venue{}, fmt.Errorf("select venue: %w", err)
	}
	return venue, nil
}

// UpsertLeague inserts the league if its slug is new and returns the row.
func (s *Store) UpsertLeague(ctx context.Context, groupID int64, name, url string) (League, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return League{}, errors.New("league name is required")
	}
	if groupID <= 0 {
		return League{}, errors.New("league group id is required")
	}
	slug := textutil.Slugify(name)
	ctx = ensureContext(ctx)

	if _, err := s.execWithRetry(ctx,
		"INSERT OR IGNORE INTO league(league_group_id, name, url, slug) VALUES (?, ?, ?, ?)",
		groupID, name, nullable(url), slug,
	); err != nil {
		return League{}, fmt.Errorf("insert league: %w", err)
	}

	league := League{Name: name, Slug: slug}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, league_group_id, name, COALESCE(url, '') FROM league WHERE slug = ?", slug,
	).Scan(&league.ID, &league.GroupID, &league.Name, &league.URL)
	if err != nil {
		return League{}, fmt.Errorf("select league: %w", err)
	}
	return league, nil
}

// UpsertTeam inserts the team if its name is new and returns the row.
func (s *Store) UpsertTeam(ctx context.Context, name string) (Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Team{}, errors.New("team name is required")
	}
	slug := textutil.Slugify(name)
	ctx = ensureContext(ctx)

	if _, err := s.execWithRetry(ctx,
		"INSERT OR IGNORE INTO team(name, slug) VALUES (?, ?)", name, slug,
	); err != nil {
		return Team{}, fmt.Errorf("insert team: %w", err)
	}

	team := Team{Slug: slug}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM team WHERE slug = ?", slug,
	).Scan(&team.ID, &team.Name)
	if err != nil {
		return Team{}, fmt.Errorf("select team: %w", err)
	}
	return team, nil
}

// TeamBySlug returns the team with the given slug or ErrTeamNotFound.
func (s *Store) TeamBySlug(ctx context.Context, slug string) (Team, error) {
	ctx = ensureContext(ctx)
	team := Team{Slug: slug}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM team WHERE slug = ?", slug,
	).Scan(&team.ID, &team.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, slug)
	}
	if err != nil {
		return Team{}, fmt.Errorf("select team: %w", err)
	}
	return team, nil
}

// TeamByName returns the team with the given exact name or ErrTeamNotFound.
func (s *Store) TeamByName(ctx context.Context, name string) (Team, error) {
	ctx = ensureContext(ctx)
	team := Team{Name: name}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, slug FROM team WHERE name = ?", name,
	).Scan(&team.ID, &team.Slug)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, fmt.Errorf("%w: %s", ErrTeamNotFound, name)
	}
	if err != nil {
		return Team{}, fmt.Errorf("select team: %w", err)
	}
	return team, nil
}

// ListTeams returns every team ordered by slug.
func (s *Store) ListTeams(ctx context.Context) ([]Team, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, slug FROM team ORDER BY slug")
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var team Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Slug); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

// ListLeagues returns every league with its group name, ordered by group
// then league slug.
func (s *Store) ListLeagues(ctx context.Context) ([]LeagueListing, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.league_group_id, l.name, COALESCE(l.url, ''), l.slug, g.name
		FROM league l
		JOIN league_group g ON g.id = l.league_group_id
		ORDER BY g.slug, l.slug`)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}
	defer rows.Close()

	var leagues []LeagueListing
	for rows.Next() {
		var listing LeagueListing
		if err := rows.Scan(&listing.ID, &listing.GroupID, &listing.Name, &listing.URL, &listing.Slug, &listing.GroupName); err != nil {
			return nil, fmt.Errorf("scan league: %w", err)
		}
		leagues = append(leagues, listing)
	}
	return leagues, rows.Err()
}
