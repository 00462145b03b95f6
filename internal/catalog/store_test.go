package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "fixtures.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestUpsertEntitiesAreIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, err := store.UpsertLeagueGroup(ctx, "York Monday")
	if err != nil {
		t.Fatalf("UpsertLeagueGroup: %v", err)
	}
	again, err := store.UpsertLeagueGroup(ctx, "York Monday")
	if err != nil {
		t.Fatalf("UpsertLeagueGroup repeat: %v", err)
	}
	if group.ID != again.ID {
		t.Fatalf("expected stable group id, got %d then %d", group.ID, again.ID)
	}
	if group.Slug != "york_monday" {
		t.Fatalf("unexpected group slug %q", group.Slug)
	}

	league, err := store.UpsertLeague(ctx, group.ID, "Monday Division 1", "/info/league/1")
	if err != nil {
		t.Fatalf("UpsertLeague: %v", err)
	}
	leagueAgain, err := store.UpsertLeague(ctx, group.ID, "Monday Division 1", "/info/league/1")
	if err != nil {
		t.Fatalf("UpsertLeague repeat: %v", err)
	}
	if league.ID != leagueAgain.ID {
		t.Fatalf("expected stable league id, got %d then %d", league.ID, leagueAgain.ID)
	}

	team, err := store.UpsertTeam(ctx, "CLIVE OWEN & CO")
	if err != nil {
		t.Fatalf("UpsertTeam: %v", err)
	}
	if team.Slug != "clive_owen_co" {
		t.Fatalf("unexpected team slug %q", team.Slug)
	}
	bySlug, err := store.TeamBySlug(ctx, team.Slug)
	if err != nil {
		t.Fatalf("TeamBySlug: %v", err)
	}
	if bySlug.ID != team.ID || bySlug.Name != "CLIVE OWEN & CO" {
		t.Fatalf("unexpected team lookup %+v", bySlug)
	}

	venue, err := store.UpsertVenue(ctx, "/info/venue/5", "Huntington", "301 Huntington Rd")
	if err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}
	if venue.ID == 0 || venue.Address != "301 Huntington Rd" {
		t.Fatalf("unexpected venue %+v", venue)
	}
	empty, err := store.UpsertVenue(ctx, "", "nameless", "")
	if err != nil {
		t.Fatalf("UpsertVenue empty url: %v", err)
	}
	if empty.ID != 0 {
		t.Fatalf("expected zero venue for empty url, got %+v", empty)
	}
}

func TestTeamLookupMissing(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.TeamBySlug(context.Background(), "nobody"); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
	if _, err := store.TeamByName(context.Background(), "Nobody FC"); !errors.Is(err, ErrTeamNotFound) {
		t.Fatalf("expected ErrTeamNotFound, got %v", err)
	}
}

func seedFixture(t *testing.T, store *Store, kickoff time.Time, result string) (League, Team, Team) {
	t.Helper()
	ctx := context.Background()
	group, err := store.UpsertLeagueGroup(ctx, "York Monday")
	if err != nil {
		t.Fatalf("UpsertLeagueGroup: %v", err)
	}
	league, err := store.UpsertLeague(ctx, group.ID, "Monday Division 1", "/info/league/1")
	if err != nil {
		t.Fatalf("UpsertLeague: %v", err)
	}
	home, err := store.UpsertTeam(ctx, "CLIVE OWEN & CO")
	if err != nil {
		t.Fatalf("UpsertTeam home: %v", err)
	}
	away, err := store.UpsertTeam(ctx, "Red Lion")
	if err != nil {
		t.Fatalf("UpsertTeam away: %v", err)
	}
	venue, err := store.UpsertVenue(ctx, "/info/venue/5", "Huntington", "301 Huntington Rd")
	if err != nil {
		t.Fatalf("UpsertVenue: %v", err)
	}
	if _, err := store.InsertFixture(ctx, Fixture{
		LeagueID:   league.ID,
		VenueID:    venue.ID,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Kickoff:    kickoff,
		Result:     result,
	}); err != nil {
		t.Fatalf("InsertFixture: %v", err)
	}
	return league, home, away
}

func TestInsertFixtureDeduplicates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	kickoff := time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC)
	league, home, away := seedFixture(t, store, kickoff, "")

	inserted, err := store.InsertFixture(ctx, Fixture{
		LeagueID:   league.ID,
		HomeTeamID: home.ID,
		AwayTeamID: away.ID,
		Kickoff:    kickoff,
		Result:     "3 - 2",
	})
	if err != nil {
		t.Fatalf("InsertFixture duplicate: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate fixture to be ignored")
	}

	fixtures, err := store.FixturesForTeam(ctx, home.ID)
	if err != nil {
		t.Fatalf("FixturesForTeam: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture, got %d", len(fixtures))
	}
	if fixtures[0].Result != "3 - 2" {
		t.Fatalf("expected result refreshed on re-crawl, got %q", fixtures[0].Result)
	}
	if !fixtures[0].Kickoff.Equal(kickoff) {
		t.Fatalf("expected kickoff %v, got %v", kickoff, fixtures[0].Kickoff)
	}
	if fixtures[0].VenueAddress != "301 Huntington Rd" {
		t.Fatalf("unexpected venue address %q", fixtures[0].VenueAddress)
	}

	opponent, ok := fixtures[0].Opponent("CLIVE OWEN & CO")
	if !ok || opponent != "Red Lion" {
		t.Fatalf("unexpected opponent %q ok=%v", opponent, ok)
	}
}

func TestFixturesOnUsesLocalDay(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}

	// 18:30 local on 1 June is 17:30 UTC during British Summer Time.
	kickoff := time.Date(2026, time.June, 1, 18, 30, 0, 0, london)
	_, home, _ := seedFixture(t, store, kickoff, "")

	day := time.Date(2026, time.June, 1, 0, 0, 0, 0, london)
	fixtures, err := store.FixturesOn(ctx, home.ID, day, london)
	if err != nil {
		t.Fatalf("FixturesOn: %v", err)
	}
	if len(fixtures) != 1 {
		t.Fatalf("expected 1 fixture on matchday, got %d", len(fixtures))
	}

	fixtures, err = store.FixturesOn(ctx, home.ID, day.AddDate(0, 0, 1), london)
	if err != nil {
		t.Fatalf("FixturesOn next day: %v", err)
	}
	if len(fixtures) != 0 {
		t.Fatalf("expected no fixtures the next day, got %d", len(fixtures))
	}
}

func TestHealthAndClear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedFixture(t, store, time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC), "")

	summary, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	want := HealthSummary{Groups: 1, Leagues: 1, Teams: 2, Venues: 1, Fixtures: 1}
	if summary != want {
		t.Fatalf("unexpected summary %+v", summary)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	summary, err = store.Health(ctx)
	if err != nil {
		t.Fatalf("Health after clear: %v", err)
	}
	if summary != (HealthSummary{}) {
		t.Fatalf("expected empty catalog, got %+v", summary)
	}
}

func TestKickoffStoredAsUTCRFC3339(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	kickoff := time.Date(2026, time.June, 1, 18, 30, 0, 0, london)
	seedFixture(t, store, kickoff, "")

	var raw string
	if err := store.db.QueryRowContext(ctx, `SELECT dt_utc FROM fixture`).Scan(&raw); err != nil {
		t.Fatalf("read raw kickoff: %v", err)
	}
	if raw != "2026-06-01T17:30:00Z" {
		t.Fatalf("expected RFC 3339 UTC kickoff, got %q", raw)
	}

	parsed, err := parseKickoff(raw)
	if err != nil {
		t.Fatalf("parseKickoff: %v", err)
	}
	if !parsed.Equal(kickoff) {
		t.Fatalf("round trip drifted: %v != %v", parsed, kickoff)
	}
}

func TestListLeaguesCarriesGroupName(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	kickoff := time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC)
	league, _, _ := seedFixture(t, store, kickoff, "")

	leagues, err := store.ListLeagues(ctx)
	if err != nil {
		t.Fatalf("ListLeagues: %v", err)
	}
	if len(leagues) != 1 {
		t.Fatalf("expected 1 league, got %d", len(leagues))
	}
	if leagues[0].ID != league.ID || leagues[0].GroupName != "York Monday" {
		t.Fatalf("unexpected listing %+v", leagues[0])
	}

	fixtures, err := store.FixturesForLeague(ctx, league.ID)
	if err != nil {
		t.Fatalf("FixturesForLeague: %v", err)
	}
	if len(fixtures) != 1 || !fixtures[0].Kickoff.Equal(kickoff) {
		t.Fatalf("unexpected league fixtures %+v", fixtures)
	}
}
