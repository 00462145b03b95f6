package testsupport

import (
	"context"
	"testing"
	"time"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg.DatabasePath())
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

// SeedFixture creates the group, league, both teams, and one fixture.
func SeedFixture(t testing.TB, store *catalog.Store, home, away string, kickoff time.Time, result string) {
	t.Helper()
	ctx := context.Background()

	group, err := store.UpsertLeagueGroup(ctx, "Test Group")
	if err != nil {
		t.Fatalf("UpsertLeagueGroup: %v", err)
	}
	league, err := store.UpsertLeague(ctx, group.ID, "Test League", "/info/league/test")
	if err != nil {
		t.Fatalf("UpsertLeague: %v", err)
	}
	homeTeam, err := store.UpsertTeam(ctx, home)
	if err != nil {
		t.Fatalf("UpsertTeam: %v", err)
	}
	awayTeam, err := store.UpsertTeam(ctx, away)
	if err != nil {
		t.Fatalf("UpsertTeam: %v", err)
	}
	if _, err := store.InsertFixture(ctx, catalog.Fixture{
		LeagueID:   league.ID,
		HomeTeamID: homeTeam.ID,
		AwayTeamID: awayTeam.ID,
		Kickoff:    kickoff,
		Result:     result,
	}); err != nil {
		t.Fatalf("InsertFixture: %v", err)
	}
}
