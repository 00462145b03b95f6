package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fixturecal/internal/catalog"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	workDir    string
	outputDir  string
}

func setupCLITestEnv(t *testing.T, extraTOML ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		workDir:    filepath.Join(base, "work"),
		outputDir:  filepath.Join(base, "docs"),
	}

	contents := fmt.Sprintf(`[paths]
output_dir = %q
log_dir = %q
work_dir = %q

[team]
name = "CLIVE OWEN & CO"
timezone = "UTC"

[email]
enabled = false

[publish]
enabled = false
`, env.outputDir, filepath.Join(base, "logs"), env.workDir)

	for _, extra := range extraTOML {
		contents += "\n" + extra + "\n"
	}

	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

// runCLI executes the root command with a fresh command tree, capturing
// stdout. The -c flag points every invocation at the test config.
func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"-c", env.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (env *cliTestEnv) seedFixture(t *testing.T, home, away string, kickoff time.Time, result string) {
	t.Helper()

	if err := os.MkdirAll(env.workDir, 0o755); err != nil {
		t.Fatalf("mkdir work dir: %v", err)
	}
	store, err := catalog.Open(filepath.Join(env.workDir, "fixtures.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	group, err := store.UpsertLeagueGroup(ctx, "York")
	if err != nil {
		t.Fatalf("upsert group: %v", err)
	}
	league, err := store.UpsertLeague(ctx, group.ID, "York Monday", "/info/leagues/1")
	if err != nil {
		t.Fatalf("upsert league: %v", err)
	}
	homeTeam, err := store.UpsertTeam(ctx, home)
	if err != nil {
		t.Fatalf("upsert home: %v", err)
	}
	awayTeam, err := store.UpsertTeam(ctx, away)
	if err != nil {
		t.Fatalf("upsert away: %v", err)
	}
	if _, err := store.InsertFixture(ctx, catalog.Fixture{
		LeagueID:   league.ID,
		HomeTeamID: homeTeam.ID,
		AwayTeamID: awayTeam.ID,
		Kickoff:    kickoff,
		Result:     result,
	}); err != nil {
		t.Fatalf("insert fixture: %v", err)
	}
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}
