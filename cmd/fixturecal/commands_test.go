package main

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "config.toml")
	out, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")

	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err = runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected init over an existing file to fail without --overwrite")
	}
	if _, err = runCLI(t, env, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestTeamsCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "teams")
	if err != nil {
		t.Fatalf("teams on empty catalog: %v", err)
	}
	requireContains(t, out, "No teams in the catalog yet")

	env.seedFixture(t, "CLIVE OWEN & CO", "Red Lion",
		time.Date(2026, time.June, 1, 18, 30, 0, 0, time.UTC), "")

	out, err = runCLI(t, env, "teams")
	if err != nil {
		t.Fatalf("teams: %v", err)
	}
	requireContains(t, out, "clive_owen_co")
	requireContains(t, out, "red_lion")
}

func TestFixturesCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedFixture(t, "CLIVE OWEN & CO", "Red Lion",
		time.Date(2026, time.June, 1, 18, 30, 0, 0, time.UTC), "3 - 2")

	out, err := runCLI(t, env, "fixtures", "clive_owen_co")
	if err != nil {
		t.Fatalf("fixtures: %v", err)
	}
	requireContains(t, out, "Red Lion")
	requireContains(t, out, "3 - 2")
	requireContains(t, out, "Mon 01 Jun 2026 18:30")

	if _, err := runCLI(t, env, "fixtures", "no_such_team"); err == nil {
		t.Fatal("expected unknown slug to fail")
	}
}

func TestRemindDryRun(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedFixture(t, "CLIVE OWEN & CO", "Red Lion",
		time.Date(2026, time.June, 1, 18, 30, 0, 0, time.UTC), "")

	out, err := runCLI(t, env, "remind", "--dry-run", "--date", "2026-06-01")
	if err != nil {
		t.Fatalf("remind --dry-run: %v", err)
	}
	requireContains(t, out, "Reminders sent: 1 of 1")

	out, err = runCLI(t, env, "remind", "--dry-run", "--date", "2026-06-02")
	if err != nil {
		t.Fatalf("remind on quiet day: %v", err)
	}
	requireContains(t, out, "No fixtures on the reminder day")

	if _, err := runCLI(t, env, "remind", "--date", "June 1st"); err == nil {
		t.Fatal("expected malformed --date to fail")
	}
}

func TestRenderCommandWritesCalendars(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedFixture(t, "CLIVE OWEN & CO", "Red Lion",
		time.Date(2026, time.June, 1, 18, 30, 0, 0, time.UTC), "")

	out, err := runCLI(t, env, "render")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "Calendars rendered: 2")

	if _, err := os.Stat(filepath.Join(env.outputDir, "clive_owen_co.ics")); err != nil {
		t.Fatalf("expected team calendar: %v", err)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seedFixture(t, "CLIVE OWEN & CO", "Red Lion",
		time.Date(2026, time.June, 1, 18, 30, 0, 0, time.UTC), "")

	out, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Fixtures")
	requireContains(t, out, "Last refresh: never")
	requireContains(t, out, "Last remind: never")
}

func TestNextCommandScrapesTeamPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/info/teams/770267" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`<html><body><div class="col-lg-6">
<div class="panel-heading"><h4 class="panel-title">CLIVE OWEN &amp; CO Fixtures</h4></div>
<table class="table-striped"><tbody>
  <tr><td>01/06/26 <br/>18:30</td><td>CLIVE OWEN &amp; CO</td><td>v</td><td>Red Lion</td></tr>
</tbody></table>
</div></body></html>`))
	}))
	defer server.Close()

	env := setupCLITestEnv(t, fmt.Sprintf("[source]\nbase_url = %q\nthrottle_ms = 0\n", server.URL))

	out, err := runCLI(t, env, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	requireContains(t, out, "Red Lion")
	requireContains(t, out, "Mon 01 Jun 2026 18:30")
}

func TestPublishCommandRequiresEnablement(t *testing.T) {
	env := setupCLITestEnv(t)

	if _, err := runCLI(t, env, "publish"); err == nil {
		t.Fatal("expected publish to fail while disabled")
	}
}
