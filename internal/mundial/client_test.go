package mundial_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fixturecal/internal/mundial"
)

const findLeaguePage = `<html><body>
<select onchange="location = this.options[this.selectedIndex].value;">
  <option value="/find_league">Choose a venue</option>
  <option value="/info/venues/5/leagues">York Monday</option>
  <option value="/info/venues/9/leagues">Leeds Tuesday</option>
  <option value="">Broken</option>
</select>
</body></html>`

const groupPage = `<html><body><div class="col-lg-12">
<div class="panel-heading"><h4 class="panel-title">Monday Division 1 <a href="/info/league/1">View Fixtures</a></h4></div>
<div class="panel-heading"><h4 class="panel-title">Monday Division 2 <a href="/info/league/2">View Fixtures</a></h4></div>
<div class="panel-heading"><h4 class="panel-title">No Link Division</h4></div>
</div></body></html>`

const leaguePage = `<html><body>
<a href="/info/venues/5">Huntington School</a>
<div id="fixtures_accordion_fixtures">
  <div class="panel-heading"><h4 class="panel-title">View: 02-03-2026</h4></div>
  <div class="panel-collapse">
    <table class="table-striped"><tbody>
      <tr><td>19:30</td><td><a href="/info/teams/770267">CLIVE OWEN &amp; CO</a></td><td>v</td><td><a href="/info/teams/770301">Red Lion</a></td></tr>
      <tr><td>bad</td><td><a href="/t/1">A</a></td><td>v</td><td><a href="/t/2">B</a></td></tr>
      <tr><td>20:00</td><td>No Link</td><td>v</td><td><a href="/t/3">C</a></td></tr>
    </tbody></table>
  </div>
</div>
<div id="fixtures_accordion_results">
  <div class="panel-heading"><h4 class="panel-title">View: 23-02-2026</h4></div>
  <div class="panel-collapse">
    <table class="table-striped"><tbody>
      <tr><td>19:00</td><td><a href="/info/teams/770267">CLIVE OWEN &amp; CO</a></td><td>3 - 2</td><td><a href="/info/teams/770299">Old Oak</a></td></tr>
    </tbody></table>
  </div>
  <div class="panel-heading"><h4 class="panel-title">not a date</h4></div>
</div>
</body></html>`

const venuePage = `<html><body><div class="col-md-6">
<p>Address</p>
<p>301 Huntington Rd</p>
<p>Huntington, York YO32 9WT</p>
</div></body></html>`

const teamPage = `<html><body><div class="col-lg-6">
<div class="panel-heading"><h4 class="panel-title">CLIVE OWEN &amp; CO Fixtures</h4></div>
<table class="table-striped"><tbody>
  <tr><td>02/03/26 <br/>19:30</td><td>CLIVE OWEN &amp; CO</td><td>v</td><td>Red Lion</td></tr>
  <tr><td>09/03/26 <br/>20:00</td><td>Old Oak</td><td>v</td><td>CLIVE OWEN &amp; CO</td></tr>
  <tr><td>16/03/26 <br/>19:00</td><td>Someone Else</td><td>v</td><td>Another Side</td></tr>
  <tr><td>garbage</td><td>CLIVE OWEN &amp; CO</td><td>v</td><td>Red Lion</td></tr>
</tbody></table>
</div></body></html>`

func newTestClient(t *testing.T, handler http.Handler) *mundial.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Skipf("tz database unavailable: %v", err)
	}
	client, err := mundial.New(server.URL,
		mundial.WithThrottle(0),
		mundial.WithLocation(london),
		mundial.WithDefaultVenueAddress("301 Huntington Rd, Huntington, York YO32 9WT"),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := mundial.New(""); err == nil {
		t.Fatal("expected error when base url missing")
	}
}

func TestLeagueGroups(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/find_league" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(findLeaguePage))
	}))

	groups, err := client.LeagueGroups(context.Background())
	if err != nil {
		t.Fatalf("LeagueGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Name != "York Monday" || groups[0].URL != "/info/venues/5/leagues" {
		t.Fatalf("unexpected first group %+v", groups[0])
	}
}

func TestGroupLeaguesStripsViewFixtures(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(groupPage))
	}))

	leagues, err := client.GroupLeagues(context.Background(), "/info/venues/5/leagues")
	if err != nil {
		t.Fatalf("GroupLeagues: %v", err)
	}
	if len(leagues) != 2 {
		t.Fatalf("expected 2 leagues, got %d", len(leagues))
	}
	if leagues[0].Name != "Monday Division 1" || leagues[0].URL != "/info/league/1" {
		t.Fatalf("unexpected league %+v", leagues[0])
	}
}

func TestLeagueFixturesParsesBothSections(t *testing.T) {
	var venueHits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/info/league/1":
			_, _ = w.Write([]byte(leaguePage))
		case "/info/venues/5":
			venueHits.Add(1)
			_, _ = w.Write([]byte(venuePage))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	ctx := context.Background()

	fixtures, venue, err := client.LeagueFixtures(ctx, "/info/league/1")
	if err != nil {
		t.Fatalf("LeagueFixtures: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures after skipping malformed rows, got %d", len(fixtures))
	}

	upcoming := fixtures[0]
	if upcoming.HomeTeam != "CLIVE OWEN & CO" || upcoming.AwayTeam != "Red Lion" || upcoming.Result != "" {
		t.Fatalf("unexpected upcoming fixture %+v", upcoming)
	}
	if upcoming.Kickoff.Hour() != 19 || upcoming.Kickoff.Minute() != 30 {
		t.Fatalf("unexpected kickoff %v", upcoming.Kickoff)
	}
	if upcoming.Kickoff.Location().String() != "Europe/London" {
		t.Fatalf("kickoff not in site timezone: %v", upcoming.Kickoff.Location())
	}

	played := fixtures[1]
	if played.Result != "3 - 2" || played.AwayTeam != "Old Oak" {
		t.Fatalf("unexpected played fixture %+v", played)
	}

	if venue.Name != "Huntington School" || venue.URL != "/info/venues/5" {
		t.Fatalf("unexpected venue %+v", venue)
	}
	if venue.Address != "301 Huntington Rd, Huntington, York YO32 9WT" {
		t.Fatalf("unexpected venue address %q", venue.Address)
	}

	// Second league sharing the venue must hit the memoized address.
	if _, _, err := client.LeagueFixtures(ctx, "/info/league/1"); err != nil {
		t.Fatalf("LeagueFixtures repeat: %v", err)
	}
	if venueHits.Load() != 1 {
		t.Fatalf("expected venue page fetched once, got %d", venueHits.Load())
	}
}

func TestVenueAddressFallsBack(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	address := client.VenueAddress(context.Background(), "/info/venues/99")
	if address != "301 Huntington Rd, Huntington, York YO32 9WT" {
		t.Fatalf("expected default address, got %q", address)
	}
}

func TestTeamFixtures(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(teamPage))
	}))

	fixtures, err := client.TeamFixtures(context.Background(), "/info/teams/770267", "CLIVE OWEN & CO")
	if err != nil {
		t.Fatalf("TeamFixtures: %v", err)
	}
	if len(fixtures) != 2 {
		t.Fatalf("expected 2 fixtures involving the team, got %d", len(fixtures))
	}
	if fixtures[0].Opponent != "Red Lion" {
		t.Fatalf("unexpected opponent %q", fixtures[0].Opponent)
	}
	if fixtures[1].Opponent != "Old Oak" {
		t.Fatalf("unexpected opponent %q", fixtures[1].Opponent)
	}
	want := time.Date(2026, time.March, 2, 19, 30, 0, 0, fixtures[0].Kickoff.Location())
	if !fixtures[0].Kickoff.Equal(want) {
		t.Fatalf("unexpected kickoff %v", fixtures[0].Kickoff)
	}
}

func TestTeamFixturesMissingPanel(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><p>nothing here</p></body></html>"))
	}))

	if _, err := client.TeamFixtures(context.Background(), "/info/teams/770267", "CLIVE OWEN & CO"); err == nil {
		t.Fatal("expected error when fixtures panel missing")
	}
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(findLeaguePage))
	}))

	if _, err := client.LeagueGroups(context.Background()); err != nil {
		t.Fatalf("LeagueGroups after retries: %v", err)
	}
	if hits.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", hits.Load())
	}
}
