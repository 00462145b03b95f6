package mundial

import (
	"errors"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	leagueDateLayout = "02-01-2006"
	leagueTimeLayout = "15:04"
	teamPageLayout   = "02/01/06 15:04"
)

// parseLeagueGroups reads the league-finder dropdown. Each option's value is
// the group page URL; the placeholder option pointing back at the finder is
// skipped.
func parseLeagueGroups(doc *goquery.Document) []GroupLink {
	var groups []GroupLink
	selector := "select[onchange='location = this.options[this.selectedIndex].value;'] option"
	doc.Find(selector).Each(func(_ int, opt *goquery.Selection) {
		name := strings.TrimSpace(opt.Text())
		value := strings.TrimSpace(opt.AttrOr("value", ""))
		if value == "" || value == FindLeaguePath {
			return
		}
		groups = append(groups, GroupLink{Name: name, URL: value})
	})
	return groups
}

// parseGroupLeagues reads the league panels on a group page. Panel titles
// carry a trailing "View Fixtures" link whose text is stripped from the name.
func parseGroupLeagues(doc *goquery.Document) []LeagueLink {
	var leagues []LeagueLink
	doc.Find("div.col-lg-12 div.panel-heading h4.panel-title").Each(func(_ int, title *goquery.Selection) {
		link := title.Find("a[href]").First()
		href := strings.TrimSpace(link.AttrOr("href", ""))
		if href == "" {
			return
		}
		name := strings.TrimSpace(title.Text())
		if idx := strings.Index(name, "View Fixtures"); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		leagues = append(leagues, LeagueLink{Name: name, URL: href})
	})
	return leagues
}

// parseVenueLink finds the venue anchor on a league page. Address is left
// empty; the caller resolves it from the venue page.
func parseVenueLink(doc *goquery.Document) Venue {
	link := doc.Find("a[href^='/info/venues/']").First()
	href := strings.TrimSpace(link.AttrOr("href", ""))
	if href == "" {
		return Venue{Name: "Unknown"}
	}
	return Venue{Name: strings.TrimSpace(link.Text()), URL: href}
}

// parseVenueAddress extracts the address block from a venue page: a <p>
// reading exactly "Address" followed by sibling paragraphs holding the
// address lines. Returns "" when the block is missing.
func parseVenueAddress(doc *goquery.Document) string {
	var address string
	doc.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		if strings.TrimSpace(p.Text()) != "Address" {
			return true
		}
		container := p.ParentsFiltered("div").First()
		if container.Length() == 0 {
			return false
		}
		var lines []string
		container.Find("p").Each(func(i int, line *goquery.Selection) {
			if i == 0 {
				return
			}
			if text := strings.TrimSpace(line.Text()); text != "" {
				lines = append(lines, text)
			}
		})
		address = strings.Join(lines, ", ")
		return false
	})
	return address
}

// parseLeagueFixtures walks both accordion sections of a league page. Each
// date panel heading names a matchday; its collapsible sibling holds a table
// of kickoffs. Rows with malformed dates, times or missing team links are
// skipped. Only the results section carries a score in the third cell.
func parseLeagueFixtures(doc *goquery.Document, loc *time.Location) []Fixture {
	var fixtures []Fixture
	sections := []struct {
		id     string
		played bool
	}{
		{id: "fixtures_accordion_fixtures"},
		{id: "fixtures_accordion_results", played: true},
	}
	for _, section := range sections {
		doc.Find("div#" + section.id + " div.panel-heading").Each(func(_ int, panel *goquery.Selection) {
			dateText := strings.TrimSpace(panel.Find("h4.panel-title").First().Text())
			dateText = strings.TrimSpace(strings.ReplaceAll(dateText, "View:", ""))
			matchDay, err := time.Parse(leagueDateLayout, dateText)
			if err != nil {
				return
			}

			table := panel.NextAllFiltered("div.panel-collapse").First().Find("table.table-striped").First()
			table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
				cells := row.Find("td")
				if cells.Length() < 4 {
					return
				}
				kickoffClock, err := time.Parse(leagueTimeLayout, strings.TrimSpace(cells.Eq(0).Text()))
				if err != nil {
					return
				}

				homeLink := cells.Eq(1).Find("a[href]").First()
				awayLink := cells.Eq(3).Find("a[href]").First()
				if homeLink.Length() == 0 || awayLink.Length() == 0 {
					return
				}

				fixture := Fixture{
					Kickoff: time.Date(
						matchDay.Year(), matchDay.Month(), matchDay.Day(),
						kickoffClock.Hour(), kickoffClock.Minute(), 0, 0, loc,
					),
					HomeTeam: strings.TrimSpace(homeLink.Text()),
					AwayTeam: strings.TrimSpace(awayLink.Text()),
				}
				if section.played {
					fixture.Result = strings.TrimSpace(cells.Eq(2).Text())
				}
				fixtures = append(fixtures, fixture)
			})
		})
	}
	return fixtures
}

// cellText joins a cell's text nodes with single spaces, mirroring how the
// team page splits date and time across inline elements.
func cellText(cell *goquery.Selection) string {
	var parts []string
	cell.Contents().Each(func(_ int, node *goquery.Selection) {
		if text := strings.TrimSpace(node.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, " ")
}

// parseTeamFixtures reads the "<team> Fixtures" panel on a team page. An
// error is returned when the panel cannot be located; malformed rows and
// rows not involving teamName are skipped.
func parseTeamFixtures(doc *goquery.Document, teamName string, loc *time.Location) ([]TeamFixture, error) {
	heading := teamName + " Fixtures"
	var container *goquery.Selection
	doc.Find("h4.panel-title").EachWithBreak(func(_ int, title *goquery.Selection) bool {
		if strings.TrimSpace(title.Text()) != heading {
			return true
		}
		container = title.Closest("div.col-lg-6")
		return false
	})
	if container == nil || container.Length() == 0 {
		return nil, errors.New("fixtures panel not found for team " + teamName)
	}

	var fixtures []TeamFixture
	container.Find("table.table-striped tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 4 {
			return
		}
		raw := strings.Join(strings.Fields(cellText(cells.Eq(0))), " ")
		kickoff, err := time.ParseInLocation(teamPageLayout, raw, loc)
		if err != nil {
			return
		}

		home := strings.TrimSpace(cells.Eq(1).Text())
		away := strings.TrimSpace(cells.Eq(3).Text())
		var opponent string
		switch teamName {
		case home:
			opponent = away
		case away:
			opponent = home
		default:
			return
		}
		fixtures = append(fixtures, TeamFixture{Kickoff: kickoff, Opponent: opponent})
	})
	return fixtures, nil
}
