package ical

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"fixturecal/internal/catalog"
)

// Builder renders fixtures into iCalendar documents. Event times are
// emitted in UTC; calendar clients localize them on display.
type Builder struct {
	creator        string
	eventDuration  time.Duration
	defaultAddress string
}

// NewBuilder creates a calendar builder. A non-positive duration falls
// back to one hour.
func NewBuilder(creator string, eventDuration time.Duration, defaultAddress string) *Builder {
	if eventDuration <= 0 {
		eventDuration = time.Hour
	}
	return &Builder{
		creator:        creator,
		eventDuration:  eventDuration,
		defaultAddress: defaultAddress,
	}
}

// eventUID derives a stable identifier so calendar clients can reconcile
// re-published feeds instead of duplicating events.
func eventUID(scope string, detail catalog.FixtureDetail) string {
	seed := fmt.Sprintf("%s|%s|%s|%s", scope, detail.HomeTeam, detail.AwayTeam, detail.Kickoff.UTC().Format(time.RFC3339))
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String() + "@fixturecal"
}

func (b *Builder) addEvent(cal *ics.Calendar, scope, summary string, detail catalog.FixtureDetail) {
	event := cal.AddEvent(eventUID(scope, detail))
	start := detail.Kickoff.UTC()
	event.SetDtStampTime(start)
	event.SetStartAt(start)
	event.SetEndAt(start.Add(b.eventDuration))
	event.SetSummary(summary)

	location := detail.VenueAddress
	if location == "" {
		location = b.defaultAddress
	}
	if location != "" {
		event.SetLocation(location)
	}
	if detail.Result != "" {
		event.SetDescription("Result: " + detail.Result)
	}
}

// TeamCalendar renders every fixture involving the team. Events are titled
// "<team> vs <opponent>"; played matches carry the score as a description.
func (b *Builder) TeamCalendar(team catalog.Team, fixtures []catalog.FixtureDetail) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//%s//Fixtures for team %s//EN", b.creator, team.Name))
	cal.SetMethod(ics.MethodPublish)

	for _, detail := range fixtures {
		opponent, ok := detail.Opponent(team.Name)
		if !ok {
			continue
		}
		b.addEvent(cal, "team/"+team.Slug, fmt.Sprintf("%s vs %s", team.Name, opponent), detail)
	}
	return cal
}

// LeagueCalendar renders every fixture in a league, titled "<home> vs <away>".
func (b *Builder) LeagueCalendar(groupName, leagueSlug string, fixtures []catalog.FixtureDetail) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//%s//Fixtures for %s %s//EN", b.creator, groupName, leagueSlug))
	cal.SetMethod(ics.MethodPublish)

	for _, detail := range fixtures {
		b.addEvent(cal, "league/"+leagueSlug, fmt.Sprintf("%s vs %s", detail.HomeTeam, detail.AwayTeam), detail)
	}
	return cal
}

// HomeFeed renders the followed team's fixtures in the standalone feed
// style, titling each event "Match Versus <opponent>".
func (b *Builder) HomeFeed(team catalog.Team, fixtures []catalog.FixtureDetail) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetProductId(fmt.Sprintf("-//%s//%s Fixtures//EN", b.creator, team.Name))
	cal.SetMethod(ics.MethodPublish)

	for _, detail := range fixtures {
		opponent, ok := detail.Opponent(team.Name)
		if !ok {
			continue
		}
		b.addEvent(cal, "feed/"+team.Slug, "Match Versus "+opponent, detail)
	}
	return cal
}
