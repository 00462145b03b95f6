package crawler

import (
	"context"
	"log/slog"

	"fixturecal/internal/catalog"
	"fixturecal/internal/logging"
	"fixturecal/internal/mundial"
	"fixturecal/internal/services"
)

// Source lists the site operations the crawler consumes.
type Source interface {
	LeagueGroups(ctx context.Context) ([]mundial.GroupLink, error)
	GroupLeagues(ctx context.Context, groupURL string) ([]mundial.LeagueLink, error)
	LeagueFixtures(ctx context.Context, leagueURL string) ([]mundial.Fixture, mundial.Venue, error)
}

// Summary reports what a crawl touched.
type Summary struct {
	Groups        int
	Leagues       int
	FailedLeagues int
	Fixtures      int
	NewFixtures   int
}

// Crawler ingests the whole site into the catalog.
type Crawler struct {
	store      *catalog.Store
	source     Source
	logger     *slog.Logger
	groupLimit int
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithGroupLimit caps how many league groups a crawl visits. Zero means all.
func WithGroupLimit(limit int) Option {
	return func(c *Crawler) {
		if limit > 0 {
			c.groupLimit = limit
		}
	}
}

// New creates a crawler writing to store.
func New(store *catalog.Store, source Source, logger *slog.Logger, opts ...Option) *Crawler {
	if logger == nil {
		logger = logging.NewNop()
	}
	crawler := &Crawler{
		store:  store,
		source: source,
		logger: logging.NewComponentLogger(logger, "crawler"),
	}
	for _, opt := range opts {
		opt(crawler)
	}
	return crawler
}

// Run crawls every league group and persists leagues, teams, venues and
// fixtures. A failure listing the groups aborts the run; failures on
// individual groups or leagues are logged, counted and skipped.
func (c *Crawler) Run(ctx context.Context) (Summary, error) {
	var summary Summary

	groups, err := c.source.LeagueGroups(ctx)
	if err != nil {
		return summary, services.Wrap(services.ErrUpstream, "crawler", "list groups", "fetch league groups", err)
	}
	if c.groupLimit > 0 && len(groups) > c.groupLimit {
		groups = groups[:c.groupLimit]
	}

	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if err := c.crawlGroup(ctx, group, &summary); err != nil {
			c.logger.Warn("skipping league group",
				logging.String("group", group.Name),
				logging.Error(err))
			continue
		}
		summary.Groups++
	}

	c.logger.Info("crawl complete",
		logging.Int("groups", summary.Groups),
		logging.Int("leagues", summary.Leagues),
		logging.Int("failed_leagues", summary.FailedLeagues),
		logging.Int("fixtures", summary.Fixtures),
		logging.Int("new_fixtures", summary.NewFixtures))
	return summary, nil
}

func (c *Crawler) crawlGroup(ctx context.Context, group mundial.GroupLink, summary *Summary) error {
	record, err := c.store.UpsertLeagueGroup(ctx, group.Name)
	if err != nil {
		return err
	}
	leagues, err := c.source.GroupLeagues(ctx, group.URL)
	if err != nil {
		return err
	}

	c.logger.Info("processing league group",
		logging.String("group", group.Name),
		logging.Int("leagues", len(leagues)))

	for _, league := range leagues {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := c.crawlLeague(ctx, record.ID, league, summary); err != nil {
			summary.FailedLeagues++
			c.logger.Warn("skipping league",
				logging.String(logging.FieldLeague, league.Name),
				logging.Error(err))
			continue
		}
		summary.Leagues++
	}
	return nil
}

func (c *Crawler) crawlLeague(ctx context.Context, groupID int64, league mundial.LeagueLink, summary *Summary) error {
	record, err := c.store.UpsertLeague(ctx, groupID, league.Name, league.URL)
	if err != nil {
		return err
	}

	fixtures, venue, err := c.source.LeagueFixtures(ctx, league.URL)
	if err != nil {
		return err
	}

	venueRecord, err := c.store.UpsertVenue(ctx, venue.URL, venue.Name, venue.Address)
	if err != nil {
		return err
	}

	for _, fixture := range fixtures {
		home, err := c.store.UpsertTeam(ctx, fixture.HomeTeam)
		if err != nil {
			return err
		}
		away, err := c.store.UpsertTeam(ctx, fixture.AwayTeam)
		if err != nil {
			return err
		}
		inserted, err := c.store.InsertFixture(ctx, catalog.Fixture{
			LeagueID:   record.ID,
			VenueID:    venueRecord.ID,
			HomeTeamID: home.ID,
			AwayTeamID: away.ID,
			Kickoff:    fixture.Kickoff,
			Result:     fixture.Result,
		})
		if err != nil {
			return err
		}
		summary.Fixtures++
		if inserted {
			summary.NewFixtures++
		}
	}
	return nil
}
