package ical

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"fixturecal/internal/catalog"
	"fixturecal/internal/logging"
	"fixturecal/internal/textutil"
)

// SiteWriter lays out the directory that gets published: one calendar per
// team, the followed team's standalone feed, and a copy of the catalog
// database for downstream consumers.
type SiteWriter struct {
	store     *catalog.Store
	builder   *Builder
	logger    *slog.Logger
	outputDir string
	feedName  string
	teamName  string
}

// RenderSummary reports what a render pass produced.
type RenderSummary struct {
	Calendars      int
	LeagueFeeds    int
	Skipped        int
	FeedWritten    bool
	DatabaseCopied bool
}

// NewSiteWriter creates a writer rendering store contents into outputDir.
// feedName is the filename of the followed team's standalone feed and
// teamName selects that team; both may be empty to skip the feed.
func NewSiteWriter(store *catalog.Store, builder *Builder, logger *slog.Logger, outputDir, feedName, teamName string) *SiteWriter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &SiteWriter{
		store:     store,
		builder:   builder,
		logger:    logging.NewComponentLogger(logger, "ical"),
		outputDir: outputDir,
		feedName:  feedName,
		teamName:  teamName,
	}
}

// Render writes every team calendar plus the standalone feed into the
// output directory. Teams without fixtures get no file.
func (w *SiteWriter) Render(ctx context.Context) (RenderSummary, error) {
	var summary RenderSummary
	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return summary, fmt.Errorf("create output directory: %w", err)
	}

	teams, err := w.store.ListTeams(ctx)
	if err != nil {
		return summary, err
	}
	for _, team := range teams {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		fixtures, err := w.store.FixturesForTeam(ctx, team.ID)
		if err != nil {
			return summary, err
		}
		if len(fixtures) == 0 {
			summary.Skipped++
			continue
		}
		path := filepath.Join(w.outputDir, textutil.SafeFilename(team.Slug, ".ics"))
		if err := writeCalendar(path, w.builder.TeamCalendar(team, fixtures).Serialize()); err != nil {
			return summary, err
		}
		summary.Calendars++
	}

	leagueFeeds, err := w.renderLeagueFeeds(ctx)
	if err != nil {
		return summary, err
	}
	summary.LeagueFeeds = leagueFeeds

	if w.feedName != "" && w.teamName != "" {
		written, err := w.renderHomeFeed(ctx)
		if err != nil {
			return summary, err
		}
		summary.FeedWritten = written
	}

	if err := w.copyDatabase(); err != nil {
		return summary, err
	}
	summary.DatabaseCopied = true

	w.logger.Info("site rendered",
		logging.String("output_dir", w.outputDir),
		logging.Int("calendars", summary.Calendars),
		logging.Int("league_feeds", summary.LeagueFeeds),
		logging.Int("skipped", summary.Skipped),
		logging.Bool("feed_written", summary.FeedWritten))
	return summary, nil
}

// renderLeagueFeeds writes one calendar per league with fixtures under
// leagues/, named <group_slug>_<league_slug>.ics.
func (w *SiteWriter) renderLeagueFeeds(ctx context.Context) (int, error) {
	leagues, err := w.store.ListLeagues(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	leaguesDir := filepath.Join(w.outputDir, "leagues")
	for _, league := range leagues {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		fixtures, err := w.store.FixturesForLeague(ctx, league.ID)
		if err != nil {
			return written, err
		}
		if len(fixtures) == 0 {
			continue
		}
		if written == 0 {
			if err := os.MkdirAll(leaguesDir, 0o755); err != nil {
				return written, fmt.Errorf("create leagues directory: %w", err)
			}
		}
		name := textutil.SafeFilename(textutil.Slugify(league.GroupName)+"_"+league.Slug, ".ics")
		cal := w.builder.LeagueCalendar(league.GroupName, league.Slug, fixtures)
		if err := writeCalendar(filepath.Join(leaguesDir, name), cal.Serialize()); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (w *SiteWriter) renderHomeFeed(ctx context.Context) (bool, error) {
	team, err := w.store.TeamByName(ctx, w.teamName)
	if err != nil {
		// The followed team may not have been crawled yet.
		w.logger.Warn("standalone feed skipped",
			logging.String(logging.FieldTeam, w.teamName),
			logging.Error(err))
		return false, nil
	}
	fixtures, err := w.store.FixturesForTeam(ctx, team.ID)
	if err != nil {
		return false, err
	}
	if len(fixtures) == 0 {
		return false, nil
	}
	path := filepath.Join(w.outputDir, w.feedName)
	if err := writeCalendar(path, w.builder.HomeFeed(team, fixtures).Serialize()); err != nil {
		return false, err
	}
	return true, nil
}

func (w *SiteWriter) copyDatabase() error {
	src, err := os.Open(w.store.Path())
	if err != nil {
		return fmt.Errorf("open database for copy: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(w.outputDir, filepath.Base(w.store.Path())))
	if err != nil {
		return fmt.Errorf("create database copy: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		return fmt.Errorf("copy database: %w", err)
	}
	return dst.Close()
}

func writeCalendar(path, contents string) error {
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		return fmt.Errorf("write calendar %s: %w", path, err)
	}
	return nil
}
