package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/ical"
	"fixturecal/internal/logging"
	"fixturecal/internal/publish"
	"fixturecal/internal/reminder"
	"fixturecal/internal/workflow"
)

func newRefreshCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Crawl the fixtures site, render calendars, and publish",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *config.Config, _ *catalog.Store, manager *workflow.Manager) error {
				outcome, err := manager.RunRefresh(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Crawled %d league groups, %d leagues (%d failed)\n",
					outcome.Crawl.Groups, outcome.Crawl.Leagues, outcome.Crawl.FailedLeagues)
				fmt.Fprintf(out, "Fixtures seen: %d (%d new)\n",
					outcome.Crawl.Fixtures, outcome.Crawl.NewFixtures)
				fmt.Fprintf(out, "Calendars rendered: %d (plus %d league feeds)\n",
					outcome.Render.Calendars, outcome.Render.LeagueFeeds)
				fmt.Fprintf(out, "Published: %s\n", yesNo(outcome.Published))
				return nil
			})
		},
	}
}

func newRenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render calendar files from the existing catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			builder := ical.NewBuilder(
				cfg.Calendar.Creator,
				time.Duration(cfg.Calendar.EventDurationMinutes)*time.Minute,
				cfg.Team.DefaultLocation,
			)
			writer := ical.NewSiteWriter(store, builder, logger,
				cfg.Paths.OutputDir, cfg.Calendar.TeamFeedFilename, cfg.Team.Name)
			summary, err := writer.Render(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Calendars rendered: %d (plus %d league feeds, skipped %d teams without fixtures)\n",
				summary.Calendars, summary.LeagueFeeds, summary.Skipped)
			fmt.Fprintf(out, "Standalone feed written: %s\n", yesNo(summary.FeedWritten))
			return nil
		},
	}
}

func newPublishCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Push the rendered site directory to the publish branch",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Publish.Enabled {
				return fmt.Errorf("publishing is disabled; set publish.enabled in the config")
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			publisher, err := publish.New(cfg.Publish.Remote, cfg.Publish.Branch, cfg.Paths.WorkDir, logger,
				publish.WithGitBinary(cfg.GitBinary()),
				publish.WithToken(cfg.Publish.Token),
				publish.WithCommitter(cfg.Publish.CommitterName, cfg.Publish.CommitterEmail),
			)
			if err != nil {
				return err
			}
			result, err := publisher.Publish(cmd.Context(), cfg.Paths.OutputDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if result.Committed {
				fmt.Fprintf(out, "Published %s to %s\n", result.Commit, cfg.Publish.Branch)
			} else {
				fmt.Fprintf(out, "Branch %s already up to date\n", cfg.Publish.Branch)
			}
			return nil
		},
	}
}

func newRemindCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send availability reminders for today's fixtures",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			now := time.Now()
			if dateFlag != "" {
				parsed, parseErr := time.ParseInLocation("2006-01-02", dateFlag, cfg.Location())
				if parseErr != nil {
					return fmt.Errorf("parse --date (want YYYY-MM-DD): %w", parseErr)
				}
				now = parsed
			}

			var sender reminder.Sender
			switch {
			case dryRun || !cfg.Email.Enabled:
				if !dryRun {
					logger.Warn("email not configured, running dry",
						logging.String(logging.FieldErrorHint, "set SMTP_HOST and RECIPIENTS"))
				}
				sender = reminder.NewLogSender(logger)
			default:
				sender, err = reminder.NewSMTPSender(
					cfg.Email.Host, cfg.Email.Port,
					cfg.Email.Username, cfg.Email.Password,
					cfg.Email.From, cfg.Email.Recipients,
				)
				if err != nil {
					return err
				}
			}

			service := reminder.NewService(store, sender, logger,
				cfg.Team.Name, cfg.Location(), cfg.Email.DaysBefore)
			summary, err := service.RemindDue(cmd.Context(), now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary.Fixtures == 0 {
				fmt.Fprintln(out, "No fixtures on the reminder day")
				return nil
			}
			fmt.Fprintf(out, "Reminders sent: %d of %d fixture(s)\n", summary.Sent, summary.Fixtures)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log reminders instead of sending email")
	cmd.Flags().StringVar(&dateFlag, "date", "", "Treat this date (YYYY-MM-DD) as today")
	return cmd
}
