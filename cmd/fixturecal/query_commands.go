package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"fixturecal/internal/catalog"
	"fixturecal/internal/config"
	"fixturecal/internal/workflow"
)

func newTeamsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "teams",
		Short: "List teams known to the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			teams, err := store.ListTeams(cmd.Context())
			if err != nil {
				return err
			}
			if len(teams) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No teams in the catalog yet; run refresh first")
				return nil
			}

			rows := make([][]string, 0, len(teams))
			for _, team := range teams {
				rows = append(rows, []string{strconv.FormatInt(team.ID, 10), team.Slug, team.Name})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "Slug", "Name"}, rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft})
			return nil
		},
	}
}

func newFixturesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "fixtures <team-slug>",
		Short: "List catalog fixtures for a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			team, err := store.TeamBySlug(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fixtures, err := store.FixturesForTeam(cmd.Context(), team.ID)
			if err != nil {
				return err
			}
			if len(fixtures) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No fixtures recorded for %s\n", team.Name)
				return nil
			}

			rows := make([][]string, 0, len(fixtures))
			for _, fixture := range fixtures {
				result := fixture.Result
				if result == "" {
					result = "-"
				}
				rows = append(rows, []string{
					fixture.Kickoff.In(cfg.Location()).Format("Mon 02 Jan 2006 15:04"),
					fixture.HomeTeam,
					fixture.AwayTeam,
					result,
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"Kickoff", "Home", "Away", "Result"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft})
			return nil
		},
	}
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalog counts and recent job outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(cfg *config.Config, _ *catalog.Store, manager *workflow.Manager) error {
				summary := manager.Status(cmd.Context())
				out := cmd.OutOrStdout()

				rows := [][]string{
					{"League groups", strconv.Itoa(summary.Catalog.Groups)},
					{"Leagues", strconv.Itoa(summary.Catalog.Leagues)},
					{"Teams", strconv.Itoa(summary.Catalog.Teams)},
					{"Venues", strconv.Itoa(summary.Catalog.Venues)},
					{"Fixtures", strconv.Itoa(summary.Catalog.Fixtures)},
				}
				renderTable(out, []string{"Catalog", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight})

				printRun(out, cfg, "refresh", summary.LastRefresh)
				printRun(out, cfg, "remind", summary.LastRemind)
				fmt.Fprintf(out, "Database: %s\n", cfg.DatabasePath())
				return nil
			})
		},
	}
}

func printRun(out io.Writer, cfg *config.Config, job string, record *workflow.RunRecord) {
	if record == nil {
		fmt.Fprintf(out, "Last %s: never\n", job)
		return
	}
	when := record.FinishedAt.In(cfg.Location()).Format("2006-01-02 15:04:05")
	if record.Error != "" {
		fmt.Fprintf(out, "Last %s: %s (failed: %s)\n", job, when, record.Error)
		return
	}
	fmt.Fprintf(out, "Last %s: %s (ok)\n", job, when)
}
