package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"fixturecal/internal/mundial"
)

// newNextCommand scrapes the configured team's page directly instead of
// reading the catalog, so it works before the first refresh has run.
func newNextCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the team's upcoming fixtures straight from the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			client, err := mundial.New(cfg.Source.BaseURL,
				mundial.WithUserAgent(cfg.Source.UserAgent),
				mundial.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Source.RequestTimeout) * time.Second}),
				mundial.WithRetryAttempts(cfg.Source.RetryAttempts),
				mundial.WithThrottle(time.Duration(cfg.Source.ThrottleMS)*time.Millisecond),
				mundial.WithLocation(cfg.Location()),
			)
			if err != nil {
				return err
			}

			fixtures, err := client.TeamFixtures(cmd.Context(), cfg.Team.Page, cfg.Team.Name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(fixtures) == 0 {
				fmt.Fprintf(out, "No upcoming fixtures listed for %s\n", cfg.Team.Name)
				return nil
			}
			rows := make([][]string, 0, len(fixtures))
			for _, fixture := range fixtures {
				rows = append(rows, []string{
					fixture.Kickoff.In(cfg.Location()).Format("Mon 02 Jan 2006 15:04"),
					fixture.Opponent,
				})
			}
			renderTable(out, []string{"Kickoff", "Opponent"}, rows,
				[]columnAlignment{alignLeft, alignLeft})
			return nil
		},
	}
}
