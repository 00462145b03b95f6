package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fixturecal/internal/daemon"
	"fixturecal/internal/logging"
	"fixturecal/internal/workflow"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduler in the foreground",
		Long:  "Runs the refresh and reminder jobs on their cron schedules until interrupted.",
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

			manager, err := workflow.NewManager(cfg, store, logger)
			if err != nil {
				store.Close()
				return err
			}

			d, err := daemon.New(cfg, store, logger, manager)
			if err != nil {
				store.Close()
				return err
			}
			defer d.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := d.Start(runCtx); err != nil {
				return err
			}

			status := d.Status(runCtx)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fixturecal scheduler running (refresh %q, remind %q)\n",
				cfg.Schedule.RefreshCron, cfg.Schedule.RemindCron)
			if !status.NextRun.IsZero() {
				fmt.Fprintf(out, "Next run: %s\n", status.NextRun.In(cfg.Location()).Format("2006-01-02 15:04:05"))
			}

			<-runCtx.Done()
			logger.Info("scheduler shutting down", logging.String(logging.FieldComponent, "cli"))
			d.Stop()
			return nil
		},
	}
}
