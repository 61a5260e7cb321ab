package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"headliner/internal/config"
	"headliner/internal/delivery"
	"headliner/internal/logger"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// NewScheduleCmd creates the schedule command: run the pipeline on a cron
// expression until interrupted.
func NewScheduleCmd() *cobra.Command {
	scheduleCmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the digest pipeline periodically on a cron schedule",
		Long: `Keep the process running and execute a full digest run on the configured
cron expression (schedule.cron, default "0 7 * * *"). Stops cleanly on
SIGINT or SIGTERM.

Examples:
  headliner schedule
  headliner schedule --cron "*/30 * * * *"`,
		RunE: scheduleRunFunc,
	}

	scheduleCmd.Flags().String("cron", "", "Cron expression (overrides schedule.cron)")
	scheduleCmd.Flags().Bool("run-now", false, "Run one digest immediately before waiting for the schedule")

	return scheduleCmd
}

func scheduleRunFunc(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	expr := cfg.Schedule.Cron
	if flagExpr, _ := cmd.Flags().GetString("cron"); flagExpr != "" {
		expr = flagExpr
	}
	if len(cfg.Feeds.URLs) == 0 {
		return fmt.Errorf("no feeds configured: set feeds.urls")
	}

	deliveryOpts := delivery.Options{
		Stdout:     cfg.Delivery.Stdout,
		File:       cfg.Delivery.File,
		WebhookURL: cfg.Delivery.WebhookURL,
		Timeout:    parseDuration(cfg.Delivery.Timeout, 10*time.Second),
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	run := func() {
		logger.Info("Scheduled digest run starting")
		if err := runPipeline(ctx, cfg, cfg.Feeds.URLs, deliveryOpts); err != nil {
			logger.Error("Scheduled digest run failed", err)
		}
	}

	c := cron.New()
	if _, err := c.AddFunc(expr, run); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	if runNow, _ := cmd.Flags().GetBool("run-now"); runNow {
		run()
	}

	c.Start()
	defer c.Stop()
	logger.Info("Scheduler started", "cron", expr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down scheduler")
	cancel()
	c.Stop()
	return nil
}
