package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/neboloop/vizaudit/internal/audit"
)

var flagCron string

// watchDebounce coalesces the burst of write events editors emit per save.
const watchDebounce = 2 * time.Second

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run audits on a cron schedule, re-running when the scenario file changes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		logger := slog.Default().With("component", "schedule")

		// One audit at a time: ticks and file events funnel into one channel
		// with capacity 1, so overlapping triggers collapse.
		trigger := make(chan string, 1)
		kick := func(reason string) {
			select {
			case trigger <- reason:
			default:
			}
		}

		c := cron.New()
		if _, err := c.AddFunc(flagCron, func() { kick("cron") }); err != nil {
			return fmt.Errorf("invalid cron expression %q: %w", flagCron, err)
		}
		c.Start()
		defer c.Stop()

		if flagScenarios != "" {
			watcher, err := watchScenarioFile(ctx, flagScenarios, kick, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()
		}

		logger.Info("scheduler started", "cron", flagCron, "scenarios", flagScenarios)
		for {
			select {
			case <-ctx.Done():
				return nil
			case reason := <-trigger:
				logger.Info("scheduled audit starting", "trigger", reason)
				opts, err := buildOptions()
				if err != nil {
					logger.Error("scheduled audit skipped", "error", err)
					continue
				}
				runDir, err := audit.NewRunner(opts).Run(ctx)
				if err != nil {
					logger.Error("scheduled audit failed", "error", err)
					continue
				}
				logger.Info("scheduled audit complete", "output", runDir)
			}
		}
	},
}

// watchScenarioFile re-triggers an audit when the scenario file is rewritten.
func watchScenarioFile(ctx context.Context, path string, kick func(string), logger *slog.Logger) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("starting file watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	go func() {
		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(watchDebounce, func() { kick("file-change") })
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("file watcher error", "error", err)
			}
		}
	}()
	return watcher, nil
}

func init() {
	scheduleCmd.Flags().StringVar(&flagCron, "cron", "0 6 * * *", "cron expression for periodic audits")
	rootCmd.AddCommand(scheduleCmd)
}
