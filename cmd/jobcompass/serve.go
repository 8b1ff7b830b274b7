package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/metrics"
	"github.com/jobcompass/jobcompass/internal/notifier"
	"github.com/jobcompass/jobcompass/internal/repositories"
	"github.com/jobcompass/jobcompass/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a daemon with scheduled pipeline runs",
	Long: "Starts the metrics endpoint, the retention cleaner and the cron " +
		"scheduler, and posts run digests to Telegram when configured.",
	RunE: serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	metrics.StartMetricsServer(cfg.Metrics.Port)

	bus := EventBus.New()

	orchestrator, err := buildOrchestrator(cfg, dbContext, bus)
	if err != nil {
		return err
	}

	if cfg.Notifier.Enabled() {
		if _, err := notifier.NewTelegram(cfg.Notifier.TgToken, cfg.Notifier.TgChatID, bus); err != nil {
			return err
		}
	}

	cleaner, err := services.NewJobsCleaner(
		repositories.NewJobsRepository(dbContext.DB), cfg.Pipeline.RetentionDays)
	if err != nil {
		return err
	}
	defer cleaner.Stop()

	if cfg.Pipeline.Schedule != "" {
		scheduler, err := services.NewScheduler(orchestrator, cfg.Pipeline.Schedule)
		if err != nil {
			return err
		}
		defer scheduler.Stop()
	} else {
		log.Warn("no schedule configured, pipeline will not run automatically")
	}

	<-ctx.Done()

	log.Info("shutting down...")
	return nil
}
