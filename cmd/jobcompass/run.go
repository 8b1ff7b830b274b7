package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the pipeline once and exit",
	Long: "Collects from every enabled source, then normalizes, validates, " +
		"deduplicates and extracts features before persisting the batch.",
	RunE: runOnce,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runOnce(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	orchestrator, err := buildOrchestrator(cfg, dbContext, EventBus.New())
	if err != nil {
		return err
	}

	summary, err := orchestrator.Run(ctx)
	if err != nil {
		return err
	}

	log.Infof("run summary: stage=%s collected=%d valid=%d duplicates=%d featured=%d avg_quality=%.1f",
		summary.Stage, summary.Collected, summary.Valid, summary.Duplicates,
		summary.Featured, summary.AvgQualityScore)
	return nil
}
