package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/pipeline"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect and normalize once without persisting, then exit",
	Long: "One-shot dry run: queries every enabled source and prints how many " +
		"records each produced and survived normalization. Nothing is stored.",
	RunE: collect,
}

func init() {
	rootCmd.AddCommand(collectCmd)
}

func collect(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	registry := collectorsRegistry(cfg)

	records, err := registry.Collect(ctx)
	if err != nil {
		return err
	}

	normalizer := pipeline.NewNormalizer(pipeline.NormalizerConfig{
		MinSalary: cfg.Pipeline.MinSalary,
		MaxSalary: cfg.Pipeline.MaxSalary,
	})

	perSource := map[string]int{}
	normalized, dropped := 0, 0
	for _, record := range records {
		perSource[record.Source]++
		if _, _, err := normalizer.Normalize(record); err != nil {
			dropped++
			continue
		}
		normalized++
	}

	fmt.Printf("collected %d records from %d sources\n", len(records), len(perSource))
	for source, count := range perSource {
		fmt.Printf("  %-12s %d\n", source, count)
	}
	fmt.Printf("normalized: %d, dropped: %d\n", normalized, dropped)
	return nil
}
