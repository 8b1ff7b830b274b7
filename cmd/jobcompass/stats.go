package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/repositories"
)

var statsRunCount int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stored job counts and recent pipeline runs",
	RunE:  showStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsRunCount, "runs", 10, "number of recent runs to show")
	rootCmd.AddCommand(statsCmd)
}

func showStats(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	jobs := repositories.NewJobsRepository(dbContext.DB)
	total, err := jobs.Count(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("stored jobs: %d\n\n", total)

	runs, err := repositories.NewRunsRepository(dbContext.DB).GetRecent(ctx, statsRunCount)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no pipeline runs recorded yet")
		return nil
	}

	fmt.Println("recent runs:")
	for _, run := range runs {
		fmt.Printf("  %s  %-7s collected=%-5d valid=%-5d dup=%-4d featured=%-5d quality=%.1f duration=%v\n",
			run.StartedAt.Format(time.DateTime), run.Stage, run.Collected, run.Valid,
			run.Duplicates, run.Featured, run.AvgQualityScore,
			time.Duration(run.DurationMs)*time.Millisecond)
	}
	return nil
}
