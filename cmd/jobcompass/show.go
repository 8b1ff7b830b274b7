package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/repositories"
)

var showCmd = &cobra.Command{
	Use:   "show <job_id>",
	Short: "Show one stored job with its extracted features",
	Args:  cobra.ExactArgs(1),
	RunE:  show,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func show(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	jobs := repositories.NewJobsRepository(dbContext.DB)

	record, err := repositories.NewCachedJobs(jobs).GetByJobID(ctx, args[0])
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fmt.Printf("no job with id %s\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s at %s\n", record.Title, record.Company)
	fmt.Printf("  source:   %s\n", record.Source)
	fmt.Printf("  location: %s, %s (%s)\n", record.City, record.Province, record.RemoteType)
	if record.SalaryMin != nil && record.SalaryMax != nil {
		fmt.Printf("  salary:   $%d - $%d\n", *record.SalaryMin, *record.SalaryMax)
	}
	if record.PostedDate != nil {
		fmt.Printf("  posted:   %s\n", record.PostedDate.Format(time.DateOnly))
	}
	fmt.Printf("  url:      %s\n", record.URL)

	features, err := jobs.GetFeatures(ctx, record.JobID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("  level:    %s\n", features.ExpLevel)
	if features.ExpMin != nil && features.ExpMax != nil {
		fmt.Printf("  exp:      %d-%d years\n", *features.ExpMin, *features.ExpMax)
	}
	if skills := features.SkillsAsArray(); len(skills) > 0 {
		fmt.Printf("  skills:   %s\n", strings.Join(skills, ", "))
	}
	return nil
}
