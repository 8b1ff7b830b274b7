package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/analytics"
	"github.com/jobcompass/jobcompass/internal/logger"
)

var analyzeCityCount int

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Aggregate stored jobs by city, salary, skills and remote type",
	RunE:  analyze,
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeCityCount, "cities", 10, "number of top cities to show")
	rootCmd.AddCommand(analyzeCmd)
}

func analyze(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	sqlDB, err := dbContext.DB.DB()
	if err != nil {
		return err
	}
	service := analytics.NewService(sqlDB)

	cities, err := service.TopCities(ctx, analyzeCityCount)
	if err != nil {
		return err
	}
	fmt.Println("top cities:")
	for _, city := range cities {
		fmt.Printf("  %-20s %d\n", city.City, city.Count)
	}

	salary, err := service.SalaryStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("\nsalary (over %d jobs with salary): avg mid $%.0f, range $%d - $%d\n",
		salary.JobsWithSalary, salary.AvgSalaryMid, salary.MinSalary, salary.MaxSalary)

	demand, err := service.SkillDemand(ctx, cfg.Pipeline.Skills)
	if err != nil {
		return err
	}
	fmt.Println("\nskill demand:")
	for _, skill := range demand {
		if skill.Count > 0 {
			fmt.Printf("  %-20s %d\n", skill.Skill, skill.Count)
		}
	}

	remote, err := service.RemoteBreakdown(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nremote breakdown:")
	for _, share := range remote {
		fmt.Printf("  %-10s %d\n", share.RemoteType, share.Count)
	}

	levels, err := service.ExperienceLevels(ctx)
	if err != nil {
		return err
	}
	fmt.Println("\nexperience levels:")
	for _, level := range levels {
		fmt.Printf("  %-10s %d\n", level.Level, level.Count)
	}

	return nil
}
