package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/services"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a natural language question about stored jobs",
	Long: "Translates the question into a read only SQL query with Gemini " +
		"and prints the matching jobs.",
	Args: cobra.MinimumNArgs(1),
	RunE: ask,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func ask(cmd *cobra.Command, args []string) error {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, dbContext, err := setup(ctx)
	if err != nil {
		return err
	}
	defer dbContext.Close()
	defer logger.Cleanup()

	if !cfg.Assistant.Enabled() {
		return errors.New("assistant is not configured, set AI_KEY")
	}

	aiClient, err := buildAssistantClient(ctx, cfg.Assistant)
	if err != nil {
		return err
	}
	defer aiClient.Close()

	sqlDB, err := dbContext.DB.DB()
	if err != nil {
		return err
	}

	answer, err := services.NewAssistant(aiClient, sqlDB).Ask(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
