package main

import (
	"context"
	"time"

	"github.com/asaskevich/EventBus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jobcompass/jobcompass/internal/collectors"
	"github.com/jobcompass/jobcompass/internal/clients/adzuna"
	"github.com/jobcompass/jobcompass/internal/clients/gemini"
	"github.com/jobcompass/jobcompass/internal/clients/indeedrss"
	"github.com/jobcompass/jobcompass/internal/clients/jobbank"
	"github.com/jobcompass/jobcompass/internal/config"
	"github.com/jobcompass/jobcompass/internal/logger"
	"github.com/jobcompass/jobcompass/internal/pipeline"
	"github.com/jobcompass/jobcompass/internal/repositories"
)

var rootCmd = &cobra.Command{
	Use:   "jobcompass",
	Short: "Canadian job market aggregation pipeline",
	Long: "JobCompass collects postings from Canadian job boards, cleans and " +
		"deduplicates them and extracts features for market analysis.",
}

// setup wires the pieces every command needs: config, logging and the
// migrated database.
func setup(ctx context.Context) (*config.Config, *repositories.DbContext, error) {

	cfg := config.Get()
	logger.Setup(ctx, cfg.Logger)

	dbContext, err := repositories.NewDbContext(cfg.DB.ConnectionString)
	if err != nil {
		return nil, nil, err
	}

	if err = dbContext.Migrate(); err != nil {
		dbContext.Close()
		return nil, nil, err
	}

	return cfg, dbContext, nil
}

func buildSources(cfg *config.Config) []collectors.Source {

	var sources []collectors.Source
	for _, name := range cfg.Sources.Order {

		var source collectors.Source
		switch name {
		case "jobbank":
			if !cfg.Sources.JobBank.Enabled {
				continue
			}
			client := jobbank.NewClient(cfg.Sources.JobBank.MaxPages)
			if cfg.Sources.JobBank.MaxRequestsPerSecond > 0 {
				client.SetRateLimit(cfg.Sources.JobBank.MaxRequestsPerSecond)
			}
			source = client
		case "adzuna":
			if !cfg.Sources.Adzuna.Enabled {
				continue
			}
			source = adzuna.NewClient(cfg.Sources.Adzuna.AppID, cfg.Sources.Adzuna.AppKey, 0)
		case "indeed_rss":
			if !cfg.Sources.IndeedRSS.Enabled {
				continue
			}
			source = indeedrss.NewClient()
		}

		if source != nil {
			sources = append(sources, collectors.NewRetrySource(source, 2, 5*time.Second))
			log.Infof("registered source %s", source.Name())
		}
	}
	return sources
}

func collectorsRegistry(cfg *config.Config) *collectors.Registry {
	return collectors.NewRegistry(buildSources(cfg), cfg.Sources.Roles, cfg.Sources.Cities)
}

func buildOrchestrator(cfg *config.Config, dbContext *repositories.DbContext,
	bus EventBus.Bus) (*pipeline.Orchestrator, error) {

	registry := collectorsRegistry(cfg)

	extractor, err := pipeline.NewFeatureExtractor(pipeline.ExtractorConfig{
		Skills:             cfg.Pipeline.Skills,
		MaxExperienceYears: cfg.Pipeline.MaxExperienceYears,
	})
	if err != nil {
		return nil, err
	}

	jobs := repositories.NewJobsRepository(dbContext.DB)
	runs := repositories.NewRunsRepository(dbContext.DB)

	return pipeline.NewOrchestrator(
		registry,
		jobs,
		runs,
		bus,
		pipeline.NewNormalizer(pipeline.NormalizerConfig{
			MinSalary: cfg.Pipeline.MinSalary,
			MaxSalary: cfg.Pipeline.MaxSalary,
		}),
		pipeline.NewValidator(pipeline.ValidatorConfig{
			RecencyWindowDays: cfg.Pipeline.RecencyWindowDays,
			MinSalary:         cfg.Pipeline.MinSalary,
			MaxSalary:         cfg.Pipeline.MaxSalary,
		}),
		pipeline.NewDeduplicator(),
		extractor,
	), nil
}

func buildAssistantClient(ctx context.Context, cfg config.AssistantConfig) (*gemini.Client, error) {

	model := gemini.Model20Flash
	if cfg.AiModel != "" {
		model = gemini.Model(cfg.AiModel)
	}

	aiClient, err := gemini.NewClient(ctx, cfg.AIKey, model)
	if err != nil {
		return nil, err
	}
	if cfg.AiMaxRequestsPerMinute > 0 {
		aiClient.SetMinuteRateLimit(cfg.AiMaxRequestsPerMinute)
	}
	if cfg.AiMaxRequestsPerDay > 0 {
		aiClient.SetDayRateLimit(cfg.AiMaxRequestsPerDay)
	}
	return aiClient, nil
}
