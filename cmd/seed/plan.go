package main

import (
	"fmt"

	"github.com/andresuchdata/stockplan/backend-go/internal/cache"
	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/pipeline"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/optimization"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockplan/backend-go/internal/storage"
	"github.com/andresuchdata/stockplan/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func planFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "scenarios",
			Usage:   "YAML file with alternate scenarios (defaults to the built-in set)",
			EnvVars: []string{"PLANNING_SCENARIOS_FILE"},
		},
		&cli.IntFlag{
			Name:    "workers",
			Usage:   "Concurrent per-item workers",
			EnvVars: []string{"PLANNING_WORKERS"},
		},
		&cli.BoolFlag{
			Name:    "honor-lead-time",
			Usage:   "Recompute scenario parameters under the scenario lead-time multiplier",
			EnvVars: []string{"PLANNING_HONOR_LEAD_TIME"},
		},
	}
}

func runPlan(c *cli.Context) error {
	cfg := config.Load()
	log := logger.Component("planning")

	planning := cfg.Planning
	if c.IsSet("scenarios") {
		planning.ScenariosFile = c.String("scenarios")
	}
	if c.IsSet("workers") {
		planning.Workers = c.Int("workers")
	}
	if c.IsSet("honor-lead-time") {
		planning.HonorLeadTime = c.Bool("honor-lead-time")
	}
	if err := planning.Validate(); err != nil {
		return fmt.Errorf("invalid planning configuration: %w", err)
	}

	planningCache, err := cache.NewPlanningCache(cfg.Cache)
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, continuing without it")
		planningCache = cache.NewNoopPlanningCache()
	}

	var objects storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to configure report storage: %w", err)
		}
		objects = client
	}

	db := dbFrom(c)
	orchestrator := pipeline.NewOrchestrator(
		pipeline.ConfigFromPlanning(planning, cfg.Storage),
		optimization.ParamsFromConfig(planning),
		pipeline.Dependencies{
			Catalog: postgres.NewCatalogRepository(db),
			Writer:  postgres.NewPlanningRepository(db),
			Runs:    pipeline.NewRepository(db.DB),
			Cache:   planningCache,
			Storage: objects,
			Log:     log,
		},
	)

	summary, err := orchestrator.Run(c.Context)
	if err != nil {
		return fmt.Errorf("planning run failed: %w", err)
	}

	for status, n := range summary.StatusCounts {
		log.Info().Str("status", status).Int("items", n).Msg("stock status")
	}
	for _, rejected := range summary.RejectedScenarios {
		log.Warn().Str("problem", rejected).Msg("scenario rejected")
	}
	return nil
}
