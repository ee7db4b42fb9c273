package main

import (
	"fmt"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/generator"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockplan/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

func generateFlags() []cli.Flag {
	def := config.DefaultGenerator()
	return []cli.Flag{
		&cli.Uint64Flag{
			Name:    "seed",
			Usage:   "Random seed for the generated catalog",
			Value:   def.Seed,
			EnvVars: []string{"GENERATOR_SEED"},
		},
		&cli.IntFlag{
			Name:  "suppliers",
			Usage: "Number of suppliers to generate",
			Value: def.Suppliers,
		},
		&cli.IntFlag{
			Name:  "items",
			Usage: "Number of inventory items to generate",
			Value: def.Items,
		},
		&cli.IntFlag{
			Name:  "transactions",
			Usage: "Number of stock movements over the last 90 days",
			Value: def.Transactions,
		},
	}
}

func runGenerate(c *cli.Context) error {
	log := logger.Component("generator")

	cfg := config.GeneratorConfig{
		Seed:         c.Uint64("seed"),
		Suppliers:    c.Int("suppliers"),
		Items:        c.Int("items"),
		Transactions: c.Int("transactions"),
	}

	start := time.Now()
	catalog := generator.New(cfg, time.Now).Generate()

	if err := postgres.NewCatalogRepository(dbFrom(c)).ReplaceCatalog(c.Context, catalog); err != nil {
		return fmt.Errorf("failed to store generated catalog: %w", err)
	}

	log.Info().
		Uint64("seed", cfg.Seed).
		Int("categories", len(catalog.Categories)).
		Int("suppliers", len(catalog.Suppliers)).
		Int("items", len(catalog.Items)).
		Int("transactions", len(catalog.Transactions)).
		Dur("duration", time.Since(start)).
		Msg("catalog generated")
	return nil
}
