package main

import (
	"context"
	"fmt"
	"os"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockplan/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type contextKey string

const dbKey contextKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string (overrides DB_HOST and friends)",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	cfg := config.Load()
	if url := c.String("db-url"); url != "" {
		cfg.Database.URL = url
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		return err
	}

	if err := db.PingContext(c.Context); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Store the database connection in the context
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *postgres.DB {
	db, _ := c.Context.Value(dbKey).(*postgres.DB)
	return db
}

func configureLogging(c *cli.Context) error {
	cfg := config.Load()
	if cfg.Log.Format == "json" {
		logger.UseJSON(os.Stdout)
	}
	logger.SetLevel(cfg.Log.Level)
	return nil
}

func main() {
	app := &cli.App{
		Name:   "seed",
		Usage:  "Generate demo inventory data and compute planning tables",
		Before: configureLogging,
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Create any missing tables",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:   "generate",
				Usage:  "Replace the catalog with generated demo data",
				Flags:  append([]cli.Flag{newDBURLFlag()}, generateFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: runGenerate,
			},
			{
				Name:   "plan",
				Usage:  "Compute volatility, optimization, forecasts and scenarios",
				Flags:  append([]cli.Flag{newDBURLFlag()}, planFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: runPlan,
			},
			{
				Name:   "report",
				Usage:  "Print stock recommendations and scenario totals",
				Flags:  append([]cli.Flag{newDBURLFlag()}, reportFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: runReport,
			},
			{
				Name:   "all",
				Usage:  "Migrate, generate demo data and run planning",
				Flags:  append(append([]cli.Flag{newDBURLFlag()}, generateFlags()...), planFlags()...),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					if err := runMigrate(c); err != nil {
						return fmt.Errorf("error running migrations: %w", err)
					}
					if err := runGenerate(c); err != nil {
						return fmt.Errorf("error generating data: %w", err)
					}
					if err := runPlan(c); err != nil {
						return fmt.Errorf("error running planning: %w", err)
					}
					return nil
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("seed failed")
	}
}

func runMigrate(c *cli.Context) error {
	if err := dbFrom(c).Migrate(c.Context); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	logger.Log.Info().Msg("schema is up to date")
	return nil
}
