package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/cache"
	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/pipeline"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stockplan/backend-go/internal/storage"
	"github.com/andresuchdata/stockplan/backend-go/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "status",
			Usage: "Only list items with these statuses (REORDER_NOW, REORDER_SOON, OVERSTOCKED, OPTIMAL)",
			Value: cli.NewStringSlice(string(domain.StockReorderNow), string(domain.StockReorderSoon)),
		},
	}
}

func runReport(c *cli.Context) error {
	ctx := c.Context
	repo := postgres.NewPlanningRepository(dbFrom(c))

	printLastRun(c)

	var statuses []domain.StockStatus
	for _, s := range c.StringSlice("status") {
		statuses = append(statuses, domain.StockStatus(strings.ToUpper(strings.TrimSpace(s))))
	}

	recs, err := repo.ListRecommendations(ctx, statuses...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tSTATUS\tIN STOCK\tORDER\tREDUCE")
	for _, r := range recs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\n", r.ItemID, r.Status.Label(), r.InStock, r.SuggestedOrderQuantity, r.SuggestedReduction)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	suggestions, err := repo.ListReorderSuggestions(ctx, domain.UrgencyCritical, domain.UrgencyWarning)
	if err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tURGENCY\tQUANTITY\tDAYS LEFT\tORDER BY\tSUPPLIER")
	for _, s := range suggestions {
		fmt.Fprintf(w, "%d\t%s\t%d\t%.2f\t%s\t%d\n", s.ItemID, s.Urgency, s.SuggestedQuantity,
			s.DaysUntilStockout, s.SuggestedOrderDate.Format(time.DateOnly), s.SupplierID)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	scenarios, err := repo.ListScenarios(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSERVICE\tSTOCKOUTS\tINVENTORY VALUE")
	for _, s := range scenarios {
		rows, err := repo.ListProjections(ctx, s.ID)
		if err != nil {
			return err
		}

		stockouts := 0
		value := decimal.Zero
		for _, row := range rows {
			stockouts += row.ProjectedStockouts
			value = value.Add(row.ProjectedInventoryValue)
		}
		fmt.Fprintf(w, "%s\t%.0f%%\t%d\t%s\n", s.Name, s.ServiceLevel*100, stockouts, value.StringFixed(2))
	}
	return w.Flush()
}

// printLastRun shows the cached run snapshot, falling back to the newest
// report in object storage.
func printLastRun(c *cli.Context) {
	ctx := c.Context
	cfg := config.Load()

	if planningCache, err := cache.NewPlanningCache(cfg.Cache); err == nil {
		if snap, ok, err := planningCache.GetLastRun(ctx); err == nil && ok {
			fmt.Printf("Last run %s: %s, %d/%d items, %d scenarios\n\n",
				snap.RunID, snap.Status, snap.ItemsProcessed, snap.ItemsTotal, snap.ScenarioCount)
			return
		}
	} else {
		logger.Log.Debug().Err(err).Msg("cache unavailable for report")
	}

	if !cfg.Storage.Enabled {
		return
	}
	objects, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("report storage unavailable")
		return
	}
	summary, err := pipeline.LatestReport(ctx, objects, cfg.Storage.Prefix)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("failed to fetch latest run report")
		return
	}
	if summary == nil {
		return
	}
	run := summary.Run
	fmt.Printf("Last run %s: %s, %d/%d items, %d scenarios, %d rejected\n\n",
		run.ID, run.Status, run.ItemsProcessed, run.ItemsTotal, run.ScenarioCount, len(summary.RejectedScenarios))
}
