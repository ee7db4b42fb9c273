package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
)

// CatalogReader provides the source data a planning run consumes.
type CatalogReader interface {
	// ListItems returns every item with its category and supplier loaded, ordered by ID.
	ListItems(ctx context.Context) ([]domain.Item, error)
	// ListTransactionsSince returns movements at or after since, optionally
	// restricted to the given types.
	ListTransactionsSince(ctx context.Context, since time.Time, types ...domain.TransactionType) ([]domain.Transaction, error)
}

// CatalogWriter persists generated source data.
type CatalogWriter interface {
	// ReplaceCatalog removes all catalog and derived rows and inserts the given catalog.
	ReplaceCatalog(ctx context.Context, catalog *domain.Catalog) error
}

// PlanningWriter persists the derived rows of a planning run.
type PlanningWriter interface {
	// ReplacePlan supersedes prior rows for plan.ItemIDs and replaces the scenario set.
	ReplacePlan(ctx context.Context, plan *domain.Plan) error
}

// PlanningReader reads back derived rows.
type PlanningReader interface {
	ListVolatilityProfiles(ctx context.Context) ([]domain.VolatilityProfile, error)
	ListOptimizationParameters(ctx context.Context) ([]domain.OptimizationParameters, error)
	ListForecasts(ctx context.Context, itemID int64) ([]domain.ForecastPoint, error)
	ListScenarios(ctx context.Context) ([]domain.Scenario, error)
	ListProjections(ctx context.Context, scenarioID int64) ([]domain.ScenarioProjection, error)
	ListRecommendations(ctx context.Context, statuses ...domain.StockStatus) ([]domain.StockRecommendation, error)
	ListReorderSuggestions(ctx context.Context, urgencies ...domain.Urgency) ([]domain.ReorderSuggestion, error)
}
