package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	conn, err := sqlx.Open("sqlite", filepath.Join(t.TempDir(), "planning.db"))
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	db := Wrap(conn)
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func sampleCatalog(now time.Time) *domain.Catalog {
	supplierID := int64(1)
	return &domain.Catalog{
		Categories: []domain.Category{
			{ID: 1, Name: "Audio", Description: "Speakers", SeasonalityFactor: 1.2},
		},
		Suppliers: []domain.Supplier{
			{ID: 1, Name: "Local Supply Co", LeadTimeDays: 3, ReliabilityScore: 0.98},
		},
		Items: []domain.Item{
			{
				ID: 1, SKU: "AUD0000001", Name: "Speaker", CategoryID: 1, SupplierID: &supplierID,
				UnitCost: decimal.RequireFromString("25.50"), UnitPrice: decimal.RequireFromString("39.99"),
				InStock: 40, Reserved: 2, LowStockThreshold: 15, PopularityScore: 1.1,
			},
			{
				ID: 2, SKU: "AUD0000002", Name: "Headphones", CategoryID: 1,
				UnitCost: decimal.RequireFromString("10.00"), UnitPrice: decimal.RequireFromString("15.00"),
				InStock: 5, LowStockThreshold: 10, PopularityScore: 0.7,
			},
		},
		Transactions: []domain.Transaction{
			{ID: 1, ItemID: 1, Type: domain.TransactionSale, Quantity: -3, OccurredAt: now.AddDate(0, 0, -100), ReferenceID: "ORD-OLD00001"},
			{ID: 2, ItemID: 1, Type: domain.TransactionSale, Quantity: -4, OccurredAt: now.AddDate(0, 0, -10), ReferenceID: "ORD-AAAA0001"},
			{ID: 3, ItemID: 1, Type: domain.TransactionReturn, Quantity: 1, OccurredAt: now.AddDate(0, 0, -5)},
			{ID: 4, ItemID: 2, Type: domain.TransactionSale, Quantity: -2, OccurredAt: now.AddDate(0, 0, -2), Notes: "Regular sale"},
		},
	}
}

func TestCatalogRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewCatalogRepository(db)
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.ReplaceCatalog(ctx, sampleCatalog(now)))

	items, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)

	speaker := items[0]
	assert.Equal(t, "AUD0000001", speaker.SKU)
	assert.True(t, decimal.RequireFromString("25.50").Equal(speaker.UnitCost))
	require.NotNil(t, speaker.Category)
	assert.Equal(t, 1.2, speaker.SeasonalityFactor())
	lt, ok := speaker.LeadTimeDays()
	assert.True(t, ok)
	assert.Equal(t, 3, lt)
	assert.Equal(t, 38, speaker.Available())

	headphones := items[1]
	assert.Nil(t, headphones.SupplierID)
	_, ok = headphones.LeadTimeDays()
	assert.False(t, ok)

	t.Run("window filter", func(t *testing.T) {
		txns, err := repo.ListTransactionsSince(ctx, now.AddDate(0, 0, -89))
		require.NoError(t, err)
		require.Len(t, txns, 3)
		assert.Equal(t, int64(2), txns[0].ID)
		assert.Equal(t, "ORD-AAAA0001", txns[0].ReferenceID)
		assert.Equal(t, "", txns[1].ReferenceID)
		assert.Equal(t, "Regular sale", txns[2].Notes)
	})

	t.Run("type filter", func(t *testing.T) {
		txns, err := repo.ListTransactionsSince(ctx, now.AddDate(0, 0, -89), domain.TransactionSale)
		require.NoError(t, err)
		require.Len(t, txns, 2)
		for _, txn := range txns {
			assert.Equal(t, domain.TransactionSale, txn.Type)
		}
	})

	t.Run("replace is not additive", func(t *testing.T) {
		require.NoError(t, repo.ReplaceCatalog(ctx, sampleCatalog(now)))
		items, err := repo.ListItems(ctx)
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}

func samplePlan(now time.Time) *domain.Plan {
	ratio := 2.5
	return &domain.Plan{
		GeneratedAt: now,
		ItemIDs:     []int64{1, 2},
		Profiles: []domain.VolatilityProfile{
			{ItemID: 1, CategoryID: 1, CoefficientOfVariation: 0.8, Intermittency: 0.4, Pattern: domain.PatternErratic, Method: domain.MethodExponentialSmoothing, MeasuredAt: now},
		},
		Parameters: []domain.OptimizationParameters{
			{ItemID: 1, TargetServiceLevel: 0.95, SafetyStock: 9, ReorderPoint: 44, EconomicOrderQuantity: 271, MinStockLevel: 15, MaxStockLevel: 315, OrderCycleDays: 55, LeadTimeDays: 7, DailyDemand: 5, DemandStdDev: 2, OrderCost: 50, HoldingCostRate: 0.25, StockoutCostFactor: 2, UpdatedAt: now},
		},
		Forecasts: []domain.ForecastPoint{
			{ItemID: 1, Date: now.AddDate(0, 0, 2), DaysAhead: 2, Quantity: 4.1, ConfidenceLevel: 0.9, Method: "time_series"},
			{ItemID: 1, Date: now.AddDate(0, 0, 1), DaysAhead: 1, Quantity: 3.9, ConfidenceLevel: 0.9, Method: "time_series"},
		},
		Scenarios: []domain.Scenario{
			{ID: 1, Name: "Current State Baseline", Type: domain.ScenarioBaseline, ServiceLevel: 0.95, SafetyStockMultiplier: 1, LeadTimeMultiplier: 1, DemandMultiplier: 1, CostMultiplier: 1, IsBaseline: true},
			{ID: 2, Name: "High Service Level", Type: domain.ScenarioServiceLevel, ServiceLevel: 0.99, SafetyStockMultiplier: 1.5, LeadTimeMultiplier: 1, DemandMultiplier: 1, CostMultiplier: 1.1},
		},
		Projections: []domain.ScenarioProjection{
			{ScenarioID: 1, ItemID: 1, CategoryID: 1, AdjustedSafetyStock: 9, AdjustedReorderPoint: 44, AdjustedOrderQuantity: 271, ProjectedStockouts: 36, ProjectedInventoryValue: decimal.RequireFromString("1020.00"), ProjectedServiceLevel: 0.95, ProjectedInventoryTurns: 1.5},
			{ScenarioID: 2, ItemID: 1, CategoryID: 1, AdjustedSafetyStock: 14, AdjustedReorderPoint: 66, AdjustedOrderQuantity: 271, ProjectedStockouts: 1, ProjectedInventoryValue: decimal.RequireFromString("1122.00"), ProjectedServiceLevel: 0.99, ProjectedInventoryTurns: 1},
		},
		Performance: []domain.PerformanceMetrics{
			{ItemID: 1, CategoryID: 1, MeasuredAt: now, DaysOfSupply: 8, InventoryToSalesRatio: &ratio, FillRatePercentage: 100, CarryingCost: decimal.RequireFromString("63.75"), ServiceLevelPercentage: 100},
			{ItemID: 2, CategoryID: 1, MeasuredAt: now, DaysOfSupply: 50, StockoutDays: 3, FillRatePercentage: 96.7, CarryingCost: decimal.RequireFromString("3.13"), ObsolescenceRisk: 0.9, ServiceLevelPercentage: 96.7},
		},
		Recommendations: []domain.StockRecommendation{
			{ItemID: 1, Status: domain.StockReorderNow, InStock: 40, SuggestedOrderQuantity: 271},
			{ItemID: 2, Status: domain.StockOptimal, InStock: 5},
		},
		Suggestions: []domain.ReorderSuggestion{
			{ItemID: 1, SuggestedDate: now, SuggestedQuantity: 43, Urgency: domain.UrgencyWarning, DaysUntilStockout: 4, ExpectedLeadTime: 7, SuggestedOrderDate: now, SupplierID: 1, Status: domain.SuggestionPending},
			{ItemID: 2, SuggestedDate: now, SuggestedQuantity: 58, Urgency: domain.UrgencyCritical, DaysUntilStockout: 1, ExpectedLeadTime: 7, SuggestedOrderDate: now.AddDate(0, 0, 2), SupplierID: 1, Status: domain.SuggestionPending},
		},
	}
}

func TestPlanningRepository_ReplacePlan(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, NewCatalogRepository(db).ReplaceCatalog(ctx, sampleCatalog(now)))

	repo := NewPlanningRepository(db)
	require.NoError(t, repo.ReplacePlan(ctx, samplePlan(now)))
	// A second run must supersede, not duplicate
	require.NoError(t, repo.ReplacePlan(ctx, samplePlan(now)))

	profiles, err := repo.ListVolatilityProfiles(ctx)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, domain.PatternErratic, profiles[0].Pattern)

	params, err := repo.ListOptimizationParameters(ctx)
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, 44, params[0].ReorderPoint)

	forecasts, err := repo.ListForecasts(ctx, 1)
	require.NoError(t, err)
	require.Len(t, forecasts, 2)
	assert.Equal(t, 1, forecasts[0].DaysAhead)

	scenarios, err := repo.ListScenarios(ctx)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.True(t, scenarios[0].IsBaseline)
	assert.False(t, scenarios[1].IsBaseline)

	projections, err := repo.ListProjections(ctx, 2)
	require.NoError(t, err)
	require.Len(t, projections, 1)
	assert.True(t, decimal.RequireFromString("1122").Equal(projections[0].ProjectedInventoryValue))

	recs, err := repo.ListRecommendations(ctx, domain.StockReorderNow)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 271, recs[0].SuggestedOrderQuantity)

	all, err := repo.ListRecommendations(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	suggestions, err := repo.ListReorderSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 2)
	assert.Equal(t, int64(2), suggestions[0].ItemID, "critical first")
	assert.Equal(t, domain.UrgencyCritical, suggestions[0].Urgency)
	assert.Equal(t, 58, suggestions[0].SuggestedQuantity)
	assert.True(t, now.AddDate(0, 0, 2).Equal(suggestions[0].SuggestedOrderDate))
	assert.Equal(t, domain.SuggestionPending, suggestions[1].Status)

	warnings, err := repo.ListReorderSuggestions(ctx, domain.UrgencyWarning)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, int64(1), warnings[0].ItemID)
}

func TestPlanningRepository_SkippedItemsLoseStaleRows(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	repo := NewPlanningRepository(db)

	require.NoError(t, repo.ReplacePlan(ctx, samplePlan(now)))

	// Item 2 is still listed but produced nothing this time
	next := samplePlan(now)
	next.Performance = next.Performance[:1]
	next.Recommendations = next.Recommendations[:1]
	next.Suggestions = next.Suggestions[:1]
	require.NoError(t, repo.ReplacePlan(ctx, next))

	recs, err := repo.ListRecommendations(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, int64(1), recs[0].ItemID)

	suggestions, err := repo.ListReorderSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Equal(t, int64(1), suggestions[0].ItemID)
}
