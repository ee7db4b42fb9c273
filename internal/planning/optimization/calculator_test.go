package optimization

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC) }

func newCalc() *Calculator {
	return NewCalculator(DefaultParams(), fixedClock)
}

func referenceInput() Input {
	return Input{
		ItemID:            1,
		UnitCost:          10,
		LeadTimeDays:      7,
		HasLeadTime:       true,
		DailyDemand:       5,
		DemandStdDev:      2,
		LowStockThreshold: 20,
	}
}

func TestCalculateReferenceItem(t *testing.T) {
	p, issues := newCalc().Calculate(referenceInput())

	require.Empty(t, issues)
	assert.Equal(t, 9, p.SafetyStock, "ceil(1.65 × 2 × √7) = ceil(8.73)")
	assert.Equal(t, 44, p.ReorderPoint, "ceil(5 × 7 + 9)")
	assert.Equal(t, 271, p.EconomicOrderQuantity, "ceil(√73000)")
	assert.Equal(t, 44+271, p.MaxStockLevel)
	assert.Equal(t, 20, p.MinStockLevel, "threshold exceeds safety stock")
	assert.Equal(t, 55, p.OrderCycleDays, "ceil(271 / 5)")
	assert.Equal(t, 0.95, p.TargetServiceLevel)
	assert.Equal(t, 50.0, p.OrderCost)
	assert.Equal(t, 0.25, p.HoldingCostRate)
	assert.Equal(t, 1.5, p.StockoutCostFactor)
}

func TestCalculateMinLevelUsesSafetyStockWhenLarger(t *testing.T) {
	in := referenceInput()
	in.LowStockThreshold = 3

	p, _ := newCalc().Calculate(in)

	assert.Equal(t, p.SafetyStock, p.MinStockLevel)
}

func TestCalculateFloorsDailyDemand(t *testing.T) {
	in := referenceInput()
	in.DailyDemand = 0
	in.DemandStdDev = 0

	p, issues := newCalc().Calculate(in)

	assert.Empty(t, issues)
	assert.Equal(t, 0.1, p.DailyDemand)
	assert.InDelta(t, 0.05, p.DemandStdDev, 1e-12, "defaults to half the daily demand")
	assert.Equal(t, 1, p.SafetyStock, "ceil(1.65 × 0.05 × √7) = ceil(0.218)")
	assert.Equal(t, 2, p.ReorderPoint, "ceil(0.7 + 1)")
	assert.Equal(t, 39, p.EconomicOrderQuantity, "ceil(√(2 × 50 × 36.5 / 2.5)) = ceil(38.2)")
	assert.InDelta(t, 390, p.OrderCycleDays, 1)
}

func TestCalculateGuardsNonPositiveUnitCost(t *testing.T) {
	for _, cost := range []float64{0, -4} {
		in := referenceInput()
		in.UnitCost = cost

		p, issues := newCalc().Calculate(in)

		require.Len(t, issues, 1)
		assert.Equal(t, "unit_cost", issues[0].Field)
		assert.Equal(t, int64(1), issues[0].ItemID)
		assert.Greater(t, p.EconomicOrderQuantity, 0)
		assert.Equal(t, p.ReorderPoint+p.EconomicOrderQuantity, p.MaxStockLevel)
	}
}

func TestCalculateDefaultsMissingLeadTime(t *testing.T) {
	in := referenceInput()
	in.HasLeadTime = false
	in.LeadTimeDays = 0

	p, issues := newCalc().Calculate(in)

	require.Len(t, issues, 1)
	assert.Equal(t, "lead_time_days", issues[0].Field)
	assert.Equal(t, 7, p.LeadTimeDays)
	assert.Equal(t, 9, p.SafetyStock)
}

func TestCalculateIsIdempotent(t *testing.T) {
	calc := newCalc()
	first, _ := calc.Calculate(referenceInput())
	second, _ := calc.Calculate(referenceInput())

	assert.Equal(t, first, second)
}

func TestCalculateOutputsNonNegative(t *testing.T) {
	calc := newCalc()
	for _, demand := range []float64{0.01, 0.3, 1, 12.5, 400} {
		for _, lead := range []int{1, 3, 14, 60} {
			for _, cost := range []float64{0.5, 10, 250} {
				p, _ := calc.Calculate(Input{
					UnitCost: cost, LeadTimeDays: lead, HasLeadTime: true,
					DailyDemand: demand, DemandStdDev: demand / 3, LowStockThreshold: 10,
				})
				assert.GreaterOrEqual(t, p.SafetyStock, 0)
				assert.GreaterOrEqual(t, p.ReorderPoint, 0)
				assert.GreaterOrEqual(t, p.EconomicOrderQuantity, 0)
				assert.GreaterOrEqual(t, p.MinStockLevel, 0)
				assert.GreaterOrEqual(t, p.OrderCycleDays, 0)
				assert.Equal(t, p.ReorderPoint+p.EconomicOrderQuantity, p.MaxStockLevel)
			}
		}
	}
}

func TestInputFor(t *testing.T) {
	item := domain.Item{
		ID:                4,
		UnitCost:          decimal.RequireFromString("12.50"),
		LowStockThreshold: 15,
		Supplier:          &domain.Supplier{LeadTimeDays: 9},
	}
	stats := domain.DemandStats{
		Series:            domain.DemandSeries{Values: make([]float64, 90)},
		SalesVolume:       180,
		TransactionStdDev: 1.5,
	}

	in := InputFor(item, stats)

	assert.Equal(t, int64(4), in.ItemID)
	assert.Equal(t, 12.5, in.UnitCost)
	assert.Equal(t, 9, in.LeadTimeDays)
	assert.True(t, in.HasLeadTime)
	assert.Equal(t, 2.0, in.DailyDemand)
	assert.Equal(t, 1.5, in.DemandStdDev)
	assert.Equal(t, 15, in.LowStockThreshold)
}

func TestParamsFromConfig(t *testing.T) {
	cfg := config.DefaultPlanning()
	cfg.OrderCost = 80
	cfg.DefaultLeadTimeDays = 10

	p := ParamsFromConfig(cfg)

	assert.Equal(t, 80.0, p.OrderCost)
	assert.Equal(t, 10, p.DefaultLeadTimeDays)
	assert.Equal(t, 0.1, p.MinDailyDemand)
}

func TestRecommend(t *testing.T) {
	params := domain.OptimizationParameters{ReorderPoint: 44, EconomicOrderQuantity: 271, MaxStockLevel: 315}

	cases := []struct {
		stock     int
		status    domain.StockStatus
		order     int
		reduction int
	}{
		{0, domain.StockReorderNow, 271, 0},
		{44, domain.StockReorderNow, 271, 0},
		{52, domain.StockReorderSoon, 0, 0},
		{53, domain.StockOptimal, 0, 0},
		{315, domain.StockOptimal, 0, 0},
		{400, domain.StockOverstocked, 0, 85},
	}
	for _, tc := range cases {
		rec := Recommend(domain.Item{ID: 1, InStock: tc.stock}, params)
		assert.Equal(t, tc.status, rec.Status, "stock %d", tc.stock)
		assert.Equal(t, tc.order, rec.SuggestedOrderQuantity, "stock %d", tc.stock)
		assert.Equal(t, tc.reduction, rec.SuggestedReduction, "stock %d", tc.stock)
	}
}
