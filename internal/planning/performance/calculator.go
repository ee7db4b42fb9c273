package performance

import (
	"math"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
	"github.com/shopspring/decimal"
)

const (
	minDailySales      = 0.1
	annualCarryingRate = 0.25
	quartersPerYear    = 4
	healthyTurnover    = 5.0
)

// Calculator derives stock performance indicators over the lookback window.
type Calculator struct {
	windowDays int
	now        func() time.Time
}

// NewCalculator creates a calculator for a window of the given length.
func NewCalculator(windowDays int, now func() time.Time) *Calculator {
	if windowDays <= 0 {
		windowDays = 90
	}
	if now == nil {
		now = time.Now
	}
	return &Calculator{windowDays: windowDays, now: now}
}

// Calculate returns the performance metrics for one item.
func (c *Calculator) Calculate(item domain.Item, stats domain.DemandStats) domain.PerformanceMetrics {
	window := float64(c.windowDays)
	volume := stats.SalesVolume
	stock := float64(item.InStock)
	cost := item.UnitCost.InexactFloat64()
	price := item.UnitPrice.InexactFloat64()

	stockoutDays := stats.StockoutDays
	if stockoutDays > c.windowDays {
		stockoutDays = c.windowDays
	}

	m := domain.PerformanceMetrics{
		ItemID:       item.ID,
		CategoryID:   item.CategoryID,
		MeasuredAt:   c.now().UTC(),
		StockoutDays: stockoutDays,
	}

	// 1. Days of supply at the average daily sales rate
	avgDaily := volume / window
	if avgDaily <= 0 {
		avgDaily = minDailySales
	}
	m.DaysOfSupply = planning.RoundFloat(stock/avgDaily, 1)

	// 2. Inventory value over sales value; undefined without sales
	if salesValue := volume * price; salesValue > 0 {
		ratio := planning.RoundFloat(stock*cost/salesValue, 2)
		m.InventoryToSalesRatio = &ratio
	}

	// 3. Fill rate and service level from stockout days
	outShare := float64(stockoutDays) / window
	m.FillRatePercentage = planning.RoundFloat((1-outShare)*100, 1)
	m.ServiceLevelPercentage = planning.RoundFloat(planning.Clamp(100-outShare*100, 0, 100), 1)

	// 4. Quarterly carrying cost
	m.CarryingCost = decimal.NewFromInt(int64(item.InStock)).
		Mul(item.UnitCost).
		Mul(decimal.NewFromFloat(annualCarryingRate / quartersPerYear)).
		Round(2)

	// 5. Obsolescence risk falls as turnover approaches a healthy rate
	turnover := volume / math.Max(stock, 1)
	m.ObsolescenceRisk = planning.RoundFloat(planning.Clamp(1-turnover/healthyTurnover, 0, 1), 2)

	return m
}

// ServiceLevelFraction converts the stored percentage to a fraction.
func ServiceLevelFraction(m domain.PerformanceMetrics) float64 {
	return m.ServiceLevelPercentage / 100
}
