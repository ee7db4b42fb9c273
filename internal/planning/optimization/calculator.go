package optimization

import (
	"math"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
)

// Params are the cost and service assumptions shared by every item.
type Params struct {
	SafetyFactor        float64
	OrderCost           float64
	HoldingCostRate     float64
	TargetServiceLevel  float64
	StockoutCostFactor  float64
	MinDailyDemand      float64
	MinHoldingCost      float64
	DefaultLeadTimeDays int
}

// DefaultParams corresponds to a 95% single-tail service level.
func DefaultParams() Params {
	return Params{
		SafetyFactor:        1.65,
		OrderCost:           50,
		HoldingCostRate:     0.25,
		TargetServiceLevel:  0.95,
		StockoutCostFactor:  1.5,
		MinDailyDemand:      0.1,
		MinHoldingCost:      0.01,
		DefaultLeadTimeDays: 7,
	}
}

// ParamsFromConfig builds calculator parameters from the planning settings.
func ParamsFromConfig(cfg config.PlanningConfig) Params {
	p := DefaultParams()
	p.SafetyFactor = cfg.SafetyFactor
	p.OrderCost = cfg.OrderCost
	p.HoldingCostRate = cfg.HoldingCostRate
	p.TargetServiceLevel = cfg.TargetServiceLevel
	p.StockoutCostFactor = cfg.StockoutCostFactor
	if cfg.DefaultLeadTimeDays > 0 {
		p.DefaultLeadTimeDays = cfg.DefaultLeadTimeDays
	}
	return p
}

// Input is everything the calculator needs to know about one item.
type Input struct {
	ItemID            int64
	UnitCost          float64
	LeadTimeDays      int
	HasLeadTime       bool
	DailyDemand       float64
	DemandStdDev      float64
	LowStockThreshold int
}

// InputFor assembles the calculator input from an item and its demand statistics.
// Daily demand is the window sales volume spread over every day of the window.
func InputFor(item domain.Item, stats domain.DemandStats) Input {
	leadTime, ok := item.LeadTimeDays()

	daily := 0.0
	if n := stats.Series.Len(); n > 0 {
		daily = stats.SalesVolume / float64(n)
	}

	return Input{
		ItemID:            item.ID,
		UnitCost:          item.UnitCost.InexactFloat64(),
		LeadTimeDays:      leadTime,
		HasLeadTime:       ok,
		DailyDemand:       daily,
		DemandStdDev:      stats.TransactionStdDev,
		LowStockThreshold: item.LowStockThreshold,
	}
}

// Calculator computes replenishment levels. It holds no per-run state.
type Calculator struct {
	params Params
	now    func() time.Time
}

// NewCalculator creates a calculator with the given parameters.
func NewCalculator(params Params, now func() time.Time) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{params: params, now: now}
}

// Params returns the calculator's assumptions.
func (c *Calculator) Params() Params {
	return c.params
}

// Calculate computes the optimization parameters for one item. Bad unit cost or a
// missing lead time are reported as data quality issues and replaced by guarded
// defaults; the item still gets parameters.
func (c *Calculator) Calculate(in Input) (domain.OptimizationParameters, []*domain.DataQualityError) {
	var issues []*domain.DataQualityError

	// 1. Daily demand, floored so that cycle length stays finite
	dailyDemand := in.DailyDemand
	if math.IsNaN(dailyDemand) || dailyDemand < c.params.MinDailyDemand {
		dailyDemand = c.params.MinDailyDemand
	}

	// 2. Demand std-dev, defaulting to half the daily demand
	stdDev := in.DemandStdDev
	if math.IsNaN(stdDev) || stdDev <= 0 {
		stdDev = 0.5 * dailyDemand
	}

	// 3. Lead time
	leadTime := in.LeadTimeDays
	if !in.HasLeadTime || leadTime <= 0 {
		issues = append(issues, &domain.DataQualityError{
			ItemID: in.ItemID,
			Field:  "lead_time_days",
			Reason: "missing supplier lead time, using default",
		})
		leadTime = c.params.DefaultLeadTimeDays
	}

	// 4. Annual holding cost per unit
	holdingCost := in.UnitCost * c.params.HoldingCostRate
	if math.IsNaN(in.UnitCost) || in.UnitCost <= 0 {
		issues = append(issues, &domain.DataQualityError{
			ItemID: in.ItemID,
			Field:  "unit_cost",
			Reason: "unit cost must be positive, using holding cost floor",
		})
		holdingCost = c.params.MinHoldingCost
	}
	if holdingCost < c.params.MinHoldingCost {
		holdingCost = c.params.MinHoldingCost
	}

	lt := float64(leadTime)

	// 5. Safety stock = safety factor × std-dev × √lead time
	safetyStock := planning.CeilInt(c.params.SafetyFactor * stdDev * math.Sqrt(lt))

	// 6. Reorder point = daily demand × lead time + safety stock
	reorderPoint := planning.CeilInt(dailyDemand*lt + float64(safetyStock))

	// 7. EOQ = √(2 × order cost × annual demand / annual holding cost)
	annualDemand := dailyDemand * 365
	eoq := planning.CeilInt(math.Sqrt(2 * c.params.OrderCost * annualDemand / holdingCost))

	// 8. Min and max stock levels
	threshold := in.LowStockThreshold
	if threshold < 0 {
		threshold = 0
	}
	minLevel := safetyStock
	if threshold > minLevel {
		minLevel = threshold
	}

	return domain.OptimizationParameters{
		ItemID:                in.ItemID,
		TargetServiceLevel:    c.params.TargetServiceLevel,
		SafetyStock:           safetyStock,
		ReorderPoint:          reorderPoint,
		EconomicOrderQuantity: eoq,
		MinStockLevel:         minLevel,
		MaxStockLevel:         reorderPoint + eoq,
		OrderCycleDays:        planning.CeilInt(float64(eoq) / dailyDemand),
		LeadTimeDays:          leadTime,
		DailyDemand:           dailyDemand,
		DemandStdDev:          stdDev,
		OrderCost:             c.params.OrderCost,
		HoldingCostRate:       c.params.HoldingCostRate,
		StockoutCostFactor:    c.params.StockoutCostFactor,
		UpdatedAt:             c.now().UTC(),
	}, issues
}
