// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups items and carries the seasonal demand multiplier.
type Category struct {
	ID                int64   `json:"id" db:"id"`
	Name              string  `json:"name" db:"name"`
	Description       string  `json:"description" db:"description"`
	SeasonalityFactor float64 `json:"seasonality_factor" db:"seasonality_factor"`
}

// Supplier represents a vendor and its replenishment characteristics
type Supplier struct {
	ID               int64   `json:"id" db:"id"`
	Name             string  `json:"name" db:"name"`
	LeadTimeDays     int     `json:"lead_time_days" db:"lead_time_days"`
	ReliabilityScore float64 `json:"reliability_score" db:"reliability_score"`
}

// Item is a stocked product together with its catalog references.
type Item struct {
	ID                int64           `json:"id" db:"id"`
	SKU               string          `json:"sku" db:"sku"`
	Name              string          `json:"name" db:"name"`
	CategoryID        int64           `json:"category_id" db:"category_id"`
	SupplierID        *int64          `json:"supplier_id,omitempty" db:"supplier_id"`
	UnitCost          decimal.Decimal `json:"unit_cost" db:"unit_cost"`
	UnitPrice         decimal.Decimal `json:"unit_price" db:"unit_price"`
	InStock           int             `json:"in_stock" db:"in_stock"`
	Reserved          int             `json:"reserved" db:"reserved"`
	LowStockThreshold int             `json:"low_stock_threshold" db:"low_stock_threshold"`
	PopularityScore   float64         `json:"popularity_score" db:"popularity_score"`

	Category *Category `json:"category,omitempty" db:"-"`
	Supplier *Supplier `json:"supplier,omitempty" db:"-"`
}

// Available returns on-hand minus reserved. It is not clamped at zero.
func (i Item) Available() int {
	return i.InStock - i.Reserved
}

// SeasonalityFactor returns the category's factor, or 1 when the item has no category loaded.
func (i Item) SeasonalityFactor() float64 {
	if i.Category == nil || i.Category.SeasonalityFactor <= 0 {
		return 1.0
	}
	return i.Category.SeasonalityFactor
}

// LeadTimeDays returns the supplier lead time and whether one is known.
func (i Item) LeadTimeDays() (int, bool) {
	if i.Supplier == nil || i.Supplier.LeadTimeDays <= 0 {
		return 0, false
	}
	return i.Supplier.LeadTimeDays, true
}

// Transaction is an immutable stock movement. Negative quantities are outflows.
type Transaction struct {
	ID          int64           `json:"id" db:"id"`
	ItemID      int64           `json:"item_id" db:"item_id"`
	Type        TransactionType `json:"transaction_type" db:"transaction_type"`
	Quantity    int             `json:"quantity" db:"quantity"`
	OccurredAt  time.Time       `json:"transaction_date" db:"transaction_date"`
	ReferenceID string          `json:"reference_id" db:"reference_id"`
	Notes       string          `json:"notes" db:"notes"`
}

// DemandSeries is one zero-filled demand value per calendar day, oldest first.
type DemandSeries struct {
	ItemID int64
	Start  time.Time
	Values []float64
}

// Len returns the number of day buckets.
func (s DemandSeries) Len() int {
	return len(s.Values)
}

// DemandStats bundles the per-item figures extracted from the trailing window.
type DemandStats struct {
	Series DemandSeries
	// SalesVolume is the total units sold inside the window.
	SalesVolume float64
	// DaysWithSales counts day buckets with positive demand.
	DaysWithSales int
	// SaleCount is the number of SALE transactions inside the window.
	SaleCount int
	// TransactionStdDev is the sample standard deviation of individual sale quantities.
	TransactionStdDev float64
	// StockoutDays counts days where the running balance of all movements was at or below zero.
	StockoutDays int
}

// VolatilityProfile describes how an item's demand behaves.
type VolatilityProfile struct {
	ItemID                 int64          `json:"item_id" db:"item_id"`
	CategoryID             int64          `json:"category_id" db:"category_id"`
	CoefficientOfVariation float64        `json:"coefficient_of_variation" db:"coefficient_of_variation"`
	MeanAbsoluteDeviation  float64        `json:"mean_absolute_deviation" db:"mean_absolute_deviation"`
	Spikiness              float64        `json:"spikiness" db:"spikiness"`
	Intermittency          float64        `json:"intermittency" db:"intermittency"`
	LumpyScore             float64        `json:"lumpy_score" db:"lumpy_score"`
	ForecastAccuracy       float64        `json:"forecast_accuracy" db:"forecast_accuracy"`
	DataQualityScore       float64        `json:"data_quality_score" db:"data_quality_score"`
	Pattern                DemandPattern  `json:"demand_pattern" db:"demand_pattern"`
	Method                 ForecastMethod `json:"recommended_method" db:"recommended_method"`
	MeasuredAt             time.Time      `json:"measured_at" db:"measured_at"`
}

// OptimizationParameters are the replenishment levels computed for an item.
type OptimizationParameters struct {
	ItemID                 int64     `json:"item_id" db:"item_id"`
	TargetServiceLevel     float64   `json:"target_service_level" db:"target_service_level"`
	SafetyStock            int       `json:"safety_stock" db:"safety_stock"`
	ReorderPoint           int       `json:"reorder_point" db:"reorder_point"`
	EconomicOrderQuantity  int       `json:"economic_order_quantity" db:"economic_order_quantity"`
	MinStockLevel          int       `json:"min_stock_level" db:"min_stock_level"`
	MaxStockLevel          int       `json:"max_stock_level" db:"max_stock_level"`
	OrderCycleDays         int       `json:"order_cycle_days" db:"order_cycle_days"`
	LeadTimeDays           int       `json:"lead_time_days" db:"lead_time_days"`
	DailyDemand            float64   `json:"daily_demand" db:"daily_demand"`
	DemandStdDev           float64   `json:"demand_std_dev" db:"demand_std_dev"`
	OrderCost              float64   `json:"order_cost" db:"order_cost"`
	HoldingCostRate        float64   `json:"holding_cost_rate" db:"holding_cost_rate"`
	StockoutCostFactor     float64   `json:"stockout_cost_factor" db:"stockout_cost_factor"`
	UpdatedAt              time.Time `json:"updated_at" db:"updated_at"`
}

// ForecastPoint is the projected demand for one future day.
type ForecastPoint struct {
	ItemID          int64     `json:"item_id" db:"item_id"`
	Date            time.Time `json:"forecast_date" db:"forecast_date"`
	DaysAhead       int       `json:"days_ahead" db:"days_ahead"`
	Quantity        float64   `json:"forecast_quantity" db:"forecast_quantity"`
	ConfidenceLevel float64   `json:"confidence_level" db:"confidence_level"`
	Method          string    `json:"forecast_method" db:"forecast_method"`
}

// Scenario is a named what-if configuration applied on top of the base parameters.
type Scenario struct {
	ID                    int64        `json:"id" db:"id" yaml:"-"`
	Name                  string       `json:"name" db:"name" yaml:"name"`
	Type                  ScenarioType `json:"scenario_type" db:"scenario_type" yaml:"type"`
	Description           string       `json:"description" db:"description" yaml:"description"`
	ServiceLevel          float64      `json:"service_level" db:"service_level" yaml:"service_level"`
	SafetyStockMultiplier float64      `json:"safety_stock_multiplier" db:"safety_stock_multiplier" yaml:"safety_stock_multiplier"`
	LeadTimeMultiplier    float64      `json:"lead_time_multiplier" db:"lead_time_multiplier" yaml:"lead_time_multiplier"`
	DemandMultiplier      float64      `json:"demand_multiplier" db:"demand_multiplier" yaml:"demand_multiplier"`
	CostMultiplier        float64      `json:"cost_multiplier" db:"cost_multiplier" yaml:"cost_multiplier"`
	Notes                 string       `json:"notes" db:"notes" yaml:"notes"`
	IsBaseline            bool         `json:"is_baseline" db:"is_baseline" yaml:"-"`
}

// ScenarioProjection is one item's parameters recomputed under a scenario.
type ScenarioProjection struct {
	ScenarioID              int64           `json:"scenario_id" db:"scenario_id"`
	ItemID                  int64           `json:"item_id" db:"item_id"`
	CategoryID              int64           `json:"category_id" db:"category_id"`
	AdjustedSafetyStock     int             `json:"adjusted_safety_stock" db:"adjusted_safety_stock"`
	AdjustedReorderPoint    int             `json:"adjusted_reorder_point" db:"adjusted_reorder_point"`
	AdjustedOrderQuantity   int             `json:"adjusted_order_quantity" db:"adjusted_order_quantity"`
	ProjectedStockouts      int             `json:"projected_stockouts" db:"projected_stockouts"`
	ProjectedInventoryValue decimal.Decimal `json:"projected_inventory_value" db:"projected_inventory_value"`
	ProjectedServiceLevel   float64         `json:"projected_service_level" db:"projected_service_level"`
	ProjectedInventoryTurns float64         `json:"projected_inventory_turns" db:"projected_inventory_turns"`
}

// PerformanceMetrics summarize how well current stock serves recent demand.
type PerformanceMetrics struct {
	ItemID                 int64           `json:"item_id" db:"item_id"`
	CategoryID             int64           `json:"category_id" db:"category_id"`
	MeasuredAt             time.Time       `json:"measured_at" db:"measured_at"`
	DaysOfSupply           float64         `json:"days_of_supply" db:"days_of_supply"`
	InventoryToSalesRatio  *float64        `json:"inventory_to_sales_ratio,omitempty" db:"inventory_to_sales_ratio"`
	StockoutDays           int             `json:"stockout_days" db:"stockout_days"`
	FillRatePercentage     float64         `json:"fill_rate_percentage" db:"fill_rate_percentage"`
	CarryingCost           decimal.Decimal `json:"carrying_cost" db:"carrying_cost"`
	ObsolescenceRisk       float64         `json:"obsolescence_risk" db:"obsolescence_risk"`
	ServiceLevelPercentage float64         `json:"service_level_percentage" db:"service_level_percentage"`
}

// StockRecommendation tells whether an item needs replenishment or is overstocked.
type StockRecommendation struct {
	ItemID                 int64       `json:"item_id" db:"item_id"`
	Status                 StockStatus `json:"status" db:"status"`
	InStock                int         `json:"in_stock" db:"in_stock"`
	SuggestedOrderQuantity int         `json:"suggested_order_quantity" db:"suggested_order_quantity"`
	SuggestedReduction     int         `json:"suggested_reduction" db:"suggested_reduction"`
}

// ReorderSuggestion proposes a purchase order for an item running low on
// available stock.
type ReorderSuggestion struct {
	ItemID             int64     `json:"item_id" db:"item_id"`
	SuggestedDate      time.Time `json:"suggested_date" db:"suggested_date"`
	SuggestedQuantity  int       `json:"suggested_quantity" db:"suggested_quantity"`
	Urgency            Urgency   `json:"urgency_level" db:"urgency_level"`
	DaysUntilStockout  float64   `json:"days_until_stockout" db:"days_until_stockout"`
	ExpectedLeadTime   int       `json:"expected_lead_time" db:"expected_lead_time"`
	SuggestedOrderDate time.Time `json:"suggested_order_date" db:"suggested_order_date"`
	SupplierID         int64     `json:"suggested_supplier_id" db:"suggested_supplier_id"`
	Status             string    `json:"status" db:"status"`
}

// Catalog is the full set of source rows written by the demo data generator.
type Catalog struct {
	Categories   []Category
	Suppliers    []Supplier
	Items        []Item
	Transactions []Transaction
}

// Plan is the complete set of derived rows produced by one planning run.
// ItemIDs lists every catalog item whose previous rows are superseded.
type Plan struct {
	GeneratedAt     time.Time
	ItemIDs         []int64
	Profiles        []VolatilityProfile
	Parameters      []OptimizationParameters
	Forecasts       []ForecastPoint
	Scenarios       []Scenario
	Projections     []ScenarioProjection
	Performance     []PerformanceMetrics
	Recommendations []StockRecommendation
	Suggestions     []ReorderSuggestion
}
