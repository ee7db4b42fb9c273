package domain

import "strings"

// TransactionType tags a stock movement.
type TransactionType string

const (
	TransactionSale            TransactionType = "SALE"
	TransactionReturn          TransactionType = "RETURN"
	TransactionAdjustment      TransactionType = "ADJUSTMENT"
	TransactionDamaged         TransactionType = "DAMAGED"
	TransactionTransferIn      TransactionType = "TRANSFER_IN"
	TransactionTransferOut     TransactionType = "TRANSFER_OUT"
	TransactionPurchaseReceipt TransactionType = "PURCHASE_RECEIPT"
)

var transactionTypes = map[string]TransactionType{
	"sale":             TransactionSale,
	"return":           TransactionReturn,
	"adjustment":       TransactionAdjustment,
	"damaged":          TransactionDamaged,
	"transfer_in":      TransactionTransferIn,
	"transfer_out":     TransactionTransferOut,
	"purchase_receipt": TransactionPurchaseReceipt,
}

// ParseTransactionType returns the type for a given tag (case-insensitive).
func ParseTransactionType(tag string) (TransactionType, bool) {
	t, ok := transactionTypes[strings.ToLower(strings.TrimSpace(tag))]
	return t, ok
}

// DemandPattern is the volatility label assigned to an item.
type DemandPattern string

const (
	PatternSmooth       DemandPattern = "SMOOTH"
	PatternErratic      DemandPattern = "ERRATIC"
	PatternIntermittent DemandPattern = "INTERMITTENT"
	PatternLumpy        DemandPattern = "LUMPY"
)

// ForecastMethod names the forecasting technique recommended for a pattern.
type ForecastMethod string

const (
	MethodCroston              ForecastMethod = "CROSTON"
	MethodSBA                  ForecastMethod = "SBA"
	MethodExponentialSmoothing ForecastMethod = "EXPONENTIAL_SMOOTHING"
	MethodMovingAverage        ForecastMethod = "MOVING_AVERAGE"
	MethodSimpleAverage        ForecastMethod = "SIMPLE_AVERAGE"
)

// ScenarioType classifies what-if scenarios.
type ScenarioType string

const (
	ScenarioBaseline         ScenarioType = "BASELINE"
	ScenarioServiceLevel     ScenarioType = "SERVICE_LEVEL"
	ScenarioCostOptimization ScenarioType = "COST_OPTIMIZATION"
	ScenarioSeasonal         ScenarioType = "SEASONAL"
	ScenarioRiskMitigation   ScenarioType = "RISK_MITIGATION"
	ScenarioCustom           ScenarioType = "CUSTOM"
)

// StockStatus is the replenishment verdict for an item.
type StockStatus string

const (
	StockReorderNow  StockStatus = "REORDER_NOW"
	StockReorderSoon StockStatus = "REORDER_SOON"
	StockOverstocked StockStatus = "OVERSTOCKED"
	StockOptimal     StockStatus = "OPTIMAL"
)

var stockStatusLabels = map[StockStatus]string{
	StockReorderNow:  "Reorder Now",
	StockReorderSoon: "Reorder Soon",
	StockOverstocked: "Overstocked",
	StockOptimal:     "Optimal",
}

// Label returns a human-readable label for a stock status.
func (s StockStatus) Label() string {
	if label, ok := stockStatusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// Urgency ranks how soon an item's available stock runs out.
type Urgency string

const (
	UrgencyCritical Urgency = "Critical"
	UrgencyWarning  Urgency = "Warning"
	UrgencyOK       Urgency = "OK"
)

// SuggestionPending is the status of a newly created reorder suggestion.
const SuggestionPending = "PENDING"
