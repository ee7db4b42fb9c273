package optimization

import (
	"math"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
)

const (
	// suggestionSafetyFactor pads demand during lead time for the order target.
	suggestionSafetyFactor = 1.5
	// noDemandDaysUntilStockout stands in for "never" when nothing sells.
	noDemandDaysUntilStockout = 999
	// noDemandOrderDelayDays schedules the order when there is no demand to project.
	noDemandOrderDelayDays = 30
)

// Suggest builds a reorder suggestion from available stock (on-hand minus
// reserved) and the average daily SALE demand over windowDays. It returns
// false when nothing needs ordering or the item has no supplier to order from.
func Suggest(item domain.Item, stats domain.DemandStats, windowDays int, now time.Time) (domain.ReorderSuggestion, bool) {
	if item.SupplierID == nil || item.Supplier == nil || windowDays <= 0 {
		return domain.ReorderSuggestion{}, false
	}

	lead := item.Supplier.LeadTimeDays
	available := float64(item.Available())
	threshold := float64(item.LowStockThreshold)
	avgDaily := stats.SalesVolume / float64(windowDays)
	leadDemand := avgDaily * float64(lead)
	target := math.Ceil(leadDemand * suggestionSafetyFactor)

	quantity := 0
	if available < target {
		quantity = int(target + threshold - available)
	}
	if quantity <= 0 {
		return domain.ReorderSuggestion{}, false
	}

	urgency := domain.UrgencyOK
	switch {
	case available <= threshold:
		urgency = domain.UrgencyCritical
	case available <= leadDemand:
		urgency = domain.UrgencyWarning
	}

	daysUntilStockout := float64(noDemandDaysUntilStockout)
	delay := noDemandOrderDelayDays
	if avgDaily > 0 {
		daysUntilStockout = planning.RoundFloat(available/avgDaily, 2)
		delay = int(math.Floor(available/avgDaily)) - lead
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return domain.ReorderSuggestion{
		ItemID:             item.ID,
		SuggestedDate:      today,
		SuggestedQuantity:  quantity,
		Urgency:            urgency,
		DaysUntilStockout:  daysUntilStockout,
		ExpectedLeadTime:   lead,
		SuggestedOrderDate: today.AddDate(0, 0, max(0, delay)),
		SupplierID:         *item.SupplierID,
		Status:             domain.SuggestionPending,
	}, true
}
