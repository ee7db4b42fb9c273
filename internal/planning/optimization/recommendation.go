package optimization

import "github.com/andresuchdata/stockplan/backend-go/internal/domain"

// reorderSoonMargin is how far above the reorder point stock counts as running low.
const reorderSoonMargin = 1.2

// Recommend compares on-hand stock with the item's levels.
func Recommend(item domain.Item, params domain.OptimizationParameters) domain.StockRecommendation {
	rec := domain.StockRecommendation{
		ItemID:  item.ID,
		InStock: item.InStock,
		Status:  domain.StockOptimal,
	}

	stock := float64(item.InStock)
	switch {
	case item.InStock <= params.ReorderPoint:
		rec.Status = domain.StockReorderNow
		rec.SuggestedOrderQuantity = params.EconomicOrderQuantity
	case stock <= float64(params.ReorderPoint)*reorderSoonMargin:
		rec.Status = domain.StockReorderSoon
	case item.InStock > params.MaxStockLevel:
		rec.Status = domain.StockOverstocked
		rec.SuggestedReduction = item.InStock - params.MaxStockLevel
	}

	return rec
}
