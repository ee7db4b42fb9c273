package demand

import (
	"sort"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// DefaultWindowDays is the trailing lookback used for demand statistics.
const DefaultWindowDays = 90

// Extractor turns raw transaction history into per-day demand buckets.
type Extractor struct {
	window int
	now    func() time.Time
}

// NewExtractor creates an extractor over a trailing window of the given number of days.
// A nil clock defaults to time.Now.
func NewExtractor(window int, now func() time.Time) *Extractor {
	if window <= 0 {
		window = DefaultWindowDays
	}
	if now == nil {
		now = time.Now
	}
	return &Extractor{window: window, now: now}
}

// Window returns the number of day buckets in every series.
func (e *Extractor) Window() int {
	return e.window
}

// WindowStart returns midnight UTC of the oldest day in the window.
func (e *Extractor) WindowStart() time.Time {
	return e.today().AddDate(0, 0, -(e.window - 1))
}

func (e *Extractor) today() time.Time {
	return truncateDay(e.now())
}

// Extract builds the demand statistics for one item. txns may contain any
// transaction type and any date; only movements inside the window count.
func (e *Extractor) Extract(itemID int64, txns []domain.Transaction) domain.DemandStats {
	start := e.WindowStart()
	values := make([]float64, e.window)

	saleQuantities := make([]float64, 0, len(txns))
	netByDay := make(map[int]int)

	for _, t := range txns {
		if t.ItemID != 0 && t.ItemID != itemID {
			continue
		}
		idx, ok := e.dayIndex(start, t.OccurredAt)
		if !ok {
			continue
		}

		netByDay[idx] += t.Quantity

		if t.Type != domain.TransactionSale {
			continue
		}
		values[idx] += float64(-t.Quantity)
		saleQuantities = append(saleQuantities, float64(-t.Quantity))
	}

	stats := domain.DemandStats{
		Series: domain.DemandSeries{
			ItemID: itemID,
			Start:  start,
			Values: values,
		},
		SaleCount: len(saleQuantities),
	}

	for i, v := range values {
		// A SALE recorded with a positive quantity is a data entry error; it
		// must not turn a day into negative demand.
		if v < 0 {
			values[i] = 0
			v = 0
		}
		stats.SalesVolume += v
		if v > 0 {
			stats.DaysWithSales++
		}
	}

	if len(saleQuantities) > 1 {
		stats.TransactionStdDev = stat.StdDev(saleQuantities, nil)
	}
	stats.StockoutDays = stockoutDays(netByDay)

	return stats
}

func (e *Extractor) dayIndex(start, at time.Time) (int, bool) {
	day := truncateDay(at)
	if day.Before(start) {
		return 0, false
	}
	idx := int(day.Sub(start).Hours() / 24)
	if idx >= e.window {
		return 0, false
	}
	return idx, true
}

// stockoutDays counts days, among those with any movement, where the running
// balance of all movements since the window start is at or below zero.
func stockoutDays(netByDay map[int]int) int {
	days := make([]int, 0, len(netByDay))
	for d := range netByDay {
		days = append(days, d)
	}
	sort.Ints(days)

	running, count := 0, 0
	for _, d := range days {
		running += netByDay[d]
		if running <= 0 {
			count++
		}
	}
	return count
}

// GroupByItem splits a flat transaction list into per-item slices.
func GroupByItem(txns []domain.Transaction) map[int64][]domain.Transaction {
	grouped := make(map[int64][]domain.Transaction)
	for _, t := range txns {
		grouped[t.ItemID] = append(grouped[t.ItemID], t)
	}
	return grouped
}

func truncateDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
