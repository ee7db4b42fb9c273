package forecast

import (
	"math"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
)

const (
	// DefaultHorizonDays is how many days ahead forecasts are generated.
	DefaultHorizonDays = 30
	// MethodTag is stored with every generated point.
	MethodTag = "time_series"

	weekendFactor      = 1.5
	popularityProxy    = 0.3
	confidenceBase     = 0.7
	confidenceSpan     = 0.2
	confidenceFullDays = 90
)

// monthFactors is indexed by calendar month, January first.
var monthFactors = [12]float64{1.0, 0.8, 0.9, 1.0, 1.1, 1.2, 1.3, 1.2, 1.1, 1.0, 1.2, 1.5}

// MonthFactor returns the seasonal multiplier for a calendar month.
func MonthFactor(m time.Month) float64 {
	return monthFactors[m-1]
}

// DayFactor returns the day-of-week multiplier.
func DayFactor(d time.Weekday) float64 {
	if d == time.Saturday || d == time.Sunday {
		return weekendFactor
	}
	return 1.0
}

// Input describes one item for forecasting.
type Input struct {
	ItemID            int64
	AvgDailySales     float64
	SeasonalityFactor float64
	HistoryDays       int
}

// InputFor derives the forecast input from an item and its demand statistics.
// The average is taken over days that had sales; items without sales fall back
// to a popularity-based proxy.
func InputFor(item domain.Item, stats domain.DemandStats) Input {
	avg := item.PopularityScore * popularityProxy
	if stats.DaysWithSales > 0 {
		avg = stats.SalesVolume / float64(stats.DaysWithSales)
	}
	return Input{
		ItemID:            item.ID,
		AvgDailySales:     avg,
		SeasonalityFactor: item.SeasonalityFactor(),
		HistoryDays:       stats.DaysWithSales,
	}
}

// Generator projects daily demand forward.
type Generator struct {
	horizon int
	noise   Noise
	now     func() time.Time
}

// NewGenerator creates a generator. The noise source is shared across items, so
// Generate must not be called concurrently with a stateful source.
func NewGenerator(horizon int, noise Noise, now func() time.Time) *Generator {
	if horizon <= 0 {
		horizon = DefaultHorizonDays
	}
	if noise == nil {
		noise = NewUniformNoise(0)
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{horizon: horizon, noise: noise, now: now}
}

// Confidence grows with the amount of sales history, from 0.7 up to 0.9.
func Confidence(historyDays int) float64 {
	share := math.Min(1, float64(historyDays)/confidenceFullDays)
	if share < 0 {
		share = 0
	}
	return confidenceBase + share*confidenceSpan
}

// Base returns the unperturbed forecast for a date.
func Base(in Input, date time.Time) float64 {
	seasonality := in.SeasonalityFactor
	if seasonality <= 0 {
		seasonality = 1
	}
	return in.AvgDailySales * DayFactor(date.Weekday()) * MonthFactor(date.Month()) * seasonality
}

// Generate returns one point per day of the horizon, starting tomorrow.
func (g *Generator) Generate(in Input) []domain.ForecastPoint {
	now := g.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	confidence := planning.RoundFloat(Confidence(in.HistoryDays), 2)

	points := make([]domain.ForecastPoint, 0, g.horizon)
	for d := 1; d <= g.horizon; d++ {
		date := today.AddDate(0, 0, d)
		qty := math.Max(0, Base(in, date)*g.noise.Factor())

		points = append(points, domain.ForecastPoint{
			ItemID:          in.ItemID,
			Date:            date,
			DaysAhead:       d,
			Quantity:        planning.RoundFloat(qty, 1),
			ConfidenceLevel: confidence,
			Method:          MethodTag,
		})
	}
	return points
}
