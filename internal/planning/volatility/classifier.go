package volatility

import (
	"math"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
	"gonum.org/v1/gonum/stat"
)

const (
	movingAverageWindow = 7
	referenceLength     = 90
)

// Metrics are the raw statistics of a demand series.
type Metrics struct {
	Mean                   float64
	StdDev                 float64
	CoefficientOfVariation float64
	MeanAbsoluteDeviation  float64
	Spikiness              float64
	Intermittency          float64
	LumpyScore             float64
	ForecastAccuracy       float64
	DataQualityScore       float64
}

// Classifier computes volatility statistics and labels the demand pattern.
type Classifier struct {
	rules []Rule
	now   func() time.Time
}

// NewClassifier creates a classifier with the given rule list. A nil list uses DefaultRules.
func NewClassifier(rules []Rule, now func() time.Time) *Classifier {
	if rules == nil {
		rules = DefaultRules()
	}
	if now == nil {
		now = time.Now
	}
	return &Classifier{rules: rules, now: now}
}

// Classify builds the volatility profile for one series. Every series, including an
// all-zero or empty one, produces a profile.
func (c *Classifier) Classify(series domain.DemandSeries, categoryID int64) domain.VolatilityProfile {
	m := Compute(series.Values)
	pattern := Evaluate(c.rules, m)

	return domain.VolatilityProfile{
		ItemID:                 series.ItemID,
		CategoryID:             categoryID,
		CoefficientOfVariation: planning.RoundFloat(m.CoefficientOfVariation, 2),
		MeanAbsoluteDeviation:  planning.RoundFloat(m.MeanAbsoluteDeviation, 2),
		Spikiness:              planning.RoundFloat(m.Spikiness, 2),
		Intermittency:          planning.RoundFloat(m.Intermittency, 2),
		LumpyScore:             planning.RoundFloat(m.LumpyScore, 2),
		ForecastAccuracy:       planning.RoundFloat(m.ForecastAccuracy, 2),
		DataQualityScore:       planning.RoundFloat(m.DataQualityScore, 2),
		Pattern:                pattern,
		Method:                 MethodFor(pattern),
		MeasuredAt:             c.now().UTC(),
	}
}

// Compute returns the unrounded statistics of a series.
func Compute(values []float64) Metrics {
	n := len(values)
	m := Metrics{
		DataQualityScore: math.Min(1, 0.5+0.5*float64(n)/referenceLength),
	}
	if n == 0 {
		return m
	}

	// Population standard deviation: the series covers every day of the window.
	m.Mean, m.StdDev = stat.PopMeanStdDev(values, nil)

	zeros := 0
	maxValue := values[0]
	absDev := 0.0
	for _, v := range values {
		if v == 0 {
			zeros++
		}
		if v > maxValue {
			maxValue = v
		}
		absDev += math.Abs(v - m.Mean)
	}

	m.MeanAbsoluteDeviation = absDev / float64(n)
	m.Intermittency = float64(zeros) / float64(n)
	if m.Mean > 0 {
		m.CoefficientOfVariation = m.StdDev / m.Mean
		m.Spikiness = maxValue / m.Mean
	}
	m.LumpyScore = m.CoefficientOfVariation * m.Intermittency
	m.ForecastAccuracy = forecastAccuracy(values, m.Mean)

	return m
}

// forecastAccuracy back-tests a trailing 7-day moving average over the series.
func forecastAccuracy(values []float64, mean float64) float64 {
	if len(values) <= movingAverageWindow {
		return 0
	}

	windowSum := 0.0
	for _, v := range values[:movingAverageWindow] {
		windowSum += v
	}

	errSum := 0.0
	count := 0
	for i := movingAverageWindow; i < len(values); i++ {
		forecast := windowSum / movingAverageWindow
		errSum += math.Abs(values[i] - forecast)
		count++

		windowSum += values[i] - values[i-movingAverageWindow]
	}

	scale := mean
	if scale == 0 {
		scale = 1
	}
	return planning.Clamp(1-errSum/(float64(count)*scale), 0, 1)
}
