package volatility

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC) }

func series(values ...float64) domain.DemandSeries {
	return domain.DemandSeries{ItemID: 1, Values: values}
}

func constantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestClassifyAllZeroSeriesIsIntermittent(t *testing.T) {
	c := NewClassifier(nil, fixedClock)

	p := c.Classify(domain.DemandSeries{ItemID: 9, Values: make([]float64, 90)}, 3)

	assert.Equal(t, 0.0, p.CoefficientOfVariation)
	assert.Equal(t, 1.0, p.Intermittency)
	assert.Equal(t, 0.0, p.Spikiness)
	assert.Equal(t, 0.0, p.LumpyScore)
	assert.Equal(t, domain.PatternIntermittent, p.Pattern)
	assert.Equal(t, domain.MethodSBA, p.Method)
	assert.Equal(t, 1.0, p.DataQualityScore)
	assert.Equal(t, int64(9), p.ItemID)
	assert.Equal(t, int64(3), p.CategoryID)
}

func TestClassifyConstantDemandIsSmooth(t *testing.T) {
	c := NewClassifier(nil, fixedClock)

	p := c.Classify(series(constantSeries(90, 4)...), 1)

	assert.Equal(t, 0.0, p.CoefficientOfVariation)
	assert.Equal(t, 0.0, p.Intermittency)
	assert.Equal(t, 1.0, p.Spikiness)
	assert.Equal(t, 1.0, p.ForecastAccuracy)
	assert.Equal(t, domain.PatternSmooth, p.Pattern)
	assert.Equal(t, domain.MethodMovingAverage, p.Method)
}

func TestClassifyLumpyDemand(t *testing.T) {
	values := make([]float64, 90)
	values[10] = 50
	values[40] = 2
	values[70] = 30

	p := NewClassifier(nil, fixedClock).Classify(series(values...), 1)

	assert.Greater(t, p.Intermittency, IntermittencyThreshold)
	assert.Greater(t, p.CoefficientOfVariation, VariationThreshold)
	assert.Equal(t, domain.PatternLumpy, p.Pattern)
	assert.Equal(t, domain.MethodCroston, p.Method)
}

func TestClassifyErraticDemand(t *testing.T) {
	values := make([]float64, 90)
	for i := range values {
		values[i] = 1
		if i%10 == 0 {
			values[i] = 40
		}
	}

	p := NewClassifier(nil, fixedClock).Classify(series(values...), 1)

	assert.Equal(t, 0.0, p.Intermittency)
	assert.Greater(t, p.CoefficientOfVariation, VariationThreshold)
	assert.Equal(t, domain.PatternErratic, p.Pattern)
	assert.Equal(t, domain.MethodExponentialSmoothing, p.Method)
}

func TestComputeStatistics(t *testing.T) {
	m := Compute([]float64{0, 2, 4, 0, 4})

	assert.InDelta(t, 2.0, m.Mean, 1e-9)
	assert.InDelta(t, math.Sqrt(3.2), m.StdDev, 1e-9, "population std-dev")
	assert.InDelta(t, math.Sqrt(3.2)/2, m.CoefficientOfVariation, 1e-9)
	assert.InDelta(t, 1.6, m.MeanAbsoluteDeviation, 1e-9)
	assert.InDelta(t, 2.0, m.Spikiness, 1e-9)
	assert.InDelta(t, 0.4, m.Intermittency, 1e-9)
	assert.InDelta(t, m.CoefficientOfVariation*0.4, m.LumpyScore, 1e-9)
	assert.Zero(t, m.ForecastAccuracy, "too short for a 7-day back-test")
	assert.InDelta(t, 0.5+0.5*5.0/90, m.DataQualityScore, 1e-9)
}

func TestComputeEmptySeries(t *testing.T) {
	m := Compute(nil)

	assert.Zero(t, m.Mean)
	assert.Zero(t, m.Intermittency)
	assert.Equal(t, 0.5, m.DataQualityScore)
}

func TestForecastAccuracy(t *testing.T) {
	// Seven days of 2 then one day of 4: one evaluation point, error 2.
	values := []float64{2, 2, 2, 2, 2, 2, 2, 4}
	mean := 18.0 / 8

	got := forecastAccuracy(values, mean)

	assert.InDelta(t, 1-2/mean, got, 1e-9)
}

func TestForecastAccuracyIsClamped(t *testing.T) {
	values := append(make([]float64, 7), 100)
	assert.Equal(t, 0.0, forecastAccuracy(values, 100.0/8))
}

func TestPropertiesHoldForNonZeroSeries(t *testing.T) {
	inputs := [][]float64{
		{1},
		{0, 0, 5},
		{3, 1, 4, 1, 5, 9, 2, 6, 5, 3, 5},
		constantSeries(90, 0.5),
	}
	for _, values := range inputs {
		m := Compute(values)
		assert.GreaterOrEqual(t, m.Intermittency, 0.0)
		assert.LessOrEqual(t, m.Intermittency, 1.0)
		assert.GreaterOrEqual(t, m.CoefficientOfVariation, 0.0)
	}
}

func TestEvaluateOrderAndDeterminism(t *testing.T) {
	rules := DefaultRules()
	cases := []struct {
		intermittency, cov float64
		want               domain.DemandPattern
	}{
		{0.8, 1.5, domain.PatternLumpy},
		{0.8, 1.0, domain.PatternIntermittent},
		{0.7, 1.5, domain.PatternErratic},
		{0.7, 1.0, domain.PatternSmooth},
		{0.0, 0.0, domain.PatternSmooth},
	}
	for _, tc := range cases {
		m := Metrics{Intermittency: tc.intermittency, CoefficientOfVariation: tc.cov}
		assert.Equal(t, tc.want, Evaluate(rules, m))
		assert.Equal(t, Evaluate(rules, m), Evaluate(rules, m))
	}
}

func TestEvaluateFallsBackWhenNoRuleMatches(t *testing.T) {
	rules := []Rule{{Pattern: domain.PatternLumpy, Match: func(Metrics) bool { return false }}, {Pattern: domain.PatternErratic}}
	assert.Equal(t, domain.PatternSmooth, Evaluate(rules, Metrics{}))
}

func TestMethodForDefault(t *testing.T) {
	require.Equal(t, domain.MethodSimpleAverage, MethodFor(domain.DemandPattern("UNKNOWN")))
}
