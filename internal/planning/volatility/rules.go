package volatility

import "github.com/andresuchdata/stockplan/backend-go/internal/domain"

const (
	// IntermittencyThreshold is the share of zero-demand days above which demand is intermittent.
	IntermittencyThreshold = 0.7
	// VariationThreshold is the coefficient of variation above which demand is erratic.
	VariationThreshold = 1.0
)

// Rule labels a series when Match holds. Rules are evaluated in order.
type Rule struct {
	Pattern domain.DemandPattern
	Match   func(Metrics) bool
}

// DefaultRules returns the pattern rules in evaluation order.
func DefaultRules() []Rule {
	intermittent := func(m Metrics) bool { return m.Intermittency > IntermittencyThreshold }
	erratic := func(m Metrics) bool { return m.CoefficientOfVariation > VariationThreshold }

	return []Rule{
		{Pattern: domain.PatternLumpy, Match: func(m Metrics) bool { return intermittent(m) && erratic(m) }},
		{Pattern: domain.PatternIntermittent, Match: intermittent},
		{Pattern: domain.PatternErratic, Match: erratic},
		{Pattern: domain.PatternSmooth, Match: func(Metrics) bool { return true }},
	}
}

// Evaluate returns the pattern of the first matching rule, or SMOOTH if none match.
func Evaluate(rules []Rule, m Metrics) domain.DemandPattern {
	for _, r := range rules {
		if r.Match != nil && r.Match(m) {
			return r.Pattern
		}
	}
	return domain.PatternSmooth
}

// MethodFor maps a demand pattern to its recommended forecasting method.
func MethodFor(p domain.DemandPattern) domain.ForecastMethod {
	switch p {
	case domain.PatternLumpy:
		return domain.MethodCroston
	case domain.PatternIntermittent:
		return domain.MethodSBA
	case domain.PatternErratic:
		return domain.MethodExponentialSmoothing
	case domain.PatternSmooth:
		return domain.MethodMovingAverage
	default:
		return domain.MethodSimpleAverage
	}
}
