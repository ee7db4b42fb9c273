package scenario

import (
	"math"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
)

// BaselineName is the name of the implicit first scenario.
const BaselineName = "Current State Baseline"

// DefaultServiceLevel is used for the baseline when an item has no measured service level.
const DefaultServiceLevel = 0.95

// Baseline returns the scenario that applies no adjustments.
func Baseline() domain.Scenario {
	return domain.Scenario{
		Name:                  BaselineName,
		Type:                  domain.ScenarioBaseline,
		Description:           "Current inventory parameters with no adjustments",
		ServiceLevel:          DefaultServiceLevel,
		SafetyStockMultiplier: 1,
		LeadTimeMultiplier:    1,
		DemandMultiplier:      1,
		CostMultiplier:        1,
		IsBaseline:            true,
	}
}

// DefaultAlternates are the what-if scenarios shipped with the application.
func DefaultAlternates() []domain.Scenario {
	return []domain.Scenario{
		{
			Name:                  "High Service Level",
			Type:                  domain.ScenarioServiceLevel,
			Description:           "Increased safety stock to achieve 98% service level",
			ServiceLevel:          0.98,
			SafetyStockMultiplier: 1.5,
			LeadTimeMultiplier:    1.0,
			DemandMultiplier:      1.0,
			CostMultiplier:        1.0,
			Notes:                 "Focus on customer satisfaction at the expense of higher inventory costs",
		},
		{
			Name:                  "Cost Reduction",
			Type:                  domain.ScenarioCostOptimization,
			Description:           "Reduced safety stock and optimized order quantities to minimize holding costs",
			ServiceLevel:          0.9,
			SafetyStockMultiplier: 0.7,
			LeadTimeMultiplier:    1.0,
			DemandMultiplier:      1.0,
			CostMultiplier:        0.9,
			Notes:                 "Focus on reducing carrying costs while maintaining acceptable service levels",
		},
		{
			Name:                  "Peak Season Preparation",
			Type:                  domain.ScenarioSeasonal,
			Description:           "Increased stock levels in preparation for peak seasonal demand",
			ServiceLevel:          0.97,
			SafetyStockMultiplier: 1.3,
			LeadTimeMultiplier:    1.2,
			DemandMultiplier:      1.4,
			CostMultiplier:        1.0,
			Notes:                 "Prepare for 40% higher demand during peak season",
		},
		{
			Name:                  "Supply Chain Disruption",
			Type:                  domain.ScenarioRiskMitigation,
			Description:           "Scenario planning for potential supplier disruptions",
			ServiceLevel:          0.95,
			SafetyStockMultiplier: 1.5,
			LeadTimeMultiplier:    2.0,
			DemandMultiplier:      1.0,
			CostMultiplier:        1.1,
			Notes:                 "Assumes lead times double due to shipping/manufacturing disruptions",
		},
	}
}

// Validate rejects a scenario whose service level is outside (0, 1] or whose
// multipliers are not positive finite numbers.
func Validate(s domain.Scenario) error {
	cfgErr := &domain.ConfigurationError{Scenario: s.Name}

	if s.Name == "" {
		cfgErr.Add("name", "must not be empty")
	}
	if math.IsNaN(s.ServiceLevel) || s.ServiceLevel <= 0 || s.ServiceLevel > 1 {
		cfgErr.Add("service_level", "must be in (0, 1]")
	}

	multipliers := []struct {
		field string
		value float64
	}{
		{"safety_stock_multiplier", s.SafetyStockMultiplier},
		{"lead_time_multiplier", s.LeadTimeMultiplier},
		{"demand_multiplier", s.DemandMultiplier},
		{"cost_multiplier", s.CostMultiplier},
	}
	for _, m := range multipliers {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) || m.value <= 0 {
			cfgErr.Add(m.field, "must be a positive number")
		}
	}

	if cfgErr.HasProblems() {
		return cfgErr
	}
	return nil
}
