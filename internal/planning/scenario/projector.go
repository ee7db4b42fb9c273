package scenario

import (
	"math"
	"strings"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/optimization"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// stockoutHorizonDays is the period over which projected stockouts are counted.
const stockoutHorizonDays = 90

// ItemInput is what the projector needs to know about one item.
type ItemInput struct {
	Item          domain.Item
	Params        domain.OptimizationParameters
	Optimization  optimization.Input
	Intermittency float64
	SalesVolume   float64
	// ServiceLevel is the measured service level as a fraction, if known.
	ServiceLevel *float64
}

// Projector recomputes optimization parameters under what-if scenarios.
type Projector struct {
	calc          *optimization.Calculator
	honorLeadTime bool
	log           zerolog.Logger
}

// NewProjector creates a projector. The lead-time multiplier is recorded on each
// scenario but only changes the numbers when honorLeadTime is set.
func NewProjector(calc *optimization.Calculator, honorLeadTime bool, log zerolog.Logger) *Projector {
	return &Projector{calc: calc, honorLeadTime: honorLeadTime, log: log}
}

// Prepare returns the baseline followed by every valid alternate, with IDs
// assigned in order. Invalid alternates, and alternates whose name repeats an
// earlier one (ignoring case and surrounding space), are returned as errors
// and dropped.
func (p *Projector) Prepare(alternates []domain.Scenario) ([]domain.Scenario, []error) {
	scenarios := []domain.Scenario{Baseline()}
	scenarios[0].ID = 1
	seen := map[string]struct{}{nameKey(BaselineName): {}}

	var rejected []error
	for _, s := range alternates {
		err := Validate(s)
		if err == nil {
			if _, dup := seen[nameKey(s.Name)]; dup {
				cfgErr := &domain.ConfigurationError{Scenario: s.Name}
				cfgErr.Add("name", "duplicate")
				err = cfgErr
			}
		}
		if err != nil {
			p.log.Warn().Err(err).Str("scenario", s.Name).Msg("scenario: rejected definition")
			rejected = append(rejected, err)
			continue
		}
		seen[nameKey(s.Name)] = struct{}{}
		s.ID = int64(len(scenarios) + 1)
		s.IsBaseline = false
		scenarios = append(scenarios, s)
	}
	return scenarios, rejected
}

// ProjectAll produces one projection per (scenario, item) pair, grouped by
// scenario in the given order.
func (p *Projector) ProjectAll(scenarios []domain.Scenario, items []ItemInput) []domain.ScenarioProjection {
	out := make([]domain.ScenarioProjection, 0, len(scenarios)*len(items))
	for _, s := range scenarios {
		for _, in := range items {
			out = append(out, p.Project(s, in))
		}
	}
	return out
}

// Project computes a single item's projection under a scenario.
func (p *Projector) Project(s domain.Scenario, in ItemInput) domain.ScenarioProjection {
	if s.IsBaseline {
		return p.baseline(s, in)
	}

	base := in.Params
	if p.honorLeadTime && s.LeadTimeMultiplier != 1 && p.calc != nil {
		base = p.withScaledLeadTime(in, s.LeadTimeMultiplier)
	}

	proj := domain.ScenarioProjection{
		ScenarioID: s.ID,
		ItemID:     in.Item.ID,
		CategoryID: in.Item.CategoryID,

		AdjustedSafetyStock:   planning.CeilInt(float64(base.SafetyStock) * s.SafetyStockMultiplier),
		AdjustedReorderPoint:  planning.CeilInt(float64(base.ReorderPoint) * s.SafetyStockMultiplier * s.DemandMultiplier),
		AdjustedOrderQuantity: planning.CeilInt(float64(base.EconomicOrderQuantity) * s.DemandMultiplier),

		// Rounded before ceil so that 2 - 2×0.95 does not become 0.10000000000000009.
		ProjectedStockouts: planning.CeilInt(planning.RoundFloat(
			in.Intermittency*stockoutHorizonDays*(2-2*s.ServiceLevel), 6)),

		ProjectedInventoryValue: inventoryValue(in.Item, s.CostMultiplier),
		ProjectedServiceLevel:   s.ServiceLevel,
	}

	if in.Item.InStock > 0 {
		turns := (in.SalesVolume * s.DemandMultiplier) / (float64(in.Item.InStock) * s.SafetyStockMultiplier)
		proj.ProjectedInventoryTurns = planning.RoundFloat(turns, 2)
	}

	return proj
}

func (p *Projector) baseline(s domain.Scenario, in ItemInput) domain.ScenarioProjection {
	serviceLevel := s.ServiceLevel
	if in.ServiceLevel != nil {
		serviceLevel = planning.Clamp(*in.ServiceLevel, 0, 1)
	}

	proj := domain.ScenarioProjection{
		ScenarioID:              s.ID,
		ItemID:                  in.Item.ID,
		CategoryID:              in.Item.CategoryID,
		AdjustedSafetyStock:     in.Params.SafetyStock,
		AdjustedReorderPoint:    in.Params.ReorderPoint,
		AdjustedOrderQuantity:   in.Params.EconomicOrderQuantity,
		ProjectedStockouts:      int(math.Round(math.Max(0, in.Intermittency*stockoutHorizonDays))),
		ProjectedInventoryValue: inventoryValue(in.Item, 1),
		ProjectedServiceLevel:   serviceLevel,
	}
	if in.Item.InStock > 0 {
		proj.ProjectedInventoryTurns = planning.RoundFloat(in.SalesVolume/float64(in.Item.InStock), 2)
	}
	return proj
}

func (p *Projector) withScaledLeadTime(in ItemInput, multiplier float64) domain.OptimizationParameters {
	opt := in.Optimization
	lead := opt.LeadTimeDays
	if !opt.HasLeadTime || lead <= 0 {
		lead = p.calc.Params().DefaultLeadTimeDays
	}
	opt.LeadTimeDays = planning.CeilInt(float64(lead) * multiplier)
	opt.HasLeadTime = opt.LeadTimeDays > 0

	params, _ := p.calc.Calculate(opt)
	return params
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func inventoryValue(item domain.Item, costMultiplier float64) decimal.Decimal {
	return decimal.NewFromInt(int64(item.InStock)).
		Mul(item.UnitCost).
		Mul(decimal.NewFromFloat(costMultiplier)).
		Round(2)
}
