package scenario

import (
	"fmt"
	"os"
	"strings"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"gopkg.in/yaml.v3"
)

type fileScenario struct {
	Name                  string   `yaml:"name"`
	Type                  string   `yaml:"type"`
	Description           string   `yaml:"description"`
	ServiceLevel          *float64 `yaml:"service_level"`
	SafetyStockMultiplier *float64 `yaml:"safety_stock_multiplier"`
	LeadTimeMultiplier    *float64 `yaml:"lead_time_multiplier"`
	DemandMultiplier      *float64 `yaml:"demand_multiplier"`
	CostMultiplier        *float64 `yaml:"cost_multiplier"`
	Notes                 string   `yaml:"notes"`
}

type scenarioFile struct {
	Scenarios []fileScenario `yaml:"scenarios"`
}

// LoadFile reads alternate scenario definitions from a YAML file. Omitted
// multipliers default to 1 and an omitted service level to 0.95. Values are
// not validated here; the projector rejects invalid definitions.
func LoadFile(path string) ([]domain.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenarios file %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes scenario definitions from YAML.
func Parse(data []byte) ([]domain.Scenario, error) {
	var f scenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse scenarios: %w", err)
	}

	out := make([]domain.Scenario, 0, len(f.Scenarios))
	for _, fs := range f.Scenarios {
		typ := domain.ScenarioType(strings.ToUpper(strings.TrimSpace(fs.Type)))
		if typ == "" {
			typ = domain.ScenarioCustom
		}
		out = append(out, domain.Scenario{
			Name:                  strings.TrimSpace(fs.Name),
			Type:                  typ,
			Description:           fs.Description,
			ServiceLevel:          valueOr(fs.ServiceLevel, DefaultServiceLevel),
			SafetyStockMultiplier: valueOr(fs.SafetyStockMultiplier, 1),
			LeadTimeMultiplier:    valueOr(fs.LeadTimeMultiplier, 1),
			DemandMultiplier:      valueOr(fs.DemandMultiplier, 1),
			CostMultiplier:        valueOr(fs.CostMultiplier, 1),
			Notes:                 fs.Notes,
		})
	}
	return out, nil
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
