package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "plan", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=plan sslmode=disable", cfg.DSN())

	cfg.URL = "postgres://u:p@db:5433/plan"
	assert.Equal(t, "postgres://u:p@db:5433/plan", cfg.DSN())
}

func TestDatabaseConfigDriverName(t *testing.T) {
	assert.Equal(t, "pgx", DatabaseConfig{}.DriverName())
	assert.Equal(t, "pgx", DatabaseConfig{Driver: "pgx"}.DriverName())
	assert.Equal(t, "postgres", DatabaseConfig{Driver: "postgres"}.DriverName())
	assert.Equal(t, "postgres", DatabaseConfig{Driver: "pq"}.DriverName())
}

func TestPlanningValidate(t *testing.T) {
	require.NoError(t, DefaultPlanning().Validate())

	cases := map[string]func(p *PlanningConfig){
		"lookback":     func(p *PlanningConfig) { p.LookbackDays = 0 },
		"horizon":      func(p *PlanningConfig) { p.HorizonDays = -1 },
		"order cost":   func(p *PlanningConfig) { p.OrderCost = 0 },
		"holding rate": func(p *PlanningConfig) { p.HoldingCostRate = 0 },
		"service high": func(p *PlanningConfig) { p.TargetServiceLevel = 1.2 },
		"service zero": func(p *PlanningConfig) { p.TargetServiceLevel = 0 },
		"lead time":    func(p *PlanningConfig) { p.DefaultLeadTimeDays = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := DefaultPlanning()
			mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("PLANNING_LOOKBACK_DAYS", "60")

	cfg := Load()
	require.NotNil(t, cfg)
	assert.Equal(t, 60, cfg.Planning.LookbackDays)
	assert.Equal(t, 30, cfg.Planning.HorizonDays)
	assert.InDelta(t, 1.65, cfg.Planning.SafetyFactor, 1e-9)
	assert.Equal(t, "pgx", cfg.Database.DriverName())
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, uint64(42), cfg.Planning.NoiseSeed)
}
