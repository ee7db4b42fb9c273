package pipeline

import (
	"runtime"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
)

// PipelineName identifies planning runs in the planning_runs table.
const PipelineName = "inventory_planning"

// PipelineConfig holds configuration for a planning run
type PipelineConfig struct {
	Name          string
	WorkerCount   int    // Number of concurrent per-item workers
	WindowDays    int    // Trailing history window
	HorizonDays   int    // Forecast horizon
	ScenariosFile string // Optional YAML with alternate scenarios
	HonorLeadTime bool   // Recompute parameters under a scaled lead time
	NoiseSeed     uint64 // Forecast noise seed, 0 seeds from the clock
	ReportPrefix  string // Object storage prefix for run reports
}

// DefaultPipelineConfig returns sensible defaults
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Name:        PipelineName,
		WorkerCount: runtime.NumCPU(),
		WindowDays:  90,
		HorizonDays: 30,
		NoiseSeed:   42,
	}
}

// ConfigFromPlanning maps the environment settings onto a pipeline config.
func ConfigFromPlanning(cfg config.PlanningConfig, storage config.StorageConfig) PipelineConfig {
	p := DefaultPipelineConfig()
	if cfg.Workers > 0 {
		p.WorkerCount = cfg.Workers
	}
	if cfg.LookbackDays > 0 {
		p.WindowDays = cfg.LookbackDays
	}
	if cfg.HorizonDays > 0 {
		p.HorizonDays = cfg.HorizonDays
	}
	p.ScenariosFile = cfg.ScenariosFile
	p.HonorLeadTime = cfg.HonorLeadTime
	p.NoiseSeed = cfg.NoiseSeed
	p.ReportPrefix = storage.Prefix
	return p
}

// PipelineStatus represents the current state of a pipeline run
type PipelineStatus string

const (
	StatusPending    PipelineStatus = "pending"
	StatusProcessing PipelineStatus = "processing"
	StatusCompleted  PipelineStatus = "completed"
	StatusFailed     PipelineStatus = "failed"
)

// PlanningRun tracks a single execution of the planning pipeline
type PlanningRun struct {
	ID                string         `json:"id" db:"id"`
	PipelineName      string         `json:"pipeline_name" db:"pipeline_name"`
	Status            PipelineStatus `json:"status" db:"status"`
	ItemsTotal        int            `json:"items_total" db:"items_total"`
	ItemsProcessed    int            `json:"items_processed" db:"items_processed"`
	ItemsSkipped      int            `json:"items_skipped" db:"items_skipped"`
	ScenarioCount     int            `json:"scenario_count" db:"scenario_count"`
	DataQualityIssues int            `json:"data_quality_issues" db:"data_quality_issues"`
	StartedAt         time.Time      `json:"started_at" db:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty" db:"completed_at"`
	ErrorMessage      string         `json:"error_message,omitempty" db:"error_message"`
}

// ItemFailure records an item that produced no rows.
type ItemFailure struct {
	ItemID int64  `json:"item_id"`
	Reason string `json:"reason"`
}

// RunSummary is returned by a planning run and uploaded as its report.
type RunSummary struct {
	Run               PlanningRun    `json:"run"`
	Skipped           []ItemFailure  `json:"skipped,omitempty"`
	RejectedScenarios []string       `json:"rejected_scenarios,omitempty"`
	DataQuality       []string       `json:"data_quality,omitempty"`
	StatusCounts      map[string]int `json:"status_counts"`
	PatternCounts     map[string]int `json:"pattern_counts"`
	ForecastPoints    int            `json:"forecast_points"`
	Projections       int            `json:"projections"`
	Suggestions       int            `json:"reorder_suggestions"`
	Duration          time.Duration  `json:"duration_ns"`
}
