package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/cache"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/demand"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/forecast"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/optimization"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/performance"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/scenario"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository"
	"github.com/andresuchdata/stockplan/backend-go/internal/storage"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Dependencies are the ports an Orchestrator reads from and writes to.
// Cache, Storage, Noise and Now are optional.
type Dependencies struct {
	Catalog repository.CatalogReader
	Writer  repository.PlanningWriter
	Runs    RunStore
	Cache   cache.PlanningCache
	Storage storage.ObjectStorage
	Noise   forecast.Noise
	Now     func() time.Time
	Log     zerolog.Logger
}

// Orchestrator runs one full planning pass over the catalog.
type Orchestrator struct {
	deps   Dependencies
	cfg    PipelineConfig
	params optimization.Params
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(cfg PipelineConfig, params optimization.Params, deps Dependencies) *Orchestrator {
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopPlanningCache()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Noise == nil {
		deps.Noise = forecast.NewUniformNoise(cfg.NoiseSeed)
	}
	if cfg.Name == "" {
		cfg.Name = PipelineName
	}

	return &Orchestrator{
		deps:   deps,
		cfg:    cfg,
		params: params,
	}
}

// Run executes the pipeline and records its outcome in the run store. Any
// catalog or writer failure aborts the run and marks it failed; nothing is
// written in that case.
func (o *Orchestrator) Run(ctx context.Context) (*RunSummary, error) {
	log := o.deps.Log
	started := o.deps.Now().UTC()

	run := &PlanningRun{
		ID:           uuid.NewString(),
		PipelineName: o.cfg.Name,
		Status:       StatusPending,
		StartedAt:    started,
	}
	if err := o.deps.Runs.CreatePlanningRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create planning run: %w", err)
	}

	log.Info().Str("run_id", run.ID).Msg("planning: run started")

	// Every component sees the run start as "now".
	clock := func() time.Time { return started }
	summary, err := o.execute(ctx, run, clock)

	completed := o.deps.Now().UTC()
	run.CompletedAt = &completed

	if err != nil {
		run.Status = StatusFailed
		run.ErrorMessage = err.Error()
		if uerr := o.deps.Runs.UpdatePlanningRun(context.WithoutCancel(ctx), run); uerr != nil {
			log.Error().Err(uerr).Str("run_id", run.ID).Msg("planning: failed to record run failure")
		}
		log.Error().Err(err).Str("run_id", run.ID).Msg("planning: run failed")
		return nil, err
	}

	run.Status = StatusCompleted
	if err := o.deps.Runs.UpdatePlanningRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to complete planning run: %w", err)
	}

	summary.Run = *run
	summary.Duration = completed.Sub(started)
	o.publish(ctx, summary)

	log.Info().
		Str("run_id", run.ID).
		Int("items", run.ItemsProcessed).
		Int("skipped", run.ItemsSkipped).
		Int("scenarios", run.ScenarioCount).
		Dur("duration", summary.Duration).
		Msg("planning: run completed")

	return summary, nil
}

func (o *Orchestrator) execute(ctx context.Context, run *PlanningRun, clock func() time.Time) (*RunSummary, error) {
	log := o.deps.Log

	run.Status = StatusProcessing
	if err := o.deps.Runs.UpdatePlanningRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to update planning run: %w", err)
	}

	items, err := o.deps.Catalog.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNoItems
	}
	run.ItemsTotal = len(items)

	calc := optimization.NewCalculator(o.params, clock)
	worker := NewWorker(o.cfg, calc, clock, log)

	txns, err := o.deps.Catalog.ListTransactionsSince(ctx, worker.WindowStart())
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	history := demand.GroupByItem(txns)

	alternates, err := o.alternates()
	if err != nil {
		return nil, err
	}
	projector := scenario.NewProjector(calc, o.cfg.HonorLeadTime, log)
	scenarios, rejected := projector.Prepare(alternates)

	results, skipped, err := worker.ProcessItems(ctx, items, history)
	if err != nil {
		return nil, fmt.Errorf("failed to process items: %w", err)
	}

	summary := &RunSummary{
		Skipped:       skipped,
		StatusCounts:  make(map[string]int),
		PatternCounts: make(map[string]int),
	}
	for _, r := range rejected {
		summary.RejectedScenarios = append(summary.RejectedScenarios, r.Error())
	}

	plan := o.assemble(items, results, scenarios, projector, summary, clock)

	if err := o.deps.Writer.ReplacePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to write plan: %w", err)
	}

	run.ItemsProcessed = len(plan.Parameters)
	run.ItemsSkipped = len(skipped)
	run.ScenarioCount = len(scenarios)
	run.DataQualityIssues = len(summary.DataQuality)
	summary.ForecastPoints = len(plan.Forecasts)
	summary.Projections = len(plan.Projections)
	summary.Suggestions = len(plan.Suggestions)

	return summary, nil
}

// assemble collects the per-item results into a plan. Forecasting and
// projection run here, sequentially, because the noise source is shared.
func (o *Orchestrator) assemble(items []domain.Item, results []*ItemResult, scenarios []domain.Scenario, projector *scenario.Projector, summary *RunSummary, clock func() time.Time) *domain.Plan {
	generator := forecast.NewGenerator(o.cfg.HorizonDays, o.deps.Noise, clock)

	plan := &domain.Plan{
		GeneratedAt: clock(),
		ItemIDs:     make([]int64, 0, len(items)),
		Scenarios:   scenarios,
	}
	for _, item := range items {
		plan.ItemIDs = append(plan.ItemIDs, item.ID)
	}

	inputs := make([]scenario.ItemInput, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}

		plan.Profiles = append(plan.Profiles, res.Profile)
		plan.Parameters = append(plan.Parameters, res.Parameters)
		plan.Performance = append(plan.Performance, res.Performance)
		plan.Recommendations = append(plan.Recommendations, res.Recommendation)
		if res.Suggestion != nil {
			plan.Suggestions = append(plan.Suggestions, *res.Suggestion)
		}
		plan.Forecasts = append(plan.Forecasts, generator.Generate(forecast.InputFor(res.Item, res.Stats))...)

		for _, issue := range res.Issues {
			summary.DataQuality = append(summary.DataQuality, issue.Error())
		}
		summary.StatusCounts[string(res.Recommendation.Status)]++
		summary.PatternCounts[string(res.Profile.Pattern)]++

		serviceLevel := performance.ServiceLevelFraction(res.Performance)
		inputs = append(inputs, scenario.ItemInput{
			Item:          res.Item,
			Params:        res.Parameters,
			Optimization:  res.Input,
			Intermittency: res.Profile.Intermittency,
			SalesVolume:   res.Stats.SalesVolume,
			ServiceLevel:  &serviceLevel,
		})
	}

	plan.Projections = projector.ProjectAll(scenarios, inputs)
	return plan
}

func (o *Orchestrator) alternates() ([]domain.Scenario, error) {
	if o.cfg.ScenariosFile == "" {
		return scenario.DefaultAlternates(), nil
	}

	alternates, err := scenario.LoadFile(o.cfg.ScenariosFile)
	if err != nil {
		return nil, err
	}
	return alternates, nil
}

// publish refreshes the cache and uploads the run report. Failures here do
// not fail a run whose rows are already committed.
func (o *Orchestrator) publish(ctx context.Context, summary *RunSummary) {
	log := o.deps.Log.With().Str("run_id", summary.Run.ID).Logger()

	if err := o.deps.Cache.InvalidateAll(ctx); err != nil {
		log.Warn().Err(err).Msg("planning: cache invalidation failed")
	}

	snapshot := cache.RunSnapshot{
		RunID:             summary.Run.ID,
		Status:            string(summary.Run.Status),
		ItemsTotal:        summary.Run.ItemsTotal,
		ItemsProcessed:    summary.Run.ItemsProcessed,
		ItemsSkipped:      summary.Run.ItemsSkipped,
		ScenarioCount:     summary.Run.ScenarioCount,
		DataQualityIssues: summary.Run.DataQualityIssues,
	}
	if summary.Run.CompletedAt != nil {
		snapshot.CompletedAt = *summary.Run.CompletedAt
	}
	if err := o.deps.Cache.SetLastRun(ctx, snapshot); err != nil {
		log.Warn().Err(err).Msg("planning: failed to cache run summary")
	}

	if o.deps.Storage == nil {
		return
	}

	payload, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("planning: failed to encode run report")
		return
	}

	key := storage.RunReportKey(o.cfg.ReportPrefix, summary.Run.ID)
	if err := o.deps.Storage.UploadObject(ctx, key, payload); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("planning: failed to upload run report")
		return
	}
	log.Info().Str("key", key).Msg("planning: run report uploaded")
}
