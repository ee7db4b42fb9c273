package pipeline

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// RunStore persists planning run records.
type RunStore interface {
	CreatePlanningRun(ctx context.Context, run *PlanningRun) error
	UpdatePlanningRun(ctx context.Context, run *PlanningRun) error
}

// Repository handles database operations for pipeline tracking
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new pipeline repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

var _ RunStore = (*Repository)(nil)

// CreatePlanningRun creates a new planning run record
func (r *Repository) CreatePlanningRun(ctx context.Context, run *PlanningRun) error {
	query := `
		INSERT INTO planning_runs (
			id, pipeline_name, status, items_total, items_processed, items_skipped,
			scenario_count, data_quality_issues, started_at, completed_at, error_message
		) VALUES (
			:id, :pipeline_name, :status, :items_total, :items_processed, :items_skipped,
			:scenario_count, :data_quality_issues, :started_at, :completed_at, :error_message
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

// UpdatePlanningRun updates an existing planning run
func (r *Repository) UpdatePlanningRun(ctx context.Context, run *PlanningRun) error {
	query := `
		UPDATE planning_runs
		SET status = :status, items_total = :items_total, items_processed = :items_processed,
		    items_skipped = :items_skipped, scenario_count = :scenario_count,
		    data_quality_issues = :data_quality_issues, completed_at = :completed_at,
		    error_message = :error_message
		WHERE id = :id
	`

	_, err := r.db.NamedExecContext(ctx, query, run)
	return err
}

// GetPlanningRun retrieves a planning run by ID
func (r *Repository) GetPlanningRun(ctx context.Context, id string) (*PlanningRun, error) {
	query := r.db.Rebind(`
		SELECT id, pipeline_name, status, items_total, items_processed, items_skipped,
		       scenario_count, data_quality_issues, started_at, completed_at, error_message
		FROM planning_runs
		WHERE id = ?
	`)

	run := &PlanningRun{}
	err := r.db.GetContext(ctx, run, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return run, nil
}

// ListRecentRuns retrieves the most recent runs of a pipeline, newest first
func (r *Repository) ListRecentRuns(ctx context.Context, pipelineName string, since time.Time, limit int) ([]*PlanningRun, error) {
	if limit <= 0 {
		limit = 20
	}

	query := r.db.Rebind(`
		SELECT id, pipeline_name, status, items_total, items_processed, items_skipped,
		       scenario_count, data_quality_issues, started_at, completed_at, error_message
		FROM planning_runs
		WHERE pipeline_name = ? AND started_at >= ?
		ORDER BY started_at DESC
		LIMIT ?
	`)

	var runs []*PlanningRun
	if err := r.db.SelectContext(ctx, &runs, query, pipelineName, since.UTC(), limit); err != nil {
		return nil, err
	}

	return runs, nil
}
