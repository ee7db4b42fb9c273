package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
)

type planningRepository struct {
	db *DB
}

// NewPlanningRepository creates a repository for the derived planning rows.
func NewPlanningRepository(db *DB) *planningRepository {
	return &planningRepository{db: db}
}

var (
	_ repository.PlanningWriter = (*planningRepository)(nil)
	_ repository.PlanningReader = (*planningRepository)(nil)
)

const (
	insertVolatility = `
		INSERT INTO demand_volatility_metrics (
			item_id, category_id, coefficient_of_variation, mean_absolute_deviation,
			spikiness, intermittency, lumpy_score, forecast_accuracy,
			data_quality_score, demand_pattern, recommended_method, measured_at
		) VALUES (
			:item_id, :category_id, :coefficient_of_variation, :mean_absolute_deviation,
			:spikiness, :intermittency, :lumpy_score, :forecast_accuracy,
			:data_quality_score, :demand_pattern, :recommended_method, :measured_at
		)`

	insertOptimization = `
		INSERT INTO inventory_optimization_parameters (
			item_id, target_service_level, safety_stock, reorder_point,
			economic_order_quantity, min_stock_level, max_stock_level, order_cycle_days,
			lead_time_days, daily_demand, demand_std_dev, order_cost,
			holding_cost_rate, stockout_cost_factor, updated_at
		) VALUES (
			:item_id, :target_service_level, :safety_stock, :reorder_point,
			:economic_order_quantity, :min_stock_level, :max_stock_level, :order_cycle_days,
			:lead_time_days, :daily_demand, :demand_std_dev, :order_cost,
			:holding_cost_rate, :stockout_cost_factor, :updated_at
		)`

	insertForecast = `
		INSERT INTO demand_forecasts (
			item_id, forecast_date, days_ahead, forecast_quantity, confidence_level, forecast_method
		) VALUES (
			:item_id, :forecast_date, :days_ahead, :forecast_quantity, :confidence_level, :forecast_method
		)`

	insertScenario = `
		INSERT INTO inventory_planning_scenarios (
			id, name, scenario_type, description, service_level, safety_stock_multiplier,
			lead_time_multiplier, demand_multiplier, cost_multiplier, notes, is_baseline
		) VALUES (
			:id, :name, :scenario_type, :description, :service_level, :safety_stock_multiplier,
			:lead_time_multiplier, :demand_multiplier, :cost_multiplier, :notes, :is_baseline
		)`

	insertProjection = `
		INSERT INTO inventory_planning_scenario_items (
			scenario_id, item_id, category_id, adjusted_safety_stock, adjusted_reorder_point,
			adjusted_order_quantity, projected_stockouts, projected_inventory_value,
			projected_service_level, projected_inventory_turns
		) VALUES (
			:scenario_id, :item_id, :category_id, :adjusted_safety_stock, :adjusted_reorder_point,
			:adjusted_order_quantity, :projected_stockouts, :projected_inventory_value,
			:projected_service_level, :projected_inventory_turns
		)`

	insertPerformance = `
		INSERT INTO inventory_performance_metrics (
			item_id, category_id, measured_at, days_of_supply, inventory_to_sales_ratio,
			stockout_days, fill_rate_percentage, carrying_cost, obsolescence_risk,
			service_level_percentage
		) VALUES (
			:item_id, :category_id, :measured_at, :days_of_supply, :inventory_to_sales_ratio,
			:stockout_days, :fill_rate_percentage, :carrying_cost, :obsolescence_risk,
			:service_level_percentage
		)`

	insertRecommendation = `
		INSERT INTO stock_recommendations (
			item_id, status, in_stock, suggested_order_quantity, suggested_reduction
		) VALUES (
			:item_id, :status, :in_stock, :suggested_order_quantity, :suggested_reduction
		)`

	insertSuggestion = `
		INSERT INTO reorder_suggestions (
			item_id, suggested_date, suggested_quantity, urgency_level, days_until_stockout,
			expected_lead_time, suggested_order_date, suggested_supplier_id, status
		) VALUES (
			:item_id, :suggested_date, :suggested_quantity, :urgency_level, :days_until_stockout,
			:expected_lead_time, :suggested_order_date, :suggested_supplier_id, :status
		)`
)

// ReplacePlan writes a planning run atomically. Rows for every item in
// plan.ItemIDs are dropped first, so an item skipped in this run loses the
// rows it had from an earlier one. The scenario set is replaced wholesale.
func (r *planningRepository) ReplacePlan(ctx context.Context, plan *domain.Plan) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, table := range derivedTables {
			if err := deleteByItem(ctx, tx, table, plan.ItemIDs); err != nil {
				return err
			}
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM inventory_planning_scenario_items"); err != nil {
			return fmt.Errorf("failed to clear scenario items: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM inventory_planning_scenarios"); err != nil {
			return fmt.Errorf("failed to clear scenarios: %w", err)
		}

		steps := []struct {
			name string
			run  func() error
		}{
			{"volatility metrics", func() error { return insertAll(ctx, tx, insertVolatility, plan.Profiles) }},
			{"optimization parameters", func() error { return insertAll(ctx, tx, insertOptimization, plan.Parameters) }},
			{"forecasts", func() error { return insertAll(ctx, tx, insertForecast, plan.Forecasts) }},
			{"scenarios", func() error { return insertAll(ctx, tx, insertScenario, plan.Scenarios) }},
			{"scenario items", func() error { return insertAll(ctx, tx, insertProjection, plan.Projections) }},
			{"performance metrics", func() error { return insertAll(ctx, tx, insertPerformance, plan.Performance) }},
			{"recommendations", func() error { return insertAll(ctx, tx, insertRecommendation, plan.Recommendations) }},
			{"reorder suggestions", func() error { return insertAll(ctx, tx, insertSuggestion, plan.Suggestions) }},
		}
		for _, step := range steps {
			if err := step.run(); err != nil {
				return fmt.Errorf("failed to insert %s: %w", step.name, err)
			}
		}
		return nil
	})
}

func (r *planningRepository) ListVolatilityProfiles(ctx context.Context) ([]domain.VolatilityProfile, error) {
	query := `
		SELECT item_id, COALESCE(category_id, 0) AS category_id, coefficient_of_variation,
		       mean_absolute_deviation, spikiness, intermittency, lumpy_score,
		       forecast_accuracy, data_quality_score, demand_pattern, recommended_method,
		       measured_at
		FROM demand_volatility_metrics
		ORDER BY item_id
	`
	var profiles []domain.VolatilityProfile
	if err := r.db.SelectContext(ctx, &profiles, query); err != nil {
		return nil, fmt.Errorf("failed to list volatility metrics: %w", err)
	}
	return profiles, nil
}

func (r *planningRepository) ListOptimizationParameters(ctx context.Context) ([]domain.OptimizationParameters, error) {
	query := `
		SELECT item_id, target_service_level, safety_stock, reorder_point,
		       economic_order_quantity, min_stock_level, max_stock_level, order_cycle_days,
		       lead_time_days, daily_demand, demand_std_dev, order_cost,
		       holding_cost_rate, stockout_cost_factor, updated_at
		FROM inventory_optimization_parameters
		ORDER BY item_id
	`
	var params []domain.OptimizationParameters
	if err := r.db.SelectContext(ctx, &params, query); err != nil {
		return nil, fmt.Errorf("failed to list optimization parameters: %w", err)
	}
	return params, nil
}

func (r *planningRepository) ListForecasts(ctx context.Context, itemID int64) ([]domain.ForecastPoint, error) {
	query := r.db.Rebind(`
		SELECT item_id, forecast_date, days_ahead, forecast_quantity, confidence_level, forecast_method
		FROM demand_forecasts
		WHERE item_id = ?
		ORDER BY forecast_date
	`)
	var points []domain.ForecastPoint
	if err := r.db.SelectContext(ctx, &points, query, itemID); err != nil {
		return nil, fmt.Errorf("failed to list forecasts for item %d: %w", itemID, err)
	}
	return points, nil
}

func (r *planningRepository) ListScenarios(ctx context.Context) ([]domain.Scenario, error) {
	query := `
		SELECT id, name, scenario_type, description, service_level, safety_stock_multiplier,
		       lead_time_multiplier, demand_multiplier, cost_multiplier, notes, is_baseline
		FROM inventory_planning_scenarios
		ORDER BY id
	`
	var scenarios []domain.Scenario
	if err := r.db.SelectContext(ctx, &scenarios, query); err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	return scenarios, nil
}

func (r *planningRepository) ListProjections(ctx context.Context, scenarioID int64) ([]domain.ScenarioProjection, error) {
	query := r.db.Rebind(`
		SELECT scenario_id, item_id, COALESCE(category_id, 0) AS category_id,
		       adjusted_safety_stock, adjusted_reorder_point, adjusted_order_quantity,
		       projected_stockouts, projected_inventory_value, projected_service_level,
		       projected_inventory_turns
		FROM inventory_planning_scenario_items
		WHERE scenario_id = ?
		ORDER BY item_id
	`)
	var rows []domain.ScenarioProjection
	if err := r.db.SelectContext(ctx, &rows, query, scenarioID); err != nil {
		return nil, fmt.Errorf("failed to list projections for scenario %d: %w", scenarioID, err)
	}
	return rows, nil
}

func (r *planningRepository) ListRecommendations(ctx context.Context, statuses ...domain.StockStatus) ([]domain.StockRecommendation, error) {
	query := `
		SELECT item_id, status, in_stock, suggested_order_quantity, suggested_reduction
		FROM stock_recommendations
	`
	var args []interface{}
	if len(statuses) > 0 {
		query += " WHERE status IN (?)"
		args = append(args, statuses)
	}
	query += " ORDER BY item_id"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build recommendation query: %w", err)
	}

	var recs []domain.StockRecommendation
	if err := r.db.SelectContext(ctx, &recs, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return recs, nil
}

// ListReorderSuggestions returns pending purchase suggestions, most urgent first.
func (r *planningRepository) ListReorderSuggestions(ctx context.Context, urgencies ...domain.Urgency) ([]domain.ReorderSuggestion, error) {
	query := `
		SELECT item_id, suggested_date, suggested_quantity, urgency_level, days_until_stockout,
		       expected_lead_time, suggested_order_date, suggested_supplier_id, status
		FROM reorder_suggestions
	`
	var args []interface{}
	if len(urgencies) > 0 {
		query += " WHERE urgency_level IN (?)"
		args = append(args, urgencies)
	}
	query += `
		ORDER BY CASE urgency_level WHEN 'Critical' THEN 0 WHEN 'Warning' THEN 1 ELSE 2 END,
		         days_until_stockout, item_id`

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion query: %w", err)
	}

	var suggestions []domain.ReorderSuggestion
	if err := r.db.SelectContext(ctx, &suggestions, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list reorder suggestions: %w", err)
	}
	return suggestions, nil
}
