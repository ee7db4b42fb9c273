package postgres

import (
	"context"
	"fmt"
)

// schema uses column types understood by both PostgreSQL and SQLite so the
// same repositories run against an embedded database in tests.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		seasonality_factor DOUBLE PRECISION NOT NULL DEFAULT 1.0
	)`,
	`CREATE TABLE IF NOT EXISTS suppliers (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		lead_time_days INTEGER NOT NULL DEFAULT 7,
		reliability_score DOUBLE PRECISION NOT NULL DEFAULT 0.9
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_items (
		id BIGINT PRIMARY KEY,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		category_id BIGINT REFERENCES categories(id),
		supplier_id BIGINT REFERENCES suppliers(id),
		unit_cost NUMERIC(12, 2) NOT NULL DEFAULT 0,
		unit_price NUMERIC(12, 2) NOT NULL DEFAULT 0,
		in_stock INTEGER NOT NULL DEFAULT 0,
		reserved INTEGER NOT NULL DEFAULT 0,
		low_stock_threshold INTEGER NOT NULL DEFAULT 20,
		popularity_score DOUBLE PRECISION NOT NULL DEFAULT 1.0
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_transactions (
		id BIGINT PRIMARY KEY,
		item_id BIGINT NOT NULL REFERENCES inventory_items(id),
		transaction_type TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		transaction_date TIMESTAMP NOT NULL,
		reference_id TEXT,
		notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_transactions_date
		ON inventory_transactions (transaction_date, transaction_type)`,
	`CREATE TABLE IF NOT EXISTS demand_volatility_metrics (
		item_id BIGINT PRIMARY KEY,
		category_id BIGINT,
		coefficient_of_variation DOUBLE PRECISION NOT NULL,
		mean_absolute_deviation DOUBLE PRECISION NOT NULL,
		spikiness DOUBLE PRECISION NOT NULL,
		intermittency DOUBLE PRECISION NOT NULL,
		lumpy_score DOUBLE PRECISION NOT NULL,
		forecast_accuracy DOUBLE PRECISION NOT NULL,
		data_quality_score DOUBLE PRECISION NOT NULL,
		demand_pattern TEXT NOT NULL,
		recommended_method TEXT NOT NULL,
		measured_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_optimization_parameters (
		item_id BIGINT PRIMARY KEY,
		target_service_level DOUBLE PRECISION NOT NULL,
		safety_stock INTEGER NOT NULL,
		reorder_point INTEGER NOT NULL,
		economic_order_quantity INTEGER NOT NULL,
		min_stock_level INTEGER NOT NULL,
		max_stock_level INTEGER NOT NULL,
		order_cycle_days INTEGER NOT NULL,
		lead_time_days INTEGER NOT NULL,
		daily_demand DOUBLE PRECISION NOT NULL,
		demand_std_dev DOUBLE PRECISION NOT NULL,
		order_cost DOUBLE PRECISION NOT NULL,
		holding_cost_rate DOUBLE PRECISION NOT NULL,
		stockout_cost_factor DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS demand_forecasts (
		item_id BIGINT NOT NULL,
		forecast_date DATE NOT NULL,
		days_ahead INTEGER NOT NULL,
		forecast_quantity DOUBLE PRECISION NOT NULL,
		confidence_level DOUBLE PRECISION NOT NULL,
		forecast_method TEXT NOT NULL,
		PRIMARY KEY (item_id, forecast_date)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_planning_scenarios (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		scenario_type TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		service_level DOUBLE PRECISION NOT NULL,
		safety_stock_multiplier DOUBLE PRECISION NOT NULL,
		lead_time_multiplier DOUBLE PRECISION NOT NULL,
		demand_multiplier DOUBLE PRECISION NOT NULL,
		cost_multiplier DOUBLE PRECISION NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		is_baseline BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_planning_scenario_items (
		scenario_id BIGINT NOT NULL,
		item_id BIGINT NOT NULL,
		category_id BIGINT,
		adjusted_safety_stock INTEGER NOT NULL,
		adjusted_reorder_point INTEGER NOT NULL,
		adjusted_order_quantity INTEGER NOT NULL,
		projected_stockouts INTEGER NOT NULL,
		projected_inventory_value NUMERIC(14, 2) NOT NULL,
		projected_service_level DOUBLE PRECISION NOT NULL,
		projected_inventory_turns DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (scenario_id, item_id)
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_performance_metrics (
		item_id BIGINT PRIMARY KEY,
		category_id BIGINT,
		measured_at TIMESTAMP NOT NULL,
		days_of_supply DOUBLE PRECISION NOT NULL,
		inventory_to_sales_ratio DOUBLE PRECISION,
		stockout_days INTEGER NOT NULL,
		fill_rate_percentage DOUBLE PRECISION NOT NULL,
		carrying_cost NUMERIC(14, 2) NOT NULL,
		obsolescence_risk DOUBLE PRECISION NOT NULL,
		service_level_percentage DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS stock_recommendations (
		item_id BIGINT PRIMARY KEY,
		status TEXT NOT NULL,
		in_stock INTEGER NOT NULL,
		suggested_order_quantity INTEGER NOT NULL,
		suggested_reduction INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS reorder_suggestions (
		item_id BIGINT PRIMARY KEY,
		suggested_date DATE NOT NULL,
		suggested_quantity INTEGER NOT NULL,
		urgency_level TEXT NOT NULL,
		days_until_stockout DOUBLE PRECISION NOT NULL,
		expected_lead_time INTEGER NOT NULL,
		suggested_order_date DATE NOT NULL,
		suggested_supplier_id BIGINT NOT NULL,
		status TEXT NOT NULL DEFAULT 'PENDING'
	)`,
	`CREATE TABLE IF NOT EXISTS planning_runs (
		id TEXT PRIMARY KEY,
		pipeline_name TEXT NOT NULL,
		status TEXT NOT NULL,
		items_total INTEGER NOT NULL DEFAULT 0,
		items_processed INTEGER NOT NULL DEFAULT 0,
		items_skipped INTEGER NOT NULL DEFAULT 0,
		scenario_count INTEGER NOT NULL DEFAULT 0,
		data_quality_issues INTEGER NOT NULL DEFAULT 0,
		started_at TIMESTAMP NOT NULL,
		completed_at TIMESTAMP,
		error_message TEXT NOT NULL DEFAULT ''
	)`,
}

// derivedTables are rebuilt on every planning run.
var derivedTables = []string{
	"demand_volatility_metrics",
	"inventory_optimization_parameters",
	"demand_forecasts",
	"inventory_performance_metrics",
	"stock_recommendations",
	"reorder_suggestions",
}

// Migrate creates any missing tables.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
