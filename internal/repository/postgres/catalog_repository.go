package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/repository"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type catalogRepository struct {
	db *DB
}

// NewCatalogRepository creates a catalog reader/writer backed by db.
func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

var (
	_ repository.CatalogReader = (*catalogRepository)(nil)
	_ repository.CatalogWriter = (*catalogRepository)(nil)
)

type itemRow struct {
	ID                  int64           `db:"id"`
	SKU                 string          `db:"sku"`
	Name                string          `db:"name"`
	CategoryID          sql.NullInt64   `db:"category_id"`
	SupplierID          sql.NullInt64   `db:"supplier_id"`
	UnitCost            decimal.Decimal `db:"unit_cost"`
	UnitPrice           decimal.Decimal `db:"unit_price"`
	InStock             int             `db:"in_stock"`
	Reserved            int             `db:"reserved"`
	LowStockThreshold   int             `db:"low_stock_threshold"`
	PopularityScore     float64         `db:"popularity_score"`
	CategoryName        sql.NullString  `db:"category_name"`
	CategoryDescription sql.NullString  `db:"category_description"`
	SeasonalityFactor   sql.NullFloat64 `db:"seasonality_factor"`
	SupplierName        sql.NullString  `db:"supplier_name"`
	LeadTimeDays        sql.NullInt64   `db:"lead_time_days"`
	ReliabilityScore    sql.NullFloat64 `db:"reliability_score"`
}

func (r itemRow) toDomain() domain.Item {
	item := domain.Item{
		ID:                r.ID,
		SKU:               r.SKU,
		Name:              r.Name,
		UnitCost:          r.UnitCost,
		UnitPrice:         r.UnitPrice,
		InStock:           r.InStock,
		Reserved:          r.Reserved,
		LowStockThreshold: r.LowStockThreshold,
		PopularityScore:   r.PopularityScore,
	}

	if r.CategoryID.Valid {
		item.CategoryID = r.CategoryID.Int64
		if r.CategoryName.Valid {
			item.Category = &domain.Category{
				ID:                r.CategoryID.Int64,
				Name:              r.CategoryName.String,
				Description:       r.CategoryDescription.String,
				SeasonalityFactor: r.SeasonalityFactor.Float64,
			}
		}
	}

	if r.SupplierID.Valid {
		id := r.SupplierID.Int64
		item.SupplierID = &id
		if r.SupplierName.Valid {
			item.Supplier = &domain.Supplier{
				ID:               id,
				Name:             r.SupplierName.String,
				LeadTimeDays:     int(r.LeadTimeDays.Int64),
				ReliabilityScore: r.ReliabilityScore.Float64,
			}
		}
	}

	return item
}

func (r *catalogRepository) ListItems(ctx context.Context) ([]domain.Item, error) {
	query := `
		SELECT i.id, i.sku, i.name, i.category_id, i.supplier_id,
		       i.unit_cost, i.unit_price, i.in_stock, i.reserved,
		       i.low_stock_threshold, i.popularity_score,
		       c.name AS category_name, c.description AS category_description,
		       c.seasonality_factor,
		       s.name AS supplier_name, s.lead_time_days, s.reliability_score
		FROM inventory_items i
		LEFT JOIN categories c ON c.id = i.category_id
		LEFT JOIN suppliers s ON s.id = i.supplier_id
		ORDER BY i.id
	`

	var rows []itemRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	items := make([]domain.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *catalogRepository) ListTransactionsSince(ctx context.Context, since time.Time, types ...domain.TransactionType) ([]domain.Transaction, error) {
	query := `
		SELECT id, item_id, transaction_type, quantity, transaction_date,
		       COALESCE(reference_id, '') AS reference_id,
		       COALESCE(notes, '') AS notes
		FROM inventory_transactions
		WHERE transaction_date >= ?
	`
	args := []interface{}{since.UTC()}

	if len(types) > 0 {
		query += " AND transaction_type IN (?)"
		args = append(args, types)
	}
	query += " ORDER BY item_id, transaction_date, id"

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build transaction query: %w", err)
	}

	var txns []domain.Transaction
	if err := r.db.SelectContext(ctx, &txns, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txns, nil
}

func (r *catalogRepository) ReplaceCatalog(ctx context.Context, catalog *domain.Catalog) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		tables := []string{"inventory_transactions"}
		tables = append(tables, derivedTables...)
		tables = append(tables,
			"inventory_planning_scenario_items",
			"inventory_planning_scenarios",
			"inventory_items",
			"suppliers",
			"categories",
		)
		for _, table := range tables {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}

		if err := insertAll(ctx, tx, `
			INSERT INTO categories (id, name, description, seasonality_factor)
			VALUES (:id, :name, :description, :seasonality_factor)`, catalog.Categories); err != nil {
			return fmt.Errorf("failed to insert categories: %w", err)
		}

		if err := insertAll(ctx, tx, `
			INSERT INTO suppliers (id, name, lead_time_days, reliability_score)
			VALUES (:id, :name, :lead_time_days, :reliability_score)`, catalog.Suppliers); err != nil {
			return fmt.Errorf("failed to insert suppliers: %w", err)
		}

		if err := insertAll(ctx, tx, `
			INSERT INTO inventory_items (
				id, sku, name, category_id, supplier_id, unit_cost, unit_price,
				in_stock, reserved, low_stock_threshold, popularity_score
			) VALUES (
				:id, :sku, :name, :category_id, :supplier_id, :unit_cost, :unit_price,
				:in_stock, :reserved, :low_stock_threshold, :popularity_score
			)`, catalog.Items); err != nil {
			return fmt.Errorf("failed to insert items: %w", err)
		}

		if err := insertAll(ctx, tx, `
			INSERT INTO inventory_transactions (
				id, item_id, transaction_type, quantity, transaction_date, reference_id, notes
			) VALUES (
				:id, :item_id, :transaction_type, :quantity, :transaction_date, :reference_id, :notes
			)`, catalog.Transactions); err != nil {
			return fmt.Errorf("failed to insert transactions: %w", err)
		}

		return nil
	})
}
