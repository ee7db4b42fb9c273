package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/demand"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 31, 15, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func smallConfig(seed uint64) config.GeneratorConfig {
	return config.GeneratorConfig{Seed: seed, Suppliers: 6, Items: 40, Transactions: 2000}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := New(smallConfig(7), clock).Generate()
	b := New(smallConfig(7), clock).Generate()
	assert.Equal(t, a, b)

	c := New(smallConfig(8), clock).Generate()
	assert.NotEqual(t, a.Items[0].SKU+a.Items[1].SKU, c.Items[0].SKU+c.Items[1].SKU)
}

func TestGenerate_Counts(t *testing.T) {
	cat := New(smallConfig(1), clock).Generate()

	assert.Len(t, cat.Categories, 5)
	assert.Len(t, cat.Suppliers, 6)
	assert.Len(t, cat.Items, 40)
	assert.Len(t, cat.Transactions, 2000)

	def := New(config.GeneratorConfig{Seed: 1, Transactions: 0}, clock).Generate()
	assert.Len(t, def.Suppliers, 15)
	assert.Len(t, def.Items, 500)
	assert.Empty(t, def.Transactions)
}

func TestGenerate_Categories(t *testing.T) {
	cat := New(smallConfig(1), clock).Generate()

	factors := map[string]float64{}
	for _, c := range cat.Categories {
		factors[c.Name] = c.SeasonalityFactor
	}
	assert.Equal(t, map[string]float64{
		"Accessories": 1.1, "Audio": 1.2, "Peripherals": 1.0, "Power": 1.3, "Printing": 0.9,
	}, factors)
}

func TestGenerate_Suppliers(t *testing.T) {
	cat := New(config.GeneratorConfig{Seed: 3, Suppliers: 200, Items: 1}, clock).Generate()

	for _, s := range cat.Suppliers {
		assert.GreaterOrEqual(t, s.LeadTimeDays, 3, s.Name)
		assert.LessOrEqual(t, s.LeadTimeDays, 60, s.Name)
		assert.GreaterOrEqual(t, s.ReliabilityScore, 0.65, s.Name)
		assert.LessOrEqual(t, s.ReliabilityScore, 0.98, s.Name)
		assert.True(t, strings.HasSuffix(s.Name, " Supply"), s.Name)
		if strings.Contains(s.Name, " Local ") {
			assert.Equal(t, 3, s.LeadTimeDays)
			assert.Equal(t, 0.98, s.ReliabilityScore)
		}
	}
}

func TestGenerate_Items(t *testing.T) {
	cat := New(config.GeneratorConfig{Seed: 5, Items: 300, Suppliers: 4}, clock).Generate()

	skus := map[string]bool{}
	for _, item := range cat.Items {
		require.Len(t, item.SKU, 10)
		assert.Equal(t, strings.ToUpper(item.SKU), item.SKU)
		assert.False(t, skus[item.SKU], "duplicate sku %s", item.SKU)
		skus[item.SKU] = true

		assert.True(t, item.UnitCost.IsPositive())
		assert.True(t, item.UnitPrice.GreaterThanOrEqual(item.UnitCost))
		assert.GreaterOrEqual(t, item.InStock, 0)
		assert.LessOrEqual(t, item.Reserved, 20)
		assert.GreaterOrEqual(t, item.LowStockThreshold, 10)
		assert.LessOrEqual(t, item.LowStockThreshold, 50)
		assert.GreaterOrEqual(t, item.PopularityScore, 0.5)
		assert.LessOrEqual(t, item.PopularityScore, 2.0)

		require.NotNil(t, item.Category)
		require.NotNil(t, item.SupplierID)
		assert.Equal(t, item.CategoryID, item.Category.ID)
		assert.Equal(t, *item.SupplierID, item.Supplier.ID)
		assert.NotEmpty(t, item.Name)
	}
}

func TestGenerate_StockMatchesTransactions(t *testing.T) {
	cat := New(smallConfig(17), clock).Generate()

	net := map[int64]int{}
	for _, txn := range cat.Transactions {
		net[txn.ItemID] += txn.Quantity
	}
	require.NotEmpty(t, net)

	for _, item := range cat.Items {
		if item.InStock == 0 {
			assert.LessOrEqual(t, net[item.ID], 0, "item %d ran out, so movements cannot be net positive", item.ID)
			continue
		}
		opening := item.InStock - net[item.ID]
		assert.GreaterOrEqual(t, opening, 0, "item %d", item.ID)
		assert.LessOrEqual(t, opening, 200, "item %d", item.ID)
	}
}

func TestGenerate_TransactionsInsideWindow(t *testing.T) {
	cat := New(smallConfig(11), clock).Generate()
	start := demand.NewExtractor(WindowDays, clock).WindowStart()

	for _, txn := range cat.Transactions {
		assert.False(t, txn.OccurredAt.Before(start), "txn %d at %s", txn.ID, txn.OccurredAt)
		assert.False(t, txn.OccurredAt.After(fixedNow), "txn %d at %s", txn.ID, txn.OccurredAt)
		assert.Equal(t, txn.OccurredAt.Truncate(time.Second), txn.OccurredAt)
	}
}

func TestGenerate_TransactionSigns(t *testing.T) {
	cat := New(smallConfig(13), clock).Generate()

	seen := map[domain.TransactionType]int{}
	for _, txn := range cat.Transactions {
		seen[txn.Type]++
		switch txn.Type {
		case domain.TransactionSale:
			assert.Less(t, txn.Quantity, 0)
			assert.True(t, strings.HasPrefix(txn.ReferenceID, "ORD-"))
			assert.Empty(t, txn.Notes)
		case domain.TransactionDamaged, domain.TransactionTransferOut:
			assert.Less(t, txn.Quantity, 0)
		case domain.TransactionReturn, domain.TransactionTransferIn:
			assert.Greater(t, txn.Quantity, 0)
		}
		if txn.Type != domain.TransactionSale {
			assert.True(t, strings.HasPrefix(txn.ReferenceID, "REF-"))
			assert.NotEmpty(t, txn.Notes)
		}
		assert.Len(t, txn.ReferenceID, 12)
	}

	// Sales dominate the weighted mix
	assert.Greater(t, seen[domain.TransactionSale], len(cat.Transactions)/2)
	assert.Len(t, seen, 6)
}
