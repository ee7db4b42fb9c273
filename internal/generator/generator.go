// Package generator builds a deterministic demo catalog: categories,
// suppliers, items and a trailing window of stock movements.
package generator

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/config"
	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// WindowDays is the span of generated transaction history.
const WindowDays = 90

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces catalogs from a seeded random source. It is not safe
// for concurrent use.
type Generator struct {
	cfg config.GeneratorConfig
	rng *rand.Rand
	now func() time.Time
}

// New creates a generator. Non-positive supplier or item counts and a negative
// transaction count fall back to DefaultGenerator.
func New(cfg config.GeneratorConfig, now func() time.Time) *Generator {
	def := config.DefaultGenerator()
	if cfg.Suppliers <= 0 {
		cfg.Suppliers = def.Suppliers
	}
	if cfg.Items <= 0 {
		cfg.Items = def.Items
	}
	if cfg.Transactions < 0 {
		cfg.Transactions = def.Transactions
	}
	if now == nil {
		now = time.Now
	}

	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5851f42d4c957f2d)),
		now: now,
	}
}

// Generate returns a complete catalog with IDs assigned from 1.
func (g *Generator) Generate() *domain.Catalog {
	categories := g.categories()
	suppliers := g.suppliers()
	items := g.items(categories, suppliers)
	transactions := g.transactions(items)
	settleStock(items, transactions)

	return &domain.Catalog{
		Categories:   categories,
		Suppliers:    suppliers,
		Items:        items,
		Transactions: transactions,
	}
}

// settleStock treats each item's drawn stock as the opening balance of the
// window and applies its movements, so in_stock agrees with the history.
func settleStock(items []domain.Item, transactions []domain.Transaction) {
	net := make(map[int64]int, len(items))
	for _, txn := range transactions {
		net[txn.ItemID] += txn.Quantity
	}
	for i := range items {
		items[i].InStock = max(0, items[i].InStock+net[items[i].ID])
	}
}

func (g *Generator) categories() []domain.Category {
	out := make([]domain.Category, len(categorySeeds))
	for i, c := range categorySeeds {
		out[i] = domain.Category{
			ID:                int64(i + 1),
			Name:              c.name,
			Description:       c.description,
			SeasonalityFactor: c.seasonality,
		}
	}
	return out
}

func (g *Generator) suppliers() []domain.Supplier {
	out := make([]domain.Supplier, g.cfg.Suppliers)
	for i := range out {
		loc := pick(g.rng, supplierLocations)

		lead, reliability := 3, 0.98
		switch loc {
		case "Regional":
			lead, reliability = g.intBetween(4, 7), g.floatBetween(0.92, 0.97, 2)
		case "National":
			lead, reliability = g.intBetween(7, 14), g.floatBetween(0.85, 0.94, 2)
		case "International":
			lead, reliability = g.intBetween(14, 30), g.floatBetween(0.75, 0.90, 2)
		case "Overseas":
			lead, reliability = g.intBetween(30, 60), g.floatBetween(0.65, 0.85, 2)
		}

		out[i] = domain.Supplier{
			ID:               int64(i + 1),
			Name:             fmt.Sprintf("%s %s Supply", pick(g.rng, companyNames), loc),
			LeadTimeDays:     lead,
			ReliabilityScore: reliability,
		}
	}
	return out
}

func (g *Generator) items(categories []domain.Category, suppliers []domain.Supplier) []domain.Item {
	out := make([]domain.Item, g.cfg.Items)
	skus := make(map[string]struct{}, g.cfg.Items)

	for i := range out {
		cat := &categories[g.rng.IntN(len(categories))]
		sup := &suppliers[g.rng.IntN(len(suppliers))]

		tmpl := defaultTemplate
		if templates, ok := productTemplates[cat.Name]; ok {
			tmpl = pick(g.rng, templates)
		}

		cost := g.floatBetween(tmpl.priceMin*0.5, tmpl.priceMax*0.7, 2)
		margin := g.floatBetween(0.2, 0.6, 2)

		sku := g.code(10)
		for {
			if _, taken := skus[sku]; !taken {
				break
			}
			sku = g.code(10)
		}
		skus[sku] = struct{}{}

		supplierID := sup.ID
		out[i] = domain.Item{
			ID:                int64(i + 1),
			SKU:               sku,
			Name:              g.productName(cat.Name, tmpl),
			CategoryID:        cat.ID,
			SupplierID:        &supplierID,
			UnitCost:          decimal.NewFromFloat(cost).Round(2),
			UnitPrice:         decimal.NewFromFloat(cost * (1 + margin)).Round(2),
			InStock:           g.intBetween(0, 200),
			Reserved:          g.intBetween(0, 20),
			LowStockThreshold: g.intBetween(10, 50),
			PopularityScore:   g.floatBetween(tmpl.popularityMin, tmpl.popularityMax, 2),
			Category:          cat,
			Supplier:          sup,
		}
	}
	return out
}

func (g *Generator) productName(category string, tmpl template) string {
	switch category {
	case "Accessories":
		return tmpl.prefix + pick(g.rng, phoneModels) + tmpl.suffix
	case "Peripherals":
		return pick(g.rng, peripheralKinds) + " for " + pick(g.rng, laptopBrands)
	case "Audio":
		return tmpl.prefix + pick(g.rng, productAdjectives)
	default:
		return fmt.Sprintf("%s %s %s", pick(g.rng, productAdjectives), pick(g.rng, productMaterials), pick(g.rng, productNouns[category]))
	}
}

// transactions spreads movements over the trailing window, ending now.
func (g *Generator) transactions(items []domain.Item) []domain.Transaction {
	if len(items) == 0 || g.cfg.Transactions == 0 {
		return nil
	}

	end := g.now().UTC()
	today := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	start := today.AddDate(0, 0, -(WindowDays - 1))
	span := end.Sub(start)

	out := make([]domain.Transaction, g.cfg.Transactions)
	for i := range out {
		item := &items[g.rng.IntN(len(items))]
		// Whole seconds keep stored timestamps comparable across drivers
		at := start.Add(time.Duration(g.rng.Int64N(int64(span/time.Second))) * time.Second)

		dayFactor := 1.0
		if wd := at.Weekday(); wd == time.Saturday || wd == time.Sunday {
			dayFactor = 1.5
		}
		monthFactor := 1.0
		if d := at.Day(); d <= 5 || d >= 25 {
			monthFactor = 1.3
		}

		base := int(math.Max(1, math.Floor(g.rng.Float64()*5*item.PopularityScore*item.SeasonalityFactor()*dayFactor*monthFactor)))
		typ := g.transactionType()
		qty, notes := g.quantity(typ, base)

		prefix := "REF-"
		if typ == domain.TransactionSale {
			prefix = "ORD-"
		}

		out[i] = domain.Transaction{
			ID:          int64(i + 1),
			ItemID:      item.ID,
			Type:        typ,
			Quantity:    qty,
			OccurredAt:  at,
			ReferenceID: prefix + g.code(8),
			Notes:       notes,
		}
	}
	return out
}

func (g *Generator) transactionType() domain.TransactionType {
	r := g.rng.Float64()
	cumulative := 0.0
	for _, w := range transactionWeights {
		cumulative += w.probability
		if r <= cumulative {
			return w.typ
		}
	}
	return transactionWeights[len(transactionWeights)-1].typ
}

// quantity applies the sign and scale of each movement type to the base quantity.
func (g *Generator) quantity(typ domain.TransactionType, base int) (int, string) {
	scaled := func(f float64) int { return int(math.Floor(float64(base) * f)) }

	switch typ {
	case domain.TransactionSale:
		return -base, ""
	case domain.TransactionReturn:
		return max(1, scaled(0.5)), pick(g.rng, returnNotes)
	case domain.TransactionAdjustment:
		q := scaled(0.3)
		if g.rng.Float64() <= 0.5 {
			q = -q
		}
		return q, pick(g.rng, adjustmentNotes)
	case domain.TransactionDamaged:
		return -max(1, scaled(0.2)), pick(g.rng, damageNotes)
	case domain.TransactionTransferIn:
		return max(1, scaled(0.7)), "Transfer from " + pick(g.rng, transferSites)
	case domain.TransactionTransferOut:
		return -max(1, scaled(0.7)), "Transfer to " + pick(g.rng, transferSites)
	default:
		return base, ""
	}
}

func (g *Generator) intBetween(lo, hi int) int {
	return lo + g.rng.IntN(hi-lo+1)
}

func (g *Generator) floatBetween(lo, hi float64, places int) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func (g *Generator) code(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(alphanumeric[g.rng.IntN(len(alphanumeric))])
	}
	return b.String()
}

func pick[T any](rng *rand.Rand, xs []T) T {
	return xs[rng.IntN(len(xs))]
}
