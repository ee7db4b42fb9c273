package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockplan/backend-go/internal/domain"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/demand"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/optimization"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/performance"
	"github.com/andresuchdata/stockplan/backend-go/internal/planning/volatility"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ItemResult holds everything computed for one item before forecasting.
type ItemResult struct {
	Item           domain.Item
	Stats          domain.DemandStats
	Profile        domain.VolatilityProfile
	Input          optimization.Input
	Parameters     domain.OptimizationParameters
	Performance    domain.PerformanceMetrics
	Recommendation domain.StockRecommendation
	// Suggestion is nil when the item needs no purchase order.
	Suggestion *domain.ReorderSuggestion
	Issues     []*domain.DataQualityError
}

// Worker computes the per-item planning figures that do not share state.
type Worker struct {
	extractor   *demand.Extractor
	classifier  *volatility.Classifier
	calculator  *optimization.Calculator
	performance *performance.Calculator
	windowDays  int
	workers     int
	now         func() time.Time
	log         zerolog.Logger
}

// NewWorker creates a new pipeline worker
func NewWorker(cfg PipelineConfig, calc *optimization.Calculator, now func() time.Time, log zerolog.Logger) *Worker {
	workers := cfg.WorkerCount
	if workers < 1 {
		workers = 1
	}
	if now == nil {
		now = time.Now
	}
	extractor := demand.NewExtractor(cfg.WindowDays, now)

	return &Worker{
		extractor:   extractor,
		classifier:  volatility.NewClassifier(nil, now),
		calculator:  calc,
		performance: performance.NewCalculator(cfg.WindowDays, now),
		windowDays:  extractor.Window(),
		workers:     workers,
		now:         now,
		log:         log,
	}
}

// WindowStart is the oldest instant whose transactions are needed.
func (w *Worker) WindowStart() time.Time {
	return w.extractor.WindowStart()
}

// ProcessItems computes every item concurrently. The returned slice is in
// catalog order and holds nil for skipped items.
func (w *Worker) ProcessItems(ctx context.Context, items []domain.Item, history map[int64][]domain.Transaction) ([]*ItemResult, []ItemFailure, error) {
	results := make([]*ItemResult, len(items))
	failures := make([]error, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.workers)

	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := w.processItem(items[i], history[items[i].ID])
			if err != nil {
				failures[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var skipped []ItemFailure
	for i, err := range failures {
		if err == nil {
			continue
		}
		w.log.Warn().Err(err).Int64("item_id", items[i].ID).Msg("planning: item skipped")
		skipped = append(skipped, ItemFailure{ItemID: items[i].ID, Reason: err.Error()})
	}

	return results, skipped, nil
}

func (w *Worker) processItem(item domain.Item, txns []domain.Transaction) (*ItemResult, error) {
	if item.InStock < 0 || item.Reserved < 0 {
		return nil, &domain.ItemError{
			ItemID: item.ID,
			Err:    fmt.Errorf("%w: in_stock=%d reserved=%d", domain.ErrInvalidItem, item.InStock, item.Reserved),
		}
	}

	stats := w.extractor.Extract(item.ID, txns)
	profile := w.classifier.Classify(stats.Series, item.CategoryID)

	input := optimization.InputFor(item, stats)
	params, issues := w.calculator.Calculate(input)
	for _, issue := range issues {
		w.log.Warn().Int64("item_id", issue.ItemID).Str("field", issue.Field).Msg(issue.Reason)
	}

	res := &ItemResult{
		Item:           item,
		Stats:          stats,
		Profile:        profile,
		Input:          input,
		Parameters:     params,
		Performance:    w.performance.Calculate(item, stats),
		Recommendation: optimization.Recommend(item, params),
		Issues:         issues,
	}
	if s, ok := optimization.Suggest(item, stats, w.windowDays, w.now()); ok {
		res.Suggestion = &s
	}
	return res, nil
}
