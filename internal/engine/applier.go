package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/matcher"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/scorer"
)

// ApplyOptions controls one batch-apply run.
type ApplyOptions struct {
	Strategy  model.Strategy
	Threshold float64
	// Limit bounds how many unlabeled transactions are processed.
	// <= 0 means all of them.
	Limit int
	// Batch is the progress-log cadence for write-backs. <= 0 uses a
	// default of 50.
	Batch int
	// DryRun produces the full summary without writing anything.
	DryRun bool
	// OnProgress, when set, is called once per scored transaction.
	OnProgress func(model.MatchResult)
}

// Apply matches every unlabeled transaction against profiles built
// from all currently labeled data and writes accepted matches back,
// together with the supplier's modal category. Scoring runs on the
// worker pool; write-backs are issued one transaction at a time so a
// persistence failure stays contained to its own record. Failed writes
// are recorded in the summary and never abort the batch.
func (e *Engine) Apply(ctx context.Context, opts ApplyOptions) (*model.ApplySummary, error) {
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %.2f outside [0,1]", common.ErrInvalidConfig, opts.Threshold)
	}
	batch := opts.Batch
	if batch <= 0 {
		batch = 50
	}

	labeled, err := e.storage.GetLabeledTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading labeled transactions: %w", err)
	}
	if len(labeled) == 0 {
		return nil, common.ErrNoLabeledTransactions
	}

	profiles, err := e.buildProfiles(ctx, labeled)
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, common.ErrNoProfiles
	}
	categories := make(map[string]string, len(profiles))
	for _, p := range profiles {
		categories[p.SupplierID] = p.CategoryID
	}

	s, err := scorer.New(opts.Strategy, profiles, e.cfg.Scorer)
	if err != nil {
		return nil, err
	}
	m, err := matcher.New(s, opts.Threshold)
	if err != nil {
		return nil, err
	}

	unlabeled, err := e.storage.GetUnlabeledTransactions(ctx, opts.Limit)
	if err != nil {
		return nil, fmt.Errorf("loading unlabeled transactions: %w", err)
	}

	start := time.Now()
	pool := matcher.NewPool(m, e.cfg.Workers)
	if opts.OnProgress != nil {
		pool.OnEach(opts.OnProgress)
	}
	results, err := pool.Run(ctx, unlabeled)
	if err != nil {
		return nil, err
	}

	summary := &model.ApplySummary{
		RunID:      uuid.New().String(),
		Strategy:   opts.Strategy,
		Threshold:  opts.Threshold,
		DryRun:     opts.DryRun,
		Processed:  len(results),
		BySupplier: make(map[string]int),
		Results:    results,
	}

	for i, r := range results {
		if !r.Matched {
			summary.Skipped++
			continue
		}

		if !opts.DryRun {
			if err := e.writeMatch(ctx, r, categories[r.SupplierID]); err != nil {
				if ctx.Err() != nil {
					return nil, err
				}
				common.LogError(err, "Match write-back failed", common.Fields{
					"transaction_id": r.TransactionID,
					"supplier_id":    r.SupplierID,
				})
				summary.Failed++
				summary.Failures = append(summary.Failures, model.ApplyFailure{
					TransactionID: r.TransactionID,
					Error:         err.Error(),
				})
				continue
			}
		}

		summary.Matched++
		summary.BySupplier[r.SupplierName]++

		if (i+1)%batch == 0 {
			common.LogDebug("Apply progress", common.Fields{
				"processed": i + 1,
				"total":     len(results),
				"matched":   summary.Matched,
			})
		}
	}

	summary.Elapsed = time.Since(start)
	return summary, nil
}

// writeMatch persists one accepted match, retrying transient storage
// errors. The supplier-to-category mapping is refreshed afterwards; a
// failure there is logged but does not undo the match.
func (e *Engine) writeMatch(ctx context.Context, r model.MatchResult, categoryID string) error {
	err := common.WithRetry(ctx, func() error {
		return e.storage.ApplyMatch(ctx, r.TransactionID, r.SupplierID, categoryID)
	}, e.cfg.Retry)
	if err != nil {
		return err
	}

	if categoryID != "" {
		if err := e.storage.UpsertSupplierCategory(ctx, r.SupplierID, categoryID); err != nil {
			common.LogError(err, "Recording supplier category failed", common.Fields{
				"supplier_id": r.SupplierID,
				"category_id": categoryID,
			})
		}
	}
	return nil
}
