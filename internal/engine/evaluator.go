package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/matcher"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/scorer"
)

// EvaluateOptions controls one evaluation run.
type EvaluateOptions struct {
	// Strategies to compare. Empty means all of them.
	Strategies []model.Strategy
	// Threshold is the minimum similarity to accept a match.
	Threshold float64
	// TestSize is the number of suppliers to hold one transaction out
	// from. Capped at the number of eligible suppliers.
	TestSize int
	// Seed makes the train/test split reproducible. It is recorded in
	// every report.
	Seed int64
}

// Evaluate splits labeled transactions into a training remainder and a
// held-out test set, builds profiles from the remainder only, runs
// every requested strategy over the test set and reports accuracy,
// mean confidence and elapsed time per strategy. A strategy that fails
// to construct is skipped with a warning; evaluation continues with
// the rest. With zero labeled transactions every strategy reports zero
// accuracy rather than failing.
func (e *Engine) Evaluate(ctx context.Context, opts EvaluateOptions) ([]model.EvaluationReport, error) {
	strategies := opts.Strategies
	if len(strategies) == 0 {
		strategies = model.AllStrategies()
	}
	if opts.Threshold < 0 || opts.Threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %.2f outside [0,1]", common.ErrInvalidConfig, opts.Threshold)
	}

	runID := uuid.New().String()

	labeled, err := e.storage.GetLabeledTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading labeled transactions: %w", err)
	}
	if len(labeled) == 0 {
		common.LogDebug("No labeled transactions to evaluate", common.Fields{"run_id": runID})
		reports := make([]model.EvaluationReport, 0, len(strategies))
		for _, strategy := range strategies {
			reports = append(reports, model.EvaluationReport{
				RunID:     runID,
				Strategy:  strategy,
				Threshold: opts.Threshold,
				Seed:      opts.Seed,
			})
		}
		return reports, nil
	}

	test, train := e.splitHoldout(labeled, opts.TestSize, opts.Seed)
	profiles, err := e.buildProfiles(ctx, train)
	if err != nil {
		return nil, err
	}

	reports := make([]model.EvaluationReport, 0, len(strategies))
	for _, strategy := range strategies {
		report, err := e.evaluateStrategy(ctx, strategy, profiles, test, opts)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			common.LogError(err, "Skipping strategy", common.Fields{"strategy": string(strategy)})
			continue
		}
		report.RunID = runID
		reports = append(reports, *report)
	}
	return reports, nil
}

func (e *Engine) evaluateStrategy(
	ctx context.Context,
	strategy model.Strategy,
	profiles []*model.SupplierProfile,
	test []model.Transaction,
	opts EvaluateOptions,
) (*model.EvaluationReport, error) {
	s, err := scorer.New(strategy, profiles, e.cfg.Scorer)
	if err != nil {
		return nil, err
	}
	m, err := matcher.New(s, opts.Threshold)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := matcher.NewPool(m, e.cfg.Workers).Run(ctx, test)
	if err != nil {
		return nil, err
	}

	report := &model.EvaluationReport{
		Strategy:    strategy,
		Total:       len(test),
		Elapsed:     time.Since(start),
		Threshold:   opts.Threshold,
		Seed:        opts.Seed,
		Predictions: make([]model.Prediction, 0, len(test)),
	}

	var confidenceSum int
	for i, r := range results {
		txn := test[i]
		correct := r.Matched && r.SupplierID == txn.SupplierID
		if correct {
			report.Correct++
		}
		confidenceSum += r.Confidence
		report.Predictions = append(report.Predictions, model.Prediction{
			TransactionID: txn.ID,
			Description:   txn.Description,
			TrueSupplier:  txn.SupplierID,
			Predicted:     r.SupplierID,
			PredictedName: r.SupplierName,
			Strategy:      strategy,
			Confidence:    r.Confidence,
			Matched:       r.Matched,
			Correct:       correct,
		})
	}
	if report.Total > 0 {
		report.Accuracy = float64(report.Correct) / float64(report.Total)
		report.MeanConfidence = float64(confidenceSum) / float64(report.Total)
	}
	return report, nil
}

// splitHoldout holds one transaction out per sampled supplier. Only
// suppliers with more labeled transactions than the profile floor are
// eligible, so the training remainder can still produce a profile for
// every held-out supplier. The sampled suppliers and the held-out
// transaction per supplier are both driven by the seed.
func (e *Engine) splitHoldout(labeled []model.Transaction, testSize int, seed int64) (test, train []model.Transaction) {
	grouped := make(map[string][]model.Transaction)
	for _, txn := range labeled {
		grouped[txn.SupplierID] = append(grouped[txn.SupplierID], txn)
	}

	minExamples := e.cfg.Profile.MinExamples
	if minExamples < 1 {
		minExamples = 1
	}

	var eligible []string
	for id, txns := range grouped {
		if len(txns) > minExamples {
			eligible = append(eligible, id)
		}
	}
	sort.Strings(eligible)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(eligible), func(i, j int) {
		eligible[i], eligible[j] = eligible[j], eligible[i]
	})
	if testSize > 0 && testSize < len(eligible) {
		eligible = eligible[:testSize]
	}

	held := make(map[string]struct{}, len(eligible))
	for _, id := range eligible {
		txns := grouped[id]
		sort.Slice(txns, func(i, j int) bool { return txns[i].ID < txns[j].ID })
		held[txns[rng.Intn(len(txns))].ID] = struct{}{}
	}

	for _, txn := range labeled {
		if _, ok := held[txn.ID]; ok {
			test = append(test, txn)
		} else {
			train = append(train, txn)
		}
	}
	return test, train
}

// Best picks the winning report: highest accuracy, ties broken by the
// shorter elapsed time. Returns nil for an empty list.
func Best(reports []model.EvaluationReport) *model.EvaluationReport {
	var best *model.EvaluationReport
	for i := range reports {
		r := &reports[i]
		switch {
		case best == nil, r.Accuracy > best.Accuracy:
			best = r
		case r.Accuracy == best.Accuracy && r.Elapsed < best.Elapsed:
			best = r
		}
	}
	return best
}
