package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/service"
)

func seedUnlabeled(f *fakeStorage, descriptions ...string) {
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, d := range descriptions {
		id := fmt.Sprintf("open-%02d", i)
		f.txns[id] = model.Transaction{
			ID:          id,
			Description: d,
			Date:        day.AddDate(0, 0, i),
			Amount:      -50,
		}
	}
}

func applyFixture(t *testing.T) (*Engine, *fakeStorage) {
	t.Helper()
	storage := newFakeStorage()
	seedLabeled(storage, map[string]string{
		"sup-acme":   "ACME CORP INVOICE",
		"sup-zenith": "ZENITH LOGISTICS",
	}, 3)
	seedUnlabeled(storage,
		"ACME CORP INVOICE 99",
		"Zenith Logistics 77",
		"QQ WW KK 0099",
	)

	cfg := DefaultConfig()
	cfg.Workers = 2
	cfg.Retry = service.RetryOptions{MaxAttempts: 1, InitialDelay: time.Millisecond}
	e, err := New(storage, cfg)
	require.NoError(t, err)
	return e, storage
}

func TestApplyWritesMatchesAndCategories(t *testing.T) {
	e, storage := applyFixture(t)

	summary, err := e.Apply(context.Background(), ApplyOptions{
		Strategy:  model.StrategyTermVector,
		Threshold: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Matched)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Failed)
	assert.False(t, summary.DryRun)
	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1, summary.BySupplier["ACME CORP INVOICE"])
	assert.Equal(t, 1, summary.BySupplier["ZENITH LOGISTICS"])

	ctx := context.Background()
	acme, err := storage.GetTransactionByID(ctx, "open-00")
	require.NoError(t, err)
	assert.Equal(t, "sup-acme", acme.SupplierID)
	assert.Equal(t, "cat-sup-acme", acme.CategoryID)
	assert.Equal(t, "cat-sup-acme", storage.supplierCategories["sup-acme"])

	unmatched, err := storage.GetTransactionByID(ctx, "open-02")
	require.NoError(t, err)
	assert.Empty(t, unmatched.SupplierID)

	remaining, err := storage.GetUnlabeledTransactions(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestApplyDryRunLeavesStorageUnchanged(t *testing.T) {
	e, storage := applyFixture(t)

	before, err := storage.GetUnlabeledTransactions(context.Background(), 0)
	require.NoError(t, err)

	summary, err := e.Apply(context.Background(), ApplyOptions{
		Strategy:  model.StrategyHybrid,
		Threshold: 0.5,
		DryRun:    true,
	})
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 2, summary.Matched)
	assert.Zero(t, storage.applyCallCount())

	after, err := storage.GetUnlabeledTransactions(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplyDryRunDeterministic(t *testing.T) {
	e, _ := applyFixture(t)
	opts := ApplyOptions{Strategy: model.StrategyShingle, Threshold: 0.4, DryRun: true}

	first, err := e.Apply(context.Background(), opts)
	require.NoError(t, err)
	second, err := e.Apply(context.Background(), opts)
	require.NoError(t, err)

	assert.Equal(t, first.Results, second.Results)
	assert.Equal(t, first.Matched, second.Matched)
	assert.Equal(t, first.Skipped, second.Skipped)
	assert.Equal(t, first.BySupplier, second.BySupplier)
}

func TestApplySecondRunFindsNothingNew(t *testing.T) {
	e, _ := applyFixture(t)
	opts := ApplyOptions{Strategy: model.StrategyTermVector, Threshold: 0.5}

	first, err := e.Apply(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, 2, first.Matched)

	second, err := e.Apply(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Processed)
	assert.Zero(t, second.Matched)
}

func TestApplyPartialWriteFailure(t *testing.T) {
	e, storage := applyFixture(t)
	storage.failApply["open-00"] = true

	summary, err := e.Apply(context.Background(), ApplyOptions{
		Strategy:  model.StrategyTermVector,
		Threshold: 0.5,
	})
	require.NoError(t, err, "a single failed record must not abort the batch")

	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.Failed)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "open-00", summary.Failures[0].TransactionID)
	assert.Contains(t, summary.Failures[0].Error, "disk I/O error")

	// The other match still landed.
	zenith, err := storage.GetTransactionByID(context.Background(), "open-01")
	require.NoError(t, err)
	assert.Equal(t, "sup-zenith", zenith.SupplierID)
}

func TestApplyRespectsLimit(t *testing.T) {
	e, _ := applyFixture(t)

	summary, err := e.Apply(context.Background(), ApplyOptions{
		Strategy:  model.StrategyTermVector,
		Threshold: 0.5,
		Limit:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
}

func TestApplyNoLabeledTransactions(t *testing.T) {
	storage := newFakeStorage()
	seedUnlabeled(storage, "ACME CORP INVOICE 99")
	e := newTestEngine(t, storage)

	_, err := e.Apply(context.Background(), ApplyOptions{Strategy: model.StrategyTermVector, Threshold: 0.5})
	require.ErrorIs(t, err, common.ErrNoLabeledTransactions)
}

func TestApplyReportsProgress(t *testing.T) {
	e, _ := applyFixture(t)

	var seen int
	_, err := e.Apply(context.Background(), ApplyOptions{
		Strategy:   model.StrategyEditDistance,
		Threshold:  0.5,
		DryRun:     true,
		OnProgress: func(model.MatchResult) { seen++ },
	})
	require.NoError(t, err)
	assert.Equal(t, 3, seen)
}
