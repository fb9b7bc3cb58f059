package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

func TestHybridIsWeightedBlend(t *testing.T) {
	profiles := testProfiles(t)
	cfg := DefaultConfig()

	term, err := New(model.StrategyTermVector, profiles, cfg)
	require.NoError(t, err)
	edit, err := New(model.StrategyEditDistance, profiles, cfg)
	require.NoError(t, err)
	hybrid, err := New(model.StrategyHybrid, profiles, cfg)
	require.NoError(t, err)

	queries := []string{
		"Payment ACME Corp invoice 999",
		"ACM INC INV",
		"zenith logistics as",
		"QQ WW KK 0099",
	}
	for _, q := range queries {
		termScores := term.Score(q)
		editScores := edit.Score(q)
		hybridScores := hybrid.Score(q)
		require.Len(t, hybridScores, len(termScores))

		for i := range hybridScores {
			want := cfg.TermWeight*termScores[i].Score + cfg.EditWeight*editScores[i].Score
			assert.InDelta(t, want, hybridScores[i].Score, 1e-9,
				"query %q supplier %s", q, hybridScores[i].SupplierID)
			assert.Equal(t, model.StrategyHybrid, hybridScores[i].Strategy)
		}
	}
}

func TestHybridHighConfidenceOnCleanMatch(t *testing.T) {
	s, err := New(model.StrategyHybrid, testProfiles(t), DefaultConfig())
	require.NoError(t, err)

	for _, c := range s.Score("Payment ACME Corp invoice 999") {
		if c.SupplierID == "sup-acme" {
			assert.GreaterOrEqual(t, model.ConfidenceFromScore(c.Score), 70)
		}
	}
}

func TestHybridPartialOverlapHighConfidence(t *testing.T) {
	profiles := buildProfiles(t, map[string][]string{
		"sup-acme": {
			"PAYMENT ACME INC INVOICE 001",
			"ACME INC MONTHLY FEE",
		},
		"sup-zenith": {
			"ZENITH LOGISTICS AS 40",
			"Betaling til Zenith Logistics 41",
		},
	})

	s, err := New(model.StrategyHybrid, profiles, DefaultConfig())
	require.NoError(t, err)

	for _, c := range s.Score("ACME INC INVOICE 002") {
		if c.SupplierID == "sup-acme" {
			assert.InDelta(t, 0.736, c.Score, 0.001)
			assert.GreaterOrEqual(t, model.ConfidenceFromScore(c.Score), 70)
		}
	}
}

func TestHybridWeightsShiftBalance(t *testing.T) {
	profiles := truncationProfiles(t)

	// The misspelled query shares no vocabulary with the examples but
	// is two edits away from one, so tilting the weights toward edit
	// distance must raise its blended score.
	termHeavy := DefaultConfig()
	termHeavy.TermWeight, termHeavy.EditWeight = 0.9, 0.1
	editHeavy := DefaultConfig()
	editHeavy.TermWeight, editHeavy.EditWeight = 0.1, 0.9

	a, err := New(model.StrategyHybrid, profiles, termHeavy)
	require.NoError(t, err)
	b, err := New(model.StrategyHybrid, profiles, editHeavy)
	require.NoError(t, err)

	scoreFor := func(s Scorer) float64 {
		for _, c := range s.Score("ACNE IMC INVOICE 118") {
			if c.SupplierID == "sup-acme" {
				return c.Score
			}
		}
		t.Fatal("supplier sup-acme not scored")
		return 0
	}
	assert.Greater(t, scoreFor(b), scoreFor(a))
}
