package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

func termVectorScore(t *testing.T, profiles []*model.SupplierProfile, query string) map[string]float64 {
	t.Helper()
	s, err := New(model.StrategyTermVector, profiles, DefaultConfig())
	require.NoError(t, err)

	out := make(map[string]float64)
	for _, c := range s.Score(query) {
		out[c.SupplierID] = c.Score
	}
	return out
}

func TestTermVectorCleanRepeatedPattern(t *testing.T) {
	// Reference numbers and boilerplate differ between the examples
	// and the query, but the aggressive normalization reduces all of
	// them to the same terms.
	scores := termVectorScore(t, testProfiles(t), "Payment ACME Corp invoice 999")

	assert.InDelta(t, 1.0, scores["sup-acme"], 1e-9)
	assert.GreaterOrEqual(t, model.ConfidenceFromScore(scores["sup-acme"]), 70)
	assert.Greater(t, scores["sup-acme"], scores["sup-zenith"])
	assert.Zero(t, scores["sup-zenith"])
}

func TestTermVectorTopKAveragesOwnExamples(t *testing.T) {
	// One example reduces to exactly the query's terms, the other only
	// partially overlaps. The supplier score is the mean over its own
	// best examples, not the single best hit.
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

	scores := termVectorScore(t, profiles, "ACME INC INVOICE 002")
	assert.InDelta(t, 0.775, scores["sup-acme"], 0.001)
	assert.GreaterOrEqual(t, model.ConfidenceFromScore(scores["sup-acme"]), 70)
	assert.Zero(t, scores["sup-zenith"])
}

func TestTermVectorSharedTermsDiscounted(t *testing.T) {
	// "oslo" appears in every document, so it carries less weight than
	// the supplier-specific name and cannot flip the ranking.
	profiles := buildProfiles(t, map[string][]string{
		"sup-bakeri": {"OSLO BAKERI AS 1", "OSLO BAKERI AS 2"},
		"sup-taxi":   {"OSLO TAXI 1", "OSLO TAXI 2"},
	})

	scores := termVectorScore(t, profiles, "Oslo Bakeri AS")
	assert.Greater(t, scores["sup-bakeri"], scores["sup-taxi"])
	assert.Greater(t, scores["sup-bakeri"], 0.9)
}

func TestTermVectorUnknownVocabulary(t *testing.T) {
	scores := termVectorScore(t, testProfiles(t), "Nordlys Fjellsport")
	for id, score := range scores {
		assert.Zero(t, score, "supplier %s", id)
	}
}

func TestTopKMean(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		k      int
		want   float64
	}{
		{name: "empty", scores: nil, k: 3, want: 0},
		{name: "fewer than k", scores: []float64{0.8, 0.4}, k: 3, want: 0.6},
		{name: "exactly k", scores: []float64{0.9, 0.6, 0.3}, k: 3, want: 0.6},
		{name: "more than k keeps best", scores: []float64{0.1, 0.9, 0.2, 0.8, 0.7}, k: 3, want: 0.8},
		{name: "k one is max", scores: []float64{0.2, 0.5, 0.4}, k: 1, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, topKMean(tt.scores, tt.k), 1e-9)
		})
	}
}
