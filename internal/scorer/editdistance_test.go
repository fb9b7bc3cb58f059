package scorer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

func truncationProfiles(t *testing.T) []*model.SupplierProfile {
	t.Helper()
	return buildProfiles(t, map[string][]string{
		"sup-acme": {
			"ACME INC INVOICE 118",
			"PAYMENT ACME INC INVOICE 119",
		},
		"sup-zenith": {
			"ZENITH LOGISTICS AS 40",
			"Betaling til Zenith Logistics 41",
		},
	})
}

func TestEditDistanceTruncatedDescription(t *testing.T) {
	s, err := New(model.StrategyEditDistance, truncationProfiles(t), DefaultConfig())
	require.NoError(t, err)

	// A terminal truncation of "ACME INC INVOICE". The edit distance to
	// the closest example is 9 over 20 characters.
	candidates := s.Score("ACM INC INV")
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })

	require.Equal(t, "sup-acme", candidates[0].SupplierID)
	assert.InDelta(t, 0.55, candidates[0].Score, 1e-9)
	assert.Greater(t, candidates[0].Score, 0.3)
	assert.Less(t, candidates[0].Score, 0.7)
	assert.Less(t, candidates[1].Score, candidates[0].Score)
}

func TestEditDistanceExactExample(t *testing.T) {
	s, err := New(model.StrategyEditDistance, testProfiles(t), DefaultConfig())
	require.NoError(t, err)

	// Case and spacing differences vanish under light normalization.
	for _, c := range s.Score("  payment   ACME corp invoice 101 ") {
		if c.SupplierID == "sup-acme" {
			assert.InDelta(t, 1.0, c.Score, 1e-9)
		}
	}
}

func TestEditSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"acme corp", "acme inc"},
		{"acm inc inv", "acme inc invoice 118"},
		{"café da manhã", "cafe da manha"},
		{"betaling til zenith", "zenith logistics as"},
		{"a", "abcdefghij"},
		{"", "nonempty"},
		{"søstrene grene", "grene"},
	}

	for _, p := range pairs {
		assert.InDelta(t, editSimilarity(p[0], p[1]), editSimilarity(p[1], p[0]), 1e-9,
			"similarity of %q and %q must not depend on argument order", p[0], p[1])
	}
}

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "acme corp", b: "acme corp", want: 1},
		{name: "empty query", a: "", b: "acme", want: 0},
		{name: "empty example", a: "acme", b: "", want: 0},
		{name: "single substitution", a: "acme", b: "acne", want: 0.75},
		{name: "multibyte counts as one edit", a: "café", b: "cafe", want: 0.75},
		{name: "disjoint", a: "abcd", b: "wxyz", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, editSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
