package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidenceFromScore(t *testing.T) {
	tests := []struct {
		name  string
		score float64
		want  int
	}{
		{name: "zero", score: 0, want: 0},
		{name: "one", score: 1, want: 100},
		{name: "midpoint", score: 0.5, want: 50},
		{name: "rounds nearest", score: 0.725, want: 73},
		{name: "negative clamps to zero", score: -0.3, want: 0},
		{name: "above one clamps to hundred", score: 1.7, want: 100},
		{name: "NaN maps to zero", score: math.NaN(), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceFromScore(tt.score))
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for _, s := range AllStrategies() {
		got, err := ParseStrategy(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseStrategy("embeddings")
	assert.Error(t, err)

	_, err = ParseStrategy("")
	assert.Error(t, err)
}

func TestSupplierProfileScorable(t *testing.T) {
	empty := &SupplierProfile{SupplierID: "s1", Name: "Acme"}
	assert.False(t, empty.Scorable())

	filled := &SupplierProfile{SupplierID: "s1", Name: "Acme", Examples: []string{"acme inc"}}
	assert.True(t, filled.Scorable())
}
