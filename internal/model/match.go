package model

import (
	"fmt"
	"math"
)

// Strategy identifies one of the similarity-scoring strategies. The
// set is closed: adding a strategy means adding a constant here and a
// case to the scorer factory, which the compiler checks.
type Strategy string

const (
	// StrategyTermVector scores with TF-IDF term vectors and cosine
	// similarity.
	StrategyTermVector Strategy = "term-vector"
	// StrategyEditDistance scores with normalized Levenshtein
	// similarity.
	StrategyEditDistance Strategy = "edit-distance"
	// StrategyHybrid blends term-vector and edit-distance scores.
	StrategyHybrid Strategy = "hybrid"
	// StrategyShingle scores with character n-gram overlap.
	StrategyShingle Strategy = "shingle"
)

// AllStrategies returns every known strategy in a stable order.
func AllStrategies() []Strategy {
	return []Strategy{
		StrategyTermVector,
		StrategyEditDistance,
		StrategyHybrid,
		StrategyShingle,
	}
}

// ParseStrategy converts a user-supplied string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTermVector, StrategyEditDistance, StrategyHybrid, StrategyShingle:
		return Strategy(s), nil
	}
	return "", fmt.Errorf("unknown strategy %q (want one of term-vector, edit-distance, hybrid, shingle)", s)
}

// MatchCandidate is one supplier's similarity score for a query
// description. Scores are always in [0,1]; the 0-100 confidence scale
// is derived explicitly via ConfidenceFromScore and never mixed with
// raw scores.
type MatchCandidate struct {
	SupplierID   string
	SupplierName string
	Strategy     Strategy
	Score        float64
}

// MatchResult is the accepted candidate for a transaction, or "no
// match" when Matched is false.
type MatchResult struct {
	TransactionID string
	SupplierID    string
	SupplierName  string
	Strategy      Strategy
	Confidence    int
	Matched       bool
}

// ConfidenceFromScore converts a similarity in [0,1] to the 0-100
// confidence scale used for reporting. Out-of-range inputs are
// clamped so a candidate confidence can never leave its range.
func ConfidenceFromScore(score float64) int {
	if score <= 0 || math.IsNaN(score) {
		return 0
	}
	if score >= 1 {
		return 100
	}
	return int(math.Round(score * 100))
}
