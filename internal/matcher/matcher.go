// Package matcher applies the decision policy on top of a scorer:
// best-candidate selection, deterministic tie-breaking and confidence
// thresholding. A Matcher is pure and stateless given its scorer's
// immutable profile set; it performs no I/O and is safe for concurrent
// use.
package matcher

import (
	"fmt"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/scorer"
)

// Matcher accepts the best-scoring supplier for a description when it
// clears the configured threshold.
type Matcher struct {
	scorer    scorer.Scorer
	threshold float64
}

// New wraps a scorer with a decision threshold. The threshold is a
// similarity in [0,1], not a confidence; out-of-range values are
// rejected rather than clamped.
func New(s scorer.Scorer, threshold float64) (*Matcher, error) {
	if threshold < 0 || threshold > 1 {
		return nil, fmt.Errorf("%w: threshold %.2f outside [0,1]", common.ErrInvalidConfig, threshold)
	}
	return &Matcher{scorer: s, threshold: threshold}, nil
}

// Strategy returns the wrapped scorer's strategy.
func (m *Matcher) Strategy() model.Strategy {
	return m.scorer.Name()
}

// Match scores one description against every profile and picks the
// maximum-scoring supplier. Ties break by supplier id ascending so
// repeated runs over unchanged inputs reproduce identical output. A
// zero top score or one below the threshold yields an unmatched
// result; the best candidate's confidence is still reported for
// diagnostics, with no supplier attached.
func (m *Matcher) Match(transactionID, description string) model.MatchResult {
	result := model.MatchResult{
		TransactionID: transactionID,
		Strategy:      m.scorer.Name(),
	}

	candidates := m.scorer.Score(description)
	best := -1
	for i, c := range candidates {
		switch {
		case best < 0, c.Score > candidates[best].Score:
			best = i
		case c.Score == candidates[best].Score && c.SupplierID < candidates[best].SupplierID:
			best = i
		}
	}
	if best < 0 {
		return result
	}

	top := candidates[best]
	result.Confidence = model.ConfidenceFromScore(top.Score)
	if top.Score <= 0 || top.Score < m.threshold {
		return result
	}

	result.SupplierID = top.SupplierID
	result.SupplierName = top.SupplierName
	result.Matched = true
	return result
}
