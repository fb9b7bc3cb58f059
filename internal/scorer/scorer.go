// Package scorer implements the similarity-scoring strategies used to
// match transaction descriptions against supplier profiles. Scorers
// are built once per run over an immutable profile set and are safe
// for concurrent use; scoring is CPU-bound and performs no I/O.
package scorer

import (
	"fmt"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
)

// Scorer maps a free-text description to one similarity score per
// supplier profile. Every score is in [0,1]; an empty or all-noise
// description scores 0 against every supplier and never errors.
type Scorer interface {
	Name() model.Strategy
	Score(description string) []model.MatchCandidate
}

// Config carries the tunable scoring parameters. The defaults were
// chosen empirically; treat them as tunable, not canonical.
type Config struct {
	Normalize normalize.Config

	// TopK is how many of a supplier's best-matching examples the
	// term-vector scorer averages over.
	TopK int

	// TermWeight and EditWeight blend the hybrid scorer's sub-scores.
	// Both must be in [0,1] and sum to at most 1.
	TermWeight float64
	EditWeight float64
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		Normalize:  normalize.DefaultConfig(),
		TopK:       3,
		TermWeight: 0.6,
		EditWeight: 0.4,
	}
}

// Validate rejects out-of-range parameters up front, before any
// scoring begins.
func (c Config) Validate() error {
	if c.TopK < 1 {
		return fmt.Errorf("%w: top-k must be at least 1, got %d", common.ErrInvalidConfig, c.TopK)
	}
	if c.TermWeight < 0 || c.TermWeight > 1 {
		return fmt.Errorf("%w: term weight %.2f outside [0,1]", common.ErrInvalidConfig, c.TermWeight)
	}
	if c.EditWeight < 0 || c.EditWeight > 1 {
		return fmt.Errorf("%w: edit weight %.2f outside [0,1]", common.ErrInvalidConfig, c.EditWeight)
	}
	sum := c.TermWeight + c.EditWeight
	if sum <= 0 || sum > 1 {
		return fmt.Errorf("%w: hybrid weights must sum to (0,1], got %.2f", common.ErrInvalidConfig, sum)
	}
	return nil
}

// New builds the scorer for one strategy over the given profiles.
// Profiles without examples are excluded from the candidate set. The
// strategy set is closed; the switch below is the single dispatch
// point.
func New(strategy model.Strategy, profiles []*model.SupplierProfile, cfg Config) (Scorer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	scorable := make([]*model.SupplierProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Scorable() {
			scorable = append(scorable, p)
		}
	}

	switch strategy {
	case model.StrategyTermVector:
		return newTermVector(scorable, cfg), nil
	case model.StrategyEditDistance:
		return newEditDistance(scorable), nil
	case model.StrategyHybrid:
		return newHybrid(scorable, cfg), nil
	case model.StrategyShingle:
		return newShingle(scorable, cfg), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", common.ErrInvalidConfig, strategy)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// zeroCandidates returns a zero-score candidate per profile, used when
// a query has no scorable content.
func zeroCandidates(strategy model.Strategy, profiles []*model.SupplierProfile) []model.MatchCandidate {
	out := make([]model.MatchCandidate, len(profiles))
	for i, p := range profiles {
		out[i] = model.MatchCandidate{
			SupplierID:   p.SupplierID,
			SupplierName: p.Name,
			Strategy:     strategy,
		}
	}
	return out
}
