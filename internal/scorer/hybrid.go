package scorer

import "github.com/larserikfagernaes/spendmatch/internal/model"

// hybridScorer blends the term-vector and edit-distance scores with
// fixed weights. Both sub-scores are always computed for every
// profile; there is no short-circuiting on a strong sub-score, so the
// blend stays comparable across transactions.
type hybridScorer struct {
	term       *termVectorScorer
	edit       *editDistanceScorer
	termWeight float64
	editWeight float64
}

func newHybrid(profiles []*model.SupplierProfile, cfg Config) *hybridScorer {
	return &hybridScorer{
		term:       newTermVector(profiles, cfg),
		edit:       newEditDistance(profiles),
		termWeight: cfg.TermWeight,
		editWeight: cfg.EditWeight,
	}
}

func (s *hybridScorer) Name() model.Strategy { return model.StrategyHybrid }

func (s *hybridScorer) Score(description string) []model.MatchCandidate {
	termScores := s.term.Score(description)
	editScores := s.edit.Score(description)

	out := make([]model.MatchCandidate, len(termScores))
	for i := range termScores {
		out[i] = model.MatchCandidate{
			SupplierID:   termScores[i].SupplierID,
			SupplierName: termScores[i].SupplierName,
			Strategy:     s.Name(),
			Score:        clamp01(s.termWeight*termScores[i].Score + s.editWeight*editScores[i].Score),
		}
	}
	return out
}
