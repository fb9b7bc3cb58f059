package scorer

import (
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
)

// shingleScorer scores with the containment coefficient of character
// n-gram sets: |query ∩ supplier| / |query|. Containment is used
// instead of Jaccard because each supplier's shingle set is merged
// over all its examples; a short query against a large merged set
// would be penalized by the union term even on a perfect substring
// hit. Shingles are built from lightly normalized text, so digits and
// truncation noise still contribute partial overlap.
type shingleScorer struct {
	profiles   []*model.SupplierProfile
	normalizer *normalize.Normalizer
}

func newShingle(profiles []*model.SupplierProfile, cfg Config) *shingleScorer {
	return &shingleScorer{
		profiles:   profiles,
		normalizer: normalize.New(cfg.Normalize),
	}
}

func (s *shingleScorer) Name() model.Strategy { return model.StrategyShingle }

func (s *shingleScorer) Score(description string) []model.MatchCandidate {
	query := s.normalizer.Shingles(normalize.Light(description))
	if len(query) == 0 {
		return zeroCandidates(s.Name(), s.profiles)
	}

	out := make([]model.MatchCandidate, len(s.profiles))
	for pi, p := range s.profiles {
		var hits int
		for sh := range query {
			if _, ok := p.Shingles[sh]; ok {
				hits++
			}
		}
		out[pi] = model.MatchCandidate{
			SupplierID:   p.SupplierID,
			SupplierName: p.Name,
			Strategy:     s.Name(),
			Score:        clamp01(float64(hits) / float64(len(query))),
		}
	}
	return out
}
