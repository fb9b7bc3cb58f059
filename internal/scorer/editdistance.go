package scorer

import (
	"unicode/utf8"

	"github.com/agnivade/levenshtein"

	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
)

// editDistanceScorer scores with normalized Levenshtein similarity
// over lightly normalized text. Light normalization keeps digits and
// punctuation because edit distance degrades gracefully on noise the
// aggressive pipeline would strip entirely. A supplier's score is the
// best similarity across its examples.
type editDistanceScorer struct {
	profiles []*model.SupplierProfile
}

func newEditDistance(profiles []*model.SupplierProfile) *editDistanceScorer {
	return &editDistanceScorer{profiles: profiles}
}

func (s *editDistanceScorer) Name() model.Strategy { return model.StrategyEditDistance }

func (s *editDistanceScorer) Score(description string) []model.MatchCandidate {
	query := normalize.Light(description)
	if query == "" {
		return zeroCandidates(s.Name(), s.profiles)
	}

	out := make([]model.MatchCandidate, len(s.profiles))
	for pi, p := range s.profiles {
		var best float64
		for _, example := range p.Examples {
			if sim := editSimilarity(query, example); sim > best {
				best = sim
			}
		}
		out[pi] = model.MatchCandidate{
			SupplierID:   p.SupplierID,
			SupplierName: p.Name,
			Strategy:     s.Name(),
			Score:        clamp01(best),
		}
	}
	return out
}

// editSimilarity is 1 - distance/maxLen with rune-counted lengths, so
// multi-byte characters count as single edits.
func editSimilarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > maxLen {
		maxLen = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
