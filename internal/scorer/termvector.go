package scorer

import (
	"math"
	"sort"

	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
)

// termVectorScorer scores with TF-IDF weighted cosine similarity over
// aggressively normalized term documents. Each supplier example is its
// own document; a supplier's score is the mean of its top-K
// best-matching documents, which rewards consistent matches across a
// supplier's history instead of a single lucky example.
type termVectorScorer struct {
	profiles   []*model.SupplierProfile
	normalizer *normalize.Normalizer
	topK       int

	idf      map[string]float64
	docVecs  []map[string]float64
	docOwner []int
}

func newTermVector(profiles []*model.SupplierProfile, cfg Config) *termVectorScorer {
	s := &termVectorScorer{
		profiles:   profiles,
		normalizer: normalize.New(cfg.Normalize),
		topK:       cfg.TopK,
	}
	s.fit()
	return s
}

// fit computes inverse document frequencies over every example
// document and precomputes an L2-normalized weight vector per
// document. Scoring afterwards only touches the query's own terms.
func (s *termVectorScorer) fit() {
	var docs [][]string
	for pi, p := range s.profiles {
		for _, doc := range p.TermDocs {
			docs = append(docs, normalize.Terms(doc))
			s.docOwner = append(s.docOwner, pi)
		}
	}

	df := make(map[string]int)
	for _, terms := range docs {
		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	n := float64(len(docs))
	s.idf = make(map[string]float64, len(df))
	for t, count := range df {
		s.idf[t] = math.Log(n/float64(count+1)) + 1
	}

	s.docVecs = make([]map[string]float64, len(docs))
	for i, terms := range docs {
		s.docVecs[i] = s.vectorize(terms)
	}
}

// vectorize turns a term slice into an L2-normalized tf-idf vector.
// Terms outside the fitted vocabulary are ignored.
func (s *termVectorScorer) vectorize(terms []string) map[string]float64 {
	if len(terms) == 0 {
		return nil
	}
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}

	vec := make(map[string]float64, len(counts))
	var norm float64
	total := float64(len(terms))
	for t, c := range counts {
		idf, ok := s.idf[t]
		if !ok {
			continue
		}
		w := (float64(c) / total) * idf
		vec[t] = w
		norm += w * w
	}
	if norm == 0 {
		return nil
	}
	norm = math.Sqrt(norm)
	for t := range vec {
		vec[t] /= norm
	}
	return vec
}

func (s *termVectorScorer) Name() model.Strategy { return model.StrategyTermVector }

func (s *termVectorScorer) Score(description string) []model.MatchCandidate {
	query := s.vectorize(normalize.Terms(s.normalizer.Normalize(description)))
	if query == nil {
		return zeroCandidates(s.Name(), s.profiles)
	}

	perProfile := make([][]float64, len(s.profiles))
	for di, doc := range s.docVecs {
		sim := cosine(query, doc)
		if sim > 0 {
			pi := s.docOwner[di]
			perProfile[pi] = append(perProfile[pi], sim)
		}
	}

	out := make([]model.MatchCandidate, len(s.profiles))
	for pi, p := range s.profiles {
		out[pi] = model.MatchCandidate{
			SupplierID:   p.SupplierID,
			SupplierName: p.Name,
			Strategy:     s.Name(),
			Score:        clamp01(topKMean(perProfile[pi], s.topK)),
		}
	}
	return out
}

// cosine is the dot product of two unit vectors, iterating the smaller
// of the two.
func cosine(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for t, w := range a {
		dot += w * b[t]
	}
	return dot
}

// topKMean averages the k highest values, or all of them when there
// are fewer than k.
func topKMean(scores []float64, k int) float64 {
	if len(scores) == 0 {
		return 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(scores)))
	if len(scores) > k {
		scores = scores[:k]
	}
	var sum float64
	for _, v := range scores {
		sum += v
	}
	return sum / float64(len(scores))
}
