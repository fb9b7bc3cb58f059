// Package normalize provides deterministic text cleanup shared by all
// similarity scorers. Both normalization paths are pure functions:
// identical input always yields identical output, and empty input
// yields an empty string.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// DefaultStopwords lists generic bank-statement tokens that carry no
// supplier signal. These are tunable defaults, not fixed behavior;
// callers override them through Config.
var DefaultStopwords = []string{
	"payment", "invoice", "transfer", "purchase",
	"debit", "credit", "card", "visa", "atm", "pos",
	"ref", "reference",
	// Norwegian bank-export equivalents.
	"betaling", "faktura", "giro", "gebyr", "til", "fra",
}

// Config is the immutable normalization configuration. A zero Config
// is not valid; use DefaultConfig and adjust.
type Config struct {
	Stopwords  []string
	MinShingle int
	MaxShingle int
}

// DefaultConfig returns the default normalization configuration:
// the default stopword list and 3-5 character shingles.
func DefaultConfig() Config {
	return Config{
		Stopwords:  DefaultStopwords,
		MinShingle: 3,
		MaxShingle: 5,
	}
}

// Normalizer applies the configured cleanup. Build one per run and
// share it freely; it is safe for concurrent use once constructed.
type Normalizer struct {
	stopwords  map[string]struct{}
	minShingle int
	maxShingle int
}

// New compiles a Config into a Normalizer.
func New(cfg Config) *Normalizer {
	stop := make(map[string]struct{}, len(cfg.Stopwords))
	for _, w := range cfg.Stopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}

	minS, maxS := cfg.MinShingle, cfg.MaxShingle
	if minS <= 0 {
		minS = 3
	}
	if maxS < minS {
		maxS = minS
	}

	return &Normalizer{
		stopwords:  stop,
		minShingle: minS,
		maxShingle: maxS,
	}
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize is the aggressive path used by the term-vector and hybrid
// scorers: lowercase, strip accents, replace digits and punctuation
// with spaces, drop stopwords and single-character fragments, collapse
// whitespace.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	lowered, _, err := transform.String(stripAccents, strings.ToLower(text))
	if err != nil {
		lowered = strings.ToLower(text)
	}

	// Reference numbers, dates and currency symbols are noise: keep
	// letters, map everything else to a word boundary.
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) {
			return r
		}
		return ' '
	}, lowered)

	fields := strings.Fields(cleaned)
	kept := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := n.stopwords[f]; stop {
			continue
		}
		kept = append(kept, f)
	}

	return strings.Join(kept, " ")
}

// Light is the lighter path used by the edit-distance and shingle
// scorers: case folding and whitespace collapse only. Aggressive
// stopword removal destroys edit-distance signal, so everything else
// is preserved.
func Light(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// Tokenize splits normalized text into word tokens.
func Tokenize(s string) []string {
	return strings.Fields(s)
}

// Terms expands normalized text into unigrams plus adjacent-word
// bigrams. Bigrams let the vector space capture multi-word company
// names that unigrams alone would fragment.
func Terms(s string) []string {
	tokens := Tokenize(s)
	if len(tokens) == 0 {
		return nil
	}

	terms := make([]string, 0, len(tokens)*2-1)
	terms = append(terms, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		terms = append(terms, tokens[i]+" "+tokens[i+1])
	}
	return terms
}

// Shingles returns the set of overlapping character n-grams of the
// configured sizes, spaces included so shingles can span word
// boundaries. Strings shorter than a shingle size contribute no
// shingles of that size.
func (n *Normalizer) Shingles(s string) map[string]struct{} {
	out := make(map[string]struct{})
	r := []rune(s)
	for size := n.minShingle; size <= n.maxShingle; size++ {
		for i := 0; i+size <= len(r); i++ {
			out[string(r[i:i+size])] = struct{}{}
		}
	}
	return out
}
