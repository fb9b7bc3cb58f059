// Package profile builds per-supplier text profiles from labeled
// transactions. Profiles are in-memory derived artifacts with a
// lifetime of one run; they are rebuilt from scratch on every call so
// the evaluator can regenerate them from a training split.
package profile

import (
	"sort"
	"strings"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/normalize"
)

// Options controls profile construction.
type Options struct {
	// MinExamples is the minimum number of labeled transactions a
	// supplier needs before it gets a profile. Suppliers below the
	// floor are excluded to avoid overfitting to noise.
	MinExamples int
	// MaxExamples caps the number of distinct example descriptions
	// kept per supplier. 0 means no cap.
	MaxExamples int
}

// DefaultOptions returns the default profile options.
func DefaultOptions() Options {
	return Options{MinExamples: 2, MaxExamples: 50}
}

// Builder aggregates labeled transactions into supplier profiles.
type Builder struct {
	normalizer *normalize.Normalizer
	opts       Options
}

// NewBuilder creates a profile builder with the given normalizer and
// options.
func NewBuilder(n *normalize.Normalizer, opts Options) *Builder {
	if opts.MinExamples < 1 {
		opts.MinExamples = 1
	}
	return &Builder{normalizer: n, opts: opts}
}

// Build groups labeled transactions by supplier and derives one
// profile per retained supplier. Suppliers with fewer than MinExamples
// labeled transactions are skipped silently (logged at debug level).
// The result is ordered by supplier id so repeated builds over the
// same input are identical.
func (b *Builder) Build(labeled []model.Transaction, suppliers []model.Supplier) []*model.SupplierProfile {
	names := make(map[string]string, len(suppliers))
	for _, s := range suppliers {
		names[s.ID] = s.Name
	}

	grouped := make(map[string][]model.Transaction)
	for _, txn := range labeled {
		if txn.SupplierID == "" || strings.TrimSpace(txn.Description) == "" {
			continue
		}
		grouped[txn.SupplierID] = append(grouped[txn.SupplierID], txn)
	}

	ids := make([]string, 0, len(grouped))
	for id := range grouped {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	profiles := make([]*model.SupplierProfile, 0, len(ids))
	for _, id := range ids {
		txns := grouped[id]
		if len(txns) < b.opts.MinExamples {
			common.LogDebug("Excluding supplier with too few labeled transactions",
				common.Fields{"supplier_id": id, "count": len(txns), "min_examples": b.opts.MinExamples})
			continue
		}

		p := b.buildOne(id, names[id], txns)
		if p.Scorable() {
			profiles = append(profiles, p)
		}
	}

	return profiles
}

func (b *Builder) buildOne(id, name string, txns []model.Transaction) *model.SupplierProfile {
	p := &model.SupplierProfile{
		SupplierID: id,
		Name:       name,
		Terms:      make(map[string]int),
		Shingles:   make(map[string]struct{}),
		CategoryID: modalCategory(txns),
	}

	seen := make(map[string]struct{})
	for _, txn := range txns {
		light := normalize.Light(txn.Description)
		if light == "" {
			continue
		}
		if _, dup := seen[light]; dup {
			continue
		}
		seen[light] = struct{}{}

		if b.opts.MaxExamples > 0 && len(p.Examples) >= b.opts.MaxExamples {
			break
		}

		p.Examples = append(p.Examples, light)
		p.TermDocs = append(p.TermDocs, b.normalizer.Normalize(txn.Description))

		for _, term := range normalize.Terms(p.TermDocs[len(p.TermDocs)-1]) {
			p.Terms[term]++
		}
		for sh := range b.normalizer.Shingles(light) {
			p.Shingles[sh] = struct{}{}
		}
	}

	return p
}

// modalCategory returns the most frequent category among the
// supplier's transactions. Ties break toward the category seen on the
// most recent transaction, then by category id ascending so repeated
// runs over the same input pick the same category.
func modalCategory(txns []model.Transaction) string {
	counts := make(map[string]int)
	latest := make(map[string]model.Transaction)

	for _, txn := range txns {
		if txn.CategoryID == "" {
			continue
		}
		counts[txn.CategoryID]++
		if cur, ok := latest[txn.CategoryID]; !ok || txn.Date.After(cur.Date) {
			latest[txn.CategoryID] = txn
		}
	}

	best := ""
	for id, n := range counts {
		if best == "" {
			best = id
			continue
		}
		switch {
		case n > counts[best]:
			best = id
		case n == counts[best] && latest[id].Date.After(latest[best].Date):
			best = id
		case n == counts[best] && latest[id].Date.Equal(latest[best].Date) && id < best:
			best = id
		}
	}
	return best
}
