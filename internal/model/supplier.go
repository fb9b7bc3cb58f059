// Package model defines the core domain models used throughout the application.
package model

import "time"

// Supplier represents a known counterparty that transactions can be
// matched against.
type Supplier struct {
	CreatedAt time.Time
	ID        string
	Name      string
}

// Category represents an expense category propagated alongside a
// supplier match.
type Category struct {
	ID   string
	Name string
}

// SupplierProfile is the aggregated textual fingerprint of one
// supplier, derived fresh each run from that supplier's labeled
// transactions. It is never persisted; its lifetime is a single run.
type SupplierProfile struct {
	SupplierID string
	Name       string

	// Examples holds lightly normalized example descriptions in
	// first-seen order, deduplicated. Used by the edit-distance path.
	Examples []string

	// TermDocs holds the aggressively normalized form of each example,
	// index-aligned with Examples. Used by the term-vector path.
	TermDocs []string

	// Terms is the merged unigram+bigram bag across all examples.
	Terms map[string]int

	// Shingles is the union of character n-grams across all examples.
	Shingles map[string]struct{}

	// CategoryID is the most frequent category among the supplier's
	// labeled transactions, ties broken by most recent transaction.
	CategoryID string
}

// Scorable reports whether the profile has enough text to be scored
// against. Profiles with zero examples are excluded from every
// candidate set.
func (p *SupplierProfile) Scorable() bool {
	return len(p.Examples) > 0
}
