// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// Storage defines the contract for the persistence collaborator. The
// matching engine only ever reads transactions and writes back the
// supplier and category references of previously unmatched ones.
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	// GetLabeledTransactions returns transactions with a non-empty
	// supplier reference, used to build profiles and for evaluation.
	GetLabeledTransactions(ctx context.Context) ([]model.Transaction, error)
	// GetUnlabeledTransactions returns transactions without a supplier
	// reference, most recent first. limit <= 0 means no limit.
	GetUnlabeledTransactions(ctx context.Context, limit int) ([]model.Transaction, error)
	// ApplyMatch writes the matched supplier (and optionally category)
	// back to one transaction. Writing the same match twice leaves
	// storage in the same state.
	ApplyMatch(ctx context.Context, transactionID, supplierID, categoryID string) error

	// Supplier operations
	SaveSupplier(ctx context.Context, supplier *model.Supplier) error
	GetSuppliers(ctx context.Context) ([]model.Supplier, error)
	GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error)

	// Category operations
	GetCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	// UpsertSupplierCategory records that a supplier maps to a
	// category, for reuse by later runs. Idempotent.
	UpsertSupplierCategory(ctx context.Context, supplierID, categoryID string) error

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for storage writes.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryOptions returns the retry defaults used for storage
// write-backs.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
	}
}
