// Package testutil provides shared helpers for tests that need a real
// storage backend.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/larserikfagernaes/spendmatch/internal/model"
	"github.com/larserikfagernaes/spendmatch/internal/service"
	"github.com/larserikfagernaes/spendmatch/internal/storage"
)

// TestDB wraps an in-memory SQLite storage with seeding helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database and registers its
// cleanup with the test.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{Storage: store, t: t}
}

// SeedSupplier inserts a supplier.
func (db *TestDB) SeedSupplier(id, name string) {
	db.t.Helper()
	err := db.Storage.SaveSupplier(context.Background(), &model.Supplier{ID: id, Name: name})
	if err != nil {
		db.t.Fatalf("failed to seed supplier %s: %v", id, err)
	}
}

// SeedLabeled inserts count labeled transactions for a supplier, each
// description built from the pattern plus a unique suffix.
func (db *TestDB) SeedLabeled(supplierID, pattern string, count int) {
	db.t.Helper()

	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	txns := make([]model.Transaction, 0, count)
	for i := 0; i < count; i++ {
		txns = append(txns, model.Transaction{
			ID:          fmt.Sprintf("%s-labeled-%02d", supplierID, i),
			Description: fmt.Sprintf("%s %d", pattern, i),
			SupplierID:  supplierID,
			Date:        day.AddDate(0, 0, i),
			Amount:      -100,
			AccountID:   "acct-1",
		})
	}
	if err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed labeled transactions: %v", err)
	}
}

// SeedUnlabeled inserts one unlabeled transaction per description.
func (db *TestDB) SeedUnlabeled(descriptions ...string) {
	db.t.Helper()

	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	txns := make([]model.Transaction, 0, len(descriptions))
	for i, d := range descriptions {
		txns = append(txns, model.Transaction{
			ID:          fmt.Sprintf("open-%02d", i),
			Description: d,
			Date:        day.AddDate(0, 0, i),
			Amount:      -50,
			AccountID:   "acct-1",
		})
	}
	if err := db.Storage.SaveTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to seed unlabeled transactions: %v", err)
	}
}
