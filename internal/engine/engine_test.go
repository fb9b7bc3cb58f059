package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// fakeStorage is an in-memory Storage used to exercise the engine
// without a database. ApplyMatch failures can be injected per
// transaction id.
type fakeStorage struct {
	mu                 sync.Mutex
	txns               map[string]model.Transaction
	suppliers          []model.Supplier
	categories         []model.Category
	supplierCategories map[string]string
	applyCalls         int
	failApply          map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		txns:               make(map[string]model.Transaction),
		supplierCategories: make(map[string]string),
		failApply:          make(map[string]bool),
	}
}

func (f *fakeStorage) SaveTransactions(_ context.Context, txns []model.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range txns {
		f.txns[txn.ID] = txn
	}
	return nil
}

func (f *fakeStorage) GetTransactionByID(_ context.Context, id string) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.txns[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &txn, nil
}

func (f *fakeStorage) GetLabeledTransactions(_ context.Context) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Transaction
	for _, txn := range f.txns {
		if txn.Labeled() {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStorage) GetUnlabeledTransactions(_ context.Context, limit int) ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Transaction
	for _, txn := range f.txns {
		if !txn.Labeled() {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStorage) ApplyMatch(_ context.Context, transactionID, supplierID, categoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyCalls++
	if f.failApply[transactionID] {
		return errors.New("disk I/O error")
	}
	txn, ok := f.txns[transactionID]
	if !ok {
		return common.ErrNotFound
	}
	txn.SupplierID = supplierID
	txn.CategoryID = categoryID
	f.txns[transactionID] = txn
	return nil
}

func (f *fakeStorage) SaveSupplier(_ context.Context, supplier *model.Supplier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suppliers = append(f.suppliers, *supplier)
	return nil
}

func (f *fakeStorage) GetSuppliers(_ context.Context) ([]model.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Supplier(nil), f.suppliers...), nil
}

func (f *fakeStorage) GetSupplierByID(_ context.Context, id string) (*model.Supplier, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.suppliers {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeStorage) GetCategories(_ context.Context) ([]model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Category(nil), f.categories...), nil
}

func (f *fakeStorage) CreateCategory(_ context.Context, name string) (*model.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := model.Category{ID: fmt.Sprintf("cat-%d", len(f.categories)+1), Name: name}
	f.categories = append(f.categories, c)
	return &c, nil
}

func (f *fakeStorage) UpsertSupplierCategory(_ context.Context, supplierID, categoryID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.supplierCategories[supplierID] = categoryID
	return nil
}

func (f *fakeStorage) Migrate(context.Context) error { return nil }
func (f *fakeStorage) Close() error                  { return nil }

func (f *fakeStorage) applyCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyCalls
}

// seedLabeled inserts count labeled transactions per supplier, each
// description carrying the supplier's pattern plus a unique suffix.
func seedLabeled(f *fakeStorage, patterns map[string]string, count int) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for supplierID, pattern := range patterns {
		f.suppliers = append(f.suppliers, model.Supplier{ID: supplierID, Name: pattern})
		for i := 0; i < count; i++ {
			id := fmt.Sprintf("%s-%02d", supplierID, i)
			f.txns[id] = model.Transaction{
				ID:          id,
				Description: fmt.Sprintf("%s %d", pattern, i),
				SupplierID:  supplierID,
				CategoryID:  "cat-" + supplierID,
				Date:        day.AddDate(0, 0, i),
				Amount:      -100,
			}
		}
	}
}
