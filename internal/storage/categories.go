package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// GetCategories returns all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name
		FROM categories
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var cat model.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a category, or returns the existing one when
// the name is already present.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, name string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var existing model.Category
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name FROM categories WHERE name = ?`, name).
		Scan(&existing.ID, &existing.Name)
	if err == nil {
		return &existing, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to look up category: %w", err)
	}

	cat := model.Category{ID: uuid.New().String(), Name: name}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name) VALUES (?, ?)`, cat.ID, cat.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

// UpsertSupplierCategory records that a supplier maps to a category so
// later runs can reuse the inferred mapping. Idempotent.
func (s *SQLiteStorage) UpsertSupplierCategory(ctx context.Context, supplierID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(supplierID, "supplierID"); err != nil {
		return err
	}
	if err := validateString(categoryID, "categoryID"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO supplier_categories (supplier_id, category_id)
		VALUES (?, ?)
		ON CONFLICT(supplier_id, category_id) DO UPDATE SET updated_at = CURRENT_TIMESTAMP`,
		supplierID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to upsert supplier category: %w", err)
	}
	return nil
}
