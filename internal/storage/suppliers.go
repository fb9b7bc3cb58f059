package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// SaveSupplier inserts or updates a supplier.
func (s *SQLiteStorage) SaveSupplier(ctx context.Context, supplier *model.Supplier) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSupplier(supplier); err != nil {
		return err
	}

	createdAt := supplier.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO suppliers (id, name, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name`,
		supplier.ID, supplier.Name, createdAt)
	if err != nil {
		return fmt.Errorf("failed to save supplier: %w", err)
	}
	return nil
}

// GetSuppliers returns all suppliers ordered by name.
func (s *SQLiteStorage) GetSuppliers(ctx context.Context) ([]model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at
		FROM suppliers
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query suppliers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suppliers []model.Supplier
	for rows.Next() {
		var supplier model.Supplier
		if err := rows.Scan(&supplier.ID, &supplier.Name, &supplier.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan supplier: %w", err)
		}
		suppliers = append(suppliers, supplier)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate suppliers: %w", err)
	}
	return suppliers, nil
}

// GetSupplierByID retrieves a single supplier.
func (s *SQLiteStorage) GetSupplierByID(ctx context.Context, id string) (*model.Supplier, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var supplier model.Supplier
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at
		FROM suppliers
		WHERE id = ?`, id).Scan(&supplier.ID, &supplier.Name, &supplier.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return &supplier, nil
}
