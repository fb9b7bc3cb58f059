package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/larserikfagernaes/spendmatch/internal/common"
	"github.com/larserikfagernaes/spendmatch/internal/model"
)

// SaveTransactions inserts transactions, skipping any whose content
// hash is already present. Re-importing the same statement export is
// therefore safe.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO transactions (id, hash, date, description, account_id, amount, supplier_id, category_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(hash) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, txn := range transactions {
		_, err := stmt.ExecContext(ctx,
			txn.ID, txn.GenerateHash(), txn.Date, txn.Description,
			nullable(txn.AccountID), txn.Amount,
			nullable(txn.SupplierID), nullable(txn.CategoryID))
		if err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

// GetTransactionByID retrieves a single transaction.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, date, description, account_id, amount, supplier_id, category_id
		FROM transactions
		WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetLabeledTransactions returns all transactions that carry a
// supplier reference, oldest first.
func (s *SQLiteStorage) GetLabeledTransactions(ctx context.Context) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, account_id, amount, supplier_id, category_id
		FROM transactions
		WHERE supplier_id IS NOT NULL AND supplier_id != ''
		ORDER BY date, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query labeled transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// GetUnlabeledTransactions returns transactions without a supplier
// reference, most recent first. limit <= 0 returns all of them.
func (s *SQLiteStorage) GetUnlabeledTransactions(ctx context.Context, limit int) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, description, account_id, amount, supplier_id, category_id
		FROM transactions
		WHERE supplier_id IS NULL OR supplier_id = ''
		ORDER BY date DESC, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlabeled transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectTransactions(rows)
}

// ApplyMatch writes the matched supplier and category back to one
// transaction. The update is idempotent: applying the same match twice
// leaves the row unchanged.
func (s *SQLiteStorage) ApplyMatch(ctx context.Context, transactionID, supplierID, categoryID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(transactionID, "transactionID"); err != nil {
		return err
	}
	if err := validateString(supplierID, "supplierID"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions
		SET supplier_id = ?, category_id = ?
		WHERE id = ?`,
		supplierID, nullable(categoryID), transactionID)
	if err != nil {
		return fmt.Errorf("failed to apply match: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("transaction %s: %w", transactionID, common.ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*model.Transaction, error) {
	var (
		txn        model.Transaction
		accountID  sql.NullString
		supplierID sql.NullString
		categoryID sql.NullString
	)
	err := row.Scan(&txn.ID, &txn.Date, &txn.Description, &accountID, &txn.Amount, &supplierID, &categoryID)
	if err != nil {
		return nil, err
	}
	txn.AccountID = accountID.String
	txn.SupplierID = supplierID.String
	txn.CategoryID = categoryID.String
	return &txn, nil
}

func collectTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}

// nullable maps an empty string to NULL so optional references stay
// NULL in the schema.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
