package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single bank transaction as imported from a
// statement export. SupplierID and CategoryID are empty until a match
// has been applied.
type Transaction struct {
	Date        time.Time
	ID          string
	Description string // Raw statement description
	AccountID   string
	SupplierID  string
	CategoryID  string
	Amount      float64
}

// Labeled reports whether the transaction already carries a supplier
// reference.
func (t *Transaction) Labeled() bool {
	return t.SupplierID != ""
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%.2f:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.Description,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
