package domain

import (
	"fmt"
	"math"
	"time"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known variants.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// Transaction is a single dated income or expense record owned by a user.
// Records are immutable once created: the only mutation the system supports
// is deletion.
type Transaction struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TransactionFields is the user-supplied part of a transaction. The store
// assigns ID and CreatedAt on insert.
type TransactionFields struct {
	Amount      float64         `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

// Validate checks the write invariants: amount is a positive finite number,
// type is a known variant, date is set. The date itself may be past, present
// or future.
func (f TransactionFields) Validate() error {
	if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
		return fmt.Errorf("%w: amount is not a finite number", ErrValidation)
	}
	if f.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %v", ErrValidation, f.Amount)
	}
	if !f.Type.Valid() {
		return fmt.Errorf("%w: unknown transaction type %q", ErrValidation, f.Type)
	}
	if f.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	if f.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrValidation)
	}
	return nil
}

// NormalizeDate pins a transaction date to local noon of its calendar day.
// Storing noon instead of the raw timestamp keeps the record on the same
// calendar day even when it crosses a timezone or DST boundary.
func NormalizeDate(t time.Time) time.Time {
	local := t.Local()
	return time.Date(local.Year(), local.Month(), local.Day(), 12, 0, 0, 0, local.Location())
}
