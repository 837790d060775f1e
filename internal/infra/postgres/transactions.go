package postgres

import (
	"context"
	"fmt"

	"github.com/okozlov/finflow/internal/domain"
)

// ListTransactions returns all of the user's transactions, newest date
// first. An empty result is a valid state, not an error.
func (s *Store) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, fmt.Errorf("ListTransactions: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, amount, type, category, COALESCE(description, ''), date, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY date DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query: %w", storeErr(err))
	}
	defer rows.Close()

	txs := []domain.Transaction{}
	for rows.Next() {
		var t domain.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Amount, &t.Type, &t.Category, &t.Description, &t.Date, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListTransactions: scan: %w", storeErr(err))
		}
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListTransactions: rows: %w", storeErr(err))
	}
	return txs, nil
}

// InsertTransaction validates the fields, normalizes the date to local noon
// and inserts the record. The store assigns the id; the returned transaction
// is fully hydrated.
func (s *Store) InsertTransaction(ctx context.Context, userID string, fields domain.TransactionFields) (domain.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertTransaction: %w", err)
	}
	if err := fields.Validate(); err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertTransaction: %w", err)
	}

	t := domain.Transaction{
		UserID:      userID,
		Amount:      fields.Amount,
		Type:        fields.Type,
		Category:    fields.Category,
		Date:        domain.NormalizeDate(fields.Date),
		Description: fields.Description,
	}

	var description *string
	if t.Description != "" {
		description = &t.Description
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (user_id, amount, type, category, description, date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		t.UserID, t.Amount, t.Type, t.Category, description, t.Date,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertTransaction: insert: %w", storeErr(err))
	}
	return t, nil
}

// DeleteTransaction removes the user's transaction with the given id.
// Deleting an absent id is not an error; the return value reports whether a
// row was actually removed.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, fmt.Errorf("DeleteTransaction: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM transactions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("DeleteTransaction: exec: %w", storeErr(err))
	}
	return tag.RowsAffected() > 0, nil
}
