package postgres

import (
	"context"
	"fmt"

	"github.com/okozlov/finflow/internal/domain"
)

// ListSubscriptions returns all of the user's subscriptions ordered by the
// soonest renewal first. Past-due rows sort ahead of upcoming ones; the
// renewal date is never rolled forward by the store.
func (s *Store) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	if err := requireUser(userID); err != nil {
		return nil, fmt.Errorf("ListSubscriptions: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, name, amount, category, color, renew_date, created_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY renew_date ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListSubscriptions: query: %w", storeErr(err))
	}
	defer rows.Close()

	subs := []domain.Subscription{}
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(&sub.ID, &sub.UserID, &sub.Name, &sub.Amount, &sub.Category, &sub.Color, &sub.RenewDate, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("ListSubscriptions: scan: %w", storeErr(err))
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListSubscriptions: rows: %w", storeErr(err))
	}
	return subs, nil
}

// InsertSubscription validates and inserts a subscription, returning the
// hydrated record with the store-assigned id.
func (s *Store) InsertSubscription(ctx context.Context, userID string, fields domain.SubscriptionFields) (domain.Subscription, error) {
	if err := requireUser(userID); err != nil {
		return domain.Subscription{}, fmt.Errorf("InsertSubscription: %w", err)
	}
	if err := fields.Validate(); err != nil {
		return domain.Subscription{}, fmt.Errorf("InsertSubscription: %w", err)
	}

	sub := domain.Subscription{
		UserID:    userID,
		Name:      fields.Name,
		Amount:    fields.Amount,
		Category:  fields.Category,
		Color:     fields.Color,
		RenewDate: fields.RenewDate,
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (user_id, name, amount, category, color, renew_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		sub.UserID, sub.Name, sub.Amount, sub.Category, sub.Color, sub.RenewDate,
	).Scan(&sub.ID, &sub.CreatedAt)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("InsertSubscription: insert: %w", storeErr(err))
	}
	return sub, nil
}

// DeleteSubscription removes the user's subscription with the given id,
// reporting whether a row was removed. Same idempotent contract as
// DeleteTransaction.
func (s *Store) DeleteSubscription(ctx context.Context, userID, id string) (bool, error) {
	if err := requireUser(userID); err != nil {
		return false, fmt.Errorf("DeleteSubscription: %w", err)
	}

	tag, err := s.pool.Exec(ctx, `
		DELETE FROM subscriptions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("DeleteSubscription: exec: %w", storeErr(err))
	}
	return tag.RowsAffected() > 0, nil
}
