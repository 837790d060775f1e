package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/okozlov/finflow/internal/domain"
)

// User is an account row. PasswordHash never leaves the auth layer.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
}

// CreateUser inserts a new account and returns it with the assigned id.
func (s *Store) CreateUser(ctx context.Context, email, displayName, passwordHash string) (User, error) {
	u := User{Email: email, DisplayName: displayName, PasswordHash: passwordHash}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, display_name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id`,
		email, displayName, passwordHash,
	).Scan(&u.ID)
	if err != nil {
		return User{}, fmt.Errorf("CreateUser: insert: %w", storeErr(err))
	}
	return u, nil
}

// GetProfile loads the account profile for userID. Returns ErrNotFound when
// the account does not exist.
func (s *Store) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	var p domain.Profile
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, display_name, created_at
		FROM users
		WHERE id = $1`, userID,
	).Scan(&p.UserID, &p.Email, &p.DisplayName, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("GetProfile: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("GetProfile: query: %w", storeErr(err))
	}
	return p, nil
}

// UpdateProfile changes the account's display name and returns the updated
// profile. Returns ErrNotFound when the account does not exist.
func (s *Store) UpdateProfile(ctx context.Context, userID, displayName string) (domain.Profile, error) {
	var p domain.Profile
	err := s.pool.QueryRow(ctx, `
		UPDATE users
		SET display_name = $2
		WHERE id = $1
		RETURNING id, email, display_name, created_at`,
		userID, displayName,
	).Scan(&p.UserID, &p.Email, &p.DisplayName, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("UpdateProfile: %w", domain.ErrNotFound)
	}
	if err != nil {
		return domain.Profile{}, fmt.Errorf("UpdateProfile: update: %w", storeErr(err))
	}
	return p, nil
}

// GetUserByEmail looks an account up for sign-in. Returns ErrNotFound when
// no account matches.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, display_name, password_hash
		FROM users
		WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, fmt.Errorf("GetUserByEmail: %w", domain.ErrNotFound)
	}
	if err != nil {
		return User{}, fmt.Errorf("GetUserByEmail: query: %w", storeErr(err))
	}
	return u, nil
}
