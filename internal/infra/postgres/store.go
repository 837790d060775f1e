// Package postgres is the persistence adapter over the remote relational
// store. Every query is scoped by the authenticated user's id; row-level
// security on the server is the store's own concern and is not re-implemented
// here.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/okozlov/finflow/internal/domain"
)

// Store holds a pgx connection pool. The pool reuses connections across
// queries instead of dialing per operation.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database at connString and returns a Store.
func New(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: ping: %w", storeErr(err))
	}
	return &Store{pool: pool}, nil
}

// NewWithPool wraps an existing pool. Used by tests and by callers that
// manage the pool themselves.
func NewWithPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// storeErr classifies a transport or query failure as ErrStoreUnavailable
// while keeping the cause in the chain. Not-found conditions are handled at
// call sites, never mapped here.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}

// requireUser guards user-scoped operations against a missing identity.
func requireUser(userID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	return nil
}
