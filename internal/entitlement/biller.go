package entitlement

import (
	"context"
	"sync"
)

// LocalBiller is a billing provider that confirms every transition and
// remembers the last confirmed state per user. It stands in where no
// payment processor is wired up; a real provider implements the same
// interface.
type LocalBiller struct {
	mu     sync.Mutex
	active map[string]bool
}

func NewLocalBiller() *LocalBiller {
	return &LocalBiller{active: make(map[string]bool)}
}

func (b *LocalBiller) Purchase(ctx context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active[userID] = true
	return nil
}

func (b *LocalBiller) Cancel(ctx context.Context, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active[userID] = false
	return nil
}

func (b *LocalBiller) Restore(ctx context.Context, userID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active[userID], nil
}

var _ Biller = (*LocalBiller)(nil)
