// Package entitlement tracks each user's access tier (free or premium) and
// the transitions driven by the billing collaborator. The manager is a pure
// boolean projection per user: it knows nothing about which features
// consult it.
package entitlement

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/okozlov/finflow/internal/prefs"
)

// Biller is the billing collaborator. Purchase and Cancel confirm a
// transition for one user; Restore reports the provider's current
// entitlement truth for that user. Any call may fail (network, user
// cancellation, payment declined).
type Biller interface {
	Purchase(ctx context.Context, userID string) error
	Restore(ctx context.Context, userID string) (active bool, err error)
	Cancel(ctx context.Context, userID string) error
}

// Manager holds the premium flag per user. Flags are cached in the local
// preference store under a per-user key so an offline start keeps the last
// known tier; Restore resynchronizes a user with the biller.
type Manager struct {
	biller Biller
	cache  *prefs.Store
	log    zerolog.Logger

	mu      sync.Mutex
	premium map[string]bool
}

// NewManager creates a manager. Per-user state is loaded lazily from the
// cached flags; a user with no cached flag starts free.
func NewManager(biller Biller, cache *prefs.Store, log zerolog.Logger) *Manager {
	return &Manager{
		biller:  biller,
		cache:   cache,
		log:     log,
		premium: make(map[string]bool),
	}
}

func premiumKey(userID string) string {
	return prefs.KeyPremium + ":" + userID
}

// IsPremium reports the user's current tier.
func (m *Manager) IsPremium(ctx context.Context, userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx, userID)
}

// loadLocked returns the user's flag, reading the cached value on first
// access. Callers hold m.mu.
func (m *Manager) loadLocked(ctx context.Context, userID string) bool {
	if v, ok := m.premium[userID]; ok {
		return v
	}
	v := m.cache.GetBool(ctx, premiumKey(userID), false)
	m.premium[userID] = v
	return v
}

func (m *Manager) setPremium(ctx context.Context, userID string, premium bool) {
	m.mu.Lock()
	m.premium[userID] = premium
	m.mu.Unlock()

	if err := m.cache.SetBool(ctx, premiumKey(userID), premium); err != nil {
		m.log.Warn().Err(err).Str("user_id", userID).Bool("premium", premium).Msg("failed to cache entitlement flag")
	}
}

// Purchase asks the biller to complete a purchase for the user and, only on
// success, moves that user free -> premium. On failure the state is
// unchanged and the error is surfaced, never swallowed into a transition.
func (m *Manager) Purchase(ctx context.Context, userID string) error {
	if err := m.biller.Purchase(ctx, userID); err != nil {
		return fmt.Errorf("Purchase: %w", err)
	}
	m.setPremium(ctx, userID, true)
	m.log.Info().Str("user_id", userID).Msg("entitlement upgraded to premium")
	return nil
}

// Cancel moves the user premium -> free after the biller confirms the
// cancellation.
func (m *Manager) Cancel(ctx context.Context, userID string) error {
	if err := m.biller.Cancel(ctx, userID); err != nil {
		return fmt.Errorf("Cancel: %w", err)
	}
	m.setPremium(ctx, userID, false)
	m.log.Info().Str("user_id", userID).Msg("entitlement downgraded to free")
	return nil
}

// Restore sets the user's state to whatever the biller reports, including
// clearing a stale cached premium when no active entitlement exists. It
// changes no entitlement itself.
func (m *Manager) Restore(ctx context.Context, userID string) (bool, error) {
	active, err := m.biller.Restore(ctx, userID)
	if err != nil {
		return m.IsPremium(ctx, userID), fmt.Errorf("Restore: %w", err)
	}
	m.setPremium(ctx, userID, active)
	return active, nil
}

// Capabilities gated behind premium. Everything not listed is available on
// the free tier.
var premiumCapabilities = map[string]bool{
	"weekly_comparison":  true,
	"category_breakdown": true,
	"export_csv":         true,
	"ai_insights":        true,
}

// HasCapability is the single gating check consumers use instead of
// scattering boolean comparisons. Gating is always per user.
func (m *Manager) HasCapability(ctx context.Context, userID, name string) bool {
	if !premiumCapabilities[name] {
		return true
	}
	return m.IsPremium(ctx, userID)
}
