package entitlement

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okozlov/finflow/internal/logger"
	"github.com/okozlov/finflow/internal/prefs"
)

// mockBiller scripts the billing collaborator's responses.
type mockBiller struct {
	purchaseErr error
	cancelErr   error
	restoreErr  error
	active      map[string]bool
}

func (m *mockBiller) Purchase(ctx context.Context, userID string) error { return m.purchaseErr }
func (m *mockBiller) Cancel(ctx context.Context, userID string) error   { return m.cancelErr }
func (m *mockBiller) Restore(ctx context.Context, userID string) (bool, error) {
	return m.active[userID], m.restoreErr
}

func newTestManager(t *testing.T, biller Biller) (*Manager, *prefs.Store) {
	t.Helper()
	cache, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs.Open: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	log := logger.NewWithWriter(&bytes.Buffer{})
	return NewManager(biller, cache, log), cache
}

func TestPurchaseTransitions(t *testing.T) {
	ctx := context.Background()
	m, cache := newTestManager(t, &mockBiller{})

	if m.IsPremium(ctx, "alice") {
		t.Fatal("initial state must be free")
	}
	if err := m.Purchase(ctx, "alice"); err != nil {
		t.Fatalf("Purchase: %v", err)
	}
	if !m.IsPremium(ctx, "alice") {
		t.Error("state not premium after successful purchase")
	}
	if !cache.GetBool(ctx, premiumKey("alice"), false) {
		t.Error("premium flag not cached")
	}
}

func TestEntitlementIsPerUser(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{})

	if err := m.Purchase(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if m.IsPremium(ctx, "bob") {
		t.Error("alice's purchase must not unlock premium for bob")
	}
	if m.HasCapability(ctx, "bob", "export_csv") {
		t.Error("alice's purchase must not grant bob a premium capability")
	}

	// Bob's own cancel must not touch alice.
	if err := m.Cancel(ctx, "bob"); err != nil {
		t.Fatal(err)
	}
	if !m.IsPremium(ctx, "alice") {
		t.Error("bob's cancel downgraded alice")
	}
}

func TestPurchaseFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{purchaseErr: errors.New("payment declined")})

	if err := m.Purchase(ctx, "alice"); err == nil {
		t.Fatal("Purchase must surface the biller failure")
	}
	if m.IsPremium(ctx, "alice") {
		t.Error("failed purchase must not change state")
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{})

	if err := m.Purchase(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	if err := m.Cancel(ctx, "alice"); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if m.IsPremium(ctx, "alice") {
		t.Error("state not free after cancel")
	}
}

func TestCancelFailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	biller := &mockBiller{}
	m, _ := newTestManager(t, biller)
	if err := m.Purchase(ctx, "alice"); err != nil {
		t.Fatal(err)
	}

	biller.cancelErr = errors.New("network down")
	if err := m.Cancel(ctx, "alice"); err == nil {
		t.Fatal("Cancel must surface the biller failure")
	}
	if !m.IsPremium(ctx, "alice") {
		t.Error("failed cancel must not change state")
	}
}

func TestRestoreClearsStaleCachedPremium(t *testing.T) {
	ctx := context.Background()
	cache, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	// A previous session cached premium, but the biller no longer has an
	// active entitlement.
	if err := cache.SetBool(ctx, premiumKey("alice"), true); err != nil {
		t.Fatal(err)
	}
	log := logger.NewWithWriter(&bytes.Buffer{})
	m := NewManager(&mockBiller{}, cache, log)

	if !m.IsPremium(ctx, "alice") {
		t.Fatal("manager must seed from the cached flag")
	}

	active, err := m.Restore(ctx, "alice")
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if active || m.IsPremium(ctx, "alice") {
		t.Error("restore with no entitlement must resolve to free")
	}
	if cache.GetBool(ctx, premiumKey("alice"), true) {
		t.Error("stale cached premium flag must be cleared")
	}
}

func TestRestoreReportsActiveEntitlement(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{active: map[string]bool{"alice": true}})

	active, err := m.Restore(ctx, "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !active || !m.IsPremium(ctx, "alice") {
		t.Error("restore with an active entitlement must resolve to premium")
	}
}

func TestRestoreFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{restoreErr: errors.New("timeout")})

	if _, err := m.Restore(ctx, "alice"); err == nil {
		t.Fatal("Restore must surface the biller failure")
	}
	if m.IsPremium(ctx, "alice") {
		t.Error("failed restore must not change state")
	}
}

func TestHasCapability(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, &mockBiller{})

	tests := []struct {
		capability string
		free       bool
		premium    bool
	}{
		{"weekly_comparison", false, true},
		{"category_breakdown", false, true},
		{"export_csv", false, true},
		{"ai_insights", false, true},
		{"add_transaction", true, true}, // ungated
	}

	for _, tt := range tests {
		if got := m.HasCapability(ctx, "alice", tt.capability); got != tt.free {
			t.Errorf("free tier HasCapability(%q) = %v, want %v", tt.capability, got, tt.free)
		}
	}

	if err := m.Purchase(ctx, "alice"); err != nil {
		t.Fatal(err)
	}
	for _, tt := range tests {
		if got := m.HasCapability(ctx, "alice", tt.capability); got != tt.premium {
			t.Errorf("premium tier HasCapability(%q) = %v, want %v", tt.capability, got, tt.premium)
		}
	}
}
