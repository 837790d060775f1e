package prefs

import (
	"context"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetSetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, err := s.Get(ctx, "missing"); err != nil || ok {
		t.Errorf("Get(missing) = ok=%v err=%v, want absent", ok, err)
	}

	if err := s.Set(ctx, "theme", "dark"); err != nil {
		t.Fatal(err)
	}
	got, ok, err := s.Get(ctx, "theme")
	if err != nil || !ok || got != "dark" {
		t.Errorf("Get(theme) = %q ok=%v err=%v, want dark", got, ok, err)
	}

	// Last write wins.
	if err := s.Set(ctx, "theme", "light"); err != nil {
		t.Fatal(err)
	}
	got, _, _ = s.Get(ctx, "theme")
	if got != "light" {
		t.Errorf("Get(theme) after overwrite = %q, want light", got)
	}
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	for _, k := range []string{"a", "b"} {
		if err := s.Set(ctx, k, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Remove(ctx, "a", "b", "never-existed"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "a"); ok {
		t.Error("key a survived Remove")
	}
	if _, ok, _ := s.Get(ctx, "b"); ok {
		t.Error("key b survived Remove")
	}
}

func TestGetBoolDefaults(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	tests := []struct {
		name     string
		stored   string
		noStore  bool
		fallback bool
		want     bool
	}{
		{name: "absent falls back true", noStore: true, fallback: true, want: true},
		{name: "absent falls back false", noStore: true, fallback: false, want: false},
		{name: "stored true", stored: "true", fallback: false, want: true},
		{name: "stored false", stored: "false", fallback: true, want: false},
		{name: "garbage falls back", stored: "yes", fallback: true, want: true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := "k" + string(rune('0'+i))
			if !tt.noStore {
				if err := s.Set(ctx, key, tt.stored); err != nil {
					t.Fatal(err)
				}
			}
			if got := s.GetBool(ctx, key, tt.fallback); got != tt.want {
				t.Errorf("GetBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSetBoolRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SetBool(ctx, KeyDarkMode, true); err != nil {
		t.Fatal(err)
	}
	if !s.GetBool(ctx, KeyDarkMode, false) {
		t.Error("SetBool(true) did not round-trip")
	}

	if err := s.SetBool(ctx, KeyDarkMode, false); err != nil {
		t.Fatal(err)
	}
	if s.GetBool(ctx, KeyDarkMode, true) {
		t.Error("SetBool(false) did not round-trip")
	}
}

func TestRegistryDefaults(t *testing.T) {
	tests := []struct {
		key         string
		wantScope   Scope
		wantDefault bool
	}{
		{KeyDarkMode, ScopeLocal, false},
		{KeyOnboarded, ScopeLocal, false},
		{KeyNotifications, ScopeRemote, true},
		{KeyBiometrics, ScopeRemote, false},
		{KeyPremium, ScopeLocal, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k, ok := Lookup(tt.key)
			if !ok {
				t.Fatalf("Lookup(%q) missing", tt.key)
			}
			if k.Scope != tt.wantScope || k.Default != tt.wantDefault {
				t.Errorf("Lookup(%q) = %+v, want scope=%v default=%v", tt.key, k, tt.wantScope, tt.wantDefault)
			}
		})
	}
}
