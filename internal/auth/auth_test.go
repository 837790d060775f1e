package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/infra/postgres"
)

type memUserStore struct {
	byEmail map[string]postgres.User
	nextID  int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{byEmail: make(map[string]postgres.User)}
}

func (m *memUserStore) CreateUser(ctx context.Context, email, displayName, passwordHash string) (postgres.User, error) {
	if _, exists := m.byEmail[email]; exists {
		return postgres.User{}, fmt.Errorf("CreateUser: %w: duplicate email", domain.ErrStoreUnavailable)
	}
	m.nextID++
	u := postgres.User{
		ID:           fmt.Sprintf("user-%d", m.nextID),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUserStore) GetUserByEmail(ctx context.Context, email string) (postgres.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return postgres.User{}, fmt.Errorf("GetUserByEmail: %w", domain.ErrNotFound)
	}
	return u, nil
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	store := newMemUserStore()
	a := New(store)

	session, err := a.SignUp(ctx, "Ana@Example.com", "correct horse", "Ana")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if session.Token == "" || session.UserID == "" {
		t.Fatalf("SignUp returned incomplete session: %+v", session)
	}

	// Password must be stored hashed, never verbatim.
	stored := store.byEmail["ana@example.com"]
	if stored.PasswordHash == "correct horse" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("correct horse")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}

	got, err := a.SignIn(ctx, "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if got.UserID != session.UserID {
		t.Errorf("SignIn user = %q, want %q", got.UserID, session.UserID)
	}
}

func TestSignUpValidation(t *testing.T) {
	ctx := context.Background()
	a := New(newMemUserStore())

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "long enough pw"},
		{"not an email", "nope", "long enough pw"},
		{"short password", "a@b.com", "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.SignUp(ctx, tt.email, tt.password, "X")
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("SignUp error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestSignInFailures(t *testing.T) {
	ctx := context.Background()
	a := New(newMemUserStore())
	if _, err := a.SignUp(ctx, "ana@example.com", "correct horse", "Ana"); err != nil {
		t.Fatal(err)
	}

	if _, err := a.SignIn(ctx, "ana@example.com", "wrong password"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("wrong password: error = %v, want ErrNotAuthenticated", err)
	}
	if _, err := a.SignIn(ctx, "nobody@example.com", "whatever"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("unknown account: error = %v, want ErrNotAuthenticated", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	a := New(newMemUserStore())

	session, err := a.SignUp(ctx, "ana@example.com", "correct horse", "Ana")
	if err != nil {
		t.Fatal(err)
	}

	userID, err := a.CurrentUser(ctx, session.Token)
	if err != nil || userID != session.UserID {
		t.Errorf("CurrentUser = %q, %v; want %q", userID, err, session.UserID)
	}

	a.SignOut(ctx, session.Token)
	if _, err := a.CurrentUser(ctx, session.Token); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("CurrentUser after sign-out: error = %v, want ErrNotAuthenticated", err)
	}

	if _, err := a.CurrentUser(ctx, "bogus-token"); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Errorf("CurrentUser with bogus token: error = %v, want ErrNotAuthenticated", err)
	}
}
