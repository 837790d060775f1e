// Package auth is the authentication collaborator: email/password accounts
// and opaque bearer sessions. The rest of the core only ever sees the user
// id a session resolves to.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/infra/postgres"
)

// UserStore is the slice of the persistence adapter auth needs.
type UserStore interface {
	CreateUser(ctx context.Context, email, displayName, passwordHash string) (postgres.User, error)
	GetUserByEmail(ctx context.Context, email string) (postgres.User, error)
}

// Session is an opaque token bound to a user id.
type Session struct {
	Token       string `json:"token"`
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// Authenticator issues and resolves sessions. Sessions live in memory;
// a restart signs everyone out, which is acceptable for this service.
type Authenticator struct {
	users UserStore

	mu       sync.RWMutex
	sessions map[string]Session
}

// New creates an Authenticator over the given user store.
func New(users UserStore) *Authenticator {
	return &Authenticator{users: users, sessions: make(map[string]Session)}
}

// SignUp creates an account and opens a session for it.
func (a *Authenticator) SignUp(ctx context.Context, email, password, displayName string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, fmt.Errorf("SignUp: %w: invalid email", domain.ErrValidation)
	}
	if len(password) < 8 {
		return Session{}, fmt.Errorf("SignUp: %w: password must be at least 8 characters", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("SignUp: hash password: %w", err)
	}

	user, err := a.users.CreateUser(ctx, email, displayName, string(hash))
	if err != nil {
		return Session{}, fmt.Errorf("SignUp: %w", err)
	}
	return a.openSession(user), nil
}

// SignIn verifies the credentials and opens a session. A missing account and
// a wrong password are indistinguishable to the caller.
func (a *Authenticator) SignIn(ctx context.Context, email, password string) (Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := a.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, fmt.Errorf("SignIn: %w", domain.ErrNotAuthenticated)
		}
		return Session{}, fmt.Errorf("SignIn: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return Session{}, fmt.Errorf("SignIn: %w", domain.ErrNotAuthenticated)
	}
	return a.openSession(user), nil
}

// SignOut invalidates the session token. Unknown tokens are a no-op.
func (a *Authenticator) SignOut(ctx context.Context, token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.sessions, token)
}

// CurrentUser resolves a bearer token to a user id.
func (a *Authenticator) CurrentUser(ctx context.Context, token string) (string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s, ok := a.sessions[token]
	if !ok {
		return "", domain.ErrNotAuthenticated
	}
	return s.UserID, nil
}

func (a *Authenticator) openSession(user postgres.User) Session {
	s := Session{
		Token:       uuid.New().String(),
		UserID:      user.ID,
		DisplayName: user.DisplayName,
	}
	a.mu.Lock()
	a.sessions[s.Token] = s
	a.mu.Unlock()
	return s
}
