package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/okozlov/finflow/internal/api/middleware"
	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/entitlement"
	"github.com/okozlov/finflow/internal/events"
	"github.com/okozlov/finflow/internal/jobs/inmemory"
	"github.com/okozlov/finflow/internal/logger"
	"github.com/okozlov/finflow/internal/prefs"
	"github.com/okozlov/finflow/internal/service"
)

type stubStore struct {
	txs         []domain.Transaction
	displayName string
}

func (s *stubStore) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.txs, nil
}

func (s *stubStore) InsertTransaction(ctx context.Context, userID string, fields domain.TransactionFields) (domain.Transaction, error) {
	if err := fields.Validate(); err != nil {
		return domain.Transaction{}, err
	}
	tx := domain.Transaction{ID: "tx-1", UserID: userID, Amount: fields.Amount, Type: fields.Type, Category: fields.Category, Date: fields.Date}
	s.txs = append(s.txs, tx)
	return tx, nil
}

func (s *stubStore) DeleteTransaction(ctx context.Context, userID, id string) (bool, error) {
	for i, tx := range s.txs {
		if tx.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *stubStore) ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	return nil, nil
}

func (s *stubStore) InsertSubscription(ctx context.Context, userID string, fields domain.SubscriptionFields) (domain.Subscription, error) {
	return domain.Subscription{}, nil
}

func (s *stubStore) DeleteSubscription(ctx context.Context, userID, id string) (bool, error) {
	return false, nil
}

func (s *stubStore) GetUserSettings(ctx context.Context, userID string) (domain.UserSettings, error) {
	return domain.DefaultUserSettings(userID), nil
}

func (s *stubStore) UpdateUserSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.UserSettings, error) {
	return patch.Apply(domain.DefaultUserSettings(userID)), nil
}

func (s *stubStore) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	return domain.Profile{UserID: userID, Email: "u1@example.com", DisplayName: s.displayName}, nil
}

func (s *stubStore) UpdateProfile(ctx context.Context, userID, displayName string) (domain.Profile, error) {
	s.displayName = displayName
	return domain.Profile{UserID: userID, Email: "u1@example.com", DisplayName: displayName}, nil
}

type stubSessions struct{ token, userID string }

func (s stubSessions) CurrentUser(ctx context.Context, token string) (string, error) {
	if token == s.token {
		return s.userID, nil
	}
	return "", errors.New("unknown token")
}

type stubBiller struct{}

func (stubBiller) Purchase(ctx context.Context, userID string) error        { return nil }
func (stubBiller) Restore(ctx context.Context, userID string) (bool, error) { return false, nil }
func (stubBiller) Cancel(ctx context.Context, userID string) error          { return nil }

func newTestRouter(t *testing.T, premium bool) (*chi.Mux, *stubStore) {
	t.Helper()

	cache, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.db"))
	if err != nil {
		t.Fatalf("prefs.Open() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	log := logger.New()
	ent := entitlement.NewManager(stubBiller{}, cache, log)
	if premium {
		if err := ent.Purchase(context.Background(), "u1"); err != nil {
			t.Fatalf("Purchase() error = %v", err)
		}
	}

	store := &stubStore{}
	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(4, 1, jobStore)
	svc := service.New(store, ent, events.NoopPublisher{}, queue, jobStore, log)

	txHandler := NewTransactionsHandler(svc, log)
	exportHandler := NewExportsHandler(svc, log)
	profileHandler := NewProfileHandler(svc, log)

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(stubSessions{token: "good-token", userID: "u1"}))
		r.Get("/api/transactions", txHandler.List)
		r.Post("/api/transactions", txHandler.Create)
		r.Delete("/api/transactions/{id}", txHandler.Delete)
		r.Post("/api/exports", exportHandler.Create)
		r.Get("/api/profile", profileHandler.Get)
		r.Put("/api/profile", profileHandler.Update)
	})
	return r, store
}

func authedRequest(method, target, body string) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer good-token")
	return req
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	router, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestCreateTransaction(t *testing.T) {
	router, store := newTestRouter(t, false)

	body := `{"amount": 42.5, "type": "expense", "category": "Food & Dining", "date": "2026-03-15"}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/transactions", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(store.txs) != 1 {
		t.Fatalf("store has %d transactions, want 1", len(store.txs))
	}
	if store.txs[0].Category != "Food & Dining" {
		t.Errorf("category = %q", store.txs[0].Category)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	router, _ := newTestRouter(t, false)

	tests := []struct {
		name string
		body string
	}{
		{"negative amount", `{"amount": -5, "type": "expense", "category": "Other", "date": "2026-03-15"}`},
		{"unknown type", `{"amount": 5, "type": "loan", "category": "Other", "date": "2026-03-15"}`},
		{"bad date", `{"amount": 5, "type": "expense", "category": "Other", "date": "15/03/2026"}`},
		{"not json", `amount=5`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/transactions", tt.body))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDeleteTransactionIdempotent(t *testing.T) {
	router, store := newTestRouter(t, false)
	store.txs = []domain.Transaction{{ID: "tx-1", UserID: "u1", Amount: 10, Type: domain.TypeExpense, Category: "Other", Date: time.Now()}}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/transactions/tx-1", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("first delete status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":true`) {
		t.Errorf("first delete body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodDelete, "/api/transactions/tx-1", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("second delete status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"removed":false`) {
		t.Errorf("second delete body = %s", rec.Body.String())
	}
}

func TestProfileEndpoints(t *testing.T) {
	router, store := newTestRouter(t, false)
	store.displayName = "Olga"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodGet, "/api/profile", ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"display_name":"Olga"`) {
		t.Errorf("GET body = %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/profile", `{"display_name": "Olga K"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if store.displayName != "Olga K" {
		t.Errorf("stored display name = %q, want Olga K", store.displayName)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(http.MethodPut, "/api/profile", `{"display_name": "   "}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name status = %d, want 400: %s", rec.Code, rec.Body.String())
	}
}

func TestExportPremiumGate(t *testing.T) {
	t.Run("free tier gets 402", func(t *testing.T) {
		router, _ := newTestRouter(t, false)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/exports", ""))
		if rec.Code != http.StatusPaymentRequired {
			t.Errorf("status = %d, want 402", rec.Code)
		}
	})

	t.Run("premium tier gets 202", func(t *testing.T) {
		router, _ := newTestRouter(t, true)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, authedRequest(http.MethodPost, "/api/exports", ""))
		if rec.Code != http.StatusAccepted {
			t.Errorf("status = %d, want 202: %s", rec.Code, rec.Body.String())
		}
	})
}
