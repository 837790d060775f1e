// Package service orchestrates the persistence layer, analytics, entitlement
// gating and background jobs behind a single API the transports (HTTP, CLI)
// share. Handlers never talk to the store directly.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/okozlov/finflow/internal/domain"
	"github.com/okozlov/finflow/internal/entitlement"
	"github.com/okozlov/finflow/internal/events"
	"github.com/okozlov/finflow/internal/jobs"
)

// Store is the persistence surface the service consumes.
type Store interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	InsertTransaction(ctx context.Context, userID string, fields domain.TransactionFields) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) (bool, error)

	ListSubscriptions(ctx context.Context, userID string) ([]domain.Subscription, error)
	InsertSubscription(ctx context.Context, userID string, fields domain.SubscriptionFields) (domain.Subscription, error)
	DeleteSubscription(ctx context.Context, userID, id string) (bool, error)

	GetUserSettings(ctx context.Context, userID string) (domain.UserSettings, error)
	UpdateUserSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.UserSettings, error)

	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	UpdateProfile(ctx context.Context, userID, displayName string) (domain.Profile, error)
}

// Service wires the store to analytics, events and jobs.
type Service struct {
	store        Store
	entitlements *entitlement.Manager
	publisher    events.Publisher
	jobQueue     jobs.Publisher
	jobStore     jobs.JobStore
	log          zerolog.Logger

	// refresh coalesces concurrent reloads per user so a burst of
	// requests hits the store once.
	refresh singleflight.Group
}

func New(store Store, entitlements *entitlement.Manager, publisher events.Publisher, jobQueue jobs.Publisher, jobStore jobs.JobStore, log zerolog.Logger) *Service {
	return &Service{
		store:        store,
		entitlements: entitlements,
		publisher:    publisher,
		jobQueue:     jobQueue,
		jobStore:     jobStore,
		log:          log,
	}
}

// Transactions loads the user's transactions, newest first. Concurrent calls
// for the same user share one store round trip.
func (s *Service) Transactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	v, err, _ := s.refresh.Do("txs:"+userID, func() (any, error) {
		return s.store.ListTransactions(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("Transactions: %w", err)
	}
	return v.([]domain.Transaction), nil
}

// AddTransaction validates and persists a new transaction, then emits a
// creation event. Event delivery is best effort.
func (s *Service) AddTransaction(ctx context.Context, userID string, fields domain.TransactionFields) (domain.Transaction, error) {
	tx, err := s.store.InsertTransaction(ctx, userID, fields)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("AddTransaction: %w", err)
	}

	s.emit(ctx, events.Event{
		Type:     events.TransactionCreated,
		UserID:   userID,
		EntityID: tx.ID,
		Amount:   tx.Amount,
	})
	return tx, nil
}

// DeleteTransaction removes the transaction if it exists. Deleting an absent
// id reports removed=false with no error.
func (s *Service) DeleteTransaction(ctx context.Context, userID, id string) (bool, error) {
	removed, err := s.store.DeleteTransaction(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("DeleteTransaction: %w", err)
	}
	if removed {
		s.emit(ctx, events.Event{
			Type:     events.TransactionDeleted,
			UserID:   userID,
			EntityID: id,
		})
	}
	return removed, nil
}

func (s *Service) Subscriptions(ctx context.Context, userID string) ([]domain.Subscription, error) {
	v, err, _ := s.refresh.Do("subs:"+userID, func() (any, error) {
		return s.store.ListSubscriptions(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("Subscriptions: %w", err)
	}
	return v.([]domain.Subscription), nil
}

func (s *Service) AddSubscription(ctx context.Context, userID string, fields domain.SubscriptionFields) (domain.Subscription, error) {
	sub, err := s.store.InsertSubscription(ctx, userID, fields)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("AddSubscription: %w", err)
	}
	s.emit(ctx, events.Event{
		Type:     events.SubscriptionCreated,
		UserID:   userID,
		EntityID: sub.ID,
		Amount:   sub.Amount,
	})
	return sub, nil
}

func (s *Service) DeleteSubscription(ctx context.Context, userID, id string) (bool, error) {
	removed, err := s.store.DeleteSubscription(ctx, userID, id)
	if err != nil {
		return false, fmt.Errorf("DeleteSubscription: %w", err)
	}
	if removed {
		s.emit(ctx, events.Event{
			Type:     events.SubscriptionDeleted,
			UserID:   userID,
			EntityID: id,
		})
	}
	return removed, nil
}

// Renewal is a subscription annotated with how soon it renews.
type Renewal struct {
	Subscription domain.Subscription `json:"subscription"`
	DaysUntil    int                 `json:"days_until"`
}

// UpcomingRenewals returns subscriptions renewing within the next 30 days,
// soonest first. Already-lapsed renewals are excluded.
func (s *Service) UpcomingRenewals(ctx context.Context, userID string, now time.Time) ([]Renewal, error) {
	subs, err := s.Subscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("UpcomingRenewals: %w", err)
	}

	var out []Renewal
	for _, sub := range subs {
		days := sub.DaysUntilRenewal(now)
		if days < 0 || days > 30 {
			continue
		}
		out = append(out, Renewal{Subscription: sub, DaysUntil: days})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DaysUntil < out[j].DaysUntil })
	return out, nil
}

func (s *Service) Settings(ctx context.Context, userID string) (domain.UserSettings, error) {
	settings, err := s.store.GetUserSettings(ctx, userID)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("Settings: %w", err)
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID string, patch domain.SettingsPatch) (domain.UserSettings, error) {
	settings, err := s.store.UpdateUserSettings(ctx, userID, patch)
	if err != nil {
		return domain.UserSettings{}, fmt.Errorf("UpdateSettings: %w", err)
	}
	return settings, nil
}

// Profile loads the user's account profile.
func (s *Service) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("Profile: %w", err)
	}
	return profile, nil
}

// UpdateProfile changes the user's display name. The name is trimmed before
// it is stored.
func (s *Service) UpdateProfile(ctx context.Context, userID, displayName string) (domain.Profile, error) {
	if err := domain.ValidateDisplayName(displayName); err != nil {
		return domain.Profile{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	profile, err := s.store.UpdateProfile(ctx, userID, strings.TrimSpace(displayName))
	if err != nil {
		return domain.Profile{}, fmt.Errorf("UpdateProfile: %w", err)
	}
	return profile, nil
}

// Entitlements exposes the entitlement manager to transports.
func (s *Service) Entitlements() *entitlement.Manager {
	return s.entitlements
}

func (s *Service) emit(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}
