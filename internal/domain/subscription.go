package domain

import (
	"fmt"
	"math"
	"time"
)

// Subscription is a recurring named monthly charge with an upcoming renewal
// date. The renewal date is entered by the user and never rolled forward by
// the system: a past-due subscription stays past-due until edited.
type Subscription struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	RenewDate time.Time `json:"renew_date"`
	CreatedAt time.Time `json:"created_at"`
}

// SubscriptionFields is the user-supplied part of a subscription.
type SubscriptionFields struct {
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Category  string    `json:"category"`
	Color     string    `json:"color"`
	RenewDate time.Time `json:"renew_date"`
}

// RenewalOffsets are the quick-pick renewal choices, in days from today.
// An explicit date is also accepted.
var RenewalOffsets = []int{7, 14, 30, 60, 90}

// Validate checks the write invariants for a subscription.
func (f SubscriptionFields) Validate() error {
	if f.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if math.IsNaN(f.Amount) || math.IsInf(f.Amount, 0) {
		return fmt.Errorf("%w: amount is not a finite number", ErrValidation)
	}
	if f.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive, got %v", ErrValidation, f.Amount)
	}
	if f.RenewDate.IsZero() {
		return fmt.Errorf("%w: renew date is required", ErrValidation)
	}
	return nil
}

// DaysUntilRenewal returns whole days from now until the renewal date,
// comparing calendar days. Negative means past due. The midnight gap is
// rounded so a 23 or 25 hour day around a DST shift still counts as one day.
func (s Subscription) DaysUntilRenewal(now time.Time) int {
	day := func(t time.Time) time.Time {
		l := t.Local()
		return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
	}
	return int(math.Round(day(s.RenewDate).Sub(day(now)).Hours() / 24))
}
