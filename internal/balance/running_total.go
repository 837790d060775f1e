package balance

import (
	"context"
	"errors"
	"math"
	"strconv"

	"github.com/rs/zerolog"
)

// ErrInvalidDelta is returned when an adjustment would write a non-finite
// value. The stored scalar is left untouched; skipping the update instead of
// corrupting the total is the load-bearing property of this strategy.
var ErrInvalidDelta = errors.New("balance delta is not a finite number")

// Scalar persists the single running-total value. The local preference store
// satisfies this.
type Scalar interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

const balanceKey = "balance"

// RunningTotal is the local-storage balance strategy: a stored scalar
// adjusted by +amount on income insert and -amount on expense insert, and
// inversely on delete. Unreadable or non-finite stored values read as zero.
type RunningTotal struct {
	store Scalar
	log   zerolog.Logger
}

// NewRunningTotal creates a running-total balance over the given scalar store.
func NewRunningTotal(store Scalar, log zerolog.Logger) *RunningTotal {
	return &RunningTotal{store: store, log: log}
}

// Current returns the stored balance, or zero when absent or unparsable.
func (r *RunningTotal) Current(ctx context.Context) (float64, error) {
	raw, ok, err := r.store.Get(ctx, balanceKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		r.log.Warn().Str("raw", raw).Msg("stored balance unreadable, treating as zero")
		return 0, nil
	}
	return v, nil
}

// Adjust applies a signed delta to the stored balance and returns the new
// value. A non-finite delta or result is a no-op returning ErrInvalidDelta.
func (r *RunningTotal) Adjust(ctx context.Context, delta float64) (float64, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) {
		r.log.Error().Float64("delta", delta).Msg("skipping balance update: invalid delta")
		return 0, ErrInvalidDelta
	}

	current, err := r.Current(ctx)
	if err != nil {
		return 0, err
	}

	next := current + delta
	if math.IsNaN(next) || math.IsInf(next, 0) {
		r.log.Error().Float64("current", current).Float64("delta", delta).
			Msg("skipping balance update: result not finite")
		return 0, ErrInvalidDelta
	}

	if err := r.store.Set(ctx, balanceKey, strconv.FormatFloat(next, 'f', -1, 64)); err != nil {
		return 0, err
	}
	return next, nil
}

// ApplyInsert adjusts the balance for a newly inserted transaction.
func (r *RunningTotal) ApplyInsert(ctx context.Context, amount float64, isIncome bool) (float64, error) {
	if isIncome {
		return r.Adjust(ctx, amount)
	}
	return r.Adjust(ctx, -amount)
}

// ApplyDelete reverses the adjustment of a deleted transaction.
func (r *RunningTotal) ApplyDelete(ctx context.Context, amount float64, isIncome bool) (float64, error) {
	if isIncome {
		return r.Adjust(ctx, -amount)
	}
	return r.Adjust(ctx, amount)
}
