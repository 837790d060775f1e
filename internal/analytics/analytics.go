// Package analytics derives aggregate metrics from an in-memory transaction
// list. Everything here is a pure function: data in, data out, no store
// access. Functions that anchor to "today" take now explicitly so callers
// and tests control the clock.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/okozlov/finflow/internal/domain"
)

// CategorySpend is one row of a category breakdown, ordered by amount.
type CategorySpend struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage int     `json:"percentage"`
}

// finite filters out NaN and Inf amounts. A corrupt record is skipped rather
// than allowed to blank out a whole aggregate.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// TotalSpending sums expense amounts dated within [start, end].
func TotalSpending(txs []domain.Transaction, start, end time.Time) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == domain.TypeExpense && finite(t.Amount) && InWindow(t.Date, start, end) {
			sum += t.Amount
		}
	}
	return sum
}

// TotalIncome sums income amounts dated within [start, end].
func TotalIncome(txs []domain.Transaction, start, end time.Time) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == domain.TypeIncome && finite(t.Amount) && InWindow(t.Date, start, end) {
			sum += t.Amount
		}
	}
	return sum
}

// TodaySpending sums expenses dated on the same local calendar day as now,
// independent of any caller-supplied window.
func TodaySpending(txs []domain.Transaction, now time.Time) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == domain.TypeExpense && finite(t.Amount) && SameDay(t.Date, now) {
			sum += t.Amount
		}
	}
	return sum
}

// CategoryBreakdown groups expenses within [start, end] by category label,
// sorted descending by amount. Percentage is of the window total, rounded to
// the nearest integer; all zero when the window total is zero. The result is
// unbounded; callers truncate to top-N for display.
func CategoryBreakdown(txs []domain.Transaction, start, end time.Time) []CategorySpend {
	byCategory := make(map[string]float64)
	for _, t := range txs {
		if t.Type == domain.TypeExpense && finite(t.Amount) && InWindow(t.Date, start, end) {
			byCategory[t.Category] += t.Amount
		}
	}

	total := 0.0
	for _, amount := range byCategory {
		total += amount
	}

	out := make([]CategorySpend, 0, len(byCategory))
	for category, amount := range byCategory {
		pct := 0
		if total > 0 {
			pct = int(math.Round(amount / total * 100))
		}
		out = append(out, CategorySpend{Category: category, Amount: amount, Percentage: pct})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// WeeklySpending sums expenses within the Sunday–Saturday calendar week
// weeksAgo weeks before the week containing now. It always anchors to now,
// never to a caller-supplied window.
func WeeklySpending(txs []domain.Transaction, now time.Time, weeksAgo int) float64 {
	start, end := weekBounds(now, weeksAgo)
	return TotalSpending(txs, start, end)
}

// WeeklyComparison returns this week's and last week's spending and their
// difference. A negative change means less was spent than last week.
func WeeklyComparison(txs []domain.Transaction, now time.Time) (thisWeek, lastWeek, change float64) {
	thisWeek = WeeklySpending(txs, now, 0)
	lastWeek = WeeklySpending(txs, now, 1)
	return thisWeek, lastWeek, thisWeek - lastWeek
}

// SavingsRate is the percentage of income kept after spending. Zero when
// income is zero or negative; never divides by zero.
func SavingsRate(income, spending float64) float64 {
	if income <= 0 || !finite(income) || !finite(spending) {
		return 0
	}
	return (income - spending) / income * 100
}
