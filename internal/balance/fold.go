// Package balance computes a user's net balance. Two strategies exist and
// must never be mixed for the same dataset: Fold recomputes from the full
// transaction log on every query; RunningTotal maintains a stored scalar
// adjusted on each mutation. Both yield identical results for the same
// mutation history.
package balance

import (
	"math"

	"github.com/okozlov/finflow/internal/domain"
)

// Fold computes the balance fresh from the full transaction list:
// the sum of income amounts minus the sum of expense amounts. Non-finite
// amounts are skipped so a single corrupt record cannot poison the result.
// O(n) per query, fine at personal-finance volumes.
func Fold(txs []domain.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if math.IsNaN(t.Amount) || math.IsInf(t.Amount, 0) {
			continue
		}
		switch t.Type {
		case domain.TypeIncome:
			sum += t.Amount
		case domain.TypeExpense:
			sum -= t.Amount
		}
	}
	return sum
}
