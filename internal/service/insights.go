package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okozlov/finflow/internal/analytics"
	"github.com/okozlov/finflow/internal/balance"
)

// WeeklyComparison mirrors the spending-trend card: this week vs last week,
// Sunday-anchored.
type WeeklyComparison struct {
	ThisWeek float64 `json:"this_week"`
	LastWeek float64 `json:"last_week"`
	Change   float64 `json:"change"`
}

// Insights is the aggregate dashboard payload for one user and time range.
// Breakdown and Weekly are premium features and stay nil on the free tier.
type Insights struct {
	Range         analytics.Range `json:"range"`
	Balance       float64         `json:"balance"`
	TotalSpending float64         `json:"total_spending"`
	TotalIncome   float64         `json:"total_income"`
	TodaySpending float64         `json:"today_spending"`
	SavingsRate   float64         `json:"savings_rate"`

	Breakdown []analytics.CategorySpend `json:"breakdown,omitempty"`
	Weekly    *WeeklyComparison         `json:"weekly,omitempty"`
}

// Insights computes the dashboard aggregates over one transaction load.
// Balance is the all-time fold, independent of the requested range.
func (s *Service) Insights(ctx context.Context, userID string, rng analytics.Range, now time.Time) (Insights, error) {
	txs, err := s.Transactions(ctx, userID)
	if err != nil {
		return Insights{}, fmt.Errorf("Insights: %w", err)
	}

	start, end := analytics.ResolveRange(rng, now)
	spending := analytics.TotalSpending(txs, start, end)
	income := analytics.TotalIncome(txs, start, end)

	out := Insights{
		Range:         rng,
		Balance:       balance.Fold(txs),
		TotalSpending: spending,
		TotalIncome:   income,
		TodaySpending: analytics.TodaySpending(txs, now),
		SavingsRate:   analytics.SavingsRate(income, spending),
	}

	if s.entitlements.HasCapability(ctx, userID, "category_breakdown") {
		out.Breakdown = analytics.CategoryBreakdown(txs, start, end)
	}
	if s.entitlements.HasCapability(ctx, userID, "weekly_comparison") {
		thisWeek, lastWeek, change := analytics.WeeklyComparison(txs, now)
		out.Weekly = &WeeklyComparison{ThisWeek: thisWeek, LastWeek: lastWeek, Change: change}
	}

	return out, nil
}
