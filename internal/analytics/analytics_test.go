package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/okozlov/finflow/internal/domain"
)

func expense(amount float64, category string, date time.Time) domain.Transaction {
	return domain.Transaction{Amount: amount, Type: domain.TypeExpense, Category: category, Date: date}
}

func income(amount float64, date time.Time) domain.Transaction {
	return domain.Transaction{Amount: amount, Type: domain.TypeIncome, Category: "Salary", Date: date}
}

var dayD = time.Date(2024, 3, 12, 12, 0, 0, 0, time.Local)

func TestTotalSpendingWindow(t *testing.T) {
	dayD1 := dayD.AddDate(0, 0, 1)
	txs := []domain.Transaction{
		income(1000, dayD),
		expense(200, "Food", dayD),
		expense(50, "Food", dayD1),
	}

	if got := TotalSpending(txs, dayD, dayD); got != 200 {
		t.Errorf("TotalSpending([D,D]) = %v, want 200", got)
	}
	if got := TotalSpending(txs, dayD, dayD1); got != 250 {
		t.Errorf("TotalSpending([D,D+1]) = %v, want 250", got)
	}
	if got := TotalIncome(txs, dayD, dayD1); got != 1000 {
		t.Errorf("TotalIncome([D,D+1]) = %v, want 1000", got)
	}
}

func TestWindowInclusiveDayBoundaries(t *testing.T) {
	// Timestamps at the edges of the day must not fall out of the window.
	start := time.Date(2024, 3, 12, 23, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 14, 0, 30, 0, 0, time.Local)
	txs := []domain.Transaction{
		expense(10, "Food", time.Date(2024, 3, 12, 0, 0, 1, 0, time.Local)),
		expense(20, "Food", time.Date(2024, 3, 14, 23, 59, 59, 0, time.Local)),
		expense(40, "Food", time.Date(2024, 3, 11, 23, 59, 59, 0, time.Local)),
		expense(80, "Food", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)),
	}
	if got := TotalSpending(txs, start, end); got != 30 {
		t.Errorf("TotalSpending = %v, want 30 (inclusive day-normalized window)", got)
	}
}

func TestTodaySpending(t *testing.T) {
	now := time.Date(2024, 3, 12, 0, 0, 0, 500, time.Local)
	txs := []domain.Transaction{
		expense(25, "Food", time.Date(2024, 3, 12, 9, 0, 0, 0, time.Local)),
		// 23:59:59 yesterday, one second from "now": must not count.
		expense(100, "Food", time.Date(2024, 3, 11, 23, 59, 59, 0, time.Local)),
		income(500, now),
	}
	if got := TodaySpending(txs, now); got != 25 {
		t.Errorf("TodaySpending = %v, want 25", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	dayD1 := dayD.AddDate(0, 0, 1)
	txs := []domain.Transaction{
		income(1000, dayD),
		expense(200, "Food", dayD),
		expense(50, "Food", dayD1),
	}

	got := CategoryBreakdown(txs, dayD, dayD1)
	if len(got) != 1 {
		t.Fatalf("breakdown has %d rows, want 1", len(got))
	}
	if got[0].Category != "Food" || got[0].Amount != 250 || got[0].Percentage != 100 {
		t.Errorf("breakdown[0] = %+v, want {Food 250 100}", got[0])
	}
}

func TestCategoryBreakdownOrderingAndPercentages(t *testing.T) {
	txs := []domain.Transaction{
		expense(300, "Bills", dayD),
		expense(500, "Food", dayD),
		expense(200, "Shopping", dayD),
	}

	got := CategoryBreakdown(txs, dayD, dayD)
	if len(got) != 3 {
		t.Fatalf("breakdown has %d rows, want 3", len(got))
	}
	if got[0].Category != "Food" || got[1].Category != "Bills" || got[2].Category != "Shopping" {
		t.Errorf("unexpected order: %+v", got)
	}

	sum := 0
	for _, c := range got {
		sum += c.Percentage
	}
	if sum < 99 || sum > 101 {
		t.Errorf("percentages sum to %d, want within [99,101]", sum)
	}
}

func TestCategoryBreakdownZeroTotal(t *testing.T) {
	txs := []domain.Transaction{income(1000, dayD)}
	if got := CategoryBreakdown(txs, dayD, dayD); len(got) != 0 {
		t.Errorf("breakdown = %+v, want empty when there is no spending", got)
	}
}

func TestCategoryBreakdownSkipsNonFinite(t *testing.T) {
	txs := []domain.Transaction{
		expense(100, "Food", dayD),
		expense(math.NaN(), "Food", dayD),
		expense(math.Inf(1), "Bills", dayD),
	}
	got := CategoryBreakdown(txs, dayD, dayD)
	if len(got) != 1 || got[0].Amount != 100 {
		t.Errorf("breakdown = %+v, want corrupt rows skipped", got)
	}
}

func TestWeeklyComparison(t *testing.T) {
	// 2024-03-12 is a Tuesday; its week is Sun 2024-03-10 .. Sat 2024-03-16.
	now := time.Date(2024, 3, 12, 15, 0, 0, 0, time.Local)
	txs := []domain.Transaction{
		expense(100, "Food", time.Date(2024, 3, 11, 12, 0, 0, 0, time.Local)), // this week
		expense(150, "Food", time.Date(2024, 3, 6, 12, 0, 0, 0, time.Local)),  // last week
		expense(999, "Food", time.Date(2024, 2, 1, 12, 0, 0, 0, time.Local)),  // out of both
	}

	thisWeek, lastWeek, change := WeeklyComparison(txs, now)
	if thisWeek != 100 {
		t.Errorf("thisWeek = %v, want 100", thisWeek)
	}
	if lastWeek != 150 {
		t.Errorf("lastWeek = %v, want 150", lastWeek)
	}
	if change != -50 {
		t.Errorf("change = %v, want -50 (saved $50)", change)
	}
}

func TestWeeklySpendingSundayAnchor(t *testing.T) {
	// Sunday itself belongs to the current week.
	sunday := time.Date(2024, 3, 10, 8, 0, 0, 0, time.Local)
	txs := []domain.Transaction{
		expense(30, "Food", sunday),
		expense(70, "Food", time.Date(2024, 3, 16, 23, 0, 0, 0, time.Local)), // Saturday
		expense(11, "Food", time.Date(2024, 3, 9, 12, 0, 0, 0, time.Local)),  // previous Saturday
	}
	if got := WeeklySpending(txs, sunday, 0); got != 100 {
		t.Errorf("WeeklySpending(weeksAgo=0) = %v, want 100", got)
	}
	if got := WeeklySpending(txs, sunday, 1); got != 11 {
		t.Errorf("WeeklySpending(weeksAgo=1) = %v, want 11", got)
	}
}

func TestSavingsRate(t *testing.T) {
	tests := []struct {
		name             string
		income, spending float64
		want             float64
	}{
		{"typical month", 1000, 250, 75},
		{"zero income", 0, 500, 0},
		{"negative income", -100, 50, 0},
		{"nothing spent", 400, 0, 100},
		{"overspent", 100, 150, -50},
		{"NaN spending", 100, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SavingsRate(tt.income, tt.spending); got != tt.want {
				t.Errorf("SavingsRate(%v, %v) = %v, want %v", tt.income, tt.spending, got, tt.want)
			}
		})
	}
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 3, 12, 15, 4, 5, 0, time.Local)

	tests := []struct {
		name      string
		r         Range
		wantStart time.Time
		wantEnd   time.Time
	}{
		{"this month", RangeThisMonth,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"last month", RangeLastMonth,
			time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local),
			time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)},
		{"last 3 months", RangeLast3Months,
			time.Date(2023, 12, 12, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"last 6 months", RangeLast6Months,
			time.Date(2023, 9, 12, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"this year", RangeThisYear,
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"all time", RangeAllTime,
			time.Date(2000, 1, 1, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
		{"unknown falls back to this month", Range("bogus"),
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local),
			time.Date(2024, 3, 12, 0, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := ResolveRange(tt.r, now)
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %v, want %v", end, tt.wantEnd)
			}
		})
	}
}
