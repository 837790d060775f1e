package analytics

import "time"

// Range is a symbolic analytics window resolved against "now" at call time.
type Range string

const (
	RangeThisMonth   Range = "thisMonth"
	RangeLastMonth   Range = "lastMonth"
	RangeLast3Months Range = "last3Months"
	RangeLast6Months Range = "last6Months"
	RangeThisYear    Range = "thisYear"
	RangeAllTime     Range = "allTime"
)

// allTimeFloor is the fixed lower bound for RangeAllTime. Using a constant
// epoch instead of scanning for the earliest transaction is a documented
// simplification: no record in this system predates it.
var allTimeFloor = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.Local)

// Day truncates t to local midnight. Every date comparison in this package
// goes through Day so that intraday noise and timezone drift can never move
// a transaction across a window boundary.
func Day(t time.Time) time.Time {
	l := t.Local()
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, l.Location())
}

// InWindow reports whether t falls within [start, end], inclusive on both
// ends, comparing calendar days.
func InWindow(t, start, end time.Time) bool {
	d := Day(t)
	return !d.Before(Day(start)) && !d.After(Day(end))
}

// SameDay reports whether a and b fall on the same local calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}

// ResolveRange turns a symbolic range into a concrete [start, end] window
// anchored to now. Unknown ranges resolve to RangeThisMonth.
func ResolveRange(r Range, now time.Time) (start, end time.Time) {
	n := now.Local()
	switch r {
	case RangeLastMonth:
		first := time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, n.Location())
		start = first.AddDate(0, -1, 0)
		end = first.AddDate(0, 0, -1)
	case RangeLast3Months:
		start = Day(n).AddDate(0, -3, 0)
		end = Day(n)
	case RangeLast6Months:
		start = Day(n).AddDate(0, -6, 0)
		end = Day(n)
	case RangeThisYear:
		start = time.Date(n.Year(), time.January, 1, 0, 0, 0, 0, n.Location())
		end = Day(n)
	case RangeAllTime:
		start = allTimeFloor
		end = Day(n)
	default: // RangeThisMonth
		start = time.Date(n.Year(), n.Month(), 1, 0, 0, 0, 0, n.Location())
		end = Day(n)
	}
	return start, end
}

// weekBounds returns the Sunday and Saturday of the calendar week containing
// now, shifted back by weeksAgo weeks.
func weekBounds(now time.Time, weeksAgo int) (start, end time.Time) {
	d := Day(now)
	start = d.AddDate(0, 0, -int(d.Weekday())-weeksAgo*7)
	end = start.AddDate(0, 0, 6)
	return start, end
}
