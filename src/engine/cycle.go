// Package engine holds the budget-cycle analytics: billing periods, burn rate,
// recurring-charge detection, the spending streak and net worth. Everything
// except the wealth aggregator is a pure function of its arguments.
package engine

import "time"

// BillingPeriod is the half-open interval [Start, End), one calendar month wide.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside [Start, End).
func (p BillingPeriod) Contains(t time.Time) bool {
	return !t.Before(p.Start) && t.Before(p.End)
}

// Days returns the number of calendar days in the period.
func (p BillingPeriod) Days() int {
	return daysBetween(p.Start, p.End)
}

// ResolveCycle returns the billing period containing ref for a cycle that
// starts on anchorDay of each month. Anchors past the end of a month are
// clamped to its last day on both boundaries so periods stay contiguous.
func ResolveCycle(anchorDay int, ref time.Time) BillingPeriod {
	anchorDay = clampAnchor(anchorDay)
	loc := ref.Location()
	year, month, _ := ref.Date()

	start := anchoredDate(year, month, anchorDay, loc)
	if ref.Before(start) {
		start = anchoredDate(year, month-1, anchorDay, loc)
	}
	return BillingPeriod{
		Start: start,
		End:   anchoredDate(start.Year(), start.Month()+1, anchorDay, loc),
	}
}

// PreviousCycle returns the period immediately before p.
func PreviousCycle(anchorDay int, p BillingPeriod) BillingPeriod {
	return ResolveCycle(anchorDay, p.Start.AddDate(0, 0, -1))
}

func clampAnchor(day int) int {
	if day < 1 {
		return 1
	}
	if day > 31 {
		return 31
	}
	return day
}

// anchoredDate builds midnight of day in the given month, clamping day to the
// month's length. month may be out of range and is normalized first.
func anchoredDate(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	if last := daysInMonth(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
