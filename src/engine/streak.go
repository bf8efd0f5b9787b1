package engine

import (
	"math"
	"time"

	"budgee-analytics/src/models"
)

// maxClosedCycles bounds the backward walk to two years of history.
const maxClosedCycles = 24

func CalculateStreak(txns []models.Transaction, monthlyBudget, fixedExpenses float64, anchorDay int) int {
	return CalculateStreakAt(txns, monthlyBudget, fixedExpenses, anchorDay, time.Now())
}

// CalculateStreakAt returns the number of consecutive days the household has
// stayed under budget as of today. The in-progress cycle is judged pro-rata
// against the disposable income; closed cycles are judged on their full total
// against monthlyBudget. A currently broken cycle yields 0 regardless of
// history. The walk stops at the first failing cycle, at the first closed
// cycle without any valid transaction, or after maxClosedCycles. Because of
// the empty-cycle stop, a transaction added to an empty closed cycle can
// lengthen the streak; no other addition can.
func CalculateStreakAt(txns []models.Transaction, monthlyBudget, fixedExpenses float64, anchorDay int, today time.Time) int {
	if !hasValid(txns) {
		return 0
	}
	monthlyBudget = finiteOr(monthlyBudget, 0)
	fixedExpenses = finiteOr(fixedExpenses, 0)

	cycle := ResolveCycle(anchorDay, today)
	daysInCycle := cycle.Days()
	if daysInCycle <= 0 {
		return 0
	}
	dailyBudget := (monthlyBudget - fixedExpenses) / float64(daysInCycle)
	daysPassed := daysBetween(cycle.Start, today) + 1
	allowedToDate := dailyBudget * float64(daysPassed)

	actual, _ := spendBetween(txns, cycle.Start, startOfDay(today).AddDate(0, 0, 1))
	if actual > allowedToDate || math.IsNaN(allowedToDate) {
		return 0
	}

	streak := daysPassed
	for i := 0; i < maxClosedCycles; i++ {
		cycle = PreviousCycle(anchorDay, cycle)
		total, count := spendBetween(txns, cycle.Start, cycle.End)
		if count == 0 || total > monthlyBudget {
			break
		}
		streak += cycle.Days()
	}
	return streak
}

func hasValid(txns []models.Transaction) bool {
	for _, t := range txns {
		if validAmount(t.Amount) && !t.Date.IsZero() {
			return true
		}
	}
	return false
}

// HistoryStart returns the start of the oldest cycle CalculateStreakAt can
// inspect, so callers can bound their transaction reads.
func HistoryStart(anchorDay int, today time.Time) time.Time {
	cycle := ResolveCycle(anchorDay, today)
	for i := 0; i < maxClosedCycles; i++ {
		cycle = PreviousCycle(anchorDay, cycle)
	}
	return cycle.Start
}
