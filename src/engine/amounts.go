package engine

import (
	"math"
	"time"

	"budgee-analytics/src/models"
)

// validAmount reports whether a transaction amount may enter an aggregate.
func validAmount(a float64) bool {
	return a > 0 && !math.IsNaN(a) && !math.IsInf(a, 0)
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// spendBetween sums valid amounts dated within [from, to).
func spendBetween(txns []models.Transaction, from, to time.Time) (total float64, count int) {
	for _, t := range txns {
		if !validAmount(t.Amount) || t.Date.IsZero() {
			continue
		}
		if t.Date.Before(from) || !t.Date.Before(to) {
			continue
		}
		total += t.Amount
		count++
	}
	return total, count
}
