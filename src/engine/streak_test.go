package engine

import (
	"math"
	"testing"
	"time"

	"budgee-analytics/src/models"
)

func txn(id string, amount float64, date time.Time) models.Transaction {
	return models.Transaction{ID: id, Amount: amount, Date: date, Payer: models.PayerJoint, Category: "general"}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// today is five days into the 30-day cycle [2024-04-10, 2024-05-10).
var streakToday = time.Date(2024, 4, 14, 18, 0, 0, 0, time.UTC)

func TestCalculateStreak_UnderBudget(t *testing.T) {
	txns := []models.Transaction{
		txn("1", 1200, day(2024, 4, 11)),
		txn("2", 800, day(2024, 4, 14)),
	}
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != 5 {
		t.Fatalf("streak = %d, want 5", got)
	}
}

func TestCalculateStreak_OverBudgetWipesHistory(t *testing.T) {
	txns := []models.Transaction{
		txn("1", 3000, day(2024, 4, 12)),
		txn("2", 1000, day(2024, 3, 15)),
		txn("3", 1000, day(2024, 2, 15)),
	}
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != 0 {
		t.Fatalf("streak = %d, want 0", got)
	}
}

func TestCalculateStreak_WalksClosedCycles(t *testing.T) {
	txns := []models.Transaction{
		txn("cur", 2000, day(2024, 4, 11)),
		txn("mar", 19000, day(2024, 3, 20)), // [03-10, 04-10): 31 days, passes
		txn("feb", 15000, day(2024, 2, 12)), // [02-10, 03-10): 29 days, passes
		txn("jan", 21000, day(2024, 1, 25)), // [01-10, 02-10): fails
		txn("dec", 100, day(2023, 12, 25)),
	}
	want := 5 + 31 + 29
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != want {
		t.Fatalf("streak = %d, want %d", got, want)
	}
}

func TestCalculateStreak_StopsAtEmptyClosedCycle(t *testing.T) {
	txns := []models.Transaction{
		txn("cur", 100, day(2024, 4, 11)),
		txn("feb", 100, day(2024, 2, 12)),
	}
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != 5 {
		t.Fatalf("streak = %d, want 5", got)
	}
}

func TestCalculateStreak_CapsAtTwoYears(t *testing.T) {
	var txns []models.Transaction
	p := ResolveCycle(10, streakToday)
	want := daysBetween(p.Start, streakToday) + 1
	for i := 0; i < 30; i++ {
		txns = append(txns, txn("t", 10, p.Start))
		if i > 0 && i <= maxClosedCycles {
			want += p.Days()
		}
		p = PreviousCycle(10, p)
	}
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != want {
		t.Fatalf("streak = %d, want %d", got, want)
	}
}

func TestCalculateStreak_NoData(t *testing.T) {
	if got := CalculateStreakAt(nil, 20000, 5000, 10, streakToday); got != 0 {
		t.Fatalf("empty streak = %d, want 0", got)
	}
	invalid := []models.Transaction{
		txn("nan", math.NaN(), day(2024, 4, 11)),
		txn("neg", -40, day(2024, 4, 11)),
		{ID: "nodate", Amount: 10},
	}
	if got := CalculateStreakAt(invalid, 20000, 5000, 10, streakToday); got != 0 {
		t.Fatalf("invalid-only streak = %d, want 0", got)
	}
	if got := CalculateStreakAt([]models.Transaction{txn("1", 10, day(2024, 4, 11))}, math.NaN(), 0, 10, streakToday); got != 0 {
		t.Fatalf("NaN budget streak = %d, want 0", got)
	}
}

func TestCalculateStreak_IgnoresFutureAndInvalid(t *testing.T) {
	txns := []models.Transaction{
		txn("1", 2000, day(2024, 4, 11)),
		txn("future", 50000, day(2024, 4, 20)),
		txn("nan", math.NaN(), day(2024, 4, 12)),
	}
	if got := CalculateStreakAt(txns, 20000, 5000, 10, streakToday); got != 5 {
		t.Fatalf("streak = %d, want 5", got)
	}
}

func TestCalculateStreak_AddingSpendNeverIncreases(t *testing.T) {
	base := []models.Transaction{
		txn("cur", 1500, day(2024, 4, 11)),
		txn("mar", 18000, day(2024, 3, 20)),
		txn("feb", 12000, day(2024, 2, 12)),
		txn("jan", 9000, day(2024, 1, 25)),
	}
	before := CalculateStreakAt(base, 20000, 5000, 10, streakToday)
	additions := []models.Transaction{
		txn("a", 1, day(2024, 4, 13)),
		txn("b", 900, day(2024, 4, 14)),
		txn("c", 2500, day(2024, 3, 11)),
		txn("d", 10000, day(2024, 1, 10)),
		txn("e", 5, day(2024, 2, 28)),
	}
	for _, add := range additions {
		after := CalculateStreakAt(append(append([]models.Transaction{}, base...), add), 20000, 5000, 10, streakToday)
		if after > before {
			t.Fatalf("adding %s (%.0f on %s) raised streak %d -> %d", add.ID, add.Amount, add.Date.Format("2006-01-02"), before, after)
		}
	}
}

func TestHistoryStart(t *testing.T) {
	got := HistoryStart(10, streakToday)
	if !got.Equal(day(2022, 4, 10)) {
		t.Fatalf("HistoryStart = %s, want 2022-04-10", got.Format("2006-01-02"))
	}
}
