package engine

import (
	"encoding/json"
	"math"
	"time"

	"budgee-analytics/src/models"
)

type BurnStatus string

const (
	BurnSafe     BurnStatus = "safe"
	BurnWarning  BurnStatus = "warning"
	BurnCritical BurnStatus = "critical"
)

// warningBand is the half-width in days of the band around daysRemaining
// that classifies as warning instead of safe or critical.
const warningBand = 2

// maxProjectionDays bounds the projected zero date. Beyond it no date is given.
const maxProjectionDays = 1e6

// BurnProjection describes when the balance is expected to hit zero.
// DaysUntilZero is +Inf when nothing is being spent. ProjectedZeroDate is nil
// when there is no spend or the zero point lies beyond maxProjectionDays.
type BurnProjection struct {
	Status            BurnStatus
	DaysUntilZero     float64
	ProjectedZeroDate *time.Time
}

func (b BurnProjection) MarshalJSON() ([]byte, error) {
	out := struct {
		Status            BurnStatus `json:"status"`
		DaysUntilZero     *float64   `json:"days_until_zero"`
		ProjectedZeroDate *time.Time `json:"projected_zero_date"`
	}{Status: b.Status, ProjectedZeroDate: b.ProjectedZeroDate}
	if !math.IsInf(b.DaysUntilZero, 0) {
		d := b.DaysUntilZero
		out.DaysUntilZero = &d
	}
	return json.Marshal(out)
}

func ProjectBurnRate(balance, daysRemaining, avgDailySpend float64) BurnProjection {
	return ProjectBurnRateAt(balance, daysRemaining, avgDailySpend, time.Now())
}

// ProjectBurnRateAt classifies how fast balance is being depleted relative to
// the days left in the cycle, with today as the projection origin.
func ProjectBurnRateAt(balance, daysRemaining, avgDailySpend float64, today time.Time) BurnProjection {
	balance = finiteOr(balance, 0)
	daysRemaining = finiteOr(daysRemaining, 0)
	avgDailySpend = finiteOr(avgDailySpend, 0)
	today = startOfDay(today)

	if balance <= 0 {
		return BurnProjection{Status: BurnCritical, DaysUntilZero: 0, ProjectedZeroDate: &today}
	}
	if avgDailySpend <= 0 {
		return BurnProjection{Status: BurnSafe, DaysUntilZero: math.Inf(1)}
	}

	daysUntilZero := balance / avgDailySpend
	status := BurnSafe
	switch {
	case daysUntilZero < daysRemaining-warningBand:
		status = BurnCritical
	case daysUntilZero < daysRemaining+warningBand:
		status = BurnWarning
	}

	proj := BurnProjection{Status: status, DaysUntilZero: daysUntilZero}
	if daysUntilZero <= maxProjectionDays {
		zero := today.AddDate(0, 0, int(math.Ceil(daysUntilZero)))
		proj.ProjectedZeroDate = &zero
	}
	return proj
}

// BurnInputs are the cycle-derived arguments of ProjectBurnRate.
type BurnInputs struct {
	Cycle           BillingPeriod `json:"cycle"`
	DaysRemaining   float64       `json:"days_remaining"`
	AvgDailySpend   float64       `json:"avg_daily_spend"`
	SpentToDate     float64       `json:"spent_to_date"`
	RemainingBudget float64       `json:"remaining_budget"`
}

// CycleBurnInputs derives days remaining and the average daily spend from the
// in-progress cycle. RemainingBudget is the disposable income not yet spent.
func CycleBurnInputs(txns []models.Transaction, settings models.BudgetSettings, today time.Time) BurnInputs {
	cycle := ResolveCycle(settings.AnchorDay, today)
	daysPassed := daysBetween(cycle.Start, today) + 1
	spent, _ := spendBetween(txns, cycle.Start, startOfDay(today).AddDate(0, 0, 1))

	disposable := finiteOr(settings.MonthlyBudget, 0) - finiteOr(settings.FixedExpenses, 0)
	return BurnInputs{
		Cycle:           cycle,
		DaysRemaining:   float64(daysBetween(today, cycle.End)),
		AvgDailySpend:   spent / float64(daysPassed),
		SpentToDate:     spent,
		RemainingBudget: disposable - spent,
	}
}
