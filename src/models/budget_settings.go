package models

import "time"

// BudgetSettings are the per-household inputs of the cycle analytics.
type BudgetSettings struct {
	UserID        int64     `json:"user_id"`
	MonthlyBudget float64   `json:"monthly_budget"`
	FixedExpenses float64   `json:"fixed_expenses"`
	AnchorDay     int       `json:"anchor_day"`
	UpdatedAt     time.Time `json:"updated_at"`
}
