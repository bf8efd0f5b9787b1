package db

import (
	"budgee-analytics/src/models"
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrSettingsNotFound = errors.New("budget settings not found")

func GetBudgetSettings(ctx context.Context, pool *pgxpool.Pool, userID int64) (*models.BudgetSettings, error) {
	query := `
		SELECT user_id, monthly_budget, fixed_expenses, anchor_day, updated_at
		FROM budget_settings WHERE user_id = $1
	`
	var s models.BudgetSettings
	err := pool.QueryRow(ctx, query, userID).
		Scan(&s.UserID, &s.MonthlyBudget, &s.FixedExpenses, &s.AnchorDay, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func UpsertBudgetSettings(ctx context.Context, pool *pgxpool.Pool, settings *models.BudgetSettings) (*models.BudgetSettings, error) {
	query := `
		INSERT INTO budget_settings (user_id, monthly_budget, fixed_expenses, anchor_day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			monthly_budget = $2,
			fixed_expenses = $3,
			anchor_day = $4,
			updated_at = NOW()
		RETURNING user_id, monthly_budget, fixed_expenses, anchor_day, updated_at
	`
	var s models.BudgetSettings
	err := pool.QueryRow(ctx, query, settings.UserID, settings.MonthlyBudget, settings.FixedExpenses, settings.AnchorDay).
		Scan(&s.UserID, &s.MonthlyBudget, &s.FixedExpenses, &s.AnchorDay, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
