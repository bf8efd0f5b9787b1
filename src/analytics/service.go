// Package analytics loads a household's snapshot from the store and runs the
// engine over it. It is shared by the HTTP handlers and the report command.
package analytics

import (
	"budgee-analytics/src/db"
	dbsql "budgee-analytics/src/db/sql"
	"budgee-analytics/src/engine"
	budgeeplaid "budgee-analytics/src/plaid"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
)

// recurringLookback is how far back the detector looks for repeated charges.
const recurringLookback = 12

// DefaultAnchorDay is used for cycle queries before settings exist.
const DefaultAnchorDay = 1

type Service struct {
	pool       *pgxpool.Pool
	cache      *db.Cache
	aggregator *engine.Aggregator
	detector   *engine.Detector
	plaid      *plaid.APIClient
	loc        *time.Location
	now        func() time.Time
}

func NewService(pool *pgxpool.Pool, cache *db.Cache, aggregator *engine.Aggregator, detector *engine.Detector, plaidClient *plaid.APIClient, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		pool:       pool,
		cache:      cache,
		aggregator: aggregator,
		detector:   detector,
		plaid:      plaidClient,
		loc:        loc,
		now:        time.Now,
	}
}

func (s *Service) today() time.Time {
	return s.now().In(s.loc)
}

type CycleReport struct {
	AnchorDay int                  `json:"anchor_day"`
	Current   engine.BillingPeriod `json:"current"`
	Previous  engine.BillingPeriod `json:"previous"`
	Days      int                  `json:"days"`
}

// Cycle resolves the billing period containing date (today when zero).
func (s *Service) Cycle(ctx context.Context, userID int64, date time.Time) (CycleReport, error) {
	anchor := DefaultAnchorDay
	settings, err := dbsql.GetBudgetSettings(ctx, s.pool, userID)
	switch {
	case err == nil:
		anchor = settings.AnchorDay
	case !errors.Is(err, dbsql.ErrSettingsNotFound):
		return CycleReport{}, err
	}
	if date.IsZero() {
		date = s.today()
	}
	return cycleReport(anchor, date.In(s.loc)), nil
}

func cycleReport(anchor int, date time.Time) CycleReport {
	current := engine.ResolveCycle(anchor, date)
	return CycleReport{
		AnchorDay: anchor,
		Current:   current,
		Previous:  engine.PreviousCycle(anchor, current),
		Days:      current.Days(),
	}
}

type StreakReport struct {
	Days      int                  `json:"days"`
	Cycle     engine.BillingPeriod `json:"cycle"`
	AnchorDay int                  `json:"anchor_day"`
}

func (s *Service) Streak(ctx context.Context, userID int64) (StreakReport, error) {
	settings, err := dbsql.GetBudgetSettings(ctx, s.pool, userID)
	if err != nil {
		return StreakReport{}, err
	}
	today := s.today()
	from := engine.HistoryStart(settings.AnchorDay, today)
	txns, err := dbsql.ListTransactions(ctx, s.pool, s.cache, userID, from, time.Time{})
	if err != nil {
		return StreakReport{}, fmt.Errorf("listing transactions: %w", err)
	}

	return StreakReport{
		Days:      engine.CalculateStreakAt(txns, settings.MonthlyBudget, settings.FixedExpenses, settings.AnchorDay, today),
		Cycle:     engine.ResolveCycle(settings.AnchorDay, today),
		AnchorDay: settings.AnchorDay,
	}, nil
}

type BurnReport struct {
	engine.BurnProjection
	Inputs        engine.BurnInputs `json:"inputs"`
	Balance       float64           `json:"balance"`
	BalanceSource string            `json:"balance_source"`
}

// BurnRate projects the balance over the rest of the cycle. The balance is
// taken from override when given, else from live Plaid balances, else from the
// last stored account balances, else from the cycle's unspent budget.
func (s *Service) BurnRate(ctx context.Context, userID int64, override *float64) (BurnReport, error) {
	settings, err := dbsql.GetBudgetSettings(ctx, s.pool, userID)
	if err != nil {
		return BurnReport{}, err
	}
	today := s.today()
	cycle := engine.ResolveCycle(settings.AnchorDay, today)
	txns, err := dbsql.ListTransactions(ctx, s.pool, s.cache, userID, cycle.Start, cycle.End)
	if err != nil {
		return BurnReport{}, fmt.Errorf("listing transactions: %w", err)
	}

	inputs := engine.CycleBurnInputs(txns, *settings, today)
	balance, source := s.balance(ctx, userID, inputs, override)
	return BurnReport{
		BurnProjection: engine.ProjectBurnRateAt(balance, inputs.DaysRemaining, inputs.AvgDailySpend, today),
		Inputs:         inputs,
		Balance:        balance,
		BalanceSource:  source,
	}, nil
}

// MarshalJSON keeps the projection's own encoding and adds the report fields.
func (b BurnReport) MarshalJSON() ([]byte, error) {
	proj, err := b.BurnProjection.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return mergeJSON(proj, struct {
		Inputs        engine.BurnInputs `json:"inputs"`
		Balance       float64           `json:"balance"`
		BalanceSource string            `json:"balance_source"`
	}{b.Inputs, b.Balance, b.BalanceSource})
}

func (s *Service) balance(ctx context.Context, userID int64, inputs engine.BurnInputs, override *float64) (float64, string) {
	if override != nil {
		return *override, "request"
	}
	if s.plaid != nil {
		items, err := dbsql.GetPlaidItemsSQL(ctx, s.pool, userID)
		if err == nil && len(items) > 0 {
			live, err := budgeeplaid.LiveBalance(ctx, s.plaid, items)
			if err == nil {
				return live, "plaid"
			}
			log.Printf("WARN: Live balance failed for user %d, using stored balances: %v", userID, err)
		}
	}
	accounts, err := dbsql.GetDepositoryAccountsSQL(ctx, s.pool, userID)
	if err != nil {
		log.Printf("WARN: Failed to read stored balances for user %d: %v", userID, err)
	} else if stored, ok := budgeeplaid.StoredBalance(accounts); ok {
		return stored, "accounts"
	}
	return inputs.RemainingBudget, "budget"
}

func (s *Service) Recurring(ctx context.Context, userID int64) (*engine.RecurringCandidate, error) {
	from := s.today().AddDate(0, -recurringLookback, 0)
	txns, err := dbsql.ListTransactions(ctx, s.pool, s.cache, userID, from, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	subs, err := dbsql.ListSubscriptions(ctx, s.pool, s.cache, userID)
	if err != nil {
		return nil, fmt.Errorf("listing subscriptions: %w", err)
	}
	return s.detector.Detect(txns, subs), nil
}

func (s *Service) NetWorth(ctx context.Context, userID int64) (engine.WealthSummary, error) {
	assets, err := dbsql.ListAssets(ctx, s.pool, s.cache, userID)
	if err != nil {
		return engine.WealthSummary{}, fmt.Errorf("listing assets: %w", err)
	}
	return s.aggregator.Aggregate(ctx, assets), nil
}

func mergeJSON(base []byte, extra interface{}) ([]byte, error) {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(extra)
	if err != nil {
		return nil, err
	}
	more := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &more); err != nil {
		return nil, err
	}
	for k, v := range more {
		fields[k] = v
	}
	return json.Marshal(fields)
}
