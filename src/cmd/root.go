package cmd

import (
	"budgee-analytics/src/analytics"
	"budgee-analytics/src/config"
	"budgee-analytics/src/db"
	"budgee-analytics/src/engine"
	budgeeplaid "budgee-analytics/src/plaid"
	"budgee-analytics/src/quotes"
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/plaid/plaid-go/v41/plaid"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "budgee-analytics",
	Short: "Budget-cycle analytics for Budgee households",
	Long:  "Serve the analytics API or print a one-off report for a household.",
	RunE:  runServe,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app holds everything a command needs once config is loaded.
type app struct {
	cfg   config.Config
	pool  *pgxpool.Pool
	cache *db.Cache
	svc   *analytics.Service
}

func (a *app) Close() {
	a.cache.Close()
	a.pool.Close()
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg := config.Load()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("DB connection failed: %w", err)
	}

	cache, err := db.NewCache()
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("cache init failed: %w", err)
	}

	yahoo := quotes.NewYahooSource(cfg.LocalCurrency)
	rates := engine.NewRateCache(yahoo, cfg.Engine.Wealth.RateTTL.Duration, cfg.FXFallbackRate)
	aggregator := engine.NewAggregator(
		quotes.NewCachedQuotes(priceSource(cfg, yahoo), cache, cfg.Engine.Wealth.QuoteTTL.Duration),
		rates,
	)

	detector, err := newDetector(cfg.Engine.Recurring)
	if err != nil {
		cache.Close()
		pool.Close()
		return nil, err
	}

	var plaidClient *plaid.APIClient
	if cfg.PlaidClientID != "" {
		plaidClient, err = budgeeplaid.NewPlaidClient(cfg.PlaidClientID, cfg.PlaidSecret, cfg.PlaidEnv)
		if err != nil {
			log.Printf("WARN: Plaid disabled: %v", err)
		}
	}

	svc := analytics.NewService(pool, cache, aggregator, detector, plaidClient, cfg.Location)
	return &app{cfg: cfg, pool: pool, cache: cache, svc: svc}, nil
}

// priceSource picks the quote provider. Alpha Vantage needs a key; without
// one the Yahoo source is used.
func priceSource(cfg config.Config, yahoo *quotes.YahooSource) quotes.Source {
	if cfg.PriceProvider != "alphavantage" {
		return yahoo
	}
	av, err := quotes.NewAlphaVantageSource(cfg.AlphaVantageAPIKey)
	if err != nil {
		log.Printf("WARN: %v, falling back to Yahoo", err)
		return yahoo
	}
	log.Println("INFO: Using Alpha Vantage for price quotes")
	return av
}

func newDetector(rc config.RecurringConfig) (*engine.Detector, error) {
	scripts, err := rc.ScriptTables()
	if err != nil {
		return nil, err
	}
	d := engine.NewDetector()
	d.AmountTolerance = rc.AmountTolerance
	d.DayTolerance = rc.DayTolerance
	d.Scripts = scripts
	d.Sentinels = rc.Sentinels
	return d, nil
}
