package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	JWTSecret          string
	PlaidClientID      string
	PlaidSecret        string
	PlaidEnv           string
	PriceProvider      string
	AlphaVantageAPIKey string
	LocalCurrency      string
	FXFallbackRate     float64
	Location           *time.Location
	IsDemo             bool
	Engine             EngineConfig
}

// EngineConfig holds the analytics tunables. Defaults match the behaviour of
// the engine when no file is given.
type EngineConfig struct {
	Recurring RecurringConfig `toml:"recurring"`
	Wealth    WealthConfig    `toml:"wealth"`
}

type RecurringConfig struct {
	AmountTolerance float64  `toml:"amount_tolerance"`
	DayTolerance    float64  `toml:"day_tolerance"`
	Scripts         []string `toml:"scripts"`
	Sentinels       []string `toml:"sentinels"`
}

type WealthConfig struct {
	RateTTL  duration `toml:"rate_ttl"`
	QuoteTTL duration `toml:"quote_ttl"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Recurring: RecurringConfig{
			AmountTolerance: 0.10,
			DayTolerance:    5,
			Scripts:         []string{"Latin", "Hebrew"},
			Sentinels:       []string{"unknown"},
		},
		Wealth: WealthConfig{
			RateTTL:  duration{time.Hour},
			QuoteTTL: duration{time.Hour},
		},
	}
}

func Load() Config {
	// Load .env file if present
	_ = godotenv.Load()

	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		PlaidClientID:      getEnv("PLAID_CLIENT_ID", ""),
		PlaidSecret:        getEnv("PLAID_SECRET", ""),
		PlaidEnv:           getEnv("PLAID_ENV", "sandbox"),
		PriceProvider:      strings.ToLower(strings.TrimSpace(getEnv("PRICE_PROVIDER", "yahoo"))),
		AlphaVantageAPIKey: getEnv("ALPHAVANTAGE_API_KEY", ""),
		LocalCurrency:      strings.ToUpper(getEnv("LOCAL_CURRENCY", "ILS")),
		IsDemo:             getEnv("DEMO_MODE", "false") == "true",
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	rate, err := strconv.ParseFloat(getEnv("FX_FALLBACK_RATE", "1"), 64)
	if err != nil || rate <= 0 {
		log.Printf("WARN: Invalid FX_FALLBACK_RATE, using 1: %v", err)
		rate = 1
	}
	cfg.FXFallbackRate = rate

	cfg.Location, err = time.LoadLocation(getEnv("TIMEZONE", "Local"))
	if err != nil {
		log.Fatalf("Invalid TIMEZONE: %v", err)
	}

	cfg.Engine, err = LoadEngineConfig(getEnv("ENGINE_CONFIG", ""))
	if err != nil {
		log.Fatalf("Engine config: %v", err)
	}

	return cfg
}

// LoadEngineConfig overlays the TOML file at path on the defaults. An empty
// path or a missing file yields the defaults.
func LoadEngineConfig(path string) (EngineConfig, error) {
	cfg := DefaultEngineConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading engine config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing engine config: %w", err)
	}
	if _, err := cfg.Recurring.ScriptTables(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// ScriptTables resolves script names such as "Latin" or "Hebrew" into
// unicode range tables.
func (r RecurringConfig) ScriptTables() ([]*unicode.RangeTable, error) {
	tables := make([]*unicode.RangeTable, 0, len(r.Scripts))
	for _, name := range r.Scripts {
		table, ok := unicode.Scripts[name]
		if !ok {
			return nil, fmt.Errorf("unknown script %q", name)
		}
		tables = append(tables, table)
	}
	return tables, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
