package engine

import (
	"context"
	"log"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"budgee-analytics/src/models"
)

// QuoteSource returns best-effort quotes keyed by symbol. Unknown symbols are
// omitted from the result.
type QuoteSource interface {
	Quotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error)
}

type AssetValue struct {
	models.Asset
	CalculatedValue float64  `json:"calculated_value"`
	LivePriced      bool     `json:"live_priced"`
	ChangePercent   *float64 `json:"change_percent,omitempty"`
}

type WealthSummary struct {
	NetWorth             float64      `json:"net_worth"`
	InvestmentsValue     float64      `json:"investments_value"`
	CashValue            float64      `json:"cash_value"`
	ProjectedAnnualYield float64      `json:"projected_annual_yield"`
	FXRate               float64      `json:"fx_rate"`
	PerAsset             []AssetValue `json:"per_asset"`
}

// Aggregator prices assets with live quotes and merges them into net worth.
// It owns the FX rate cache.
type Aggregator struct {
	quotes QuoteSource
	rates  *RateCache
}

func NewAggregator(quotes QuoteSource, rates *RateCache) *Aggregator {
	return &Aggregator{quotes: quotes, rates: rates}
}

// Aggregate values every asset and sums them. Upstream failures are logged
// and the affected assets fall back to their stored value.
func (a *Aggregator) Aggregate(ctx context.Context, assets []models.Asset) WealthSummary {
	symbols := tradeableSymbols(assets)

	var quotes map[string]models.PriceQuote
	fx := 0.0
	if len(symbols) > 0 {
		var g errgroup.Group
		g.Go(func() error {
			if a.quotes == nil {
				return nil
			}
			q, err := a.quotes.Quotes(ctx, symbols)
			if err != nil {
				log.Printf("WARN: Quote fetch failed for %d symbols, using stored values: %v", len(symbols), err)
				return nil
			}
			quotes = q
			return nil
		})
		g.Go(func() error {
			if a.rates != nil {
				fx = a.rates.Rate(ctx)
			}
			return nil
		})
		_ = g.Wait()
	}

	summary := WealthSummary{FXRate: fx, PerAsset: make([]AssetValue, 0, len(assets))}
	investments, cash, yield := decimal.Zero, decimal.Zero, decimal.Zero
	for _, asset := range assets {
		av := valueAsset(asset, quotes, fx)
		summary.PerAsset = append(summary.PerAsset, av)

		v := decimal.NewFromFloat(av.CalculatedValue)
		if isInvestment(asset) {
			investments = investments.Add(v)
		} else {
			cash = cash.Add(v)
		}
		if pct := finiteOr(asset.AnnualYieldPct, 0); pct != 0 {
			yield = yield.Add(v.Mul(decimal.NewFromFloat(pct)).Div(decimal.NewFromInt(100)))
		}
	}

	summary.InvestmentsValue = investments.InexactFloat64()
	summary.CashValue = cash.InexactFloat64()
	summary.NetWorth = summary.InvestmentsValue + summary.CashValue
	summary.ProjectedAnnualYield = yield.InexactFloat64()
	return summary
}

func valueAsset(asset models.Asset, quotes map[string]models.PriceQuote, fx float64) AssetValue {
	av := AssetValue{Asset: finiteAsset(asset), CalculatedValue: finiteOr(asset.StoredValue, 0)}
	if asset.Symbol == nil || asset.Quantity == nil {
		return av
	}
	q, ok := quotes[normalizeSymbol(*asset.Symbol)]
	if !ok || !(q.PriceUSD > 0) || math.IsInf(q.PriceUSD, 0) || !(fx > 0) {
		return av
	}
	qty := finiteOr(*asset.Quantity, math.NaN())
	if math.IsNaN(qty) {
		return av
	}
	v := qty * q.PriceUSD * fx
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return av
	}
	av.CalculatedValue = v
	av.LivePriced = true
	if change := finiteOr(q.ChangePercent, 0); change != 0 {
		av.ChangePercent = &change
	}
	return av
}

// finiteAsset zeroes non-finite stored numbers and drops a non-finite
// quantity so the asset can be echoed back as JSON.
func finiteAsset(a models.Asset) models.Asset {
	a.StoredValue = finiteOr(a.StoredValue, 0)
	a.AnnualYieldPct = finiteOr(a.AnnualYieldPct, 0)
	if a.Quantity != nil {
		if q := *a.Quantity; math.IsNaN(q) || math.IsInf(q, 0) {
			a.Quantity = nil
		}
	}
	return a
}

func tradeableSymbols(assets []models.Asset) []string {
	seen := make(map[string]struct{})
	var symbols []string
	for _, a := range assets {
		if a.Kind != models.AssetStock && a.Kind != models.AssetCrypto {
			continue
		}
		if a.Symbol == nil {
			continue
		}
		s := normalizeSymbol(*a.Symbol)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		symbols = append(symbols, s)
	}
	return symbols
}

// isInvestment counts stock, crypto and real estate kinds as investments, as
// well as any asset whose investment subtype is crypto or real estate.
func isInvestment(a models.Asset) bool {
	switch a.Kind {
	case models.AssetStock, models.AssetCrypto, models.AssetRealEstate:
		return true
	}
	if a.InvestmentSubtype != nil {
		switch models.AssetKind(*a.InvestmentSubtype) {
		case models.AssetCrypto, models.AssetRealEstate:
			return true
		}
	}
	return false
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
