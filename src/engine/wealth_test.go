package engine

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sync/atomic"
	"testing"

	"budgee-analytics/src/models"
)

type stubQuotes struct {
	quotes map[string]models.PriceQuote
	err    error
	calls  atomic.Int32
	asked  []string
}

func (s *stubQuotes) Quotes(_ context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	s.calls.Add(1)
	s.asked = symbols
	return s.quotes, s.err
}

type stubFX struct {
	rate  float64
	err   error
	calls atomic.Int32
}

func (s *stubFX) Rate(context.Context) (float64, error) {
	s.calls.Add(1)
	return s.rate, s.err
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func sumCalculated(s WealthSummary) float64 {
	var total float64
	for _, a := range s.PerAsset {
		total += a.CalculatedValue
	}
	return total
}

func TestAggregate_QuoteFailureFallsBackToStoredValue(t *testing.T) {
	quotes := &stubQuotes{err: errors.New("upstream down")}
	agg := NewAggregator(quotes, NewRateCache(&stubFX{rate: 3.5}, 0, 1))
	assets := []models.Asset{
		{ID: "a1", Kind: models.AssetStock, Symbol: strPtr("AAPL"), Quantity: floatPtr(10), StoredValue: 1000},
		{ID: "a2", Kind: models.AssetCash, StoredValue: 250},
	}
	got := agg.Aggregate(context.Background(), assets)
	if got.PerAsset[0].CalculatedValue != 1000 || got.PerAsset[0].LivePriced {
		t.Fatalf("stock value = %+v, want stored 1000", got.PerAsset[0])
	}
	if got.InvestmentsValue != 1000 || got.CashValue != 250 {
		t.Fatalf("split = %.2f / %.2f, want 1000 / 250", got.InvestmentsValue, got.CashValue)
	}
	if got.NetWorth != sumCalculated(got) || got.NetWorth != 1250 {
		t.Fatalf("NetWorth = %.2f, want 1250", got.NetWorth)
	}
}

func TestAggregate_LivePricing(t *testing.T) {
	quotes := &stubQuotes{quotes: map[string]models.PriceQuote{
		"AAPL":    {Symbol: "AAPL", PriceUSD: 200, ChangePercent: 1.5},
		"BTC-USD": {Symbol: "BTC-USD", PriceUSD: 50000},
	}}
	fx := &stubFX{rate: 3.5}
	agg := NewAggregator(quotes, NewRateCache(fx, 0, 1))
	assets := []models.Asset{
		{ID: "s", Kind: models.AssetStock, Symbol: strPtr(" aapl "), Quantity: floatPtr(10), StoredValue: 1},
		{ID: "s2", Kind: models.AssetStock, Symbol: strPtr("AAPL"), Quantity: floatPtr(1), StoredValue: 1},
		{ID: "c", Kind: models.AssetCrypto, Symbol: strPtr("BTC-USD"), Quantity: floatPtr(0.5), StoredValue: 1},
		{ID: "u", Kind: models.AssetStock, Symbol: strPtr("NOPE"), Quantity: floatPtr(3), StoredValue: 42},
		{ID: "h", Kind: models.AssetRealEstate, StoredValue: 1000000, AnnualYieldPct: 3},
		{ID: "d", Kind: models.AssetCash, StoredValue: 5000, AnnualYieldPct: 4},
	}
	got := agg.Aggregate(context.Background(), assets)

	if quotes.calls.Load() != 1 || fx.calls.Load() != 1 {
		t.Fatalf("expected one batched quote call and one FX call, got %d and %d", quotes.calls.Load(), fx.calls.Load())
	}
	if len(quotes.asked) != 3 {
		t.Fatalf("asked for %v, want 3 distinct symbols", quotes.asked)
	}
	wantValues := []float64{7000, 700, 87500, 42, 1000000, 5000}
	for i, want := range wantValues {
		if math.Abs(got.PerAsset[i].CalculatedValue-want) > 1e-9 {
			t.Errorf("asset %s value = %.2f, want %.2f", got.PerAsset[i].ID, got.PerAsset[i].CalculatedValue, want)
		}
	}
	if got.PerAsset[0].ChangePercent == nil || *got.PerAsset[0].ChangePercent != 1.5 {
		t.Fatalf("change percent not carried: %+v", got.PerAsset[0])
	}
	if got.InvestmentsValue != 1095242 || got.CashValue != 5000 {
		t.Fatalf("split = %.2f / %.2f", got.InvestmentsValue, got.CashValue)
	}
	if got.NetWorth != got.InvestmentsValue+got.CashValue || got.NetWorth != sumCalculated(got) {
		t.Fatalf("NetWorth %.2f is not the sum of calculated values", got.NetWorth)
	}
	if got.ProjectedAnnualYield != 30200 {
		t.Fatalf("ProjectedAnnualYield = %.2f, want 30200", got.ProjectedAnnualYield)
	}
}

func TestAggregate_NoSymbolsSkipsFetch(t *testing.T) {
	quotes := &stubQuotes{}
	fx := &stubFX{rate: 3.5}
	agg := NewAggregator(quotes, NewRateCache(fx, 0, 1))
	got := agg.Aggregate(context.Background(), []models.Asset{{ID: "cash", Kind: models.AssetCash, StoredValue: 10}})
	if quotes.calls.Load() != 0 || fx.calls.Load() != 0 {
		t.Fatal("no tradeable symbols should mean no upstream calls")
	}
	if got.NetWorth != 10 {
		t.Fatalf("NetWorth = %.2f, want 10", got.NetWorth)
	}
}

func TestAggregate_DegradesMalformedNumbers(t *testing.T) {
	quotes := &stubQuotes{quotes: map[string]models.PriceQuote{
		"AAPL": {Symbol: "AAPL", PriceUSD: math.NaN()},
		"MSFT": {Symbol: "MSFT", PriceUSD: 400},
	}}
	agg := NewAggregator(quotes, NewRateCache(&stubFX{err: errors.New("fx down")}, 0, 1))
	assets := []models.Asset{
		{ID: "nanprice", Kind: models.AssetStock, Symbol: strPtr("AAPL"), Quantity: floatPtr(2), StoredValue: 300},
		{ID: "nanqty", Kind: models.AssetStock, Symbol: strPtr("MSFT"), Quantity: floatPtr(math.NaN()), StoredValue: 200},
		{ID: "zeroqty", Kind: models.AssetStock, Symbol: strPtr("MSFT"), Quantity: floatPtr(0), StoredValue: 200},
		{ID: "nanstored", Kind: models.AssetCash, StoredValue: math.NaN()},
		{ID: "infstored", Kind: models.AssetCash, StoredValue: math.Inf(1), AnnualYieldPct: math.NaN()},
	}
	got := agg.Aggregate(context.Background(), assets)
	want := []float64{300, 200, 0, 0, 0}
	for i, w := range want {
		if got.PerAsset[i].CalculatedValue != w {
			t.Errorf("asset %s value = %v, want %v", got.PerAsset[i].ID, got.PerAsset[i].CalculatedValue, w)
		}
	}
	if math.IsNaN(got.NetWorth) || got.NetWorth != 500 {
		t.Fatalf("NetWorth = %v, want 500", got.NetWorth)
	}
	if got.FXRate != 1 {
		t.Fatalf("FXRate = %v, want fallback 1", got.FXRate)
	}
	if got.PerAsset[1].Quantity != nil {
		t.Errorf("NaN quantity should be dropped, got %v", *got.PerAsset[1].Quantity)
	}
	if got.PerAsset[3].StoredValue != 0 || got.PerAsset[4].AnnualYieldPct != 0 {
		t.Errorf("non-finite stored numbers kept: %+v %+v", got.PerAsset[3].Asset, got.PerAsset[4].Asset)
	}
	if _, err := json.Marshal(got); err != nil {
		t.Fatalf("Marshal summary: %v", err)
	}
	if !math.IsNaN(*assets[1].Quantity) {
		t.Fatal("input asset quantity should be left untouched")
	}
}

func TestAggregate_Empty(t *testing.T) {
	got := NewAggregator(nil, nil).Aggregate(context.Background(), nil)
	if got.NetWorth != 0 || got.InvestmentsValue != 0 || got.CashValue != 0 || len(got.PerAsset) != 0 {
		t.Fatalf("empty aggregate = %+v", got)
	}
}

func TestIsInvestment_Subtype(t *testing.T) {
	a := models.Asset{Kind: models.AssetCash, InvestmentSubtype: strPtr("real_estate")}
	if !isInvestment(a) {
		t.Fatal("real_estate subtype should count as investment")
	}
	if isInvestment(models.Asset{Kind: models.AssetCash}) {
		t.Fatal("plain cash is not an investment")
	}
	for _, k := range []models.AssetKind{models.AssetStock, models.AssetCrypto, models.AssetRealEstate} {
		if !isInvestment(models.Asset{Kind: k}) {
			t.Errorf("kind %s should count as investment", k)
		}
	}
}
