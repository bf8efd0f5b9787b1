package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"budgee-analytics/src/models"
)

var (
	ErrAPIKeyMissing  = errors.New("ALPHAVANTAGE_API_KEY not set")
	ErrAPIRateLimited = errors.New("alpha vantage rate limit or information note")
)

// AlphaVantageSource queries GLOBAL_QUOTE once per symbol. The API has no
// batch endpoint, so a batch is a sequence of calls that stops at the first
// rate-limit note.
type AlphaVantageSource struct {
	apiKey  string
	cli     *http.Client
	baseURL string
}

func NewAlphaVantageSource(apiKey string) (*AlphaVantageSource, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, ErrAPIKeyMissing
	}
	return &AlphaVantageSource{
		apiKey:  key,
		cli:     &http.Client{Timeout: 8 * time.Second},
		baseURL: "https://www.alphavantage.co",
	}, nil
}

func (p *AlphaVantageSource) Quotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	out := make(map[string]models.PriceQuote, len(symbols))
	var lastErr error
	for _, s := range symbols {
		q, err := p.quote(ctx, s)
		if errors.Is(err, ErrAPIRateLimited) {
			lastErr = err
			break
		}
		if err != nil {
			if !errors.Is(err, ErrPriceNotFound) {
				lastErr = err
				log.Printf("WARN: Alpha Vantage quote for %s failed: %v", s, err)
			}
			continue
		}
		out[q.Symbol] = q
	}
	if len(out) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return out, nil
}

func (p *AlphaVantageSource) quote(ctx context.Context, symbol string) (models.PriceQuote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.PriceQuote{}, ErrPriceNotFound
	}

	u := fmt.Sprintf("%s/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s", p.baseURL, symbol, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return models.PriceQuote{}, err
	}
	req.Header.Set("User-Agent", "budgee-analytics/1.0")

	resp, err := p.cli.Do(req)
	if err != nil {
		return models.PriceQuote{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.PriceQuote{}, fmt.Errorf("alphavantage http %d", resp.StatusCode)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return models.PriceQuote{}, err
	}
	if _, ok := raw["Note"]; ok {
		return models.PriceQuote{}, ErrAPIRateLimited
	}
	if _, ok := raw["Information"]; ok {
		return models.PriceQuote{}, ErrAPIRateLimited
	}
	gq, ok := raw["Global Quote"].(map[string]any)
	if !ok || len(gq) == 0 {
		return models.PriceQuote{}, ErrPriceNotFound
	}

	priceStr, _ := gq["05. price"].(string)
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price <= 0 {
		return models.PriceQuote{}, ErrPriceNotFound
	}
	changeStr, _ := gq["10. change percent"].(string)
	change, _ := strconv.ParseFloat(strings.TrimSuffix(changeStr, "%"), 64)

	return models.PriceQuote{Symbol: symbol, PriceUSD: price, ChangePercent: change}, nil
}
