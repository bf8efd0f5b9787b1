package quotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"budgee-analytics/src/models"
)

const yahooBaseURL = "https://query2.finance.yahoo.com"

var (
	ErrPriceNotFound = errors.New("price not found")
	ErrYahooNoResult = errors.New("yahoo: no result")
)

// YahooSource reads batched quotes from the v7 quote endpoint and the
// USD->local rate from the v8 chart endpoint.
type YahooSource struct {
	cli           *http.Client
	baseURL       string
	localCurrency string
}

func NewYahooSource(localCurrency string) *YahooSource {
	return &YahooSource{
		cli:           &http.Client{Timeout: 8 * time.Second},
		baseURL:       yahooBaseURL,
		localCurrency: strings.ToUpper(strings.TrimSpace(localCurrency)),
	}
}

func (y *YahooSource) Quotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	out := make(map[string]models.PriceQuote, len(symbols))
	if len(symbols) == 0 {
		return out, nil
	}

	u := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", y.baseURL, url.QueryEscape(strings.Join(symbols, ",")))
	var raw struct {
		QuoteResponse struct {
			Result []struct {
				Symbol                     string  `json:"symbol"`
				RegularMarketPrice         float64 `json:"regularMarketPrice"`
				RegularMarketChangePercent float64 `json:"regularMarketChangePercent"`
			} `json:"result"`
		} `json:"quoteResponse"`
	}
	if err := y.getJSON(ctx, u, &raw); err != nil {
		return nil, err
	}

	for _, r := range raw.QuoteResponse.Result {
		if r.RegularMarketPrice <= 0 {
			continue
		}
		sym := strings.ToUpper(r.Symbol)
		out[sym] = models.PriceQuote{Symbol: sym, PriceUSD: r.RegularMarketPrice, ChangePercent: r.RegularMarketChangePercent}
	}
	return out, nil
}

// Rate returns how many local-currency units one USD buys (e.g. USDILS=X).
func (y *YahooSource) Rate(ctx context.Context) (float64, error) {
	if y.localCurrency == "" || y.localCurrency == "USD" {
		return 1, nil
	}

	u := fmt.Sprintf("%s/v8/finance/chart/USD%s=X?interval=1h&range=1d", y.baseURL, y.localCurrency)
	var raw struct {
		Chart struct {
			Result []struct {
				Meta struct {
					RegularMarketPrice float64 `json:"regularMarketPrice"`
				} `json:"meta"`
			} `json:"result"`
		} `json:"chart"`
	}
	if err := y.getJSON(ctx, u, &raw); err != nil {
		return 0, err
	}
	if len(raw.Chart.Result) == 0 {
		return 0, ErrYahooNoResult
	}
	rate := raw.Chart.Result[0].Meta.RegularMarketPrice
	if rate <= 0 {
		return 0, fmt.Errorf("invalid fx rate %v", rate)
	}
	return rate, nil
}

func (y *YahooSource) getJSON(ctx context.Context, u string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "budgee-analytics/1.0")

	resp, err := y.cli.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
