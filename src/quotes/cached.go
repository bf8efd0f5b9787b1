package quotes

import (
	"context"
	"log"
	"strings"
	"time"

	"budgee-analytics/src/db"
	"budgee-analytics/src/models"
)

const DefaultQuoteTTL = time.Hour

// Source is satisfied by YahooSource and AlphaVantageSource.
type Source interface {
	Quotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error)
}

type cachedQuote struct {
	quote   models.PriceQuote
	fetched time.Time
}

// CachedQuotes serves fresh quotes from the shared cache and only asks the
// upstream for the rest. When the upstream fails, the last known quote of each
// symbol is returned instead.
type CachedQuotes struct {
	source Source
	cache  *db.Cache
	ttl    time.Duration
	now    func() time.Time
}

func NewCachedQuotes(source Source, cache *db.Cache, ttl time.Duration) *CachedQuotes {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	return &CachedQuotes{source: source, cache: cache, ttl: ttl, now: time.Now}
}

func (c *CachedQuotes) Quotes(ctx context.Context, symbols []string) (map[string]models.PriceQuote, error) {
	out := make(map[string]models.PriceQuote, len(symbols))
	stale := make(map[string]models.PriceQuote)
	var missing []string

	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if v, ok := c.cache.Get(db.QuoteCache, s); ok {
			if cq, ok := v.(cachedQuote); ok {
				if c.now().Sub(cq.fetched) < c.ttl {
					out[s] = cq.quote
					continue
				}
				stale[s] = cq.quote
			}
		}
		missing = append(missing, s)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.source.Quotes(ctx, missing)
	if err != nil {
		log.Printf("WARN: Quote refresh failed for %v, serving %d last known quotes: %v", missing, len(stale), err)
		for s, q := range stale {
			out[s] = q
		}
		if len(out) == 0 {
			return nil, err
		}
		return out, nil
	}

	for _, s := range missing {
		q, ok := fresh[s]
		if !ok {
			if old, ok := stale[s]; ok {
				out[s] = old
			}
			continue
		}
		out[s] = q
		c.cache.Set(db.QuoteCache, s, cachedQuote{quote: q, fetched: c.now()}, 0)
	}
	return out, nil
}
