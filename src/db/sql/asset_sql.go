package db

import (
	"budgee-analytics/src/db"
	"budgee-analytics/src/models"
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ListAssets(ctx context.Context, pool *pgxpool.Pool, cache *db.Cache, userID int64) ([]models.Asset, error) {
	cacheKey := strconv.FormatInt(userID, 10)
	if cache != nil {
		if v, ok := cache.Get(db.AssetCache, cacheKey); ok {
			if cached, ok := v.([]models.Asset); ok {
				return cached, nil
			}
		}
	}

	query := `
		SELECT id, name, kind, investment_subtype, symbol, quantity, COALESCE(stored_value, 0), COALESCE(annual_yield_pct, 0)
		FROM assets
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		err := rows.Scan(&a.ID, &a.Name, &a.Kind, &a.InvestmentSubtype, &a.Symbol, &a.Quantity, &a.StoredValue, &a.AnnualYieldPct)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Set(db.AssetCache, cacheKey, assets, snapshotTTL)
	}
	return assets, nil
}
