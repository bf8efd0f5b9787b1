package db

import (
	"budgee-analytics/src/db"
	"budgee-analytics/src/models"
	"context"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

func ListSubscriptions(ctx context.Context, pool *pgxpool.Pool, cache *db.Cache, userID int64) ([]models.Subscription, error) {
	cacheKey := strconv.FormatInt(userID, 10)
	if cache != nil {
		if v, ok := cache.Get(db.SubscriptionCache, cacheKey); ok {
			if cached, ok := v.([]models.Subscription); ok {
				return cached, nil
			}
		}
	}

	query := `
		SELECT id, name, amount, billing_day, owner
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY billing_day, name
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		var s models.Subscription
		if err := rows.Scan(&s.ID, &s.Name, &s.Amount, &s.BillingDay, &s.Owner); err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Set(db.SubscriptionCache, cacheKey, subs, snapshotTTL)
	}
	return subs, nil
}
