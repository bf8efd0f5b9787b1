package db

import (
	"budgee-analytics/src/db"
	"budgee-analytics/src/models"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const snapshotTTL = time.Minute

// ListTransactions returns the household's expenses dated within [from, to).
// A zero from or to leaves that side open. Results are memoized briefly in cache.
func ListTransactions(ctx context.Context, pool *pgxpool.Pool, cache *db.Cache, userID int64, from, to time.Time) ([]models.Transaction, error) {
	cacheKey := fmt.Sprintf("%d:%d:%d", userID, from.Unix(), to.Unix())
	if cache != nil {
		if v, ok := cache.Get(db.TransactionCache, cacheKey); ok {
			if txns, ok := v.([]models.Transaction); ok {
				return txns, nil
			}
		}
	}

	query := `
		SELECT id, amount, date, payer, category, description
		FROM household_transactions
		WHERE user_id = $1
		  AND ($2::timestamptz IS NULL OR date >= $2)
		  AND ($3::timestamptz IS NULL OR date < $3)
		ORDER BY date
	`
	rows, err := pool.Query(ctx, query, userID, nullableTime(from), nullableTime(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.Amount, &t.Date, &t.Payer, &t.Category, &t.Description)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Set(db.TransactionCache, cacheKey, transactions, snapshotTTL)
	}
	return transactions, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
