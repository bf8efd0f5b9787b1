package handlers

import (
	"budgee-analytics/src/db"
	dbsql "budgee-analytics/src/db/sql"
	"budgee-analytics/src/middleware"
	"budgee-analytics/src/models"
	"budgee-analytics/src/util"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

func GetBudgetSettings(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		settings, err := dbsql.GetBudgetSettings(r.Context(), pool, userID)
		if errors.Is(err, dbsql.ErrSettingsNotFound) {
			http.Error(w, "budget settings not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Printf("ERROR: Failed to get budget settings for user %d: %v", userID, err)
			http.Error(w, "failed to get budget settings", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(settings)
	}
}

func UpdateBudgetSettings(pool *pgxpool.Pool, cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		var req struct {
			MonthlyBudget float64 `json:"monthly_budget"`
			FixedExpenses float64 `json:"fixed_expenses"`
			AnchorDay     int     `json:"anchor_day"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode budget settings request body for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if err := util.ValidateBudgetSettings(req.MonthlyBudget, req.FixedExpenses, req.AnchorDay); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		updated, err := dbsql.UpsertBudgetSettings(r.Context(), pool, &models.BudgetSettings{
			UserID:        userID,
			MonthlyBudget: req.MonthlyBudget,
			FixedExpenses: req.FixedExpenses,
			AnchorDay:     req.AnchorDay,
		})
		if err != nil {
			log.Printf("ERROR: Failed to update budget settings for user %d: %v", userID, err)
			http.Error(w, "failed to update budget settings", http.StatusInternalServerError)
			return
		}
		// Transaction snapshots are keyed by cycle boundaries, which move with the anchor.
		cache.ClearGroup(db.TransactionCache)
		log.Printf("INFO: Updated budget settings for user %d, anchor day %d", userID, updated.AnchorDay)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}
