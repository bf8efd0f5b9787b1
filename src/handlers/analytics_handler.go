package handlers

import (
	"budgee-analytics/src/analytics"
	dbsql "budgee-analytics/src/db/sql"
	"budgee-analytics/src/middleware"
	"encoding/json"
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

func GetCycle(svc *analytics.Service, loc *time.Location) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		var date time.Time
		if raw := r.URL.Query().Get("date"); raw != "" {
			d, err := time.ParseInLocation(dateLayout, raw, loc)
			if err != nil {
				http.Error(w, "invalid date, expected YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			date = d
		}
		report, err := svc.Cycle(r.Context(), userID, date)
		if err != nil {
			log.Printf("ERROR: Failed to resolve cycle for user %d: %v", userID, err)
			http.Error(w, "failed to resolve cycle", http.StatusInternalServerError)
			return
		}
		writeJSON(w, report)
	}
}

func GetStreak(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		report, err := svc.Streak(r.Context(), userID)
		if handleSettingsError(w, err, userID, "streak") {
			return
		}
		writeJSON(w, report)
	}
}

func GetBurnRate(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		var override *float64
		if raw := r.URL.Query().Get("balance"); raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				http.Error(w, "invalid balance", http.StatusBadRequest)
				return
			}
			override = &v
		}
		report, err := svc.BurnRate(r.Context(), userID, override)
		if handleSettingsError(w, err, userID, "burn rate") {
			return
		}
		writeJSON(w, report)
	}
}

func GetRecurring(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		candidate, err := svc.Recurring(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to detect recurring charges for user %d: %v", userID, err)
			http.Error(w, "failed to detect recurring charges", http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]interface{}{"candidate": candidate})
	}
}

func GetNetWorth(svc *analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := middleware.UserID(r.Context())
		summary, err := svc.NetWorth(r.Context(), userID)
		if err != nil {
			log.Printf("ERROR: Failed to aggregate net worth for user %d: %v", userID, err)
			http.Error(w, "failed to aggregate net worth", http.StatusInternalServerError)
			return
		}
		writeJSON(w, summary)
	}
}

// handleSettingsError writes the response for err and reports whether it did.
func handleSettingsError(w http.ResponseWriter, err error, userID int64, what string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, dbsql.ErrSettingsNotFound) {
		http.Error(w, "budget settings not found", http.StatusNotFound)
		return true
	}
	log.Printf("ERROR: Failed to compute %s for user %d: %v", what, userID, err)
	http.Error(w, "failed to compute "+what, http.StatusInternalServerError)
	return true
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: Failed to encode response: %v", err)
	}
}
