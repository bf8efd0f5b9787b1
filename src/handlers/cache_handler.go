package handlers

import (
	"budgee-analytics/src/db"
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
)

var cacheGroups = map[string]bool{
	db.TransactionCache:  true,
	db.SubscriptionCache: true,
	db.AssetCache:        true,
	db.QuoteCache:        true,
}

func ClearCache(cache *db.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "cache_name")
		if !cacheGroups[name] {
			http.Error(w, "unknown cache", http.StatusBadRequest)
			return
		}
		n := cache.ClearGroup(name)
		log.Printf("INFO: Cleared %d entries from %s cache", n, name)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"message": "cache cleared", "cleared": n})
	}
}
