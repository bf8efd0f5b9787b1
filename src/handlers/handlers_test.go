package handlers

import (
	"budgee-analytics/src/db"
	dbsql "budgee-analytics/src/db/sql"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

func TestClearCache(t *testing.T) {
	cache, err := db.NewCache()
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	defer cache.Close()
	cache.Set(db.QuoteCache, "AAPL", 1.0, 0)

	r := chi.NewRouter()
	r.Post("/cache/clear/{cache_name}", ClearCache(cache))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/clear/quotes", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("clear quotes: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/cache/clear/users", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("clear unknown: %d, want 400", rec.Code)
	}
}

func TestHandleSettingsError(t *testing.T) {
	tests := []struct {
		err     error
		handled bool
		code    int
	}{
		{nil, false, http.StatusOK},
		{fmt.Errorf("wrapped: %w", dbsql.ErrSettingsNotFound), true, http.StatusNotFound},
		{errors.New("connection reset"), true, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		if got := handleSettingsError(rec, tt.err, 7, "streak"); got != tt.handled {
			t.Errorf("handleSettingsError(%v) = %v, want %v", tt.err, got, tt.handled)
		}
		if rec.Code != tt.code {
			t.Errorf("handleSettingsError(%v) status = %d, want %d", tt.err, rec.Code, tt.code)
		}
	}
}

func TestGetBurnRate_RejectsNonFiniteBalance(t *testing.T) {
	h := GetBurnRate(nil)
	for _, raw := range []string{"NaN", "Inf", "-Inf", "abc"} {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/burn-rate?balance="+raw, nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("balance=%s: status %d, want 400", raw, rec.Code)
		}
	}
}
