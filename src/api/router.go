package api

import (
	"budgee-analytics/src/analytics"
	"budgee-analytics/src/db"
	"budgee-analytics/src/handlers"
	"budgee-analytics/src/middleware"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRouter(svc *analytics.Service, pool *pgxpool.Pool, cache *db.Cache, loc *time.Location, jwtSecret string, isDemo bool) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(middleware.DefaultOrigins))
	r.Use(middleware.DemoModeMiddleware(isDemo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		// Protected routes
		r.With(middleware.JWTAuthMiddleware(jwtSecret)).Group(func(r chi.Router) {
			// Analytics
			r.Get("/analytics/cycle", handlers.GetCycle(svc, loc))
			r.Get("/analytics/streak", handlers.GetStreak(svc))
			r.Get("/analytics/burn-rate", handlers.GetBurnRate(svc))
			r.Get("/analytics/recurring", handlers.GetRecurring(svc))
			r.Get("/analytics/networth", handlers.GetNetWorth(svc))

			// Budget settings
			r.Get("/budget-settings", handlers.GetBudgetSettings(pool))
			r.Put("/budget-settings", handlers.UpdateBudgetSettings(pool, cache))
		})

		// Super Admin Routes
		r.With(middleware.JWTAuthMiddleware(jwtSecret), middleware.SuperAdminMiddleware).Group(func(r chi.Router) {
			r.Post("/admin/cache/clear/{cache_name}", handlers.ClearCache(cache))
		})
	})

	return r
}
