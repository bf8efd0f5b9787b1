package middleware

import (
	"net/http"
)

// DemoModeMiddleware makes the demo deployment read-only: analytics stay
// available but budget settings cannot be changed.
func DemoModeMiddleware(isDemo bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDemo || r.Method == http.MethodGet || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}
			if superAdmin, ok := r.Context().Value(SuperAdminKey).(bool); ok && superAdmin {
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Demo mode: only GET requests are allowed", http.StatusForbidden)
		})
	}
}
