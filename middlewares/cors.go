package middlewares

import (
	"net/http"
	"os"
	"strings"
)

// EnableCORS allows browser clients on other origins to reach the HTTP
// surface. ALLOWED_ORIGINS is a comma-separated list; empty means any
// origin, which suits development.
func EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed := os.Getenv("ALLOWED_ORIGINS")
		origin := r.Header.Get("Origin")

		if allowed == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, a := range strings.Split(allowed, ",") {
				if strings.TrimSpace(a) == origin {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
