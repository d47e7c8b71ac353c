package api

import (
	"net/http"

	"golang.org/x/time/rate"
)

// Ingest limits sized for single-operator use; the gateway is not a
// multi-tenant surface.
const (
	rateLimitPerSecond = 20
	rateLimitBurst     = 40
)

func rateLimit() func(http.Handler) http.Handler {
	limiter := rate.NewLimiter(rate.Limit(rateLimitPerSecond), rateLimitBurst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
