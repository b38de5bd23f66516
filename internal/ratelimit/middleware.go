package ratelimit

import (
	"encoding/json"
	"net/http"

	"github.com/rafidainsoft/mahrajan/pkg/logger"
	"github.com/rafidainsoft/mahrajan/pkg/middleware"
)

// Middleware enforces a per-client-IP quota in front of a handler.
func Middleware(limiter Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := middleware.ClientIP(r)
			if ip == "" {
				ip = "unknown"
			}

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				logger.ErrorContext(r.Context(), "rate limit check failed", "error", err)
				allowed = true
			}
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{
					"error": "تم تجاوز الحد المسموح. يرجى المحاولة لاحقاً",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
