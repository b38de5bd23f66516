package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/rafidainsoft/mahrajan/pkg/auth"
	"github.com/rafidainsoft/mahrajan/pkg/logger"
)

// RequireAdmin rejects requests that do not carry a valid admin bearer token.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "يجب تسجيل الدخول")
			return
		}

		claims, err := auth.Parse(strings.TrimPrefix(header, "Bearer "), h.jwtSecret)
		if err != nil || claims.Role != "admin" {
			writeError(w, http.StatusUnauthorized, "جلسة غير صالحة. يرجى تسجيل الدخول مجدداً")
			return
		}

		ctx := context.WithValue(r.Context(), logger.AdminIDKey, claims.Sub)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
