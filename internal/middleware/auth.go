package middleware

import (
	"context"
	"net/http"
	"strings"

	"indexapi/internal/api/respond"
	"indexapi/internal/model"
	"indexapi/internal/repository"
	"indexapi/internal/service"

	"github.com/rs/zerolog"
)

// Injected key type to avoid context collisions
type contextKey string

const KeyContextKey = contextKey("apiKey")

// KeyFromContext returns the key record resolved by the auth middleware.
func KeyFromContext(ctx context.Context) (*model.KeyRecord, bool) {
	rec, ok := ctx.Value(KeyContextKey).(*model.KeyRecord)
	return rec, ok
}

// Auth resolves a bearer token to an active key record. The raw token is
// hashed immediately and never logged; only its hash touches the store.
// A missing token yields 401; unknown or inactive keys yield 403.
func Auth(keys repository.KeyRepository, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respond.Error(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				respond.Error(w, http.StatusUnauthorized, "Invalid authorization header")
				return
			}

			hash := service.HashToken(parts[1])
			rec, err := keys.GetByHash(r.Context(), hash)
			if err != nil {
				logger.Error().Err(err).Msg("Key lookup failed")
				respond.Error(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			if rec == nil || rec.Status != model.KeyStatusActive {
				respond.Error(w, http.StatusForbidden, "Invalid or inactive API key")
				return
			}

			ctx := context.WithValue(r.Context(), KeyContextKey, rec)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
