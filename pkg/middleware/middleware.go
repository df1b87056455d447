package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	jwtutil "github.com/daniyar-kw/linkup/pkg/jwt"
	"github.com/daniyar-kw/linkup/pkg/logger"
)

type contextKey string

// UserContextKey is where authenticated claims live in the request context.
const UserContextKey contextKey = "user"

// AuthMiddleware validates the bearer token and stores its claims in the
// request context. The core trusts the resulting user ID without
// re-validating credentials.
func AuthMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, "Missing Authorization header", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			claims, err := jwtutil.ValidateToken(tokenString, jwtSecret)
			if err != nil {
				logger.Log.Warnf("Rejected request with invalid token: %v", err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated claims, or nil.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, ok := ctx.Value(UserContextKey).(*jwtutil.Claims)
	if !ok {
		return nil
	}
	return claims
}

// LoggingMiddleware logs every request with method, path and duration.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log.WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("duration", time.Since(start).String()).
			Info("Handled request")
	})
}
