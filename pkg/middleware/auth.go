package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtutil "github.com/aidynbek/account-service/pkg/jwt"
	log "github.com/sirupsen/logrus"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware verifies the bearer token on protected routes and puts the
// token claims into the request context. Verification is purely stateless:
// no store lookup happens here.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				log.Warn("Request without authorization header")
				writeAuthError(w, "missing token")
				return
			}

			tokenString := strings.TrimPrefix(header, "Bearer ")
			if tokenString == header || tokenString == "" {
				log.Warn("Malformed authorization header")
				writeAuthError(w, "missing token")
				return
			}

			claims, err := jwtutil.ParseToken(tokenString, secret)
			if err != nil {
				log.WithError(err).Warn("Token verification failed")
				writeAuthError(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the claims stored by AuthMiddleware, or nil if
// the request did not pass through it.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}

func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
