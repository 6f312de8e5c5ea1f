package middleware

import (
	"context"
	"net/http"
	"strings"

	log "github.com/sirupsen/logrus"

	jwtutil "github.com/aibek-k/erp-admin/pkg/jwt"
)

type contextKey string

const userContextKey contextKey = "user"

// AuthMiddleware validates the bearer token and stores its claims in
// the request context.
func AuthMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "Missing or malformed token", http.StatusUnauthorized)
				return
			}

			claims, err := jwtutil.ParseToken(strings.TrimPrefix(header, "Bearer "), secret)
			if err != nil {
				log.WithError(err).Warn("Rejected request with invalid token")
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserFromContext returns the authenticated claims, or nil when the
// request was not authenticated.
func GetUserFromContext(ctx context.Context) *jwtutil.Claims {
	claims, _ := ctx.Value(userContextKey).(*jwtutil.Claims)
	return claims
}

// RequireRole rejects requests whose token does not carry one of the
// given roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims == nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			log.WithFields(log.Fields{
				"userID": claims.UserID,
				"role":   claims.Role,
			}).Warn("Forbidden: insufficient role")
			http.Error(w, "Forbidden", http.StatusForbidden)
		})
	}
}
