package middleware

import (
	"net/http"
	"strconv"

	"github.com/aibek-k/erp-admin/internal/services"
)

// UpdateLastActiveMiddleware records activity for authenticated users.
// Best effort: a failed touch never affects the request.
func UpdateLastActiveMiddleware(userService *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetUserFromContext(r.Context())
			if claims != nil {
				if userID, err := strconv.ParseInt(claims.UserID, 10, 64); err == nil {
					_ = userService.TouchLastActive(r.Context(), userID)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
