package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// RequireStaff ensures the authenticated user has staff privileges.
func RequireStaff(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !GetIsStaff(r.Context()) {
				userID, _ := GetUserID(r.Context())
				logger.Warn("Non-staff user attempted to access staff endpoint",
					zap.String("user_id", userID.String()),
				)
				respondWithError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
