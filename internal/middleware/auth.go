package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	IsStaffKey contextKey = "is_staff"
)

func parseBearerToken(r *http.Request, jwtSecret string) (userID uuid.UUID, isStaff bool, err error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return uuid.Nil, false, jwt.ErrTokenMalformed
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, false, jwt.ErrTokenMalformed
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	if !token.Valid {
		return uuid.Nil, false, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}
	userID, err = uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, false, jwt.ErrTokenInvalidClaims
	}

	// Absent staff claim means a regular user token.
	isStaff, _ = claims["is_staff"].(bool)

	return userID, isStaff, nil
}

// AuthMiddleware validates JWT tokens and puts the user ID and staff flag
// into the request context. Requests without a valid token are rejected.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, isStaff, err := parseBearerToken(r, jwtSecret)
			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				switch err {
				case jwt.ErrTokenMalformed:
					respondWithError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				case jwt.ErrTokenExpired:
					respondWithError(w, http.StatusUnauthorized, "token expired")
				default:
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, IsStaffKey, isStaff)

			logger.Debug("User authenticated",
				zap.String("user_id", userID.String()),
				zap.Bool("is_staff", isStaff),
			)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthMiddleware extracts claims when a valid token is present but
// lets anonymous requests through. Used on read endpoints that annotate
// responses with per-user state such as favorites.
func OptionalAuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, isStaff, err := parseBearerToken(r, jwtSecret)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, userID)
			ctx = context.WithValue(ctx, IsStaffKey, isStaff)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

// GetIsStaff reports whether the authenticated user has staff privileges.
func GetIsStaff(ctx context.Context) bool {
	isStaff, _ := ctx.Value(IsStaffKey).(bool)
	return isStaff
}
