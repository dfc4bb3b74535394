package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"leadership-chatbot-server/pkg/jwt"
	"leadership-chatbot-server/pkg/response"
)

type contextKey string

const UserIDKey contextKey = "userID"

// AuthMiddleware validates the bearer token on every request it wraps and
// binds the resolved user id into the request context. The wrapped handler
// never runs on a validation failure. expectedType selects which token kind
// the route accepts: access for normal protected routes, refresh for the
// token-refresh route.
func AuthMiddleware(jwtSecret string, expectedType jwt.TokenType) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeMissingToken(w)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeMissingToken(w)
				return
			}

			claims, err := jwt.ValidateToken(parts[1], jwtSecret)
			if err != nil {
				if errors.Is(err, jwt.ErrTokenExpired) {
					response.ErrorWithMessage(w, http.StatusUnauthorized,
						"Token has expired",
						"The token has expired. Please log in again.")
					return
				}
				response.ErrorWithMessage(w, http.StatusUnauthorized,
					"Invalid token",
					"Signature verification failed.")
				return
			}

			if claims.Type != expectedType {
				message := "Only access tokens are allowed."
				if expectedType == jwt.TokenTypeRefresh {
					message = "Only refresh tokens are allowed."
				}
				response.ErrorWithMessage(w, http.StatusUnauthorized, "Invalid token", message)
				return
			}

			if holder, ok := r.Context().Value(userIDHolderKey).(*userIDHolder); ok {
				holder.id = claims.UserID
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeMissingToken(w http.ResponseWriter) {
	response.ErrorWithMessage(w, http.StatusUnauthorized,
		"Authorization required",
		"Request does not contain valid JWT token.")
}

// GetUserID returns the authenticated user id bound by AuthMiddleware, or 0
// when the request never passed through it.
func GetUserID(r *http.Request) int64 {
	userID, ok := r.Context().Value(UserIDKey).(int64)
	if !ok {
		return 0
	}
	return userID
}
