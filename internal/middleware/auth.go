package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/estatehub/estate-hub-api/internal/auth"
	"github.com/estatehub/estate-hub-api/internal/httputil"
	"github.com/estatehub/estate-hub-api/internal/model"
	"github.com/estatehub/estate-hub-api/internal/repository"
)

type contextKey struct{}

var userContextKey = contextKey{}

// tokenCookieName is the cookie fallback for clients that do not send an
// Authorization header.
const tokenCookieName = "token"

// Auth gates protected routes. It resolves a bearer token (header first,
// cookie fallback) to an account and attaches it to the request context.
// Every failure terminates the request with a 401 and a terse message;
// token contents are never logged.
func Auth(tokens *auth.TokenService, users repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := extractToken(r)
			if tokenStr == "" {
				httputil.WriteError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					httputil.WriteError(w, http.StatusUnauthorized, "Token expired")
				default:
					httputil.WriteError(w, http.StatusUnauthorized, "Invalid token")
				}
				return
			}

			// The account may have been deleted after the token was issued.
			user, err := users.GetUser(r.Context(), userID)
			if err != nil {
				switch {
				case errors.Is(err, mongo.ErrNoDocuments):
					httputil.WriteError(w, http.StatusUnauthorized, "User not found")
				case errors.Is(err, bson.ErrInvalidHex):
					// A signed token whose id claim resolves to nothing is
					// treated like any other bad token.
					httputil.WriteError(w, http.StatusUnauthorized, "Invalid token")
				default:
					// Store failure, not a credential problem.
					httputil.WriteError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a context carrying an authenticated account.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated account attached by Auth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	return user, ok
}

// extractToken prefers the Authorization: Bearer header and falls back to
// the same-named cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}

	if cookie, err := r.Cookie(tokenCookieName); err == nil {
		return cookie.Value
	}

	return ""
}
