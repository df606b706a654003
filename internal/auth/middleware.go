package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alvaro-reta/solari-market/internal/model"
	"github.com/alvaro-reta/solari-market/internal/repository"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the authenticated user.
type contextKey string

const userKey contextKey = "user"

// RequireAuth enforces authentication on protected routes.
//
// It reads the "Authorization: Bearer <token>" header, validates the token,
// resolves the subject to a live user record, and stores the full
// *model.User in the request context. Any failure — missing header, bad or
// expired token, or a subject that no longer exists in the Users table —
// ends the request with 401.
//
// Resolving the user here (rather than just the ID) means every protected
// handler works from a fresh read of the user's row, including their
// current balance.
func RequireAuth(tokens *TokenService, users repository.UserRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w)
				return
			}

			userID, err := tokens.Validate(token)
			if err != nil {
				logger.Debug("rejected token", slog.String("error", err.Error()))
				unauthorized(w)
				return
			}

			user, _, err := users.GetByID(r.Context(), userID)
			if err != nil {
				// A valid token for a vanished user: treat exactly like a
				// bad token, don't leak which case it was.
				logger.Warn("token subject not found", slog.String("userID", userID))
				unauthorized(w)
				return
			}

			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithUser returns a context carrying the authenticated user. Exported for
// handler tests, which skip the middleware and inject the user directly.
func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext retrieves the authenticated user set by RequireAuth.
// Returns (nil, false) on anonymous requests.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok && user != nil
}

// bearerToken extracts the token from the Authorization header; empty if
// the header is missing or not a Bearer scheme.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"unauthorized","message":"valid authentication required"}`))
}
