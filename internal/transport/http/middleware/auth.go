package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/school-directory/internal/application/session"
	"github.com/school-directory/internal/domain"
	"github.com/school-directory/internal/logger"
	"go.uber.org/zap"
)

type contextKey string

const UserKey contextKey = "user"

// SessionValidator resolves a session token under the given mode.
type SessionValidator interface {
	Validate(ctx context.Context, token string, mode session.Mode) (*domain.User, error)
}

// RequireSession returns middleware that resolves the session cookie with
// authoritative checks and injects the caller into context.
func RequireSession(v SessionValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := SessionToken(r, cookieName)
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			u, err := v.Validate(r.Context(), token, session.Authoritative)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					logger.Error("session lookup failed", zap.Error(err))
					writeJSONError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user from the request context.
func UserFromContext(ctx context.Context) (*domain.User, bool) {
	u, ok := ctx.Value(UserKey).(*domain.User)
	return u, ok
}

// SessionToken returns the session cookie value, or "" when absent.
func SessionToken(r *http.Request, cookieName string) string {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// ExpiredCookie returns a cookie that instructs the client to drop name.
func ExpiredCookie(name string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
}
