package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

// AdminIDKey carries the authenticated admin id through the request context.
const AdminIDKey contextKey = "admin_id"

// SessionCookieName is the admin session cookie.
const SessionCookieName = "admin_session"

// SessionValidator verifies a session token and returns the admin id it
// belongs to.
type SessionValidator interface {
	ValidateSession(token string) (adminID string, err error)
}

// SessionMiddleware authenticates admin requests from the session cookie
// and injects the admin id into the request context.
func SessionMiddleware(sessions SessionValidator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				logger.Debug("Missing session cookie", zap.String("path", r.URL.Path))
				RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			adminID, err := sessions.ValidateSession(cookie.Value)
			if err != nil {
				logger.Debug("Session validation failed", zap.Error(err))
				RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), AdminIDKey, adminID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminID extracts the authenticated admin id from the request context.
func GetAdminID(ctx context.Context) (string, bool) {
	adminID, ok := ctx.Value(AdminIDKey).(string)
	return adminID, ok
}

// SessionToken reads the raw session cookie value, if present.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
