package httpx

import (
	"context"
	"net/http"
)

type authContextKey string

const contextKeyUserID authContextKey = "chillscreen-user-id"

// requireAuth guards every endpoint except registration and login. A missing
// session cookie is rejected as unauthenticated before any verification; a
// cookie that fails verification is rejected as forbidden. The two cases
// carry different status codes so clients can tell "never logged in" from
// "session dead". On success the resolved identity is attached to the
// request context; no handler behind this gate runs without one.
func (r *Router) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie(r.cfg.CookieName)
		if err != nil || cookie.Value == "" {
			writeMessage(w, http.StatusUnauthorized, "No token provided")
			return
		}
		userID, err := r.auth.Authorize(cookie.Value)
		if err != nil {
			r.logger.Warn("session token rejected", "error", err, "path", req.URL.Path)
			writeMessage(w, http.StatusForbidden, "Invalid token")
			return
		}
		ctx := context.WithValue(req.Context(), contextKeyUserID, userID)
		next(w, req.WithContext(ctx))
	}
}

// userIDFromContext extracts the authenticated identity from context.
func userIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(contextKeyUserID).(string)
	return id, ok && id != ""
}
