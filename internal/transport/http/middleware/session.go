package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const sessionTokenKey contextKey = "session_token"

// SessionTokenHeader carries the opaque token issued after email verification.
const SessionTokenHeader = "X-Session-Token"

// SessionToken returns middleware that requires the session token header and
// injects its value into the request context. Token validity is checked by
// the service layer so expired and consumed tokens produce distinct errors.
func SessionToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.Header.Get(SessionTokenHeader))
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "missing session token")
			return
		}
		ctx := context.WithValue(r.Context(), sessionTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionTokenFromContext extracts the session token injected by SessionToken.
func SessionTokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(sessionTokenKey).(string)
	return t, ok
}
