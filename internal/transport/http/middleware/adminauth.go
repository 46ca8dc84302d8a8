package middleware

import (
	"context"
	"net/http"
	"strings"

	jwtinfra "github.com/accommodation-form-api/internal/infrastructure/jwt"
)

const claimsKey contextKey = "admin_claims"

// AdminAuth returns middleware that validates the Bearer JWT and injects the
// admin claims into context.
func AdminAuth(provider *jwtinfra.Provider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeJSONError(w, http.StatusUnauthorized, "missing or invalid authorization header")
				return
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
			claims, err := provider.Verify(tokenStr)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminClaimsFromContext extracts the admin claims from the request context.
func AdminClaimsFromContext(ctx context.Context) (*jwtinfra.AdminClaims, bool) {
	c, ok := ctx.Value(claimsKey).(*jwtinfra.AdminClaims)
	return c, ok
}
