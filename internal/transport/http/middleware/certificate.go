package middleware

import (
	"net/http"
	"strings"
)

// ClientCertificate returns middleware that requires the forwarded client
// certificate header set by the fronting proxy. In development the check is
// skipped so the API can be exercised without TLS termination in front.
func ClientCertificate(headerName string, development bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if development {
				next.ServeHTTP(w, r)
				return
			}
			if strings.TrimSpace(r.Header.Get(headerName)) == "" {
				writeJSONError(w, http.StatusForbidden, "client certificate required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
