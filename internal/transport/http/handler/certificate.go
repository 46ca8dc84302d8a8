package handler

import "net/http"

// CertificateHandler reports whether the caller presented the forwarded
// client certificate header. Development environments are always verified.
type CertificateHandler struct {
	headerName  string
	development bool
}

func NewCertificateHandler(headerName string, development bool) *CertificateHandler {
	return &CertificateHandler{headerName: headerName, development: development}
}

func (h *CertificateHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.development || r.Header.Get(h.headerName) != "" {
		writeJSON(w, http.StatusOK, map[string]bool{"verified": true})
		return
	}
	writeError(w, http.StatusForbidden, "client certificate required")
}
