package domain

import "time"

// Session is the opaque credential issued after successful MFA. It authorizes
// the form-filling and submission calls, and binds the verified email so the
// backend never trusts a client-supplied address at submit time.
type Session struct {
	Token        string     `json:"-"`
	Email        string     `json:"email"`
	ClientIP     string     `json:"client_ip,omitempty"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	FormOpenedAt *time.Time `json:"form_opened_at,omitempty"`
	Used         bool       `json:"used"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
