package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/accommodation-form-api/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// ValidationEnvelope carries per-field violation messages.
type ValidationEnvelope struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// CaptchaEnvelope is returned when a math challenge is issued.
type CaptchaEnvelope struct {
	CaptchaID string    `json:"captcha_id"`
	Question  string    `json:"question"`
	ExpiresAt time.Time `json:"expires_at"`
}

// VerificationEnvelope is returned when a verification code has been emailed.
type VerificationEnvelope struct {
	VerificationID string    `json:"verification_id"`
	ExpiresAt      time.Time `json:"expires_at"`
	Message        string    `json:"message"`
}

// SessionEnvelope is returned when email verification completes.
type SessionEnvelope struct {
	Verified     bool      `json:"verified"`
	SessionToken string    `json:"session_token"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// SessionStatusEnvelope reports the state of an outstanding session.
type SessionStatusEnvelope struct {
	Email        string     `json:"email"`
	IssuedAt     time.Time  `json:"issued_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
	FormOpenedAt *time.Time `json:"form_opened_at,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}

// writeDomainError maps the service layer's sentinel errors onto HTTP status
// codes. Validation errors surface their field list; everything unrecognized
// becomes a 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
		return
	}

	var status int
	switch {
	case errors.Is(err, domain.ErrEmailMismatch),
		errors.Is(err, domain.ErrCaptchaFailed),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSessionAlreadyUsed):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrAttemptsExhausted), errors.Is(err, domain.ErrTooManyPending):
		status = http.StatusTooManyRequests
	case errors.Is(err, domain.ErrStorageFailure), errors.Is(err, domain.ErrEmailDeliveryFailure):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	writeError(w, status, err.Error())
}

// clientIP strips the port from the remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
