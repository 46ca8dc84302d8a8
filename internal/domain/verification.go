package domain

import "time"

// VerificationRecord tracks a pending email OTP challenge.
// Records live in process memory only; the MFA flow is short enough that a
// restart simply forces the user back to email entry.
type VerificationRecord struct {
	VerificationID    string    `json:"verification_id"`
	Email             string    `json:"email"`
	Code              string    `json:"-"`
	ClientIP          string    `json:"client_ip,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	ExpiresAt         time.Time `json:"expires_at"`
	AttemptsRemaining int       `json:"attempts_remaining"`
	Used              bool      `json:"used"`
}

// VerifyResult is the outcome of consuming a verification attempt.
type VerifyResult int

const (
	VerifyOK VerifyResult = iota
	VerifyInvalidCode
	VerifyExpired
	VerifyAttemptsExhausted
	VerifyNotFound
)

func (r VerifyResult) String() string {
	switch r {
	case VerifyOK:
		return "verified"
	case VerifyInvalidCode:
		return "invalid_code"
	case VerifyExpired:
		return "expired"
	case VerifyAttemptsExhausted:
		return "attempts_exhausted"
	default:
		return "not_found"
	}
}

// CaptchaChallenge is a server-generated math question. The expected answer
// stays server-side keyed by CaptchaID; the client only ever echoes the id.
type CaptchaChallenge struct {
	CaptchaID string    `json:"captcha_id"`
	Question  string    `json:"question"`
	Answer    int       `json:"-"`
	CreatedAt time.Time `json:"timestamp"`
	ExpiresAt time.Time `json:"-"`
}
