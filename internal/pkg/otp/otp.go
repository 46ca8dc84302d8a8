package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate returns a cryptographically random numeric code of the given
// length. Only 5- and 6-digit codes are supported; anything else is a
// programming error.
func Generate(length int) (string, error) {
	if length != 5 && length != 6 {
		return "", fmt.Errorf("unsupported OTP length %d", length)
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("generate OTP: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// NewSessionToken generates a cryptographically random 64-character hex token.
func NewSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return fmt.Sprintf("%x", b), nil
}
