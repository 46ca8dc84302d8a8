package captcha

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	minOperand = 1
	maxOperand = 20
)

// Question is a generated arithmetic challenge.
type Question struct {
	Text   string
	Answer int
}

// New generates a random addition question in the range the form UI expects,
// e.g. "What is 3 + 4?". The answer never leaves the server.
func New() (Question, error) {
	a, err := operand()
	if err != nil {
		return Question{}, err
	}
	b, err := operand()
	if err != nil {
		return Question{}, err
	}
	return Question{
		Text:   fmt.Sprintf("What is %d + %d?", a, b),
		Answer: a + b,
	}, nil
}

func operand() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxOperand-minOperand+1))
	if err != nil {
		return 0, fmt.Errorf("generate captcha operand: %w", err)
	}
	return minOperand + int(n.Int64()), nil
}
