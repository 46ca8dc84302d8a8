package admin

import (
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/accommodation-form-api/internal/domain"
)

// TokenSigner issues the bearer tokens handed out after a successful login.
type TokenSigner interface {
	Sign(username string) (string, error)
}

// LoginRequest is the admin credentials payload.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the signed bearer token.
type LoginResult struct {
	Token string `json:"token"`
}

type Service interface {
	Login(req *LoginRequest) (*LoginResult, error)
}

// ServiceDeps bundles the dependencies for NewService. PasswordHash is the
// bcrypt hash of the single admin account's password.
type ServiceDeps struct {
	Signer       TokenSigner
	Username     string
	PasswordHash string
}

type service struct {
	signer       TokenSigner
	username     string
	passwordHash string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		signer:       deps.Signer,
		username:     deps.Username,
		passwordHash: deps.PasswordHash,
	}
}

func (s *service) Login(req *LoginRequest) (*LoginResult, error) {
	if req.Username != s.username {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(req.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}
	token, err := s.signer.Sign(req.Username)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	slog.Info("admin login", "username", req.Username)
	return &LoginResult{Token: token}, nil
}
