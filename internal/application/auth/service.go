package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/otp"
)

// RequestVerificationRequest starts the email MFA flow. The captcha answer is
// checked against the server-side challenge identified by CaptchaID.
type RequestVerificationRequest struct {
	Email        string `json:"email" validate:"required,email"`
	EmailConfirm string `json:"email_confirm" validate:"required,email"`
	CaptchaID    string `json:"captcha_id" validate:"required"`
	MathAnswer   int    `json:"math_answer"`
}

// VerifyTokenRequest completes the MFA flow.
type VerifyTokenRequest struct {
	VerificationID string `json:"verification_id" validate:"required"`
	Token          string `json:"token" validate:"required"`
}

// ChallengeStore recalls the expected answer for an outstanding math captcha.
type ChallengeStore interface {
	Issue() (*domain.CaptchaChallenge, error)
	Check(captchaID string, answer int) bool
}

// VerificationStore holds pending email-verification records.
type VerificationStore interface {
	Create(email, code, clientIP string) (*domain.VerificationRecord, error)
	ConsumeAttempt(verificationID, submittedCode string) (domain.VerifyResult, *domain.VerificationRecord)
	Delete(verificationID string)
}

// SessionStore issues and resolves the opaque post-MFA session tokens.
type SessionStore interface {
	Issue(email, clientIP string) (*domain.Session, error)
	Get(token string) (*domain.Session, error)
	Invalidate(token string)
}

// Mailer is the slice of the SMTP mailer this service needs.
type Mailer interface {
	SendEmail(to, subject, body string) error
}

type Service interface {
	GenerateCaptcha(ctx context.Context) (*domain.CaptchaChallenge, error)
	RequestEmailVerification(ctx context.Context, req RequestVerificationRequest, clientIP string) (*domain.VerificationRecord, error)
	VerifyMFAToken(ctx context.Context, req VerifyTokenRequest, clientIP string) (*domain.Session, error)
	SessionStatus(ctx context.Context, token string) (*domain.Session, error)
	Logout(ctx context.Context, token string)
}

// ServiceDeps bundles the dependencies for NewService.
type ServiceDeps struct {
	Challenges    ChallengeStore
	Verifications VerificationStore
	Sessions      SessionStore
	Mailer        Mailer
	OTPLength     int
}

type service struct {
	challenges    ChallengeStore
	verifications VerificationStore
	sessions      SessionStore
	mailer        Mailer
	otpLength     int
}

func NewService(deps ServiceDeps) Service {
	return &service{
		challenges:    deps.Challenges,
		verifications: deps.Verifications,
		sessions:      deps.Sessions,
		mailer:        deps.Mailer,
		otpLength:     deps.OTPLength,
	}
}

func (s *service) GenerateCaptcha(_ context.Context) (*domain.CaptchaChallenge, error) {
	return s.challenges.Issue()
}

func (s *service) RequestEmailVerification(_ context.Context, req RequestVerificationRequest, clientIP string) (*domain.VerificationRecord, error) {
	if req.Email != req.EmailConfirm {
		return nil, fmt.Errorf("email confirmation does not match: %w", domain.ErrEmailMismatch)
	}
	if !s.challenges.Check(req.CaptchaID, req.MathAnswer) {
		return nil, fmt.Errorf("security verification failed: %w", domain.ErrCaptchaFailed)
	}

	code, err := otp.Generate(s.otpLength)
	if err != nil {
		return nil, err
	}
	rec, err := s.verifications.Create(req.Email, code, clientIP)
	if err != nil {
		return nil, err
	}

	body := fmt.Sprintf("Your verification code is: %s\n\nIt expires at %s.",
		code, rec.ExpiresAt.Format("15:04 MST"))
	if err := s.mailer.SendEmail(req.Email, "Your verification code", body); err != nil {
		// An undeliverable record must not count toward the pending throttle.
		s.verifications.Delete(rec.VerificationID)
		slog.Error("failed to send verification email", "email", req.Email, "err", err)
		return nil, fmt.Errorf("failed to send verification email: %w", domain.ErrEmailDeliveryFailure)
	}
	slog.Info("verification code sent", "verification_id", rec.VerificationID)
	return rec, nil
}

func (s *service) VerifyMFAToken(_ context.Context, req VerifyTokenRequest, clientIP string) (*domain.Session, error) {
	result, rec := s.verifications.ConsumeAttempt(req.VerificationID, req.Token)
	switch result {
	case domain.VerifyOK:
		// fall through to session issuance
	case domain.VerifyExpired:
		return nil, fmt.Errorf("verification session has expired: %w", domain.ErrExpired)
	case domain.VerifyAttemptsExhausted:
		return nil, fmt.Errorf("too many verification attempts: %w", domain.ErrAttemptsExhausted)
	case domain.VerifyInvalidCode:
		// Do not reveal how many attempts remain.
		return nil, fmt.Errorf("invalid verification code: %w", domain.ErrInvalidCode)
	default:
		return nil, fmt.Errorf("verification session not found: %w", domain.ErrNotFound)
	}

	sess, err := s.sessions.Issue(rec.Email, clientIP)
	if err != nil {
		return nil, err
	}
	slog.Info("email verification completed", "verification_id", req.VerificationID)
	return sess, nil
}

func (s *service) SessionStatus(_ context.Context, token string) (*domain.Session, error) {
	return s.sessions.Get(token)
}

func (s *service) Logout(_ context.Context, token string) {
	s.sessions.Invalidate(token)
}
