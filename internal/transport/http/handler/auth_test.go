package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/accommodation-form-api/internal/application/auth"
	"github.com/accommodation-form-api/internal/domain"
)

// --- mock ---

type mockAuthSvc struct{ mock.Mock }

func (m *mockAuthSvc) GenerateCaptcha(ctx context.Context) (*domain.CaptchaChallenge, error) {
	args := m.Called(ctx)
	if c, _ := args.Get(0).(*domain.CaptchaChallenge); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) RequestEmailVerification(ctx context.Context, req auth.RequestVerificationRequest, clientIP string) (*domain.VerificationRecord, error) {
	args := m.Called(ctx, req, clientIP)
	if r, _ := args.Get(0).(*domain.VerificationRecord); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) VerifyMFAToken(ctx context.Context, req auth.VerifyTokenRequest, clientIP string) (*domain.Session, error) {
	args := m.Called(ctx, req, clientIP)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) SessionStatus(ctx context.Context, token string) (*domain.Session, error) {
	args := m.Called(ctx, token)
	if s, _ := args.Get(0).(*domain.Session); s != nil {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAuthSvc) Logout(ctx context.Context, token string) {
	m.Called(ctx, token)
}

// --- tests ---

func TestGetCaptcha(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("GenerateCaptcha", mock.Anything).Return(&domain.CaptchaChallenge{
		CaptchaID: "cap-1",
		Question:  "What is 3 + 4?",
		Answer:    7,
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)

	h := NewAuthHandler(svc)
	req := httptest.NewRequest(http.MethodGet, "/v1/auth/math-captcha", nil)
	rec := httptest.NewRecorder()
	h.GetCaptcha(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env CaptchaEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "cap-1", env.CaptchaID)
	assert.Equal(t, "What is 3 + 4?", env.Question)
	// The answer must never appear in the response body.
	assert.NotContains(t, rec.Body.String(), `"answer"`)
}

func TestRequestVerification_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-email-verification", bytes.NewBufferString("{"))
	rec := httptest.NewRecorder()
	h.RequestVerification(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestVerification_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthSvc{})
	body, _ := json.Marshal(map[string]string{"email": "a@example.com"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-email-verification", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.RequestVerification(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestVerification_CaptchaFailed(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestEmailVerification", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrCaptchaFailed)

	h := NewAuthHandler(svc)
	body, _ := json.Marshal(auth.RequestVerificationRequest{
		Email:        "a@example.com",
		EmailConfirm: "a@example.com",
		CaptchaID:    "cap-1",
		MathAnswer:   9,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-email-verification", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.RequestVerification(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestVerification_Success(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("RequestEmailVerification", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.VerificationRecord{
			VerificationID: "ver-1",
			ExpiresAt:      time.Now().Add(10 * time.Minute),
		}, nil)

	h := NewAuthHandler(svc)
	body, _ := json.Marshal(auth.RequestVerificationRequest{
		Email:        "a@example.com",
		EmailConfirm: "a@example.com",
		CaptchaID:    "cap-1",
		MathAnswer:   9,
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/request-email-verification", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.RequestVerification(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env VerificationEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "ver-1", env.VerificationID)
}

func TestVerifyToken_AttemptsExhausted(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyMFAToken", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, domain.ErrAttemptsExhausted)

	h := NewAuthHandler(svc)
	body, _ := json.Marshal(auth.VerifyTokenRequest{VerificationID: "ver-1", Token: "123456"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-mfa-token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.VerifyToken(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestVerifyToken_Success(t *testing.T) {
	svc := &mockAuthSvc{}
	svc.On("VerifyMFAToken", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.Session{
			Token:     "tok-1",
			Email:     "a@example.com",
			ExpiresAt: time.Now().Add(2 * time.Hour),
		}, nil)

	h := NewAuthHandler(svc)
	body, _ := json.Marshal(auth.VerifyTokenRequest{VerificationID: "ver-1", Token: "123456"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/verify-mfa-token", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.VerifyToken(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var env SessionEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Verified)
	assert.Equal(t, "tok-1", env.SessionToken)
	assert.Equal(t, "a@example.com", env.Email)
}
