package handler

import (
	"encoding/json"
	"net/http"

	"github.com/accommodation-form-api/internal/application/auth"
	"github.com/accommodation-form-api/internal/pkg/validate"
	"github.com/accommodation-form-api/internal/transport/http/middleware"
)

// AuthHandler handles the captcha and email MFA endpoints.
type AuthHandler struct {
	svc auth.Service
}

func NewAuthHandler(svc auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func (h *AuthHandler) GetCaptcha(w http.ResponseWriter, r *http.Request) {
	ch, err := h.svc.GenerateCaptcha(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CaptchaEnvelope{
		CaptchaID: ch.CaptchaID,
		Question:  ch.Question,
		ExpiresAt: ch.ExpiresAt,
	})
}

func (h *AuthHandler) RequestVerification(w http.ResponseWriter, r *http.Request) {
	var req auth.RequestVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rec, err := h.svc.RequestEmailVerification(r.Context(), req, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, VerificationEnvelope{
		VerificationID: rec.VerificationID,
		ExpiresAt:      rec.ExpiresAt,
		Message:        "verification code sent",
	})
}

func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req auth.VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sess, err := h.svc.VerifyMFAToken(r.Context(), req, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionEnvelope{
		Verified:     true,
		SessionToken: sess.Token,
		Email:        sess.Email,
		ExpiresAt:    sess.ExpiresAt,
	})
}

func (h *AuthHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	sess, err := h.svc.SessionStatus(r.Context(), token)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionStatusEnvelope{
		Email:        sess.Email,
		IssuedAt:     sess.IssuedAt,
		ExpiresAt:    sess.ExpiresAt,
		FormOpenedAt: sess.FormOpenedAt,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.svc.Logout(r.Context(), token)
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "logged out"})
}
