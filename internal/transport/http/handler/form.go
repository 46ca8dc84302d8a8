package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	formapp "github.com/accommodation-form-api/internal/application/form"
	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/transport/http/middleware"
)

// FormHandler handles the form lifecycle endpoints.
type FormHandler struct {
	svc         formapp.Service
	development bool
}

func NewFormHandler(svc formapp.Service, development bool) *FormHandler {
	return &FormHandler{svc: svc, development: development}
}

func (h *FormHandler) Initialize(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	result, err := h.svc.Initialize(r.Context(), token, clientIP(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *FormHandler) Submit(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var sub domain.FormSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	receipt, err := h.svc.Submit(r.Context(), token, &sub, clientIP(r))
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) && !h.development {
			// Field detail stays out of production responses.
			writeJSON(w, http.StatusUnprocessableEntity, ValidationEnvelope{Error: "validation failed"})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *FormHandler) Status(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	record, err := h.svc.Status(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *FormHandler) Download(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.SessionTokenFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	rc, record, err := h.svc.Download(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+record.PDFFilename+`"`)
	_, _ = io.Copy(w, rc)
}
