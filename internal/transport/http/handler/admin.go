package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	adminapp "github.com/accommodation-form-api/internal/application/admin"
	formapp "github.com/accommodation-form-api/internal/application/form"
	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/pkg/validate"
)

// AdminHandler handles admin login and the submissions listing.
type AdminHandler struct {
	svc     adminapp.Service
	formSvc formapp.Service
}

func NewAdminHandler(svc adminapp.Service, formSvc formapp.Service) *AdminHandler {
	return &AdminHandler{svc: svc, formSvc: formSvc}
}

func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusServiceUnavailable, "admin surface disabled")
		return
	}
	var req adminapp.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := h.svc.Login(&req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ListSubmissions returns every audit record, or only one applicant's when
// the email query parameter is set.
func (h *AdminHandler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	var (
		records []domain.SubmissionRecord
		err     error
	)
	if email := r.URL.Query().Get("email"); email != "" {
		records, err = h.formSvc.ListByEmail(r.Context(), email)
	} else {
		records, err = h.formSvc.ListAll(r.Context())
	}
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// DeleteSubmission removes an audit record and its stored PDF.
func (h *AdminHandler) DeleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.formSvc.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "submission removed"})
}
