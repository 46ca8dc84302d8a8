package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	libapp "github.com/accommodation-form-api/internal/application/library"
	"github.com/accommodation-form-api/internal/domain"
	"github.com/accommodation-form-api/internal/transport/http/middleware"
)

// LibraryHandler handles the external document library endpoints. Listing
// active libraries is public; everything else is admin-only.
type LibraryHandler struct {
	svc libapp.Service
}

func NewLibraryHandler(svc libapp.Service) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

func (h *LibraryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.svc.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AdminClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lib, err := h.svc.Create(r.Context(), &req, claims.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lib)
}

func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	lib, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lib)
}

func (h *LibraryHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AdminClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req domain.UpdateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	lib, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), &req, claims.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lib)
}

func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.AdminClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"), claims.Username); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "library deleted"})
}

func (h *LibraryHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	libs, err := h.svc.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, libs)
}
