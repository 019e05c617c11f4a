// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/unibienestar/eventos-api/internal/model"
	"github.com/unibienestar/eventos-api/internal/repository"
	"github.com/unibienestar/eventos-api/internal/service"
)

// EventHandler holds all HTTP handlers for the event management API.
type EventHandler struct {
	svc      *service.EventService
	validate *validator.Validate
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{svc: svc, validate: validator.New()}
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps a domain error to its HTTP status. Malformed ids
// and every rule violation are 400, lookup misses are 404, anything
// unrecognized is 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var invalidID service.InvalidIDError
	var refNotFound service.ReferenceNotFoundError
	var capacity service.CapacityError

	switch {
	case errors.As(err, &invalidID),
		errors.As(err, &capacity),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidInitialStatus),
		errors.Is(err, service.ErrNoResponsibles),
		errors.Is(err, service.ErrMissingPrincipal),
		errors.Is(err, service.ErrMultiplePrincipals),
		errors.Is(err, service.ErrRoleConflict),
		errors.Is(err, service.ErrNoFacilities),
		errors.Is(err, service.ErrNotPending):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &refNotFound),
		errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrNoOrganizers):
		writeError(w, http.StatusNotFound, notFoundMessage(err))
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func notFoundMessage(err error) string {
	if errors.Is(err, repository.ErrNotFound) {
		return "evento no encontrado"
	}
	return err.Error()
}

// ─── Handlers ─────────────────────────────────────────────────────────────────

// Create handles POST /eventos/
func (h *EventHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEventRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// List handles GET /eventos/
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	writeJSON(w, http.StatusOK, events)
}

// Get handles GET /eventos/{id}
func (h *EventHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Patch handles PATCH /eventos/{id}
func (h *EventHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var patch model.EventPatch
	if err := decodeJSON(r, &patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), &patch)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Delete handles DELETE /eventos/{id}
func (h *EventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.svc.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddEvaluation handles POST /eventos/{id}/evaluaciones
func (h *EventHandler) AddEvaluation(w http.ResponseWriter, r *http.Request) {
	var req model.CreateEvaluationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	resp, err := h.svc.AddEvaluation(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListOrganizers handles GET /eventos/{id}/responsables
func (h *EventHandler) ListOrganizers(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListOrganizers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// NewHealthHandler reports the application name and version on GET /health.
func NewHealthHandler(name, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"app":     name,
			"version": version,
		})
	}
}
