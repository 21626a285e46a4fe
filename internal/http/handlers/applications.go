package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

const missingAppID = "Missing Application ID"

type ApplicationHandler struct {
	Svc core.ApplicationService
	Log *slog.Logger
}

func NewApplicationHandler(svc core.ApplicationService, log *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{Svc: svc, Log: log}
}

func (h *ApplicationHandler) Mount(r chi.Router) {
	r.Post("/applications", h.Create)
	r.Get("/applications/{application_id}", h.Get)
	r.Patch("/applications/{application_id}", h.Patch)
	r.Post("/applications/{application_id}:submit", h.Submit)
}

// Create starts a draft application.
// 201: JSON; 400: bad JSON/validation; 500: internal error.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in core.ApplicationInput
	if !decodeBody(w, r, &in) {
		return
	}

	app, err := h.Svc.Create(r.Context(), in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusCreated, app, "application", "application_id", app.ID)
}

// Get returns an application with its current status and any sponsor.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}

	app, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get application")
		return
	}
	respond(h.Log, w, r, http.StatusOK, app, "application", "application_id", id)
}

// Patch edits a draft. Only sections present in the body are replaced.
// 200: JSON; 400: bad JSON/validation; 404: not found; 409: no longer a draft; 500: internal error.
func (h *ApplicationHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}
	var patch core.ApplicationPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	app, err := h.Svc.Patch(r.Context(), id, patch)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, app, "application", "application_id", id)
}

// Submit hands a draft to underwriting. Declarations must be accepted.
// 200: JSON; 400: incomplete application; 404: not found; 409: not a draft; 500: internal error.
func (h *ApplicationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}

	app, err := h.Svc.Submit(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, app, "application", "application_id", id)
}
