package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type UnderwritingHandler struct {
	Svc core.UnderwritingService
	Log *slog.Logger
}

func NewUnderwritingHandler(svc core.UnderwritingService, log *slog.Logger) *UnderwritingHandler {
	return &UnderwritingHandler{Svc: svc, Log: log}
}

func (h *UnderwritingHandler) Mount(r chi.Router) {
	r.Post("/applications/{application_id}:underwrite", h.Underwrite)
	r.Post("/applications/{application_id}:review", h.Review)
	r.Get("/applications/{application_id}/assessment", h.GetLatest)
	r.Get("/assessments/{assessment_id}", h.Get)
}

// Underwrite runs the risk engine on a submitted application and, unless it
// is declined, generates an offer.
// 200: JSON result; 404: not found; 409: not submitted; 500: internal or configuration error.
func (h *UnderwritingHandler) Underwrite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}

	res, err := h.Svc.ProcessApplication(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, res, "underwriting result", "application_id", id)
}

// Review settles an application held for manual review.
// 200: JSON; 400: bad JSON/validation; 404: not found; 409: not under manual review; 500: internal error.
func (h *UnderwritingHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}

	var in core.ReviewInput
	if !decodeBody(w, r, &in) {
		return
	}

	app, err := h.Svc.Review(r.Context(), id, in)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, app, "application", "application_id", id)
}

// GetLatest returns the most recent assessment of an application.
// 200: JSON; 404: never assessed; 500: internal error.
func (h *UnderwritingHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "application_id")

	a, err := h.Svc.GetLatestAssessment(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get assessment")
		return
	}
	respond(h.Log, w, r, http.StatusOK, a, "assessment", "application_id", id)
}

// Get returns a stored assessment by ID.
// 200: JSON; 404: not found; 500: internal error.
func (h *UnderwritingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "assessment_id")

	a, err := h.Svc.GetAssessment(r.Context(), id)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get assessment")
		return
	}
	respond(h.Log, w, r, http.StatusOK, a, "assessment", "assessment_id", id)
}
