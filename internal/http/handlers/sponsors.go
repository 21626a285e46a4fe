package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type SponsorHandler struct {
	Svc core.SponsorService
	Log *slog.Logger
}

func NewSponsorHandler(svc core.SponsorService, log *slog.Logger) *SponsorHandler {
	return &SponsorHandler{Svc: svc, Log: log}
}

func (h *SponsorHandler) Mount(r chi.Router) {
	r.Get("/applications/{application_id}/sponsor-match", h.Match)
	r.Post("/applications/{application_id}/sponsor:assign", h.Assign)
	r.Get("/sponsors", h.ListActive)
}

// matchResponse keeps "no match" distinct from an error: Match is null.
type matchResponse struct {
	Match *core.SponsorMatch `json:"match"`
}

// Match finds the best sponsor for an application without assigning it.
// 200: JSON (match may be null); 404: application not found; 500: internal error.
func (h *SponsorHandler) Match(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "application_id")

	match, err := h.Svc.FindMatch(r.Context(), appID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, matchResponse{Match: match}, "sponsor match", "application_id", appID)
}

// Assign records the best sponsor on the application.
// 200: JSON; 404: application not found or no sponsor qualifies; 409: already assigned or sponsor full; 500: internal error.
func (h *SponsorHandler) Assign(w http.ResponseWriter, r *http.Request) {
	appID := chi.URLParam(r, "application_id")

	match, err := h.Svc.Assign(r.Context(), appID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, err.Error())
		return
	}
	respond(h.Log, w, r, http.StatusOK, match, "sponsor match", "application_id", appID)
}

// ListActive lists sponsors that can take new students.
func (h *SponsorHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	sponsors, err := h.Svc.ListActive(r.Context())
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to list sponsors")
		return
	}
	respond(h.Log, w, r, http.StatusOK, sponsors, "sponsors")
}
