package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

type OfferHandler struct {
	Svc core.OfferService
	Log *slog.Logger
}

func NewOfferHandler(svc core.OfferService, log *slog.Logger) *OfferHandler {
	return &OfferHandler{Svc: svc, Log: log}
}

func (h *OfferHandler) Mount(r chi.Router) {
	r.Get("/applications/{application_id}/offer", h.GetByApplication)
	r.Get("/offers/{offer_id}", h.Get)
	r.Post("/offers/{offer_id}:accept", h.Accept)
	r.Post("/offers/{offer_id}:decline", h.Decline)
}

// GetByApplication returns the latest offer generated for an application.
// 200: JSON; 404: no offer; 500: internal error.
func (h *OfferHandler) GetByApplication(w http.ResponseWriter, r *http.Request) {
	appID, ok := pathParam(w, r, "application_id", missingAppID)
	if !ok {
		return
	}

	offer, err := h.Svc.GetByApplicationID(r.Context(), appID)
	if err != nil {
		writeError(r.Context(), h.Log, w, err, "Failed to get offer")
		return
	}
	respond(h.Log, w, r, http.StatusOK, offer, "offer", "application_id", appID)
}

// Get returns an offer by ID.
// 200: JSON; 400: missing ID; 404: not found; 500: internal error.
func (h *OfferHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.Svc.Get, "Failed to get offer")
}

// Accept takes up a pending offer on an approved application.
// 200: JSON; 400: missing ID; 404: not found; 409: expired, not pending or application not approved; 500: internal error.
func (h *OfferHandler) Accept(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.Svc.Accept, "")
}

// Decline turns down a pending offer.
// 200: JSON; 400: missing ID; 404: not found; 409: not pending; 500: internal error.
func (h *OfferHandler) Decline(w http.ResponseWriter, r *http.Request) {
	h.byID(w, r, h.Svc.Decline, "")
}

// byID runs op against the offer named in the path. An empty detail reports
// the service error text.
func (h *OfferHandler) byID(w http.ResponseWriter, r *http.Request, op func(context.Context, string) (core.LoanOffer, error), detail string) {
	id, ok := pathParam(w, r, "offer_id", "Missing Offer ID")
	if !ok {
		return
	}

	offer, err := op(r.Context(), id)
	if err != nil {
		if detail == "" {
			detail = err.Error()
		}
		writeError(r.Context(), h.Log, w, err, detail)
		return
	}
	respond(h.Log, w, r, http.StatusOK, offer, "offer", "offer_id", id)
}
