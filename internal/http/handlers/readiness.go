package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/internal/core"
)

// ReadinessObserver is told the tier of every readiness check.
type ReadinessObserver interface {
	ObserveReadiness(tier core.CreditTier)
}

// CreditReadinessHandler serves the public pre-application readiness check.
// It is stateless: nothing is stored.
type CreditReadinessHandler struct {
	Obs ReadinessObserver
	Log *slog.Logger
}

func NewCreditReadinessHandler(obs ReadinessObserver, log *slog.Logger) *CreditReadinessHandler {
	return &CreditReadinessHandler{Obs: obs, Log: log}
}

func (h *CreditReadinessHandler) Mount(r chi.Router) {
	r.Post("/credit-readiness", h.Score)
}

// Score rates a self-reported profile. Unknown values score zero rather than
// being rejected.
// 200: JSON; 400: bad JSON.
func (h *CreditReadinessHandler) Score(w http.ResponseWriter, r *http.Request) {
	var p core.ApplicantProfile
	if !decodeBody(w, r, &p) {
		return
	}

	score := core.ScoreReadiness(p)
	if h.Obs != nil {
		h.Obs.ObserveReadiness(score.Tier)
	}
	respond(h.Log, w, r, http.StatusOK, score, "readiness score")
}
