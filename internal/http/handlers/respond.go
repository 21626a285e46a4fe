package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrKriegler/go-eduloan/pkg/problem"
)

// pathParam reads a required URL parameter, writing a 400 when it is empty.
func pathParam(w http.ResponseWriter, r *http.Request, name, title string) (string, bool) {
	v := chi.URLParam(r, name)
	if v == "" {
		problem.Write(w, http.StatusBadRequest, title, "Path parameter "+name+" is required.")
		return "", false
	}
	return v, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		problem.Write(w, http.StatusBadRequest, "Invalid JSON", "Body could not be decoded.")
		return false
	}
	return true
}

// respond encodes v with the given status. Encoding failures can only be
// logged since the header is already out.
func respond(log *slog.Logger, w http.ResponseWriter, r *http.Request, status int, v any, what string, attrs ...any) {
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorContext(r.Context(), "failed to encode "+what, append(attrs, "err", err)...)
	}
}
