package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrKriegler/go-eduloan/internal/core"
	"github.com/MrKriegler/go-eduloan/pkg/problem"
)

// errorMapping is checked in order; the first match wins.
var errorMapping = []struct {
	target error
	status int
	title  string
	level  slog.Level
	msg    string
	detail string // fixed detail; empty means the caller's
}{
	{core.ErrNotFound, http.StatusNotFound, "Not Found", slog.LevelWarn, "resource not found", ""},
	{core.ErrValidation, http.StatusBadRequest, "Validation Error", slog.LevelWarn, "validation failed", ""},
	{core.ErrConflict, http.StatusConflict, "Conflict", slog.LevelWarn, "resource conflict", ""},
	{core.ErrInvalidState, http.StatusConflict, "Invalid State", slog.LevelWarn, "invalid state transition", ""},
	{core.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized", slog.LevelWarn, "unauthorized request", ""},
	{core.ErrForbidden, http.StatusForbidden, "Forbidden", slog.LevelWarn, "forbidden operation", ""},
	{core.ErrConfiguration, http.StatusInternalServerError, "Configuration Error", slog.LevelError, "underwriting misconfigured", "Underwriting is not configured correctly."},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Timeout", slog.LevelError, "operation timeout", "Operation took too long."},
}

func writeError(ctx context.Context, log *slog.Logger, w http.ResponseWriter, err error, detail string) {
	for _, m := range errorMapping {
		if !errors.Is(err, m.target) {
			continue
		}
		log.Log(ctx, m.level, m.msg, "err", err)
		if m.detail != "" {
			detail = m.detail
		}
		problem.Write(w, m.status, m.title, detail)
		return
	}

	log.ErrorContext(ctx, "internal server error", "err", err)
	problem.Write(w, http.StatusInternalServerError, "Internal Server Error", detail)
}
