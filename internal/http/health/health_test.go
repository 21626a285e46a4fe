package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.Mount(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	h := New(nil, pingerFunc(func(context.Context) error { return errors.New("down") }), time.Second)
	rec := serve(h, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestReadiness(t *testing.T) {
	up := New(nil, pingerFunc(func(context.Context) error { return nil }), time.Second)
	assert.Equal(t, http.StatusOK, serve(up, "/readyz").Code)

	down := New(nil, pingerFunc(func(context.Context) error { return errors.New("no store") }), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, "/readyz").Code)
}
