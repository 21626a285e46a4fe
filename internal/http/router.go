package transporthttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	"github.com/MrKriegler/go-eduloan/internal/http/handlers"
	"github.com/MrKriegler/go-eduloan/internal/middleware"
	"github.com/MrKriegler/go-eduloan/internal/platform/metrics"
	"github.com/MrKriegler/go-eduloan/pkg/problem"
)

// Deps bundles feature handlers that implement handlers.Mountable plus the
// cross-cutting pieces the router wires around them.
type Deps struct {
	Mounts []handlers.Mountable

	Health         handlers.Mountable // serves /health and /readyz
	Metrics        *metrics.Metrics
	RateLimiter    *middleware.RateLimiter
	Log            *slog.Logger
	APIKey         string
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if d.Log != nil {
		r.Use(middleware.RequestLogger(d.Log))
	}
	r.Use(chimw.Recoverer)
	r.Use(d.Metrics.Middleware)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(d.AllowedOrigins))
	r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
	if d.RateLimiter != nil {
		r.Use(d.RateLimiter.Middleware)
	}
	if d.APIKey != "" {
		r.Use(middleware.SimpleAPIKey(d.APIKey))
	}

	if d.Health != nil {
		d.Health.Mount(r)
	}
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler())
	}
	r.Get("/swagger/doc.json", serveSwagger)

	r.Route("/api/v1", func(r chi.Router) {
		if d.RequestTimeout > 0 {
			r.Use(chimw.Timeout(d.RequestTimeout))
		}
		r.Use(middleware.SetJSONContentType)

		// Mount each feature's routes into this router.
		for _, m := range d.Mounts {
			m.Mount(r)
		}
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		problem.Write(w, http.StatusNotFound, "Not Found", "No route matches this path.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		problem.Write(w, http.StatusMethodNotAllowed, "Method Not Allowed", "This route does not support the method.")
	})

	return r
}

func serveSwagger(w http.ResponseWriter, _ *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		problem.Write(w, http.StatusNotFound, "Not Found", "API documentation is not registered.")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(doc))
}
