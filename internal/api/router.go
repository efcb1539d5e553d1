package api

import (
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gaspardpetit/larchmock/internal/inflight"
)

// Options configures the API routes.
type Options struct {
	GenerationDelay time.Duration
	// Inflight counts generations so shutdown can wait for them.
	Inflight *inflight.Counter
}

// Routes registers the API endpoints on r.
func Routes(r chi.Router, opts Options) {
	if opts.Inflight == nil {
		opts.Inflight = &inflight.Counter{}
	}
	r.With(opts.Inflight.Middleware()).Post("/generations", GenerationsHandler(opts.GenerationDelay))
	r.Get("/models", ModelsHandler())
	r.Get("/health", HealthHandler())
	r.Get("/state", StateHandler(opts.Inflight))
	r.Get("/openapi.json", OpenAPIHandler())
}

// NewRouter returns a router serving only the API endpoints.
func NewRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	Routes(r, opts)
	return r
}
