package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gaspardpetit/larchmock/internal/api"
	"github.com/gaspardpetit/larchmock/internal/config"
	"github.com/gaspardpetit/larchmock/internal/inflight"
	"github.com/gaspardpetit/larchmock/internal/metrics"
)

// New constructs the HTTP handler for the server. tracker counts in-flight
// generations for draining; a nil tracker gets a private counter.
func New(cfg config.ServerConfig, tracker *inflight.Counter) http.Handler {
	r := chi.NewRouter()
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}
	for _, m := range api.MiddlewareChain() {
		r.Use(m)
	}

	preg := prometheus.NewRegistry()
	prometheus.DefaultRegisterer = preg
	prometheus.DefaultGatherer = preg
	metrics.Register(preg)

	api.Routes(r, api.Options{
		GenerationDelay: cfg.GenerationDelay,
		Inflight:        tracker,
	})
	r.Get("/status", StatusPageHandler())

	if cfg.MetricsOnAPI() {
		r.Handle("/metrics", promhttp.HandlerFor(preg, promhttp.HandlerOpts{}))
	}
	return r
}

// MetricsHandler serves the registry installed by the last call to New on a
// dedicated listener.
func MetricsHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	return mux
}
