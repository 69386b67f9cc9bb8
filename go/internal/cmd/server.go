package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/octofit/dashboard/go/internal/config"
	"github.com/octofit/dashboard/go/internal/live"
	"github.com/octofit/dashboard/go/internal/web"
)

func setupServer(cfg config.Config, services *Services) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newHandler(cfg, services),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

func newHandler(cfg config.Config, services *Services) http.Handler {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedHeaders: []string{"*"},
	})

	registerRoutes(mux, cfg, services)
	setupHealthCheck(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	var handler http.Handler = mux
	if cfg.CSRFKey != "" {
		handler = web.CSRF([]byte(cfg.CSRFKey), handler)
	}
	handler = c.Handler(handler)
	handler = web.RequestLogger(handler)

	return h2c.NewHandler(handler, &http2.Server{})
}

func registerRoutes(mux *http.ServeMux, cfg config.Config, services *Services) {
	web.NewHandler(services.Renderer, services.Dashboard, cfg.SaveCloseDelay).RegisterRoutes(mux)
	live.NewWebSocketHandler(services.Live).RegisterRoutes(mux)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}
