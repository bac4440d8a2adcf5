// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kebapcore/entegrapi/internal/middleware"
	"github.com/kebapcore/entegrapi/internal/tempstore"
)

// Router assembles the HTTP surface: API routes, the ephemeral artifact
// file server, and the metrics endpoint.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.Server.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	if !s.cfg.RateLimit.Disabled {
		r.Use(httprate.LimitByIP(s.cfg.RateLimit.Requests, s.cfg.RateLimit.Window))
	}

	r.Get("/health", s.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	// Generated audio and images are served back from the ephemeral store
	// until the sweeper removes them.
	fileServer := http.StripPrefix(tempstore.URLPrefix, http.FileServer(http.Dir(s.temp.Dir())))
	r.Get(tempstore.URLPrefix+"/*", fileServer.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Route("/ai", func(r chi.Router) {
			r.Get("/", s.HandleAI)
			r.Get("/tts", s.HandleTTS)
			r.Get("/urlcontext", s.HandleURLContext)
			r.Get("/video", s.HandleVideoUnderstanding)
			r.Get("/autosub", s.HandleAutoSub)
		})

		r.Get("/translate", s.HandleTranslate)
		r.Get("/wiki", s.HandleWiki)
		r.Get("/tdk", s.HandleTDK)
		r.Get("/movie", s.HandleMovie)
		r.Get("/currency", s.HandleCurrency)
		r.Route("/earthquake", func(r chi.Router) {
			r.Get("/latest", s.HandleEarthquakeLatest)
			r.Get("/last", s.HandleEarthquakeLast)
		})
		r.Get("/weather", s.HandleWeather)
		r.Get("/yt", s.HandleYouTube)
		r.Get("/ytch", s.HandleYouTubeChannel)
		r.Get("/i", s.HandleImageGen)
		r.Get("/i/{prompt}", s.HandleImageGen)
		r.Get("/ipcheck", s.HandleIPCheck)
		r.Get("/check", s.HandleCheck)
		r.Get("/stats", s.HandleStats)
		r.Get("/health", s.HandleHealth)
	})

	return r
}
