// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"net/http"

	"github.com/kebapcore/entegrapi/internal/augment"
	"github.com/kebapcore/entegrapi/internal/config"
	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/providers"
	"github.com/kebapcore/entegrapi/internal/tempstore"
	"github.com/kebapcore/entegrapi/internal/transcode"
	"github.com/kebapcore/entegrapi/internal/usage"
)

// endpointCount is the number of public API endpoints, used to seed the
// usage statistics denominator.
const endpointCount = 20

// Server holds every dependency the HTTP handlers need. Provider clients
// keep exported base-URL fields so same-package tests can point them at
// local fixtures.
type Server struct {
	cfg      *config.Config
	gemini   *gemini.Client
	analyzer *augment.Analyzer
	temp     *tempstore.Store
	ffmpeg   *transcode.Transcoder
	usage    *usage.Log
	upstream *http.Client

	wiki     *providers.WikiClient
	tdk      *providers.TDKClient
	movies   *providers.MovieClient
	currency *providers.CurrencyClient
	quakes   *providers.EarthquakeClient
	weather  *providers.WeatherClient
	ipinfo   *providers.IPClient
	videos   *providers.VideoExtractor
	channels *providers.ChannelScraper
}

// NewServer wires the handler dependencies from configuration. The same
// upstream HTTP client backs every public data provider so connection
// pooling and the timeout policy are shared.
func NewServer(cfg *config.Config, gc *gemini.Client, temp *tempstore.Store) *Server {
	upstream := &http.Client{Timeout: cfg.Upstream.Timeout}
	return &Server{
		cfg:      cfg,
		gemini:   gc,
		analyzer: augment.New(gc),
		temp:     temp,
		ffmpeg:   transcode.New(cfg.Tools.FFmpegPath),
		usage:    usage.NewLog(endpointCount),
		upstream: upstream,

		wiki:     providers.NewWikiClient(upstream),
		tdk:      providers.NewTDKClient(upstream),
		movies:   providers.NewMovieClient(upstream),
		currency: providers.NewCurrencyClient(upstream),
		quakes:   providers.NewEarthquakeClient(upstream),
		weather:  providers.NewWeatherClient(upstream),
		ipinfo:   providers.NewIPClient(upstream),
		videos:   providers.NewVideoExtractor(upstream, cfg.Tools.YtDlpPath, cfg.Tools.YoutubeDlPath, cfg.Upstream.ExtractTimeout),
		channels: providers.NewChannelScraper(upstream),
	}
}

// Usage exposes the request log for the stats endpoint and the router.
func (s *Server) Usage() *usage.Log { return s.usage }

// logUsage records one request outcome. Validation failures and upstream
// errors are recorded the same way as successes so the statistics reflect
// real traffic.
func (s *Server) logUsage(endpoint, apiKey string, success bool, errorMessage string) {
	s.usage.Record(endpoint, apiKey, success, errorMessage)
}

// augmented runs the optional AI analysis pass over a data payload. A nil
// return means no analysis was requested.
func (s *Server) augmented(r *http.Request, prompt, model, key string, data interface{}) *string {
	if prompt == "" {
		return nil
	}
	answer := s.analyzer.Analyze(r.Context(), key, model, prompt, data)
	return &answer
}
