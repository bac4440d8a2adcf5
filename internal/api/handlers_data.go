// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/kebapcore/entegrapi/internal/providers"
)

// HandleWiki serves /api/wiki: encyclopedia or quote summaries with
// optional AI analysis.
func (s *Server) HandleWiki(w http.ResponseWriter, r *http.Request) {
	req, verr := bindWikiRequest(r)
	if verr != nil {
		s.logUsage("/api/wiki", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.wiki.Summary(r.Context(), req.Query, req.Type, req.Lang)
	if err != nil {
		s.logUsage("/api/wiki", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/wiki", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleTDK serves /api/tdk: Turkish dictionary lookups.
func (s *Server) HandleTDK(w http.ResponseWriter, r *http.Request) {
	req, verr := bindTDKRequest(r)
	if verr != nil {
		s.logUsage("/api/tdk", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.tdk.Lookup(r.Context(), req.Query)
	if err != nil {
		s.logUsage("/api/tdk", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/tdk", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleMovie serves /api/movie: movie metadata by title.
func (s *Server) HandleMovie(w http.ResponseWriter, r *http.Request) {
	req, verr := bindQueryRequest(r, "q")
	if verr != nil {
		s.logUsage("/api/movie", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.movies.Lookup(r.Context(), req.Query)
	if err != nil {
		s.logUsage("/api/movie", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/movie", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleCurrency serves /api/currency: exchange rates between two codes.
func (s *Server) HandleCurrency(w http.ResponseWriter, r *http.Request) {
	req, verr := bindCurrencyRequest(r)
	if verr != nil {
		s.logUsage("/api/currency", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.currency.Rate(r.Context(), req.From, req.To)
	if err != nil {
		s.logUsage("/api/currency", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/currency", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleEarthquakeLatest serves /api/earthquake/latest: the most recent
// event for a country.
func (s *Server) HandleEarthquakeLatest(w http.ResponseWriter, r *http.Request) {
	req, verr := bindEarthquakeRequest(r, false)
	if verr != nil {
		s.logUsage("/api/earthquake/latest", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.quakes.Latest(r.Context(), req.Country)
	if err != nil {
		s.logUsage("/api/earthquake/latest", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/earthquake/latest", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleEarthquakeLast serves /api/earthquake/last: the most recent N
// events for a country.
func (s *Server) HandleEarthquakeLast(w http.ResponseWriter, r *http.Request) {
	req, verr := bindEarthquakeRequest(r, true)
	if verr != nil {
		s.logUsage("/api/earthquake/last", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.quakes.Last(r.Context(), req.Country, req.Limit)
	if err != nil {
		s.logUsage("/api/earthquake/last", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/earthquake/last", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleWeather serves /api/weather: current conditions for a place.
func (s *Server) HandleWeather(w http.ResponseWriter, r *http.Request) {
	req, verr := bindQueryRequest(r, "place")
	if verr != nil {
		s.logUsage("/api/weather", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.weather.Current(r.Context(), req.Query)
	if err != nil {
		s.logUsage("/api/weather", req.Key, false, err.Error())
		if errors.Is(err, providers.ErrWeatherNotFound) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/weather", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleYouTube serves /api/yt: video metadata via the extraction chain.
func (s *Server) HandleYouTube(w http.ResponseWriter, r *http.Request) {
	req, verr := bindLinkRequest(r)
	if verr != nil {
		s.logUsage("/api/yt", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.videos.Extract(r.Context(), req.Link)
	if err != nil {
		s.logUsage("/api/yt", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/yt", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleYouTubeChannel serves /api/ytch: channel metadata scraped from
// the channel page.
func (s *Server) HandleYouTubeChannel(w http.ResponseWriter, r *http.Request) {
	req, verr := bindLinkRequest(r)
	if verr != nil {
		s.logUsage("/api/ytch", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	result, err := s.channels.Scrape(r.Context(), req.Link)
	if err != nil {
		s.logUsage("/api/ytch", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	aiAnswer := s.augmented(r, req.AI, req.Model, req.Key, result)
	s.logUsage("/api/ytch", req.Key, true, "")
	respondData(w, result, aiAnswer)
}

// HandleIPCheck serves /api/ipcheck: geo lookup for an IP, defaulting to
// the caller's address. Invalid addresses are the caller's fault, so the
// lookup error maps to a 400.
func (s *Server) HandleIPCheck(w http.ResponseWriter, r *http.Request) {
	ip := r.URL.Query().Get("ip")
	if ip == "" {
		ip = clientIP(r)
	}

	result, err := s.ipinfo.Lookup(r.Context(), ip)
	if err != nil {
		s.logUsage("/api/ipcheck", "", false, err.Error())
		var lookupErr *providers.IPLookupError
		if errors.As(err, &lookupErr) {
			respondError(w, http.StatusBadRequest, lookupErr.Message)
			return
		}
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/ipcheck", "", true, "")
	respondData(w, result, nil)
}

// HandleStats serves /api/stats with the in-memory usage statistics.
func (s *Server) HandleStats(w http.ResponseWriter, r *http.Request) {
	s.logUsage("/api/stats", "", true, "")
	respondData(w, s.usage.Statistics(), nil)
}

// HandleHealth serves /health for liveness probes.
func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	}, nil)
}

// clientIP extracts the caller's address. The RealIP middleware already
// resolved forwarding headers into RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
