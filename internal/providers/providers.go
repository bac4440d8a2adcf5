// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package providers holds the upstream data clients: encyclopedia,
// dictionary, movie, currency, earthquake, weather, geolocation and video
// metadata. Each client normalizes its upstream into the models types and
// keeps not-found conditions as data rather than errors where the public
// contract says so.
package providers

import (
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/metrics"
)

// observe records one upstream call in the metrics registry.
func observe(provider string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	metrics.RecordUpstreamRequest(provider, outcome, time.Since(start))
}

// flexString decodes a JSON value that may arrive as a string, a number,
// or null. Some upstreams are not consistent about field types.
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = flexString(str)
		return nil
	}
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*s = flexString(strconv.FormatFloat(num, 'f', -1, 64))
		return nil
	}
	*s = ""
	return nil
}

// flexFloat decodes a JSON number that may arrive quoted.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	var num float64
	if err := json.Unmarshal(b, &num); err == nil {
		*f = flexFloat(num)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if parsed, perr := strconv.ParseFloat(str, 64); perr == nil {
			*f = flexFloat(parsed)
		}
		return nil
	}
	*f = 0
	return nil
}

// firstNonEmpty returns the first non-empty candidate, or fallback.
func firstNonEmpty(fallback string, candidates ...flexString) string {
	for _, c := range candidates {
		if c != "" {
			return string(c)
		}
	}
	return fallback
}
