// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIPLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/json/8.8.8.8") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if !strings.Contains(r.URL.Query().Get("fields"), "countryCode") {
			t.Errorf("fields = %q", r.URL.Query().Get("fields"))
		}
		w.Write([]byte(`{
			"status": "success", "country": "United States", "countryCode": "US",
			"regionName": "California", "city": "Mountain View", "zip": "94035",
			"lat": 37.386, "lon": -122.0838, "timezone": "America/Los_Angeles",
			"isp": "Google LLC", "org": "Google Public DNS", "as": "AS15169 Google LLC",
			"query": "8.8.8.8"
		}`))
	}))
	defer srv.Close()

	c := NewIPClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Lookup(context.Background(), "8.8.8.8")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.IP != "8.8.8.8" || res.CountryCode != "US" || res.City != "Mountain View" {
		t.Errorf("res = %+v", res)
	}
	if res.Latitude != 37.386 {
		t.Errorf("lat = %v", res.Latitude)
	}
	if res.OS != "Unknown (requires client detection)" {
		t.Errorf("os sentinel = %q", res.OS)
	}
}

func TestIPLookupFailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "fail", "message": "private range", "query": "10.0.0.1"}`))
	}))
	defer srv.Close()

	c := NewIPClient(srv.Client())
	c.BaseURL = srv.URL

	_, err := c.Lookup(context.Background(), "10.0.0.1")
	var lookupErr *IPLookupError
	if !errors.As(err, &lookupErr) {
		t.Fatalf("expected *IPLookupError, got %T: %v", err, err)
	}
	if lookupErr.Message != "private range" {
		t.Errorf("message = %q", lookupErr.Message)
	}
}
