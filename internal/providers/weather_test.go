// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "Entegar-API/1.0" {
			t.Errorf("user agent = %q", got)
		}
		if r.URL.Query().Get("format") != "j1" {
			t.Errorf("format = %q", r.URL.Query().Get("format"))
		}
		w.Write([]byte(`{
			"current_condition": [{
				"temp_C": "28", "FeelsLikeC": "31", "humidity": "62", "pressure": "1012",
				"weatherDesc": [{"value": "Sunny"}],
				"windspeedKmph": "18", "winddirDegree": "220",
				"visibility": "10", "cloudcover": "25", "uvIndex": "7"
			}],
			"nearest_area": [{
				"areaName": [{"value": "Istanbul"}],
				"country": [{"value": "Turkey"}],
				"region": [{"value": "Istanbul"}],
				"latitude": "41.01", "longitude": "28.96"
			}]
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Current(context.Background(), "Istanbul")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if res.Location.Name != "Istanbul" || res.Location.Country != "Turkey" {
		t.Errorf("location = %+v", res.Location)
	}
	if res.Location.State == nil || *res.Location.State != "Istanbul" {
		t.Errorf("state = %v", res.Location.State)
	}
	if res.Weather.Temperature != 28 || res.Weather.Humidity != 62 {
		t.Errorf("reading = %+v", res.Weather)
	}
	if math.Abs(res.Weather.WindSpeed-5.0) > 0.001 {
		t.Errorf("wind must convert km/h to m/s, got %v", res.Weather.WindSpeed)
	}
	if res.Weather.Description != "Sunny" {
		t.Errorf("description = %q", res.Weather.Description)
	}
}

func TestWeatherCurrentNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_condition": []}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.Client())
	c.BaseURL = srv.URL

	_, err := c.Current(context.Background(), "Nowhereville")
	if err != ErrWeatherNotFound {
		t.Errorf("err = %v, want ErrWeatherNotFound", err)
	}
}
