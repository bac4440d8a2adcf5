// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrencyRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/latest/USD" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"base": "USD", "date": "2026-08-28", "rates": {"TRY": 41.25, "EUR": 0.92}}`))
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Rate(context.Background(), "usd", "try")
	if err != nil {
		t.Fatalf("Rate: %v", err)
	}
	if !res.Found {
		t.Fatal("found = false")
	}
	if res.From != "USD" || res.To != "TRY" {
		t.Errorf("pair = %s/%s", res.From, res.To)
	}
	if res.Rate == nil || *res.Rate != 41.25 {
		t.Errorf("rate = %v", res.Rate)
	}
	if res.Date != "2026-08-28" || res.Base != "USD" {
		t.Errorf("date/base = %q/%q", res.Date, res.Base)
	}
}

func TestCurrencyRateUnknownTarget(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"base": "USD", "date": "2026-08-28", "rates": {"EUR": 0.92}}`))
	}))
	defer srv.Close()

	c := NewCurrencyClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Rate(context.Background(), "USD", "XXX")
	if err != nil {
		t.Fatalf("unknown currency must not be an error: %v", err)
	}
	if res.Found {
		t.Error("found = true")
	}
	if res.Rate != nil {
		t.Errorf("rate must be nil, got %v", *res.Rate)
	}
	if res.Error != "Döviz kuru bulunamadı" {
		t.Errorf("error = %q", res.Error)
	}
}
