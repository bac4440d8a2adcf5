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

func TestTDKLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ara"); got != "kalem" {
			t.Errorf("ara = %q", got)
		}
		w.Write([]byte(`[{
			"madde": "kalem",
			"anlamlarListe": [
				{"anlam": "Yazma aracı", "ozelliklerListe": [{"tam_adi": "isim"}]},
				{"anlam": "Resmî kuruluşlarda yazı işleri bölümü"}
			]
		}]`))
	}))
	defer srv.Close()

	c := NewTDKClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Lookup(context.Background(), "kalem")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if res.Word != "kalem" {
		t.Errorf("word = %q", res.Word)
	}
	if len(res.Meanings) != 2 {
		t.Fatalf("meanings = %d", len(res.Meanings))
	}
	if res.Meanings[0].Definition != "Yazma aracı" || res.Meanings[0].Type != "isim" {
		t.Errorf("first meaning = %+v", res.Meanings[0])
	}
	if res.Meanings[1].Type != "" {
		t.Errorf("missing type must be empty, got %q", res.Meanings[1].Type)
	}
}

func TestTDKLookupUnknownWord(t *testing.T) {
	// The upstream answers unknown words with an error object, not an array.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"Sonuç bulunamadı"}`))
	}))
	defer srv.Close()

	c := NewTDKClient(srv.Client())
	c.BaseURL = srv.URL

	res, err := c.Lookup(context.Background(), "asdqwe")
	if err != nil {
		t.Fatalf("unknown word must not be an error: %v", err)
	}
	if res.Word != "asdqwe" {
		t.Errorf("word = %q", res.Word)
	}
	if res.Meanings == nil || len(res.Meanings) != 0 {
		t.Errorf("meanings must be an empty slice, got %v", res.Meanings)
	}
}

func TestTDKLookupServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewTDKClient(srv.Client())
	c.BaseURL = srv.URL

	_, err := c.Lookup(context.Background(), "kalem")
	if err == nil || err.Error() != "TDK API error: 503" {
		t.Errorf("err = %v", err)
	}
}
