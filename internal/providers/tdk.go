// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/models"
)

// TDKClient reads word definitions from the Turkish Language Association
// dictionary service.
type TDKClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewTDKClient creates a TDKClient.
func NewTDKClient(httpClient *http.Client) *TDKClient {
	return &TDKClient{httpClient: httpClient, BaseURL: "https://sozluk.gov.tr"}
}

type tdkEntry struct {
	Madde         string `json:"madde"`
	AnlamlarListe []struct {
		Anlam           string `json:"anlam"`
		OzelliklerListe []struct {
			TamAdi string `json:"tam_adi"`
		} `json:"ozelliklerListe"`
	} `json:"anlamlarListe"`
}

// Lookup fetches the senses of a word. An unknown word yields an empty
// meanings list, not an error; the upstream signals it with a non-array
// body.
func (c *TDKClient) Lookup(ctx context.Context, query string) (res *models.TDKResult, err error) {
	defer observe("tdk", time.Now(), err)

	endpoint := c.BaseURL + "/gts?ara=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("TDK API error: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TDK response: %w", err)
	}

	var entries []tdkEntry
	if err := json.Unmarshal(body, &entries); err != nil || len(entries) == 0 {
		return &models.TDKResult{Word: query, Meanings: []models.TDKMeaning{}}, nil
	}

	entry := entries[0]
	word := entry.Madde
	if word == "" {
		word = query
	}

	meanings := make([]models.TDKMeaning, 0, len(entry.AnlamlarListe))
	for _, anlam := range entry.AnlamlarListe {
		kind := ""
		if len(anlam.OzelliklerListe) > 0 {
			kind = anlam.OzelliklerListe[0].TamAdi
		}
		meanings = append(meanings, models.TDKMeaning{Definition: anlam.Anlam, Type: kind})
	}

	return &models.TDKResult{Word: word, Meanings: meanings}, nil
}
