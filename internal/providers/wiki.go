// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/models"
)

// Wiki source kinds.
const (
	WikiTypeWikipedia = "wikipedia"
	WikiTypeWikiquote = "wikiquote"
)

// WikiClient reads page summaries from the Wikimedia REST API.
type WikiClient struct {
	httpClient *http.Client

	// BaseOverride replaces the per-language host when set, for tests.
	BaseOverride string
}

// NewWikiClient creates a WikiClient.
func NewWikiClient(httpClient *http.Client) *WikiClient {
	return &WikiClient{httpClient: httpClient}
}

func wikiSite(kind string) string {
	if kind == WikiTypeWikiquote {
		return "wikiquote"
	}
	return "wikipedia"
}

func wikiSourceName(kind string) string {
	if kind == WikiTypeWikiquote {
		return "Wikiquote"
	}
	return "Wikipedia"
}

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
	Thumbnail *struct {
		URL string `json:"url"`
	} `json:"thumbnail"`
}

// Summary fetches the page summary for query. A 404 is not an error: the
// result carries the not-found sentinel text with a nil URL.
func (c *WikiClient) Summary(ctx context.Context, query, kind, lang string) (res *models.WikiResult, err error) {
	defer observe("wiki", time.Now(), err)

	host := fmt.Sprintf("https://%s.%s.org", lang, wikiSite(kind))
	if c.BaseOverride != "" {
		host = c.BaseOverride
	}
	endpoint := host + "/api/rest_v1/page/summary/" + url.PathEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		summary := "Bu konu hakkında Wikipedia'da bilgi bulunamadı."
		if kind == WikiTypeWikiquote {
			summary = "Bu kişi hakkında Wikiquote'da alıntı bulunamadı."
		}
		return &models.WikiResult{
			Title:    query,
			Summary:  summary,
			URL:      nil,
			Images:   []string{},
			Type:     kind,
			Language: lang,
		}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s API error: %d", wikiSourceName(kind), resp.StatusCode)
	}

	var data wikiSummary
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode %s response: %w", wikiSourceName(kind), err)
	}

	title := data.Title
	if title == "" {
		title = query
	}
	summary := data.Extract
	if summary == "" {
		summary = "İçerik bulunamadı."
	}
	pageURL := data.ContentURLs.Desktop.Page
	if pageURL == "" {
		pageURL = fmt.Sprintf("https://%s.%s.org/wiki/%s", lang, wikiSite(kind), url.PathEscape(query))
	}
	images := []string{}
	if data.Thumbnail != nil && data.Thumbnail.URL != "" {
		images = append(images, data.Thumbnail.URL)
	}

	return &models.WikiResult{
		Title:    title,
		Summary:  summary,
		URL:      &pageURL,
		Images:   images,
		Type:     kind,
		Language: lang,
	}, nil
}
