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

// MovieClient reads movie metadata from the OMDb API.
type MovieClient struct {
	httpClient *http.Client
	BaseURL    string
	APIKey     string
}

// NewMovieClient creates a MovieClient with the public demo key.
func NewMovieClient(httpClient *http.Client) *MovieClient {
	return &MovieClient{
		httpClient: httpClient,
		BaseURL:    "http://www.omdbapi.com",
		APIKey:     "trilogy",
	}
}

type omdbResponse struct {
	Response   string `json:"Response"`
	Error      string `json:"Error"`
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	IMDBRating string `json:"imdbRating"`
	Metascore  string `json:"Metascore"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	Runtime    string `json:"Runtime"`
	Language   string `json:"Language"`
	Country    string `json:"Country"`
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// Lookup searches by title. A miss is data: found=false with the upstream
// error message.
func (c *MovieClient) Lookup(ctx context.Context, title string) (res *models.MovieResult, err error) {
	defer observe("omdb", time.Now(), err)

	endpoint := fmt.Sprintf("%s/?t=%s&apikey=%s", c.BaseURL, url.QueryEscape(title), c.APIKey)
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
		return nil, fmt.Errorf("Movie API error: %d", resp.StatusCode)
	}

	var data omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode movie response: %w", err)
	}

	if data.Response == "False" {
		return &models.MovieResult{
			Title: title,
			Found: false,
			Error: orDefault(data.Error, "Film bulunamadı"),
		}, nil
	}

	var poster *string
	if data.Poster != "" && data.Poster != "N/A" {
		poster = &data.Poster
	}

	return &models.MovieResult{
		Title: orDefault(data.Title, title),
		Found: true,
		Year:  orDefault(data.Year, models.UnknownTR),
		Rating: &models.MovieRating{
			IMDB:      orDefault(data.IMDBRating, "N/A"),
			Metascore: orDefault(data.Metascore, "N/A"),
		},
		Genre:    orDefault(data.Genre, models.UnknownTR),
		Director: orDefault(data.Director, models.UnknownTR),
		Actors:   orDefault(data.Actors, models.UnknownTR),
		Plot:     orDefault(data.Plot, "Açıklama bulunamadı"),
		Poster:   poster,
		Runtime:  orDefault(data.Runtime, models.UnknownTR),
		Language: orDefault(data.Language, models.UnknownTR),
		Country:  orDefault(data.Country, models.UnknownTR),
	}, nil
}
