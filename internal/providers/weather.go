// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/models"
)

// ErrWeatherNotFound means the service had no reading for the place. The
// message is part of the public API surface.
var ErrWeatherNotFound = errors.New("Weather data not found for this location")

// WeatherClient reads current conditions from wttr.in.
type WeatherClient struct {
	httpClient *http.Client
	BaseURL    string

	now func() time.Time
}

// NewWeatherClient creates a WeatherClient.
func NewWeatherClient(httpClient *http.Client) *WeatherClient {
	return &WeatherClient{
		httpClient: httpClient,
		BaseURL:    "https://wttr.in",
		now:        time.Now,
	}
}

// wttr.in j1 payload. Everything is strings, including numbers.
type wttrValue struct {
	Value string `json:"value"`
}

type wttrResponse struct {
	CurrentCondition []struct {
		TempC         string      `json:"temp_C"`
		FeelsLikeC    string      `json:"FeelsLikeC"`
		Humidity      string      `json:"humidity"`
		Pressure      string      `json:"pressure"`
		WeatherDesc   []wttrValue `json:"weatherDesc"`
		WindspeedKmph string      `json:"windspeedKmph"`
		WinddirDegree string      `json:"winddirDegree"`
		Visibility    string      `json:"visibility"`
		Cloudcover    string      `json:"cloudcover"`
		UVIndex       string      `json:"uvIndex"`
	} `json:"current_condition"`
	NearestArea []struct {
		AreaName  []wttrValue `json:"areaName"`
		Country   []wttrValue `json:"country"`
		Region    []wttrValue `json:"region"`
		Latitude  string      `json:"latitude"`
		Longitude string      `json:"longitude"`
	} `json:"nearest_area"`
}

func parseF(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func parseI(s string) int {
	v, _ := strconv.Atoi(s)
	return v
}

func firstValue(vals []wttrValue) string {
	if len(vals) > 0 {
		return vals[0].Value
	}
	return ""
}

// Current fetches the current conditions for a place. Wind speed is
// converted from km/h to m/s.
func (c *WeatherClient) Current(ctx context.Context, place string) (res *models.WeatherResult, err error) {
	defer observe("wttr", time.Now(), err)

	endpoint := c.BaseURL + "/" + url.PathEscape(place) + "?format=j1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Entegar-API/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Weather API error: %d", resp.StatusCode)
	}

	var data wttrResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}
	if len(data.CurrentCondition) == 0 {
		return nil, ErrWeatherNotFound
	}

	current := data.CurrentCondition[0]

	loc := models.WeatherLocation{Name: place, Country: models.Unknown}
	if len(data.NearestArea) > 0 {
		area := data.NearestArea[0]
		if name := firstValue(area.AreaName); name != "" {
			loc.Name = name
		}
		if country := firstValue(area.Country); country != "" {
			loc.Country = country
		}
		if region := firstValue(area.Region); region != "" {
			loc.State = &region
		}
		loc.Coordinates.Lat = parseF(area.Latitude)
		loc.Coordinates.Lon = parseF(area.Longitude)
	}

	desc := firstValue(current.WeatherDesc)
	if desc == "" {
		desc = models.Unknown
	}

	return &models.WeatherResult{
		Location: loc,
		Weather: models.WeatherReading{
			Temperature:   parseF(current.TempC),
			FeelsLike:     parseF(current.FeelsLikeC),
			Humidity:      parseI(current.Humidity),
			Pressure:      parseI(current.Pressure),
			Description:   desc,
			WindSpeed:     parseF(current.WindspeedKmph) / 3.6,
			WindDirection: parseI(current.WinddirDegree),
			Visibility:    parseF(current.Visibility),
			Clouds:        parseI(current.Cloudcover),
			UVIndex:       parseF(current.UVIndex),
		},
		Timestamp: c.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}
