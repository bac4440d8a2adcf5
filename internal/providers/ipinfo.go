// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/kebapcore/entegrapi/internal/models"
)

// clientDetectionSentinel fills the fields an IP lookup cannot know.
const clientDetectionSentinel = "Unknown (requires client detection)"

const ipAPIFields = "status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,org,as,query"

// IPLookupError is a caller mistake such as a reserved or malformed
// address; handlers map it to a 400.
type IPLookupError struct {
	Message string
}

func (e *IPLookupError) Error() string { return e.Message }

// IPClient geolocates addresses via ip-api.com. The free tier allows 45
// requests per minute, enforced with a local limiter.
type IPClient struct {
	httpClient *http.Client
	BaseURL    string
	limiter    *rate.Limiter
}

// NewIPClient creates an IPClient.
func NewIPClient(httpClient *http.Client) *IPClient {
	return &IPClient{
		httpClient: httpClient,
		BaseURL:    "http://ip-api.com",
		limiter:    rate.NewLimiter(rate.Every(time.Minute/45), 45),
	}
}

type ipAPIResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Org         string  `json:"org"`
	AS          string  `json:"as"`
	Query       string  `json:"query"`
}

// Lookup geolocates ip. An upstream fail status becomes an IPLookupError.
func (c *IPClient) Lookup(ctx context.Context, ip string) (res *models.IPResult, err error) {
	defer observe("ip-api", time.Now(), err)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/json/%s?fields=%s", c.BaseURL, ip, ipAPIFields)
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
		return nil, fmt.Errorf("IP API error: %d", resp.StatusCode)
	}

	var data ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode IP response: %w", err)
	}

	if data.Status == "fail" {
		msg := data.Message
		if msg == "" {
			msg = "Invalid IP address"
		}
		return nil, &IPLookupError{Message: msg}
	}

	return &models.IPResult{
		IP:           data.Query,
		Country:      data.Country,
		CountryCode:  data.CountryCode,
		State:        data.RegionName,
		City:         data.City,
		PostalCode:   data.Zip,
		ISP:          data.ISP,
		Organization: data.Org,
		ASNumber:     data.AS,
		Latitude:     data.Lat,
		Longitude:    data.Lon,
		Timezone:     data.Timezone,
		OS:           clientDetectionSentinel,
		Processor:    clientDetectionSentinel,
		Browser:      clientDetectionSentinel,
		Screen:       clientDetectionSentinel,
	}, nil
}
