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
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/models"
)

// Turkey bounding box for the USGS fallback query.
const usgsTurkeyBBox = "&minlatitude=35&maxlatitude=43&minlongitude=25&maxlongitude=45"

// EarthquakeClient reads seismic events. Turkish queries go to AFAD first
// and fall back to a USGS bounding-box query when AFAD is unreachable;
// everything else uses the USGS global feed.
type EarthquakeClient struct {
	httpClient  *http.Client
	AFADBaseURL string
	USGSBaseURL string
}

// NewEarthquakeClient creates an EarthquakeClient.
func NewEarthquakeClient(httpClient *http.Client) *EarthquakeClient {
	return &EarthquakeClient{
		httpClient:  httpClient,
		AFADBaseURL: "https://deprem.afad.gov.tr",
		USGSBaseURL: "https://earthquake.usgs.gov",
	}
}

func isTurkey(country string) bool {
	c := strings.ToLower(country)
	return c == "tr" || c == "turkey"
}

type afadEvent struct {
	Magnitude flexString `json:"magnitude"`
	Mag       flexString `json:"mag"`
	Location  flexString `json:"location"`
	Place     flexString `json:"place"`
	EventDate flexString `json:"eventDate"`
	Time      flexString `json:"time"`
	Depth     flexString `json:"depth"`
	Latitude  flexFloat  `json:"latitude"`
	Lat       flexFloat  `json:"lat"`
	Longitude flexFloat  `json:"longitude"`
	Lng       flexFloat  `json:"lng"`
}

func (e afadEvent) toModel() models.Earthquake {
	lat := float64(e.Latitude)
	if lat == 0 {
		lat = float64(e.Lat)
	}
	lon := float64(e.Longitude)
	if lon == 0 {
		lon = float64(e.Lng)
	}
	return models.Earthquake{
		Magnitude:   firstNonEmpty(models.UnknownTR, e.Magnitude, e.Mag),
		Location:    firstNonEmpty(models.UnknownTR, e.Location, e.Place),
		Time:        firstNonEmpty(models.UnknownTR, e.EventDate, e.Time),
		Depth:       firstNonEmpty(models.UnknownTR, e.Depth),
		Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
		Source:      "AFAD",
	}
}

type usgsFeed struct {
	Features []struct {
		Properties struct {
			Mag   float64 `json:"mag"`
			Place string  `json:"place"`
			Time  int64   `json:"time"`
		} `json:"properties"`
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

func floatOrUnknown(v float64) string {
	if v == 0 {
		return models.UnknownTR
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// fetchAFAD returns the most recent Turkish events, newest first.
func (c *EarthquakeClient) fetchAFAD(ctx context.Context) ([]models.Earthquake, error) {
	endpoint := c.AFADBaseURL + "/EventData/GetLast50Event"
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
		return nil, fmt.Errorf("AFAD API error: %d", resp.StatusCode)
	}

	var events []afadEvent
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("failed to decode AFAD response: %w", err)
	}

	quakes := make([]models.Earthquake, 0, len(events))
	for _, e := range events {
		quakes = append(quakes, e.toModel())
	}
	return quakes, nil
}

// fetchUSGS queries the USGS event feed, optionally clipped to the Turkey
// bounding box.
func (c *EarthquakeClient) fetchUSGS(ctx context.Context, limit int, turkeyOnly bool) ([]models.Earthquake, error) {
	endpoint := fmt.Sprintf("%s/fdsnws/event/1/query?format=geojson&limit=%d&orderby=time", c.USGSBaseURL, limit)
	if turkeyOnly {
		endpoint += usgsTurkeyBBox
	}

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
		return nil, fmt.Errorf("USGS API error: %d", resp.StatusCode)
	}

	var feed usgsFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode USGS response: %w", err)
	}

	quakes := make([]models.Earthquake, 0, len(feed.Features))
	for _, f := range feed.Features {
		coords := f.Geometry.Coordinates
		var lon, lat, depth float64
		if len(coords) > 0 {
			lon = coords[0]
		}
		if len(coords) > 1 {
			lat = coords[1]
		}
		if len(coords) > 2 {
			depth = coords[2]
		}
		mag := models.UnknownTR
		if f.Properties.Mag != 0 {
			mag = strconv.FormatFloat(f.Properties.Mag, 'f', -1, 64)
		}
		place := f.Properties.Place
		if place == "" {
			place = models.UnknownTR
		}
		quakes = append(quakes, models.Earthquake{
			Magnitude:   mag,
			Location:    place,
			Time:        time.UnixMilli(f.Properties.Time).UTC().Format("2006-01-02T15:04:05.000Z"),
			Depth:       floatOrUnknown(depth),
			Coordinates: models.Coordinates{Latitude: lat, Longitude: lon},
			Source:      "USGS",
		})
	}
	return quakes, nil
}

// Latest returns the single most recent event for a country.
func (c *EarthquakeClient) Latest(ctx context.Context, country string) (res *models.EarthquakeLatestResult, err error) {
	defer observe("earthquake", time.Now(), err)

	if isTurkey(country) {
		quakes, afadErr := c.fetchAFAD(ctx)
		if afadErr == nil {
			if len(quakes) == 0 {
				return &models.EarthquakeLatestResult{
					Country: country,
					Found:   false,
					Error:   "AFAD'dan son deprem verisi bulunamadı",
				}, nil
			}
			return &models.EarthquakeLatestResult{Country: country, Found: true, Earthquake: &quakes[0]}, nil
		}

		logging.Ctx(ctx).Warn().Err(afadErr).Msg("AFAD unreachable, falling back to USGS")
		quakes, err = c.fetchUSGS(ctx, 1, true)
		if err != nil {
			return nil, err
		}
		if len(quakes) == 0 {
			return &models.EarthquakeLatestResult{
				Country: country,
				Found:   false,
				Error:   "Türkiye için deprem verisi bulunamadı",
			}, nil
		}
		return &models.EarthquakeLatestResult{Country: country, Found: true, Earthquake: &quakes[0]}, nil
	}

	quakes, err := c.fetchUSGS(ctx, 1, false)
	if err != nil {
		return nil, err
	}
	if len(quakes) == 0 {
		return &models.EarthquakeLatestResult{
			Country: country,
			Found:   false,
			Error:   "Son deprem verisi bulunamadı",
		}, nil
	}
	return &models.EarthquakeLatestResult{Country: country, Found: true, Earthquake: &quakes[0]}, nil
}

// Last returns up to limit recent events for a country.
func (c *EarthquakeClient) Last(ctx context.Context, country string, limit int) (res *models.EarthquakeListResult, err error) {
	defer observe("earthquake", time.Now(), err)

	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var quakes []models.Earthquake
	if isTurkey(country) {
		var afadErr error
		quakes, afadErr = c.fetchAFAD(ctx)
		if afadErr != nil {
			logging.Ctx(ctx).Warn().Err(afadErr).Msg("AFAD unreachable, falling back to USGS")
			quakes, err = c.fetchUSGS(ctx, limit, true)
			if err != nil {
				return nil, err
			}
		}
		if len(quakes) > limit {
			quakes = quakes[:limit]
		}
	} else {
		quakes, err = c.fetchUSGS(ctx, limit, false)
		if err != nil {
			return nil, err
		}
	}

	return &models.EarthquakeListResult{
		Country:     country,
		Limit:       limit,
		Found:       len(quakes) > 0,
		Count:       len(quakes),
		Earthquakes: quakes,
	}, nil
}
