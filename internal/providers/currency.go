// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/models"
)

// CurrencyClient reads exchange rates from exchangerate-api.com.
type CurrencyClient struct {
	httpClient *http.Client
	BaseURL    string
}

// NewCurrencyClient creates a CurrencyClient.
func NewCurrencyClient(httpClient *http.Client) *CurrencyClient {
	return &CurrencyClient{httpClient: httpClient, BaseURL: "https://api.exchangerate-api.com"}
}

type exchangeRates struct {
	Base  string             `json:"base"`
	Date  string             `json:"date"`
	Rates map[string]float64 `json:"rates"`
}

// Rate converts a currency pair. An unknown target currency is data:
// found=false with a nil rate.
func (c *CurrencyClient) Rate(ctx context.Context, from, to string) (res *models.CurrencyResult, err error) {
	defer observe("exchangerate", time.Now(), err)

	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	endpoint := c.BaseURL + "/v4/latest/" + from
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
		return nil, fmt.Errorf("Currency API error: %d", resp.StatusCode)
	}

	var data exchangeRates
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode currency response: %w", err)
	}

	rate, ok := data.Rates[to]
	if !ok {
		return &models.CurrencyResult{
			From:  from,
			To:    to,
			Rate:  nil,
			Error: "Döviz kuru bulunamadı",
			Found: false,
		}, nil
	}

	return &models.CurrencyResult{
		From:  from,
		To:    to,
		Rate:  &rate,
		Date:  data.Date,
		Base:  data.Base,
		Found: true,
	}, nil
}
