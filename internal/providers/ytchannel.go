// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/kebapcore/entegrapi/internal/models"
)

// ErrInvalidChannelURL means the link is not a recognizable channel URL.
// The message is part of the public API surface.
var ErrInvalidChannelURL = errors.New("Invalid YouTube channel URL")

var channelIDRe = regexp.MustCompile(`(?:youtube\.com/(?:channel/|c/|user/|@))([^/?]+)`)

// ExtractChannelID pulls the channel identifier out of any channel URL
// form: /channel/, /c/, /user/ or the handle style.
func ExtractChannelID(link string) (string, error) {
	m := channelIDRe.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidChannelURL
	}
	return m[1], nil
}

// ChannelScraper reads channel metadata off the public channel page. There
// is no free structured API for this, so it is regex scraping by design of
// the upstream.
type ChannelScraper struct {
	httpClient *http.Client
}

// NewChannelScraper creates a ChannelScraper.
func NewChannelScraper(httpClient *http.Client) *ChannelScraper {
	return &ChannelScraper{httpClient: httpClient}
}

var (
	chNameRe       = regexp.MustCompile(`"title":"([^"]+)"`)
	chAvatarRe     = regexp.MustCompile(`"avatar":\{"thumbnails":\[\{"url":"([^"]+)"`)
	chDescRe       = regexp.MustCompile(`"description":"([^"]+)"`)
	chBannerRe     = regexp.MustCompile(`"banner":\{"thumbnails":\[\{"url":"([^"]+)"`)
	chSubscriberRe = regexp.MustCompile(`"subscriberCountText":\{"simpleText":"([^"]+)"`)
)

// Scrape fetches the channel page at link and extracts what it can. Fields
// the page does not reveal carry Turkish not-found sentinels.
func (s *ChannelScraper) Scrape(ctx context.Context, link string) (res *models.ChannelResult, err error) {
	defer observe("ytchannel", time.Now(), err)

	id, err := ExtractChannelID(link)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Failed to fetch channel page: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read channel page: %w", err)
	}
	html := string(raw)

	result := &models.ChannelResult{
		ID:              id,
		Name:            "Kanal adı bulunamadı",
		URL:             link,
		Description:     "Açıklama bulunamadı",
		SubscriberCount: "Abone sayısı bulunamadı",
	}

	if m := chNameRe.FindStringSubmatch(html); m != nil {
		result.Name = m[1]
	}
	if m := chAvatarRe.FindStringSubmatch(html); m != nil {
		avatar := m[1]
		result.Avatar = &avatar
	}
	if m := chDescRe.FindStringSubmatch(html); m != nil {
		result.Description = strings.ReplaceAll(m[1], `\n`, "\n")
	}
	if m := chBannerRe.FindStringSubmatch(html); m != nil {
		banner := m[1]
		result.Banner = &banner
	}
	if m := chSubscriberRe.FindStringSubmatch(html); m != nil {
		result.SubscriberCount = m[1]
	}

	return result, nil
}
