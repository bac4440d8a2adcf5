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
	"net/url"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/models"
)

// ErrInvalidVideoURL means the link is not a recognizable video URL. The
// message is part of the public API surface.
var ErrInvalidVideoURL = errors.New("Invalid YouTube URL")

var videoIDRe = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/)([^&\n?#]+)`)

// ExtractVideoID pulls the video ID out of a watch or short link.
func ExtractVideoID(link string) (string, error) {
	m := videoIDRe.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidVideoURL
	}
	return m[1], nil
}

// CommandRunner executes an external tool and returns its stdout. It
// exists so extraction strategies can be tested without the binaries.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// VideoExtractor resolves video metadata through a chain of strategies:
// yt-dlp, youtube-dl, the oEmbed API, and finally page scraping. Earlier
// strategies give richer data; later ones only need network access.
type VideoExtractor struct {
	runner     CommandRunner
	httpClient *http.Client

	YtDlpPath     string
	YoutubeDlPath string
	OEmbedBaseURL string
	PageBaseURL   string

	// attemptTimeout bounds each individual strategy so a hung binary
	// cannot block the whole chain.
	attemptTimeout time.Duration

	now func() time.Time
}

// NewVideoExtractor creates a VideoExtractor using the real binaries.
// attemptTimeout caps each strategy attempt; non-positive values get a
// 30 second default.
func NewVideoExtractor(httpClient *http.Client, ytDlpPath, youtubeDlPath string, attemptTimeout time.Duration) *VideoExtractor {
	if ytDlpPath == "" {
		ytDlpPath = "yt-dlp"
	}
	if youtubeDlPath == "" {
		youtubeDlPath = "youtube-dl"
	}
	if attemptTimeout <= 0 {
		attemptTimeout = 30 * time.Second
	}
	return &VideoExtractor{
		runner:         execRunner{},
		httpClient:     httpClient,
		YtDlpPath:      ytDlpPath,
		YoutubeDlPath:  youtubeDlPath,
		OEmbedBaseURL:  "https://www.youtube.com",
		PageBaseURL:    "https://www.youtube.com",
		attemptTimeout: attemptTimeout,
		now:            time.Now,
	}
}

// SetRunner swaps the tool runner, for tests.
func (x *VideoExtractor) SetRunner(r CommandRunner) { x.runner = r }

func formatDuration(seconds int64) string {
	if seconds == 0 {
		return models.UnknownTR
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func formatViewCount(count int64) string {
	switch {
	case count == 0:
		return models.UnknownTR
	case count >= 1000000:
		return fmt.Sprintf("%.1fM", float64(count)/1000000)
	case count >= 1000:
		return fmt.Sprintf("%.1fK", float64(count)/1000)
	default:
		return strconv.FormatInt(count, 10)
	}
}

// Extract resolves metadata for link, trying each strategy in order. When
// a later strategy succeeds after earlier failures, the result carries a
// fallback note listing what failed.
func (x *VideoExtractor) Extract(ctx context.Context, link string) (res *models.VideoMetadata, err error) {
	defer observe("youtube", time.Now(), err)

	videoID, err := ExtractVideoID(link)
	if err != nil {
		return nil, err
	}
	videoURL := "https://www.youtube.com/watch?v=" + videoID

	type strategy struct {
		name string
		run  func(context.Context) (*models.VideoMetadata, error)
	}
	strategies := []strategy{
		{"yt-dlp", func(ctx context.Context) (*models.VideoMetadata, error) { return x.tryYtDlp(ctx, videoID, videoURL) }},
		{"youtube-dl", func(ctx context.Context) (*models.VideoMetadata, error) { return x.tryYoutubeDl(ctx, videoID, videoURL) }},
		{"oEmbed", func(ctx context.Context) (*models.VideoMetadata, error) { return x.tryOEmbed(ctx, videoID, videoURL) }},
		{"scraping", func(ctx context.Context) (*models.VideoMetadata, error) { return x.tryScrape(ctx, videoID, videoURL) }},
	}

	var failures []string
	for _, s := range strategies {
		attemptCtx, cancel := context.WithTimeout(ctx, x.attemptTimeout)
		meta, serr := s.run(attemptCtx)
		cancel()
		if serr != nil {
			logging.Ctx(ctx).Warn().Str("method", s.name).Err(serr).Msg("video extraction method failed")
			failures = append(failures, s.name+": "+serr.Error())
			continue
		}
		if len(failures) > 0 {
			meta.FallbackInfo = &models.FallbackInfo{
				FailedMethods: strings.Join(failures, " | "),
				Note:          "Some extraction methods failed, but we found alternative data",
			}
		}
		return meta, nil
	}

	return nil, errors.New("All extraction methods failed: " + strings.Join(failures, " | "))
}

// ytDlpInfo is the subset of yt-dlp -j output we consume. youtube-dl
// emits a compatible shape.
type ytDlpInfo struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Duration             float64  `json:"duration"`
	ViewCount            int64    `json:"view_count"`
	LikeCount            int64    `json:"like_count"`
	UploadDate           string   `json:"upload_date"`
	Uploader             string   `json:"uploader"`
	UploaderURL          string   `json:"uploader_url"`
	Channel              string   `json:"channel"`
	ChannelID            string   `json:"channel_id"`
	ChannelURL           string   `json:"channel_url"`
	ChannelFollowerCount int64    `json:"channel_follower_count"`
	ChannelIsVerified    bool     `json:"channel_is_verified"`
	Thumbnail            string   `json:"thumbnail"`
	WebpageURL           string   `json:"webpage_url"`
	Resolution           string   `json:"resolution"`
	FPS                  float64  `json:"fps"`
	Filesize             int64    `json:"filesize"`
	FormatID             string   `json:"format_id"`
	Categories           []string `json:"categories"`
	Tags                 []string `json:"tags"`
	AgeLimit             int      `json:"age_limit"`
}

func strOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (x *VideoExtractor) runInfoTool(ctx context.Context, tool, videoURL string) (*ytDlpInfo, error) {
	out, err := x.runner.Run(ctx, tool, "-j", "--no-warnings", videoURL)
	if err != nil {
		return nil, fmt.Errorf("info extraction failed: %w", err)
	}
	var info ytDlpInfo
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(out))), &info); err != nil {
		return nil, fmt.Errorf("failed to parse tool output: %w", err)
	}
	return &info, nil
}

func (x *VideoExtractor) tryYtDlp(ctx context.Context, videoID, videoURL string) (*models.VideoMetadata, error) {
	info, err := x.runInfoTool(ctx, x.YtDlpPath, videoURL)
	if err != nil {
		return nil, err
	}

	// Direct URLs are best effort; leave them nil when resolution fails.
	var mp3URL, mp4URL *string
	if out, err := x.runner.Run(ctx, x.YtDlpPath, "-g", "-f", "bestvideo+bestaudio", "--no-warnings", videoURL); err == nil {
		urls := nonEmptyLines(string(out))
		if len(urls) > 0 {
			mp4URL = &urls[0]
			mp3URL = &urls[0]
			if len(urls) > 1 {
				mp3URL = &urls[1]
			}
		}
	}
	if mp3URL == nil {
		if out, err := x.runner.Run(ctx, x.YtDlpPath, "-g", "-f", "bestaudio", "--no-warnings", videoURL); err == nil {
			if urls := nonEmptyLines(string(out)); len(urls) > 0 {
				mp3URL = &urls[0]
			}
		}
	}

	downloadStatus := "failed"
	if mp3URL != nil || mp4URL != nil {
		downloadStatus = "available"
	}

	duration := int64(info.Duration)
	return &models.VideoMetadata{
		VideoID:         videoID,
		Title:           strOr(info.Title, "Başlık bulunamadı"),
		Description:     strOr(info.Description, "Açıklama bulunamadı"),
		Duration:        formatDuration(duration),
		DurationSeconds: duration,
		ViewCount:       formatViewCount(info.ViewCount),
		ViewCountRaw:    info.ViewCount,
		LikeCount:       info.LikeCount,
		UploadDate:      strOr(info.UploadDate, models.UnknownTR),
		Uploader:        strOr(strOr(info.Uploader, info.Channel), models.UnknownTR),
		Thumbnail:       info.Thumbnail,
		WebpageURL:      strOr(info.WebpageURL, videoURL),
		MP3URL:          mp3URL,
		MP4URL:          mp4URL,
		DownloadStatus:  downloadStatus,
		Channel: models.VideoChannel{
			ID:              strOr(info.ChannelID, models.UnknownTR),
			Name:            strOr(strOr(info.Channel, info.Uploader), models.UnknownTR),
			URL:             strOr(info.ChannelURL, info.UploaderURL),
			SubscriberCount: info.ChannelFollowerCount,
			Verified:        info.ChannelIsVerified,
		},
		Resolution:       strOr(info.Resolution, models.UnknownTR),
		FPS:              info.FPS,
		Filesize:         info.Filesize,
		FormatID:         strOr(info.FormatID, models.UnknownTR),
		Categories:       emptyIfNil(info.Categories),
		Tags:             emptyIfNil(info.Tags),
		AgeRestricted:    info.AgeLimit > 0,
		AgeLimit:         info.AgeLimit,
		ExtractionMethod: "yt-dlp",
		ExtractedAt:      x.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

func (x *VideoExtractor) tryYoutubeDl(ctx context.Context, videoID, videoURL string) (*models.VideoMetadata, error) {
	info, err := x.runInfoTool(ctx, x.YoutubeDlPath, videoURL)
	if err != nil {
		return nil, err
	}

	var mp3URL, mp4URL *string
	if out, err := x.runner.Run(ctx, x.YoutubeDlPath, "-g", "-f", "best", "--no-warnings", videoURL); err == nil {
		if urls := nonEmptyLines(string(out)); len(urls) > 0 {
			// A single muxed URL serves for both.
			mp4URL = &urls[0]
			mp3URL = &urls[0]
		}
	}

	downloadStatus := "failed"
	if mp3URL != nil || mp4URL != nil {
		downloadStatus = "available"
	}

	duration := int64(info.Duration)
	return &models.VideoMetadata{
		VideoID:         videoID,
		Title:           strOr(info.Title, "Başlık bulunamadı"),
		Description:     strOr(info.Description, "Açıklama bulunamadı"),
		Duration:        formatDuration(duration),
		DurationSeconds: duration,
		ViewCount:       formatViewCount(info.ViewCount),
		ViewCountRaw:    info.ViewCount,
		LikeCount:       info.LikeCount,
		UploadDate:      strOr(info.UploadDate, models.UnknownTR),
		Uploader:        strOr(info.Uploader, models.UnknownTR),
		Thumbnail:       info.Thumbnail,
		WebpageURL:      videoURL,
		MP3URL:          mp3URL,
		MP4URL:          mp4URL,
		DownloadStatus:  downloadStatus,
		Channel: models.VideoChannel{
			ID:   strOr(info.ID, models.UnknownTR),
			Name: strOr(info.Uploader, models.UnknownTR),
			URL:  info.UploaderURL,
		},
		Resolution:       models.UnknownTR,
		FormatID:         strOr(info.FormatID, models.UnknownTR),
		Categories:       emptyIfNil(info.Categories),
		Tags:             emptyIfNil(info.Tags),
		ExtractionMethod: "youtube-dl",
		ExtractedAt:      x.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	AuthorURL    string `json:"author_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (x *VideoExtractor) tryOEmbed(ctx context.Context, videoID, videoURL string) (*models.VideoMetadata, error) {
	endpoint := x.OEmbedBaseURL + "/oembed?url=" + url.QueryEscape(videoURL) + "&format=json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oEmbed API error: %d", resp.StatusCode)
	}

	var data oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode oEmbed response: %w", err)
	}

	return &models.VideoMetadata{
		VideoID:        videoID,
		Title:          strOr(data.Title, "Başlık bulunamadı"),
		Description:    "oEmbed API'den açıklama bilgisi alınamadı",
		Duration:       models.UnknownTR,
		ViewCount:      models.UnknownTR,
		UploadDate:     models.UnknownTR,
		Uploader:       strOr(data.AuthorName, models.UnknownTR),
		Thumbnail:      data.ThumbnailURL,
		WebpageURL:     videoURL,
		DownloadStatus: "unavailable_oembed",
		Channel: models.VideoChannel{
			ID:   models.UnknownTR,
			Name: strOr(data.AuthorName, models.UnknownTR),
			URL:  data.AuthorURL,
		},
		Resolution:       models.UnknownTR,
		FormatID:         models.UnknownTR,
		Categories:       []string{},
		Tags:             []string{},
		ExtractionMethod: "oEmbed",
		ExtractedAt:      x.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

var (
	pageTitleRe     = regexp.MustCompile(`<title[^>]*>([^<]+)<`)
	pageDescRe      = regexp.MustCompile(`"description":"([^"]+)"`)
	pageThumbRe     = regexp.MustCompile(`"thumbnails":\[\{"url":"([^"]+)"`)
	pageChannelRe   = regexp.MustCompile(`"ownerChannelName":"([^"]+)"`)
	pageViewCountRe = regexp.MustCompile(`"viewCount":"(\d+)"`)
	pageLengthRe    = regexp.MustCompile(`"lengthSeconds":"(\d+)"`)
)

func (x *VideoExtractor) tryScrape(ctx context.Context, videoID, videoURL string) (*models.VideoMetadata, error) {
	endpoint := x.PageBaseURL + "/watch?v=" + videoID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Failed to fetch video page: %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read video page: %w", err)
	}
	html := string(raw)

	title := "Başlık bulunamadı"
	if m := pageTitleRe.FindStringSubmatch(html); m != nil {
		title = strings.ReplaceAll(m[1], " - YouTube", "")
	}
	description := "Web scraping'den açıklama alınamadı"
	if m := pageDescRe.FindStringSubmatch(html); m != nil {
		description = strings.ReplaceAll(m[1], `\n`, "\n")
	}
	thumbnail := ""
	if m := pageThumbRe.FindStringSubmatch(html); m != nil {
		thumbnail = m[1]
	}
	channel := models.UnknownTR
	if m := pageChannelRe.FindStringSubmatch(html); m != nil {
		channel = m[1]
	}
	var viewCount, durationSeconds int64
	if m := pageViewCountRe.FindStringSubmatch(html); m != nil {
		viewCount, _ = strconv.ParseInt(m[1], 10, 64)
	}
	if m := pageLengthRe.FindStringSubmatch(html); m != nil {
		durationSeconds, _ = strconv.ParseInt(m[1], 10, 64)
	}

	return &models.VideoMetadata{
		VideoID:         videoID,
		Title:           title,
		Description:     description,
		Duration:        formatDuration(durationSeconds),
		DurationSeconds: durationSeconds,
		ViewCount:       formatViewCount(viewCount),
		ViewCountRaw:    viewCount,
		UploadDate:      models.UnknownTR,
		Uploader:        channel,
		Thumbnail:       thumbnail,
		WebpageURL:      videoURL,
		DownloadStatus:  "unavailable_scraping",
		Channel: models.VideoChannel{
			ID:   models.UnknownTR,
			Name: channel,
		},
		Resolution:       models.UnknownTR,
		FormatID:         models.UnknownTR,
		Categories:       []string{},
		Tags:             []string{},
		ExtractionMethod: "web_scraping",
		ExtractedAt:      x.now().UTC().Format("2006-01-02T15:04:05.000Z"),
	}, nil
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
