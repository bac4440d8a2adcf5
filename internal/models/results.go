// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package models

import (
	"github.com/goccy/go-json"
)

// Unknown is the sentinel for fields the upstream did not supply.
// Turkish-facing endpoints use the Turkish form.
const (
	Unknown   = "Unknown"
	UnknownTR = "Bilinmiyor"
)

// TextResult is the /api/ai response payload.
type TextResult struct {
	Response string     `json:"response"`
	Model    string     `json:"model"`
	Usage    TokenUsage `json:"usage"`
}

// TTSResult is the /api/ai/tts response payload. AudioURL points at an
// ephemeral artifact that disappears after ExpiresIn.
type TTSResult struct {
	AudioURL        string  `json:"audio_url"`
	Duration        float64 `json:"duration"`
	Voice           string  `json:"voice"`
	Text            string  `json:"text"`
	GeneratedFromAI bool    `json:"generated_from_ai"`
	ExpiresIn       string  `json:"expires_in"`
}

// URLContextResult is the /api/ai/urlcontext response payload.
// URLMetadata passes through the provider's retrieval metadata untouched.
type URLContextResult struct {
	Response    string          `json:"response"`
	Model       string          `json:"model"`
	URLMetadata json.RawMessage `json:"url_metadata"`
}

// TranslationResult is the /api/translate response payload.
type TranslationResult struct {
	OriginalText   string `json:"original_text"`
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

// VideoUnderstandingResult is the /api/ai/video response payload.
type VideoUnderstandingResult struct {
	Response         string     `json:"response"`
	VideoURL         string     `json:"video_url"`
	Prompt           string     `json:"prompt"`
	Model            string     `json:"model"`
	IsYouTube        bool       `json:"is_youtube"`
	ProcessingMethod string     `json:"processing_method"`
	Usage            TokenUsage `json:"usage"`
}

// TranscriptResult is the /api/ai/autosub response payload.
type TranscriptResult struct {
	AudioURL         string     `json:"audio_url"`
	Transcript       string     `json:"transcript"`
	Format           string     `json:"format"`
	Language         string     `json:"language"`
	CustomPrompt     bool       `json:"custom_prompt"`
	PromptUsed       string     `json:"prompt_used"`
	Model            string     `json:"model"`
	ProcessingMethod string     `json:"processing_method"`
	Usage            TokenUsage `json:"usage"`
}

// WikiResult is the /api/wiki response payload. A 404 from the upstream is
// data, not failure: Summary carries the not-found sentinel and URL is null.
type WikiResult struct {
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	URL      *string  `json:"url"`
	Images   []string `json:"images"`
	Type     string   `json:"type"`
	Language string   `json:"language"`
}

// TDKMeaning is one dictionary sense of a word.
type TDKMeaning struct {
	Definition string `json:"definition"`
	Type       string `json:"type"`
}

// TDKResult is the /api/tdk response payload. An unknown word yields an
// empty Meanings slice, not an error.
type TDKResult struct {
	Word     string       `json:"word"`
	Meanings []TDKMeaning `json:"meanings"`
}

// MovieRating groups the review-site scores of a movie.
type MovieRating struct {
	IMDB      string `json:"imdb"`
	Metascore string `json:"metascore"`
}

// MovieResult is the /api/movie response payload.
type MovieResult struct {
	Title    string       `json:"title"`
	Found    bool         `json:"found"`
	Error    string       `json:"error,omitempty"`
	Year     string       `json:"year,omitempty"`
	Rating   *MovieRating `json:"rating,omitempty"`
	Genre    string       `json:"genre,omitempty"`
	Director string       `json:"director,omitempty"`
	Actors   string       `json:"actors,omitempty"`
	Plot     string       `json:"plot,omitempty"`
	Poster   *string      `json:"poster,omitempty"`
	Runtime  string       `json:"runtime,omitempty"`
	Language string       `json:"language,omitempty"`
	Country  string       `json:"country,omitempty"`
}

// CurrencyResult is the /api/currency response payload.
type CurrencyResult struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Rate  *float64 `json:"rate"`
	Date  string   `json:"date,omitempty"`
	Base  string   `json:"base,omitempty"`
	Error string   `json:"error,omitempty"`
	Found bool     `json:"found"`
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Earthquake is one seismic event, normalized across sources.
type Earthquake struct {
	Magnitude   string      `json:"magnitude"`
	Location    string      `json:"location"`
	Time        string      `json:"time"`
	Depth       string      `json:"depth"`
	Coordinates Coordinates `json:"coordinates"`
	Source      string      `json:"source"`
}

// EarthquakeLatestResult is the /api/earthquake/latest response payload.
type EarthquakeLatestResult struct {
	Country    string      `json:"country"`
	Found      bool        `json:"found"`
	Error      string      `json:"error,omitempty"`
	Earthquake *Earthquake `json:"earthquake,omitempty"`
}

// EarthquakeListResult is the /api/earthquake/last response payload.
type EarthquakeListResult struct {
	Country     string       `json:"country"`
	Limit       int          `json:"limit"`
	Found       bool         `json:"found"`
	Count       int          `json:"count"`
	Earthquakes []Earthquake `json:"earthquakes"`
}

// VideoChannel describes the channel a video belongs to.
type VideoChannel struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	URL             string `json:"url"`
	SubscriberCount int64  `json:"subscriber_count"`
	Verified        bool   `json:"verified"`
}

// FallbackInfo records which extraction methods failed before one succeeded.
type FallbackInfo struct {
	FailedMethods string `json:"failed_methods"`
	Note          string `json:"note"`
}

// VideoMetadata is the /api/yt response payload.
type VideoMetadata struct {
	VideoID          string        `json:"video_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Duration         string        `json:"duration"`
	DurationSeconds  int64         `json:"duration_seconds"`
	ViewCount        string        `json:"view_count"`
	ViewCountRaw     int64         `json:"view_count_raw"`
	LikeCount        int64         `json:"like_count"`
	UploadDate       string        `json:"upload_date"`
	Uploader         string        `json:"uploader"`
	Thumbnail        string        `json:"thumbnail"`
	WebpageURL       string        `json:"webpage_url"`
	MP3URL           *string       `json:"mp3_url"`
	MP4URL           *string       `json:"mp4_url"`
	DownloadStatus   string        `json:"download_status"`
	Channel          VideoChannel  `json:"channel"`
	Resolution       string        `json:"resolution"`
	FPS              float64       `json:"fps"`
	Filesize         int64         `json:"filesize"`
	FormatID         string        `json:"format_id"`
	Categories       []string      `json:"categories"`
	Tags             []string      `json:"tags"`
	AgeRestricted    bool          `json:"age_restricted"`
	AgeLimit         int           `json:"age_limit"`
	ExtractionMethod string        `json:"extraction_method"`
	ExtractedAt      string        `json:"extracted_at"`
	FallbackInfo     *FallbackInfo `json:"fallback_info,omitempty"`
}

// ChannelResult is the /api/ytch response payload.
type ChannelResult struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	URL             string  `json:"url"`
	Avatar          *string `json:"avatar"`
	Description     string  `json:"description"`
	Banner          *string `json:"banner"`
	SubscriberCount string  `json:"subscriber_count"`
}

// WeatherLocation identifies the place a weather reading applies to.
type WeatherLocation struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	State       *string `json:"state"`
	Coordinates struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
}

// WeatherReading is the current-conditions block of a weather response.
type WeatherReading struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	Description   string  `json:"description"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	Visibility    float64 `json:"visibility"`
	Clouds        int     `json:"clouds"`
	UVIndex       float64 `json:"uv_index"`
}

// WeatherResult is the /api/weather response payload.
type WeatherResult struct {
	Location  WeatherLocation `json:"location"`
	Weather   WeatherReading  `json:"weather"`
	Timestamp string          `json:"timestamp"`
}

// ImageResult is the /api/i response payload. ImageURL points at an
// ephemeral artifact; ImageData carries the same bytes base64-encoded.
type ImageResult struct {
	Prompt       string  `json:"prompt"`
	Type         string  `json:"type"`
	Model        string  `json:"model"`
	ImageURL     string  `json:"image_url"`
	ImageDataURL string  `json:"image_data_url"`
	ImageData    string  `json:"image_data"`
	TextResponse *string `json:"text_response"`
	Format       string  `json:"format"`
	ExpiresIn    string  `json:"expires_in"`
}

// IPResult is the /api/ipcheck response payload. The os/processor/browser/
// screen fields always carry the client-detection sentinel since they cannot
// be derived server-side.
type IPResult struct {
	IP           string  `json:"ip"`
	Country      string  `json:"country"`
	CountryCode  string  `json:"country_code"`
	State        string  `json:"state"`
	City         string  `json:"city"`
	PostalCode   string  `json:"postal_code"`
	ISP          string  `json:"isp"`
	Organization string  `json:"organization"`
	ASNumber     string  `json:"as_number"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Timezone     string  `json:"timezone"`
	OS           string  `json:"os"`
	Processor    string  `json:"processor"`
	Browser      string  `json:"browser"`
	Screen       string  `json:"screen"`
}

// Verdict is a moderation decision. Status is either a boolean (type
// "boolean") or a percentage string like "%85" (type "yuzdeli").
type Verdict struct {
	Boolean *bool
	Percent string
	Comment string
}

// MarshalJSON emits {"status": <bool|string>, "comment": <string>} with the
// status shape depending on the verdict kind.
func (v Verdict) MarshalJSON() ([]byte, error) {
	out := struct {
		Status  interface{} `json:"status"`
		Comment string      `json:"comment"`
	}{Comment: v.Comment}
	if v.Boolean != nil {
		out.Status = *v.Boolean
	} else {
		out.Status = v.Percent
	}
	return json.Marshal(out)
}

// ModerationResult is the /api/check response payload.
type ModerationResult struct {
	Type        string  `json:"type"`
	ContentType string  `json:"content_type"`
	Content     string  `json:"content"`
	Moderation  Verdict `json:"moderation"`
	Model       string  `json:"model"`
}
