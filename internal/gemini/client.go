// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package gemini is the client for the generative-AI provider: text,
// speech, image and video generation, URL-context retrieval, the Files
// API large-asset upload protocol, and moderation verdict parsing.
//
// All generateContent traffic flows through a circuit breaker so a
// misbehaving provider cannot pile up requests.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/metrics"
	"github.com/kebapcore/entegrapi/internal/models"
)

const (
	// DefaultModel is used when a request does not name one.
	DefaultModel = "gemini-2.5-flash"

	// TTSModel is the fixed speech-synthesis model.
	TTSModel = "gemini-2.5-flash-preview-tts"

	// DefaultImageModel is the default image-generation model.
	DefaultImageModel = "gemini-2.0-flash-preview-image-generation"

	// ImagenModel is the predict-style image model.
	ImagenModel = "imagen-3.0-generate-002"

	// DefaultVoice is the default speech-synthesis voice.
	DefaultVoice = "Zephyr"

	// systemDefaultKey is the placeholder clients send to mean "use the
	// server's key"; it is never a real credential.
	systemDefaultKey = "system_default_key"

	defaultBaseURL = "https://generativelanguage.googleapis.com"
)

// ErrNoAPIKey is returned when neither the request nor the server
// configuration provides a usable credential. The message is part of the
// public API surface.
var ErrNoAPIKey = errors.New("No Gemini API key available")

// APIError carries an upstream non-2xx response.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Gemini API error: %d - %s", e.StatusCode, e.Body)
}

// Client talks to the generative-AI provider. Safe for concurrent use.
type Client struct {
	httpClient *http.Client
	baseURL    string
	systemKey  string
	cb         *gobreaker.CircuitBreaker[[]byte]

	// Upload-protocol polling knobs, replaceable in tests.
	pollInterval    time.Duration
	maxPollAttempts int
}

// NewClient creates a client. systemKey may be empty; requests then need
// a per-request key.
func NewClient(systemKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	cbName := "gemini-api"
	metrics.SetCircuitBreakerState(cbName, 0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.SetCircuitBreakerState(name, stateToFloat(to))
		},
	})

	return &Client{
		httpClient:      &http.Client{Timeout: timeout},
		baseURL:         defaultBaseURL,
		systemKey:       systemKey,
		cb:              cb,
		pollInterval:    time.Second,
		maxPollAttempts: 30,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// SetBaseURL redirects all provider traffic, for tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// SetPollInterval shortens the upload-protocol poll cadence, for tests.
func (c *Client) SetPollInterval(d time.Duration, maxAttempts int) {
	c.pollInterval = d
	c.maxPollAttempts = maxAttempts
}

// ResolveKey picks the credential for a request: the caller's key wins
// unless it is empty or the system-default placeholder, in which case the
// server key is used. Returns ErrNoAPIKey when neither is usable.
func (c *Client) ResolveKey(userKey string) (string, error) {
	if userKey != "" && userKey != systemDefaultKey {
		return userKey, nil
	}
	if c.systemKey != "" {
		return c.systemKey, nil
	}
	return "", ErrNoAPIKey
}

// Part is one element of a request content block. Exactly one field is set.
type Part struct {
	Text       string    `json:"text,omitempty"`
	InlineData *Blob     `json:"inline_data,omitempty"`
	FileData   *FileData `json:"file_data,omitempty"`
}

// Blob is inline binary content, base64-encoded.
type Blob struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// FileData references a remote asset by URI.
type FileData struct {
	FileURI string `json:"file_uri"`
}

// Content is an ordered list of parts.
type Content struct {
	Parts []Part `json:"parts"`
}

// PrebuiltVoiceConfig names a synthesis voice.
type PrebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

// VoiceConfig wraps the voice selection.
type VoiceConfig struct {
	PrebuiltVoiceConfig PrebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

// SpeechConfig configures audio output.
type SpeechConfig struct {
	VoiceConfig VoiceConfig `json:"voiceConfig"`
}

// GenerationConfig selects output modalities and speech settings.
type GenerationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *SpeechConfig `json:"speechConfig,omitempty"`
}

// Tool enables a provider-side tool.
type Tool struct {
	URLContext *struct{} `json:"url_context,omitempty"`
}

// GenerateRequest is the generateContent request body.
type GenerateRequest struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"system_instruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
}

// ResponseBlob is inline binary content in a response. The provider uses
// camelCase field names on the way back.
type ResponseBlob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// ResponsePart is one element of a response content block.
type ResponsePart struct {
	Text       string        `json:"text"`
	InlineData *ResponseBlob `json:"inlineData"`
}

// ResponseContent is the content block of a candidate.
type ResponseContent struct {
	Parts []ResponsePart `json:"parts"`
}

// Candidate is one generation result.
type Candidate struct {
	Content            *ResponseContent `json:"content"`
	URLContextMetadata json.RawMessage  `json:"url_context_metadata"`
}

// UsageMetadata carries token counters.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
}

// GenerateResponse is the generateContent response body.
type GenerateResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata"`
}

// Text returns the first text part of the first candidate, or "".
func (r *GenerateResponse) Text() string {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return ""
	}
	for _, p := range r.Candidates[0].Content.Parts {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}

// Usage returns the token counters, zeroed when absent.
func (r *GenerateResponse) Usage() models.TokenUsage {
	if r.UsageMetadata == nil {
		return models.TokenUsage{}
	}
	return models.TokenUsage{
		InputTokens:  r.UsageMetadata.PromptTokenCount,
		OutputTokens: r.UsageMetadata.CandidatesTokenCount,
	}
}

// GenerateContent calls models/{model}:generateContent with the resolved key.
func (c *Client) GenerateContent(ctx context.Context, key, model string, req *GenerateRequest) (*GenerateResponse, error) {
	if model == "" {
		model = DefaultModel
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, model, key)

	body, err := c.doPost(ctx, url, req)
	if err != nil {
		return nil, err
	}

	resp := &GenerateResponse{}
	if err := json.Unmarshal(body, resp); err != nil {
		return nil, fmt.Errorf("failed to decode generateContent response: %w", err)
	}
	return resp, nil
}

// GenerateText is the plain text-in text-out convenience call.
func (c *Client) GenerateText(ctx context.Context, key, model, prompt, system string) (string, models.TokenUsage, error) {
	req := &GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
	}
	if system != "" {
		req.SystemInstruction = &Content{Parts: []Part{{Text: system}}}
	}

	resp, err := c.GenerateContent(ctx, key, model, req)
	if err != nil {
		return "", models.TokenUsage{}, err
	}
	return resp.Text(), resp.Usage(), nil
}

// GenerateSpeech synthesizes text with the named voice and returns the raw
// 24kHz 16-bit mono PCM payload.
func (c *Client) GenerateSpeech(ctx context.Context, key, voice, text string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}

	req := &GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: text}}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &SpeechConfig{
				VoiceConfig: VoiceConfig{
					PrebuiltVoiceConfig: PrebuiltVoiceConfig{VoiceName: voice},
				},
			},
		},
	}

	resp, err := c.GenerateContent(ctx, key, TTSModel, req)
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("No audio data received from Gemini API")
	}
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode audio payload: %w", err)
			}
			return pcm, nil
		}
	}
	return nil, errors.New("No audio data received from Gemini API")
}

// GenerateImage asks a generateContent model for TEXT+IMAGE output and
// returns the base64 image plus any accompanying text.
func (c *Client) GenerateImage(ctx context.Context, key, model, prompt string) (string, *string, error) {
	if model == "" {
		model = DefaultImageModel
	}

	req := &GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: prompt}}}},
		GenerationConfig: &GenerationConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	}

	resp, err := c.GenerateContent(ctx, key, model, req)
	if err != nil {
		return "", nil, err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil, errors.New("no image generated in response")
	}

	var imageData string
	var textResponse *string
	for _, p := range resp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			imageData = p.InlineData.Data
		}
		if p.Text != "" {
			t := p.Text
			textResponse = &t
		}
	}
	if imageData == "" {
		return "", nil, errors.New("no image data found in response")
	}
	return imageData, textResponse, nil
}

// imagenRequest is the predict-style request body.
type imagenRequest struct {
	Instances []struct {
		Prompt string `json:"prompt"`
	} `json:"instances"`
	Parameters struct {
		SampleCount int `json:"sampleCount"`
	} `json:"parameters"`
}

type imagenResponse struct {
	Predictions []struct {
		BytesBase64Encoded string `json:"bytesBase64Encoded"`
	} `json:"predictions"`
}

// GenerateImagen generates one image via the predict endpoint and returns
// its base64 payload.
func (c *Client) GenerateImagen(ctx context.Context, key, prompt string) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:predict?key=%s", c.baseURL, ImagenModel, key)

	req := imagenRequest{}
	req.Instances = append(req.Instances, struct {
		Prompt string `json:"prompt"`
	}{Prompt: prompt})
	req.Parameters.SampleCount = 1

	body, err := c.doPost(ctx, url, req)
	if err != nil {
		return "", err
	}

	var resp imagenResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("failed to decode predict response: %w", err)
	}
	if len(resp.Predictions) == 0 || resp.Predictions[0].BytesBase64Encoded == "" {
		return "", errors.New("no image data found in response")
	}
	return resp.Predictions[0].BytesBase64Encoded, nil
}

// URLContext answers a query with the URL-context retrieval tool enabled
// and returns the text plus the provider's retrieval metadata.
func (c *Client) URLContext(ctx context.Context, key, model, query string) (string, json.RawMessage, error) {
	req := &GenerateRequest{
		Contents: []Content{{Parts: []Part{{Text: query}}}},
		Tools:    []Tool{{URLContext: &struct{}{}}},
	}

	resp, err := c.GenerateContent(ctx, key, model, req)
	if err != nil {
		return "", nil, err
	}

	var meta json.RawMessage
	if len(resp.Candidates) > 0 {
		meta = resp.Candidates[0].URLContextMetadata
	}
	return resp.Text(), meta, nil
}

// doPost sends a JSON POST through the circuit breaker and returns the
// raw response body.
func (c *Client) doPost(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	return c.cb.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		respBody, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		}
		return respBody, nil
	})
}
