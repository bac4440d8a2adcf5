// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/config"
	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/tempstore"
)

// envelope mirrors the response wrapper for decoding in assertions.
type envelope struct {
	Success  bool                     `json:"success"`
	Data     json.RawMessage          `json:"data"`
	Error    string                   `json:"error"`
	Details  []map[string]interface{} `json:"details"`
	AIAnswer *string                  `json:"ai_answer"`
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			Timeout:         5 * time.Second,
			ShutdownTimeout: time.Second,
			CORSOrigins:     []string{"*"},
		},
		Logging:   config.LoggingConfig{Level: "error", Format: "json"},
		Gemini:    config.GeminiConfig{Timeout: 5 * time.Second},
		Temp:      config.TempConfig{Dir: t.TempDir(), TTL: 5 * time.Minute},
		Upstream:  config.UpstreamConfig{Timeout: 5 * time.Second, ExtractTimeout: 5 * time.Second},
		RateLimit: config.RateLimitConfig{Disabled: true},
	}
}

// newTestServer builds a server with the system key set and every
// provider pointed nowhere in particular; tests override the base URLs
// they exercise.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := testConfig(t)
	store, err := tempstore.New(cfg.Temp.Dir, cfg.Temp.TTL)
	if err != nil {
		t.Fatalf("tempstore.New: %v", err)
	}
	return NewServer(cfg, gemini.NewClient("sys-key", cfg.Gemini.Timeout), store)
}

func doRequest(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.9:4242"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope from %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

// fakeGemini serves minimal generateContent responses with a fixed text.
func fakeGemini(t *testing.T, text string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": text}},
				}},
			},
			"usageMetadata": map[string]int{
				"promptTokenCount":     7,
				"candidatesTokenCount": 3,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Errorf("encode response: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestValidationFailures(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	targets := []struct {
		name   string
		target string
	}{
		{"ai missing query", "/api/ai"},
		{"ai image and video", "/api/ai?query=x&image=abc&video=https://example.com/v.mp4"},
		{"tts neither query nor ai", "/api/ai/tts"},
		{"tts both query and ai", "/api/ai/tts?query=hi&ai=hey"},
		{"tts custom model with query", "/api/ai/tts?query=hi&model=gemini-2.5-pro"},
		{"wiki bad type", "/api/wiki?q=x&type=bogus"},
		{"earthquake limit not a number", "/api/earthquake/last?country=turkey&limit=abc"},
		{"earthquake limit over cap", "/api/earthquake/last?country=turkey&limit=99"},
		{"check no content", "/api/check"},
		{"translate missing target", "/api/translate?q=hello"},
		{"video missing prompt", "/api/ai/video?link=https://example.com/v.mp4"},
		{"autosub bad lang", "/api/ai/autosub?myaudiolink=https://example.com/a.mp3&lang=de"},
	}

	for _, tc := range targets {
		t.Run(tc.name, func(t *testing.T) {
			rec, env := doRequest(t, router, tc.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if env.Success {
				t.Error("success = true, want false")
			}
			if env.Error != "Invalid request parameters" {
				t.Errorf("error = %q", env.Error)
			}
			if len(env.Details) == 0 {
				t.Error("details missing from validation failure")
			}
		})
	}
}

func TestAIEndpoint(t *testing.T) {
	s := newTestServer(t)
	srv := fakeGemini(t, "Merhaba!")
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/ai?query=selam")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !env.Success {
		t.Fatal("success = false")
	}

	var data struct {
		Response string `json:"response"`
		Model    string `json:"model"`
		Usage    struct {
			InputTokens  int `json:"input_tokens"`
			OutputTokens int `json:"output_tokens"`
		} `json:"usage"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Response != "Merhaba!" {
		t.Errorf("response = %q", data.Response)
	}
	if data.Model != "gemini-2.5-flash" {
		t.Errorf("model = %q", data.Model)
	}
	if data.Usage.InputTokens != 7 || data.Usage.OutputTokens != 3 {
		t.Errorf("usage = %+v", data.Usage)
	}
}

func TestAIEndpointNoKey(t *testing.T) {
	cfg := testConfig(t)
	store, err := tempstore.New(cfg.Temp.Dir, cfg.Temp.TTL)
	if err != nil {
		t.Fatal(err)
	}
	s := NewServer(cfg, gemini.NewClient("", cfg.Gemini.Timeout), store)

	rec, env := doRequest(t, s.Router(), "/api/ai?query=selam")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error != "No Gemini API key available" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestTranslateEndpoint(t *testing.T) {
	s := newTestServer(t)

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Good morning"}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/translate?q=günaydın&to=english")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		OriginalText   string `json:"original_text"`
		TranslatedText string `json:"translated_text"`
		SourceLanguage string `json:"source_language"`
		TargetLanguage string `json:"target_language"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.TranslatedText != "Good morning" {
		t.Errorf("translated_text = %q", data.TranslatedText)
	}
	if data.SourceLanguage != "auto" || data.TargetLanguage != "english" {
		t.Errorf("languages = %q -> %q", data.SourceLanguage, data.TargetLanguage)
	}
	if !strings.Contains(gotBody, "ENGLISH diline çevir") {
		t.Errorf("prompt does not uppercase the target language: %s", gotBody)
	}
}

func TestWikiEndpointWithAI(t *testing.T) {
	s := newTestServer(t)

	wikiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Ankara","extract":"Başkent.","content_urls":{"desktop":{"page":"https://tr.wikipedia.org/wiki/Ankara"}}}`))
	}))
	t.Cleanup(wikiSrv.Close)
	s.wiki.BaseOverride = wikiSrv.URL

	srv := fakeGemini(t, "Ankara hakkında özet.")
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/wiki?q=Ankara&ai=Bu+şehri+anlat")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if env.AIAnswer == nil || *env.AIAnswer != "Ankara hakkında özet." {
		t.Errorf("ai_answer = %v", env.AIAnswer)
	}

	var data struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Title != "Ankara" || data.Summary != "Başkent." {
		t.Errorf("data = %+v", data)
	}
}

func TestWikiEndpointWithoutAIOmitsAnswer(t *testing.T) {
	s := newTestServer(t)

	wikiSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"title":"Ankara","extract":"Başkent."}`))
	}))
	t.Cleanup(wikiSrv.Close)
	s.wiki.BaseOverride = wikiSrv.URL

	rec, env := doRequest(t, s.Router(), "/api/wiki?q=Ankara")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.AIAnswer != nil {
		t.Errorf("ai_answer present without an ai parameter: %q", *env.AIAnswer)
	}
	if strings.Contains(rec.Body.String(), "ai_answer") {
		t.Error("ai_answer key serialized despite nil value")
	}
}

func TestWeatherNotFoundIsNotServerError(t *testing.T) {
	s := newTestServer(t)

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current_condition":[],"nearest_area":[]}`))
	}))
	t.Cleanup(weatherSrv.Close)
	s.weather.BaseURL = weatherSrv.URL

	rec, env := doRequest(t, s.Router(), "/api/weather?place=nowhere")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if env.Success {
		t.Error("success = true, want false")
	}
	if env.Error != "Weather data not found for this location" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestIPCheckInvalidAddress(t *testing.T) {
	s := newTestServer(t)

	ipSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"fail","message":"invalid query"}`))
	}))
	t.Cleanup(ipSrv.Close)
	s.ipinfo.BaseURL = ipSrv.URL

	rec, env := doRequest(t, s.Router(), "/api/ipcheck?ip=not-an-ip")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if env.Error != "invalid query" {
		t.Errorf("error = %q", env.Error)
	}
}

func TestCheckTextVerdict(t *testing.T) {
	s := newTestServer(t)
	srv := fakeGemini(t, `{"status": true, "comment": "uygun"}`)
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/check?q=merhaba")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Type        string `json:"type"`
		ContentType string `json:"content_type"`
		Content     string `json:"content"`
		Moderation  struct {
			Status  interface{} `json:"status"`
			Comment string      `json:"comment"`
		} `json:"moderation"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Type != "boolean" || data.ContentType != "text" || data.Content != "merhaba" {
		t.Errorf("data = %+v", data)
	}
	if status, ok := data.Moderation.Status.(bool); !ok || !status {
		t.Errorf("moderation.status = %v", data.Moderation.Status)
	}
	if data.Moderation.Comment != "uygun" {
		t.Errorf("moderation.comment = %q", data.Moderation.Comment)
	}
}

func TestImageGenStoresArtifact(t *testing.T) {
	s := newTestServer(t)

	// A 1x1 transparent PNG, base64 of real PNG bytes.
	const png = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"bir kedi"},{"inlineData":{"mimeType":"image/png","data":"` + png + `"}}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/i?prompt=kedi")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		ImageURL     string  `json:"image_url"`
		ImageDataURL string  `json:"image_data_url"`
		TextResponse *string `json:"text_response"`
		ExpiresIn    string  `json:"expires_in"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(data.ImageURL, "/temp/") {
		t.Errorf("image_url = %q", data.ImageURL)
	}
	if !strings.HasPrefix(data.ImageDataURL, "data:image/png;base64,") {
		t.Errorf("image_data_url = %q", data.ImageDataURL)
	}
	if data.TextResponse == nil || *data.TextResponse != "bir kedi" {
		t.Errorf("text_response = %v", data.TextResponse)
	}
	if data.ExpiresIn != "5 minutes" {
		t.Errorf("expires_in = %q", data.ExpiresIn)
	}
}

func TestTTSEndpoint(t *testing.T) {
	s := newTestServer(t)

	// PCM payload, base64 of "audio-bytes".
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/pcm","data":"YXVkaW8tYnl0ZXM="}}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	s.gemini.SetBaseURL(srv.URL)

	rec, env := doRequest(t, s.Router(), "/api/ai/tts?query=merhaba")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		AudioURL        string `json:"audio_url"`
		Voice           string `json:"voice"`
		Text            string `json:"text"`
		GeneratedFromAI bool   `json:"generated_from_ai"`
		ExpiresIn       string `json:"expires_in"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(data.AudioURL, "/temp/") || !strings.HasSuffix(data.AudioURL, ".wav") {
		t.Errorf("audio_url = %q", data.AudioURL)
	}
	if data.Voice != "Zephyr" {
		t.Errorf("voice = %q", data.Voice)
	}
	if data.Text != "merhaba" || data.GeneratedFromAI {
		t.Errorf("text = %q, generated_from_ai = %v", data.Text, data.GeneratedFromAI)
	}
	if data.ExpiresIn != "5 minutes" {
		t.Errorf("expires_in = %q", data.ExpiresIn)
	}
}

func TestVideoUnderstandingYouTubeDirect(t *testing.T) {
	s := newTestServer(t)

	var gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Bir klip."}]}}]}`))
	}))
	t.Cleanup(srv.Close)
	s.gemini.SetBaseURL(srv.URL)

	link := "https://www.youtube.com/watch?v=dQw4w9WgXcQ"
	rec, env := doRequest(t, s.Router(), "/api/ai/video?link="+link+"&prompt=ne+oluyor")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var data struct {
		Response         string `json:"response"`
		IsYouTube        bool   `json:"is_youtube"`
		ProcessingMethod string `json:"processing_method"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Response != "Bir klip." {
		t.Errorf("response = %q", data.Response)
	}
	if !data.IsYouTube || data.ProcessingMethod != "direct_youtube" {
		t.Errorf("is_youtube = %v, processing_method = %q", data.IsYouTube, data.ProcessingMethod)
	}
	if !strings.Contains(gotBody, "dQw4w9WgXcQ") {
		t.Errorf("request does not reference the video: %s", gotBody)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s := newTestServer(t)
	router := s.Router()

	// Drive one failed request so the log has an entry besides stats itself.
	doRequest(t, router, "/api/ai")

	rec, env := doRequest(t, router, "/api/stats")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var data struct {
		TotalRequests int `json:"totalRequests"`
		EndpointCount int `json:"endpointCount"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.TotalRequests < 2 {
		t.Errorf("totalRequests = %d, want at least 2", data.TotalRequests)
	}
	if data.EndpointCount != endpointCount {
		t.Errorf("endpointCount = %d", data.EndpointCount)
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	rec, env := doRequest(t, s.Router(), "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !env.Success {
		t.Error("success = false")
	}
}
