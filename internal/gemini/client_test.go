// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package gemini

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestResolveKey(t *testing.T) {
	tests := []struct {
		name      string
		systemKey string
		userKey   string
		want      string
		wantErr   bool
	}{
		{"user key wins", "sys", "user", "user", false},
		{"placeholder falls back", "sys", "system_default_key", "sys", false},
		{"empty falls back", "sys", "", "sys", false},
		{"no key anywhere", "", "", "", true},
		{"placeholder without system key", "", "system_default_key", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient(tt.systemKey, time.Second)
			got, err := c.ResolveKey(tt.userKey)
			if tt.wantErr {
				if err != ErrNoAPIKey {
					t.Fatalf("expected ErrNoAPIKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("resolved key = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateText(t *testing.T) {
	var gotPath string
	var gotBody GenerateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		resp := GenerateResponse{
			Candidates: []Candidate{{
				Content: &ResponseContent{Parts: []ResponsePart{{Text: "merhaba"}}},
			}},
			UsageMetadata: &UsageMetadata{PromptTokenCount: 7, CandidatesTokenCount: 3},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	text, usage, err := c.GenerateText(context.Background(), "k", "gemini-2.5-flash", "selam", "sistem")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if text != "merhaba" {
		t.Errorf("text = %q", text)
	}
	if usage.InputTokens != 7 || usage.OutputTokens != 3 {
		t.Errorf("usage = %+v", usage)
	}
	if gotPath != "/v1beta/models/gemini-2.5-flash:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "sistem" {
		t.Errorf("system instruction not forwarded: %+v", gotBody.SystemInstruction)
	}
}

func TestGenerateTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	_, _, err := c.GenerateText(context.Background(), "k", "", "selam", "")
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestGenerateSpeech(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, TTSModel) {
			t.Errorf("unexpected model path %q", r.URL.Path)
		}
		var req GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.GenerationConfig == nil || len(req.GenerationConfig.ResponseModalities) != 1 || req.GenerationConfig.ResponseModalities[0] != "AUDIO" {
			t.Errorf("missing AUDIO modality: %+v", req.GenerationConfig)
		}
		if req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Kore" {
			t.Errorf("voice not forwarded")
		}
		resp := GenerateResponse{
			Candidates: []Candidate{{
				Content: &ResponseContent{Parts: []ResponsePart{{
					InlineData: &ResponseBlob{MIMEType: "audio/pcm", Data: base64.StdEncoding.EncodeToString(pcm)},
				}}},
			}},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	got, err := c.GenerateSpeech(context.Background(), "k", "Kore", "merhaba")
	if err != nil {
		t.Fatalf("GenerateSpeech: %v", err)
	}
	if string(got) != string(pcm) {
		t.Errorf("pcm mismatch: %v", got)
	}
}

func TestGenerateSpeechNoAudio(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{
				Content: &ResponseContent{Parts: []ResponsePart{{Text: "sorry"}}},
			}},
		})
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	_, err := c.GenerateSpeech(context.Background(), "k", "", "merhaba")
	if err == nil || !strings.Contains(err.Error(), "No audio data") {
		t.Fatalf("err = %v", err)
	}
}

func TestGenerateImagen(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "imagen-3.0-generate-002:predict") {
			t.Errorf("path = %q", r.URL.Path)
		}
		var req imagenRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Instances) != 1 || req.Instances[0].Prompt != "a cat" {
			t.Errorf("instances = %+v", req.Instances)
		}
		if req.Parameters.SampleCount != 1 {
			t.Errorf("sampleCount = %d", req.Parameters.SampleCount)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"predictions": []map[string]string{{"bytesBase64Encoded": "aW1n"}},
		})
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	b64, err := c.GenerateImagen(context.Background(), "k", "a cat")
	if err != nil {
		t.Fatalf("GenerateImagen: %v", err)
	}
	if b64 != "aW1n" {
		t.Errorf("b64 = %q", b64)
	}
}

func TestURLContext(t *testing.T) {
	meta := json.RawMessage(`{"url_metadata":[{"retrieved_url":"https://example.com"}]}`)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Tools) != 1 || req.Tools[0].URLContext == nil {
			t.Errorf("url_context tool missing: %+v", req.Tools)
		}
		json.NewEncoder(w).Encode(GenerateResponse{
			Candidates: []Candidate{{
				Content:            &ResponseContent{Parts: []ResponsePart{{Text: "özet"}}},
				URLContextMetadata: meta,
			}},
		})
	}))
	defer srv.Close()

	c := NewClient("sys", time.Second)
	c.SetBaseURL(srv.URL)

	text, gotMeta, err := c.URLContext(context.Background(), "k", "", "summarize https://example.com")
	if err != nil {
		t.Fatalf("URLContext: %v", err)
	}
	if text != "özet" {
		t.Errorf("text = %q", text)
	}
	if string(gotMeta) != string(meta) {
		t.Errorf("metadata = %s", gotMeta)
	}
}
