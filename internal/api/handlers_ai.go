// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/models"
)

// textOr returns the fallback when a model produced no usable text.
func textOr(text, fallback string) string {
	if text == "" {
		return fallback
	}
	return text
}

// HandleAI serves /api/ai: free-form text generation with optional inline
// image or referenced video input.
func (s *Server) HandleAI(w http.ResponseWriter, r *http.Request) {
	req, verr := bindAIRequest(r)
	if verr != nil {
		s.logUsage("/api/ai", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/ai", req.Key, false, msgNoKey)
		respondError(w, http.StatusInternalServerError, msgNoKey)
		return
	}

	parts := []gemini.Part{{Text: req.Query}}
	if req.Image != "" {
		parts = append(parts, gemini.Part{InlineData: &gemini.Blob{MIMEType: "image/jpeg", Data: req.Image}})
	}
	if req.Video != "" {
		parts = append(parts, gemini.Part{FileData: &gemini.FileData{FileURI: req.Video}})
	}

	genReq := &gemini.GenerateRequest{Contents: []gemini.Content{{Parts: parts}}}
	if req.System != "" {
		genReq.SystemInstruction = &gemini.Content{Parts: []gemini.Part{{Text: req.System}}}
	}

	resp, err := s.gemini.GenerateContent(r.Context(), key, req.Model, genReq)
	if err != nil {
		s.logUsage("/api/ai", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/ai", req.Key, true, "")
	respondData(w, models.TextResult{
		Response: textOr(resp.Text(), "No response generated"),
		Model:    req.Model,
		Usage:    resp.Usage(),
	}, nil)
}

// HandleTTS serves /api/ai/tts: speech synthesis from either literal text
// or AI-generated spoken content. The audio lands in the ephemeral store.
func (s *Server) HandleTTS(w http.ResponseWriter, r *http.Request) {
	req, verr := bindTTSRequest(r)
	if verr != nil {
		s.logUsage("/api/ai/tts", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/ai/tts", req.Key, false, msgNoKey)
		respondError(w, http.StatusInternalServerError, msgNoKey)
		return
	}

	textToSpeak := req.Query
	if req.AI != "" {
		generated, _, err := s.gemini.GenerateText(r.Context(), key, req.Model, req.AI, ttsContentPrompt)
		if err != nil {
			s.logUsage("/api/ai/tts", req.Key, false, err.Error())
			respondUpstreamError(w, err)
			return
		}
		textToSpeak = textOr(generated, "Metin üretimi başarısız oldu")
	}

	pcm, err := s.gemini.GenerateSpeech(r.Context(), key, req.Voice, textToSpeak)
	if err != nil {
		s.logUsage("/api/ai/tts", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	audioURL, err := s.temp.PutWAV(pcm)
	if err != nil {
		s.logUsage("/api/ai/tts", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/ai/tts", req.Key, true, "")
	respondData(w, models.TTSResult{
		AudioURL:        audioURL,
		Duration:        2.5,
		Voice:           req.Voice,
		Text:            textToSpeak,
		GeneratedFromAI: req.AI != "",
		ExpiresIn:       "5 minutes",
	}, nil)
}

// HandleURLContext serves /api/ai/urlcontext: answers grounded in content
// the model retrieves from URLs mentioned in the query.
func (s *Server) HandleURLContext(w http.ResponseWriter, r *http.Request) {
	req, verr := bindURLContextRequest(r)
	if verr != nil {
		s.logUsage("/api/ai/urlcontext", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/ai/urlcontext", req.Key, false, msgNoKey)
		respondError(w, http.StatusInternalServerError, msgNoKey)
		return
	}

	text, metadata, err := s.gemini.URLContext(r.Context(), key, req.Model, req.Query)
	if err != nil {
		s.logUsage("/api/ai/urlcontext", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/ai/urlcontext", req.Key, true, "")
	respondData(w, models.URLContextResult{
		Response:    textOr(text, "No response generated"),
		Model:       req.Model,
		URLMetadata: metadata,
	}, nil)
}

// HandleTranslate serves /api/translate. The model is fixed; translation
// quality knobs are not exposed.
func (s *Server) HandleTranslate(w http.ResponseWriter, r *http.Request) {
	req, verr := bindTranslateRequest(r)
	if verr != nil {
		s.logUsage("/api/translate", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/translate", req.Key, false, msgNoKey)
		respondError(w, http.StatusInternalServerError, msgNoKey)
		return
	}

	prompt := fmt.Sprintf("'%s' ifadesini %s diline çevir.", req.Query, strings.ToUpper(req.Target))
	text, _, err := s.gemini.GenerateText(r.Context(), key, gemini.DefaultModel, prompt, translateSystemPrompt)
	if err != nil {
		s.logUsage("/api/translate", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/translate", req.Key, true, "")
	respondData(w, models.TranslationResult{
		OriginalText:   req.Query,
		TranslatedText: textOr(text, "Translation failed"),
		SourceLanguage: "auto",
		TargetLanguage: req.Target,
	}, nil)
}
