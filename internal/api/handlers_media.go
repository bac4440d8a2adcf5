// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/models"
	"github.com/kebapcore/entegrapi/internal/providers"
	"github.com/kebapcore/entegrapi/internal/transcode"
)

const (
	methodDirectYouTube = "direct_youtube"
	methodFileUpload    = "file_upload"
)

// HandleVideoUnderstanding serves /api/ai/video: prompts the model about a
// video. YouTube links go to the model directly; anything else is
// downloaded and pushed through the file upload protocol.
func (s *Server) HandleVideoUnderstanding(w http.ResponseWriter, r *http.Request) {
	req, verr := bindVideoRequest(r)
	if verr != nil {
		s.logUsage("/api/ai/video", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/ai/video", req.Key, false, msgNoKey)
		respondError(w, http.StatusInternalServerError, msgNoKey)
		return
	}

	_, idErr := providers.ExtractVideoID(req.Link)
	isYouTube := idErr == nil

	parts := []gemini.Part{{Text: req.Prompt}}
	method := methodDirectYouTube
	if isYouTube {
		parts = append(parts, gemini.Part{FileData: &gemini.FileData{FileURI: req.Link}})
	} else {
		method = methodFileUpload
		data, contentType, err := s.fetchMedia(r.Context(), req.Link, "video/mp4")
		if err != nil {
			msg := err.Error()
			if errors.Is(err, errFileTooLarge) {
				msg = msgVideoTooLarge
			}
			s.logUsage("/api/ai/video", req.Key, false, msg)
			respondError(w, http.StatusInternalServerError, msg)
			return
		}

		name := fmt.Sprintf("video_%d.%s", time.Now().UnixMilli(), extFromContentType(contentType, "mp4"))
		handle, err := s.gemini.UploadFile(r.Context(), key, data, name, contentType)
		if err != nil {
			s.logUsage("/api/ai/video", req.Key, false, err.Error())
			respondUpstreamError(w, err)
			return
		}
		defer handle.Close(r.Context())
		parts = append(parts, gemini.Part{FileData: &gemini.FileData{FileURI: handle.URI()}})
	}

	resp, err := s.gemini.GenerateContent(r.Context(), key, req.Model, &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: parts}},
	})
	if err != nil {
		s.logUsage("/api/ai/video", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/ai/video", req.Key, true, "")
	respondData(w, models.VideoUnderstandingResult{
		Response:         textOr(resp.Text(), "Video analizi başarısız oldu"),
		VideoURL:         req.Link,
		Prompt:           req.Prompt,
		Model:            req.Model,
		IsYouTube:        isYouTube,
		ProcessingMethod: method,
		Usage:            resp.Usage(),
	}, nil)
}

// HandleAutoSub serves /api/ai/autosub: timestamped transcription of a
// remote audio file. Unsupported formats are converted to MP3 first.
func (s *Server) HandleAutoSub(w http.ResponseWriter, r *http.Request) {
	req, verr := bindAutoSubRequest(r)
	if verr != nil {
		s.logUsage("/api/ai/autosub", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/ai/autosub", req.Key, false, msgNoKeyTranscription)
		respondError(w, http.StatusInternalServerError, msgNoKeyTranscription)
		return
	}

	systemPrompt, userPrompt := autosubPrompts(req.Lang)
	if req.Prompt != "" {
		userPrompt = req.Prompt
	}

	data, contentType, err := s.fetchMedia(r.Context(), req.AudioLink, "audio/mpeg")
	if err != nil {
		msg := err.Error()
		if errors.Is(err, errFileTooLarge) {
			msg = msgAudioTooLarge
		}
		s.logUsage("/api/ai/autosub", req.Key, false, msg)
		respondError(w, http.StatusInternalServerError, msg)
		return
	}

	if !transcode.IsSupportedAudio(contentType) {
		converted, err := s.ffmpeg.ToMP3(r.Context(), data)
		if err != nil {
			msg := "Audio conversion failed: " + err.Error()
			s.logUsage("/api/ai/autosub", req.Key, false, msg)
			respondError(w, http.StatusInternalServerError, msg)
			return
		}
		data = converted
		contentType = "audio/mpeg"
	}

	name := fmt.Sprintf("audio_%d.mp3", time.Now().UnixMilli())
	handle, err := s.gemini.UploadFile(r.Context(), key, data, name, "audio/mpeg")
	if err != nil {
		s.logUsage("/api/ai/autosub", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}
	defer handle.Close(r.Context())

	resp, err := s.gemini.GenerateContent(r.Context(), key, req.Model, &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{
			{Text: userPrompt},
			{FileData: &gemini.FileData{FileURI: handle.URI()}},
		}}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: systemPrompt}}},
	})
	if err != nil {
		s.logUsage("/api/ai/autosub", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	language := req.Lang
	if language == "" {
		language = "auto"
	}

	s.logUsage("/api/ai/autosub", req.Key, true, "")
	respondData(w, models.TranscriptResult{
		AudioURL:         req.AudioLink,
		Transcript:       textOr(resp.Text(), "Transkripsiyon başarısız oldu"),
		Format:           "timestamped",
		Language:         language,
		CustomPrompt:     req.Prompt != "",
		PromptUsed:       userPrompt,
		Model:            req.Model,
		ProcessingMethod: methodFileUpload,
		Usage:            resp.Usage(),
	}, nil)
}

// HandleImageGen serves /api/i and /api/i/{prompt}: image generation via
// either the multimodal or the dedicated image model, stored ephemerally
// and also returned inline as base64.
func (s *Server) HandleImageGen(w http.ResponseWriter, r *http.Request) {
	prompt := chi.URLParam(r, "prompt")
	req, verr := bindImageGenRequest(r, prompt)
	if verr != nil {
		s.logUsage("/api/i", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/i", req.Key, false, msgNoKeyImageGen)
		respondError(w, http.StatusInternalServerError, msgNoKeyImageGen)
		return
	}

	var imageData string
	var textResponse *string
	if req.Type == "imagen" {
		imageData, err = s.gemini.GenerateImagen(r.Context(), key, req.Prompt)
	} else {
		imageData, textResponse, err = s.gemini.GenerateImage(r.Context(), key, req.Model, req.Prompt)
	}
	if err != nil {
		s.logUsage("/api/i", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	decoded, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		s.logUsage("/api/i", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	imageURL, err := s.temp.PutPNG(decoded)
	if err != nil {
		s.logUsage("/api/i", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/i", req.Key, true, "")
	respondData(w, models.ImageResult{
		Prompt:       req.Prompt,
		Type:         req.Type,
		Model:        req.Model,
		ImageURL:     imageURL,
		ImageDataURL: "data:image/png;base64," + imageData,
		ImageData:    imageData,
		TextResponse: textResponse,
		Format:       "both",
		ExpiresIn:    "5 minutes",
	}, nil)
}
