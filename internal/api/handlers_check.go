// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/models"
	"github.com/kebapcore/entegrapi/internal/providers"
)

// HandleCheck serves /api/check: content moderation over an image, a text
// snippet or a video. The i parameter selects the image branch; otherwise
// exactly one of q and v picks text or video moderation.
func (s *Server) HandleCheck(w http.ResponseWriter, r *http.Request) {
	req, verr := bindCheckRequest(r)
	if verr != nil {
		s.logUsage("/api/check", req.Key, false, verr.Error())
		respondValidationError(w, verr)
		return
	}

	if req.ImageURL != "" {
		s.checkImage(w, r, req)
		return
	}
	s.checkContent(w, r, req)
}

// checkImage moderates a remote image passed inline to the model.
func (s *Server) checkImage(w http.ResponseWriter, r *http.Request, req *CheckRequest) {
	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/check", req.Key, false, msgNoKeyImageCheck)
		respondError(w, http.StatusInternalServerError, msgNoKeyImageCheck)
		return
	}

	data, contentType, err := s.fetchMedia(r.Context(), req.ImageURL, "image/jpeg")
	if err != nil {
		s.logUsage("/api/check", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	systemPrompt := gemini.BuildModerationPrompt(req.Type, req.Prompt, true)
	resp, err := s.gemini.GenerateContent(r.Context(), key, req.Model, &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: []gemini.Part{
			{Text: "Bu görüntüyü analiz et ve uygunluğunu değerlendir."},
			{InlineData: &gemini.Blob{MIMEType: contentType, Data: base64.StdEncoding.EncodeToString(data)}},
		}}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: systemPrompt}}},
	})
	if err != nil {
		s.logUsage("/api/check", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/check", req.Key, true, "")
	respondData(w, models.ModerationResult{
		Type:        req.Type,
		ContentType: "image",
		Content:     req.ImageURL,
		Moderation:  gemini.ParseVerdict(textOr(resp.Text(), "{}"), req.Type),
		Model:       req.Model,
	}, nil)
}

// checkContent moderates a text snippet or a video. The moderation rules
// ride in the text part itself rather than a system instruction.
func (s *Server) checkContent(w http.ResponseWriter, r *http.Request, req *CheckRequest) {
	key, err := s.gemini.ResolveKey(req.Key)
	if err != nil {
		s.logUsage("/api/check", req.Key, false, msgNoKeyContentCheck)
		respondError(w, http.StatusInternalServerError, msgNoKeyContentCheck)
		return
	}

	systemPrompt := gemini.BuildModerationPrompt(req.Type, req.Prompt, false)

	var parts []gemini.Part
	contentType := "text"
	content := req.Text
	var cleanup func(context.Context)

	if req.VideoURL != "" {
		contentType = "video"
		content = req.VideoURL
		parts, cleanup, err = s.videoCheckParts(r.Context(), key, systemPrompt, req.VideoURL)
		if err != nil {
			s.logUsage("/api/check", req.Key, false, msgCheckVideoTooLarge)
			respondError(w, http.StatusInternalServerError, msgCheckVideoTooLarge)
			return
		}
		if cleanup != nil {
			defer cleanup(r.Context())
		}
	} else {
		userPrompt := fmt.Sprintf("Bu metin uygun mu? \"%s\"", req.Text)
		parts = []gemini.Part{{Text: systemPrompt + "\n\n" + userPrompt}}
	}

	resp, err := s.gemini.GenerateContent(r.Context(), key, req.Model, &gemini.GenerateRequest{
		Contents: []gemini.Content{{Parts: parts}},
	})
	if err != nil {
		s.logUsage("/api/check", req.Key, false, err.Error())
		respondUpstreamError(w, err)
		return
	}

	s.logUsage("/api/check", req.Key, true, "")
	respondData(w, models.ModerationResult{
		Type:        req.Type,
		ContentType: contentType,
		Content:     content,
		Moderation:  gemini.ParseVerdict(textOr(resp.Text(), "{}"), req.Type),
		Model:       req.Model,
	}, nil)
}

// videoCheckParts builds the request parts for video moderation. YouTube
// links reference the video directly. Other URLs are downloaded and
// uploaded; when that fails the model falls back to judging the URL alone.
// Only an oversized download is a hard error.
func (s *Server) videoCheckParts(ctx context.Context, key, systemPrompt, videoURL string) ([]gemini.Part, func(context.Context), error) {
	combined := systemPrompt + "\n\n" + "Bu video uygun mu?"

	if _, err := providers.ExtractVideoID(videoURL); err == nil {
		return []gemini.Part{
			{Text: combined},
			{FileData: &gemini.FileData{FileURI: videoURL}},
		}, nil, nil
	}

	urlOnly := []gemini.Part{{Text: systemPrompt +
		"\n\nVideo URL analizi: " + videoURL +
		"\n\nBu video URL'inin içeriği uygun mu? Video dosya adından, URL'den ve erişebildiğin bilgilerden değerlendirme yap."}}

	data, contentType, err := s.fetchMedia(ctx, videoURL, "video/mp4")
	if err != nil {
		if errors.Is(err, errFileTooLarge) {
			return nil, nil, err
		}
		return urlOnly, nil, nil
	}

	name := fmt.Sprintf("check_video_%d.%s", time.Now().UnixMilli(), extFromContentType(contentType, "mp4"))
	handle, err := s.gemini.UploadFile(ctx, key, data, name, contentType)
	if err != nil {
		return urlOnly, nil, nil
	}

	return []gemini.Part{
		{Text: combined},
		{FileData: &gemini.FileData{FileURI: handle.URI()}},
	}, handle.Close, nil
}
