// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// errFileTooLarge flags a remote file over the upload limit. Handlers map
// it to their endpoint-specific message.
var errFileTooLarge = errors.New("remote file exceeds the upload limit")

// fetchMedia downloads a remote file for relay to the model. The body is
// capped at maxUploadBytes, and defaultContentType fills in for servers
// that omit the header.
func (s *Server) fetchMedia(ctx context.Context, rawURL, defaultContentType string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := s.upstream.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = defaultContentType
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxUploadBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(body)) > maxUploadBytes {
		return nil, "", errFileTooLarge
	}
	return body, contentType, nil
}

// extFromContentType derives a filename extension from a MIME type,
// falling back when the subtype is missing.
func extFromContentType(contentType, fallback string) string {
	if _, sub, ok := strings.Cut(contentType, "/"); ok && sub != "" {
		if base, _, found := strings.Cut(sub, ";"); found {
			return base
		}
		return sub
	}
	return fallback
}
