// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package gemini

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/metrics"
)

// File states reported by the Files API.
const (
	fileStateActive = "ACTIVE"
	fileStateFailed = "FAILED"
)

// ErrFileTimeout is returned when an uploaded asset never reaches ACTIVE
// within the polling budget.
var ErrFileTimeout = errors.New("File did not become ACTIVE within timeout period")

// FileHandle is a remote asset registered with the Files API. Callers must
// Close it when done so the remote copy is released.
type FileHandle struct {
	client *Client
	key    string

	uri  string
	name string

	mu     sync.Mutex
	closed bool
}

// URI returns the provider-side reference usable in FileData parts.
func (h *FileHandle) URI() string { return h.uri }

// Close deletes the remote asset. Best effort and idempotent; deletion
// failures are logged and swallowed because the provider garbage-collects
// files after 48 hours anyway.
func (h *FileHandle) Close(ctx context.Context) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.mu.Unlock()

	url := fmt.Sprintf("%s/v1beta/%s?key=%s", h.client.baseURL, h.name, h.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return
	}
	resp, err := h.client.httpClient.Do(req)
	if err != nil {
		logging.Warn().Err(err).Str("file", h.name).Msg("remote file cleanup failed")
		return
	}
	resp.Body.Close()
}

type uploadStartRequest struct {
	File struct {
		DisplayName string `json:"display_name"`
	} `json:"file"`
}

type fileMetadata struct {
	Name  string `json:"name"`
	URI   string `json:"uri"`
	State string `json:"state"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type uploadFinalizeResponse struct {
	File fileMetadata `json:"file"`
}

// UploadFile pushes a large asset through the resumable upload protocol and
// waits for it to become ACTIVE. The returned handle must be closed by the
// caller once the asset has been consumed.
func (c *Client) UploadFile(ctx context.Context, key string, data []byte, displayName, mimeType string) (*FileHandle, error) {
	uploadURL, err := c.startUpload(ctx, key, len(data), displayName, mimeType)
	if err != nil {
		metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	meta, err := c.finishUpload(ctx, uploadURL, data)
	if err != nil {
		metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	handle := &FileHandle{client: c, key: key, uri: meta.URI, name: meta.Name}

	if err := c.waitForActive(ctx, handle); err != nil {
		handle.Close(ctx)
		return nil, err
	}

	metrics.UploadProtocolTotal.WithLabelValues("active").Inc()
	return handle, nil
}

// startUpload opens a resumable session and returns the session URL.
func (c *Client) startUpload(ctx context.Context, key string, size int, displayName, mimeType string) (string, error) {
	var startReq uploadStartRequest
	startReq.File.DisplayName = displayName
	body, err := json.Marshal(startReq)
	if err != nil {
		return "", fmt.Errorf("failed to encode upload start: %w", err)
	}

	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.baseURL, key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create upload start request: %w", err)
	}
	req.Header.Set("X-Goog-Upload-Protocol", "resumable")
	req.Header.Set("X-Goog-Upload-Command", "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(size))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", mimeType)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload start failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	uploadURL := resp.Header.Get("X-Goog-Upload-URL")
	if uploadURL == "" {
		return "", errors.New("upload start response missing session URL")
	}
	return uploadURL, nil
}

// finishUpload sends the payload and finalizes the session.
func (c *Client) finishUpload(ctx context.Context, uploadURL string, data []byte) (*fileMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.ContentLength = int64(len(data))
	req.Header.Set("Content-Length", strconv.Itoa(len(data)))
	req.Header.Set("X-Goog-Upload-Offset", "0")
	req.Header.Set("X-Goog-Upload-Command", "upload, finalize")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var fin uploadFinalizeResponse
	if err := json.Unmarshal(respBody, &fin); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	if fin.File.URI == "" {
		return nil, errors.New("upload response missing file URI")
	}
	return &fin.File, nil
}

// waitForActive polls file metadata until the asset is ACTIVE, it fails
// server-side, or the attempt budget runs out.
func (c *Client) waitForActive(ctx context.Context, h *FileHandle) error {
	url := fmt.Sprintf("%s/v1beta/%s?key=%s", c.baseURL, h.name, h.key)

	for attempt := 1; attempt <= c.maxPollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
			return ctx.Err()
		case <-time.After(c.pollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to create poll request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("file poll failed: %w", err)
		}
		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to read poll response: %w", err)
		}

		var meta fileMetadata
		if err := json.Unmarshal(respBody, &meta); err != nil {
			metrics.UploadProtocolTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("failed to decode poll response: %w", err)
		}

		switch meta.State {
		case fileStateActive:
			metrics.UploadPollAttempts.Observe(float64(attempt))
			return nil
		case fileStateFailed:
			metrics.UploadPollAttempts.Observe(float64(attempt))
			metrics.UploadProtocolTotal.WithLabelValues("failed").Inc()
			msg := "unknown error"
			if meta.Error != nil && meta.Error.Message != "" {
				msg = meta.Error.Message
			}
			return fmt.Errorf("File processing failed: %s", msg)
		}
	}

	metrics.UploadPollAttempts.Observe(float64(c.maxPollAttempts))
	metrics.UploadProtocolTotal.WithLabelValues("timeout").Inc()
	return ErrFileTimeout
}
