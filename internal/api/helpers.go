// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/models"
	"github.com/kebapcore/entegrapi/internal/validation"
)

// sanitizeLogValue removes control characters from strings to prevent log
// injection. Newlines and other control characters could let upstream error
// text forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON writes an envelope with proper headers.
func respondJSON(w http.ResponseWriter, status int, env *models.Envelope) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(env)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData writes a success envelope. aiAnswer is attached only when the
// caller asked for augmentation; a nil pointer omits the field entirely.
func respondData(w http.ResponseWriter, data interface{}, aiAnswer *string) {
	respondJSON(w, http.StatusOK, &models.Envelope{
		Success:  true,
		Data:     data,
		AIAnswer: aiAnswer,
	})
}

// respondError writes a failure envelope.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &models.Envelope{Success: false, Error: message})
}

// respondUpstreamError logs and maps an upstream failure to a 500 with the
// error text in the envelope.
func respondUpstreamError(w http.ResponseWriter, err error) {
	logging.Error().Str("error", sanitizeLogValue(err.Error())).Msg("upstream request failed")
	respondError(w, http.StatusInternalServerError, err.Error())
}

// respondValidationError writes the standard 400 envelope with per-field
// details when the error carries them.
func respondValidationError(w http.ResponseWriter, verr *validation.RequestValidationError) {
	env := &models.Envelope{Success: false, Error: msgInvalidRequest}
	if verr != nil {
		env.Details = verr.Details()
	}
	respondJSON(w, http.StatusBadRequest, env)
}
