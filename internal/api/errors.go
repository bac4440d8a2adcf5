// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package api provides the HTTP handlers for the EntegrAPI gateway.
//
// errors.go - Public error message constants
//
// These strings are part of the API contract; clients match on them.
package api

const (
	msgInvalidRequest = "Invalid request parameters"

	msgNoKey              = "No Gemini API key available"
	msgNoKeyImageGen      = "No Gemini API key available for image generation"
	msgNoKeyImageCheck    = "No Gemini API key available for image moderation"
	msgNoKeyContentCheck  = "No Gemini API key available for content moderation"
	msgNoKeyTranscription = "No Gemini API key available for audio transcription"

	msgVideoTooLarge      = "Video file too large. Maximum size is 100MB."
	msgAudioTooLarge      = "Audio file too large. Maximum size is 100MB."
	msgCheckVideoTooLarge = "Video file too large for content moderation"
)

// maxUploadBytes caps downloaded media before the upload protocol.
const maxUploadBytes = 100 * 1024 * 1024
