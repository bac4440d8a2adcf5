// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package models defines the response envelope and the normalized result
// types returned by every endpoint. Each provider's native response shape
// is mapped into one of these structs; fields the upstream did not supply
// carry an explicit sentinel ("Bilinmiyor"/"Unknown" or null) so consumers
// always see a stable shape.
package models

// Envelope is the uniform wrapper for every endpoint response.
//
// Success responses carry Data and, when an AI instruction was supplied,
// AIAnswer. Failure responses carry Error and, for validation failures,
// Details with one entry per violated rule.
type Envelope struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data,omitempty"`
	Error    string      `json:"error,omitempty"`
	Details  interface{} `json:"details,omitempty"`
	AIAnswer *string     `json:"ai_answer,omitempty"`
}

// TokenUsage reports prompt and completion token counts from a generation call.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}
