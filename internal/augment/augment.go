// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package augment layers an AI commentary pass over upstream data. The
// endpoint result is serialized as context and handed to the model with
// the caller's question; failures never break the data response, they
// degrade into an error string in the ai_answer field.
package augment

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/logging"
)

const systemInstruction = "Sen verilen veri kontekstini kullanarak kullanıcının sorularını yanıtlayan bir asistansın. Verileri analiz et ve anlamlı içgörüler sun."

// Analyzer runs augmentation passes against a shared AI client.
type Analyzer struct {
	client *gemini.Client
}

// New creates an Analyzer.
func New(client *gemini.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze answers prompt against the serialized data context and returns
// the text for the ai_answer field. Any failure, including a missing API
// key, is folded into the returned string so the data payload still ships.
func (a *Analyzer) Analyze(ctx context.Context, userKey, model, prompt string, data interface{}) string {
	key, err := a.client.ResolveKey(userKey)
	if err != nil {
		return failureMessage(err)
	}

	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return failureMessage(err)
	}

	full := "Veri konteksti: " + string(pretty) + "\n\nKullanıcı sorusu: " + prompt

	text, _, err := a.client.GenerateText(ctx, key, model, full, systemInstruction)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("augmentation pass failed")
		return failureMessage(err)
	}
	if text == "" {
		return "No response generated"
	}
	return text
}

func failureMessage(err error) string {
	msg := "Bilinmeyen hata"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return "AI analizi başarısız oldu: " + msg
}
