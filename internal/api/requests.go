// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/kebapcore/entegrapi/internal/gemini"
	"github.com/kebapcore/entegrapi/internal/providers"
	"github.com/kebapcore/entegrapi/internal/validation"
)

// Request structs bind query parameters and carry validation tags. Defaults
// are applied during binding so the tags only express constraints.

func queryOr(q url.Values, key, def string) string {
	if v := q.Get(key); v != "" {
		return v
	}
	return def
}

// AIRequest is the /api/ai query. Image and Video are mutually exclusive.
type AIRequest struct {
	Query  string `validate:"required"`
	Image  string `validate:"omitempty,excluded_with=Video"`
	Video  string `validate:"omitempty,url,excluded_with=Image"`
	Model  string
	System string
	Key    string
}

func bindAIRequest(r *http.Request) (*AIRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &AIRequest{
		Query:  q.Get("query"),
		Image:  q.Get("image"),
		Video:  q.Get("video"),
		Model:  queryOr(q, "model", gemini.DefaultModel),
		System: q.Get("system"),
		Key:    q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// TTSRequest is the /api/ai/tts query. Exactly one of Query and AI must be
// set, and Model may only deviate from the default alongside AI.
type TTSRequest struct {
	Query string `validate:"required_without=AI,excluded_with=AI"`
	AI    string
	Voice string
	Model string
	Key   string
}

func bindTTSRequest(r *http.Request) (*TTSRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &TTSRequest{
		Query: q.Get("query"),
		AI:    q.Get("ai"),
		Voice: queryOr(q, "name", gemini.DefaultVoice),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	if verr := validation.ValidateStruct(req); verr != nil {
		return req, verr
	}
	// Model customization is an AI-generation knob only.
	if req.Query != "" && req.Model != gemini.DefaultModel {
		return req, validation.NewRequestValidationError("Model", "excluded_with", "Model parameter cannot be used with query parameter")
	}
	return req, nil
}

// URLContextRequest is the /api/ai/urlcontext query.
type URLContextRequest struct {
	Query string `validate:"required"`
	Model string
	Key   string
}

func bindURLContextRequest(r *http.Request) (*URLContextRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &URLContextRequest{
		Query: q.Get("q"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// TranslateRequest is the /api/translate query.
type TranslateRequest struct {
	Query  string `validate:"required"`
	Target string `validate:"required"`
	Key    string
}

func bindTranslateRequest(r *http.Request) (*TranslateRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &TranslateRequest{
		Query:  q.Get("q"),
		Target: q.Get("to"),
		Key:    q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// VideoRequest is the /api/ai/video query.
type VideoRequest struct {
	Link   string `validate:"required,url"`
	Prompt string `validate:"required"`
	Model  string
	Key    string
}

func bindVideoRequest(r *http.Request) (*VideoRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &VideoRequest{
		Link:   q.Get("link"),
		Prompt: q.Get("prompt"),
		Model:  queryOr(q, "model", gemini.DefaultModel),
		Key:    q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// AutoSubRequest is the /api/ai/autosub query.
type AutoSubRequest struct {
	AudioLink string `validate:"required,url"`
	Prompt    string
	Lang      string `validate:"omitempty,oneof=tr en"`
	Model     string
	Key       string
}

func bindAutoSubRequest(r *http.Request) (*AutoSubRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &AutoSubRequest{
		AudioLink: q.Get("myaudiolink"),
		Prompt:    q.Get("prompt"),
		Lang:      q.Get("lang"),
		Model:     queryOr(q, "model", gemini.DefaultModel),
		Key:       q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// WikiRequest is the /api/wiki query.
type WikiRequest struct {
	Query string `validate:"required"`
	Type  string `validate:"oneof=wikipedia wikiquote"`
	Lang  string
	AI    string
	Model string
	Key   string
}

func bindWikiRequest(r *http.Request) (*WikiRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &WikiRequest{
		Query: q.Get("q"),
		Type:  queryOr(q, "type", providers.WikiTypeWikipedia),
		Lang:  queryOr(q, "lang", "tr"),
		AI:    q.Get("ai"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// TDKRequest is the /api/tdk query.
type TDKRequest struct {
	Query string `validate:"required"`
	AI    string
	Model string
	Key   string
}

func bindTDKRequest(r *http.Request) (*TDKRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &TDKRequest{
		Query: q.Get("query"),
		AI:    q.Get("ai"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// LinkRequest is the shared shape of /api/yt and /api/ytch queries.
type LinkRequest struct {
	Link  string `validate:"required,url"`
	AI    string
	Model string
	Key   string
}

func bindLinkRequest(r *http.Request) (*LinkRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &LinkRequest{
		Link:  q.Get("link"),
		AI:    q.Get("ai"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// QueryRequest is the shared shape of /api/movie and /api/weather style
// single-term queries.
type QueryRequest struct {
	Query string `validate:"required"`
	AI    string
	Model string
	Key   string
}

func bindQueryRequest(r *http.Request, param string) (*QueryRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &QueryRequest{
		Query: q.Get(param),
		AI:    q.Get("ai"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// CurrencyRequest is the /api/currency query.
type CurrencyRequest struct {
	From  string `validate:"required"`
	To    string `validate:"required"`
	AI    string
	Model string
	Key   string
}

func bindCurrencyRequest(r *http.Request) (*CurrencyRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &CurrencyRequest{
		From:  q.Get("q"),
		To:    q.Get("to"),
		AI:    q.Get("ai"),
		Model: queryOr(q, "model", gemini.DefaultModel),
		Key:   q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// EarthquakeRequest is the /api/earthquake/{latest,last} query. Limit only
// applies to the list form.
type EarthquakeRequest struct {
	Country string `validate:"required"`
	Limit   int    `validate:"gte=1,lte=50"`
	AI      string
	Model   string
	Key     string
}

func bindEarthquakeRequest(r *http.Request, withLimit bool) (*EarthquakeRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &EarthquakeRequest{
		Country: q.Get("country"),
		Limit:   10,
		AI:      q.Get("ai"),
		Model:   queryOr(q, "model", gemini.DefaultModel),
		Key:     q.Get("key"),
	}
	if !withLimit {
		req.Limit = 1
		return req, validation.ValidateStruct(req)
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, validation.NewRequestValidationError("Limit", "numeric", "Limit must be an integer")
		}
		req.Limit = n
	}
	return req, validation.ValidateStruct(req)
}

// ImageGenRequest is the /api/i query (both the path and query forms).
type ImageGenRequest struct {
	Prompt string `validate:"required"`
	Type   string `validate:"oneof=gemini imagen"`
	Model  string
	Key    string
}

func bindImageGenRequest(r *http.Request, prompt string) (*ImageGenRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	if prompt == "" {
		prompt = q.Get("prompt")
	}
	req := &ImageGenRequest{
		Prompt: prompt,
		Type:   queryOr(q, "type", "gemini"),
		Model:  queryOr(q, "model", gemini.DefaultImageModel),
		Key:    q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}

// CheckRequest is the /api/check query. An image check sets ImageURL; a
// content check sets exactly one of Text and VideoURL.
type CheckRequest struct {
	Text     string `validate:"required_without_all=VideoURL ImageURL,excluded_with=VideoURL ImageURL"`
	VideoURL string `validate:"omitempty,url,excluded_with=ImageURL"`
	ImageURL string `validate:"omitempty,url"`
	Type     string `validate:"oneof=boolean yuzdeli"`
	Prompt   string
	Model    string
	Key      string
}

func bindCheckRequest(r *http.Request) (*CheckRequest, *validation.RequestValidationError) {
	q := r.URL.Query()
	req := &CheckRequest{
		Text:     q.Get("q"),
		VideoURL: q.Get("v"),
		ImageURL: q.Get("i"),
		Type:     queryOr(q, "type", gemini.VerdictBoolean),
		Prompt:   q.Get("prompt"),
		Model:    queryOr(q, "model", gemini.DefaultModel),
		Key:      q.Get("key"),
	}
	return req, validation.ValidateStruct(req)
}
