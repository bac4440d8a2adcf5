// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package gemini

import (
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/kebapcore/entegrapi/internal/models"
)

// Moderation verdict kinds.
const (
	VerdictBoolean = "boolean"
	VerdictPercent = "yuzdeli"
)

var (
	fencedJSONRe = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")
	percentRe    = regexp.MustCompile(`["%](\d+)["%]`)
)

// BuildModerationPrompt assembles the system instruction for a moderation
// pass. kind is VerdictBoolean or VerdictPercent, customRules is an
// optional extra rule block, and image selects the media-oriented wording.
func BuildModerationPrompt(kind, customRules string, image bool) string {
	var b strings.Builder

	if image {
		b.WriteString("Sen bir içerik moderasyon uzmanısın. ")
	} else {
		b.WriteString("Sen bir içerik moderasyon uzmanısın. Verilen içeriğin sosyal medya ve diğer platformlarda yayınlanmasının uygun olup olmadığını değerlendiriyorsun. İçeriği kontrol ediyorsun.")
	}

	if kind == VerdictPercent {
		b.WriteString("İçeriğin uygunluğunu 0-100 arası yüzde olarak değerlendir. ")
	} else {
		b.WriteString("İçeriğin uygun olup olmadığını true/false olarak değerlendir. ")
	}

	if customRules != "" {
		b.WriteString("Özel kurallar: ")
		b.WriteString(customRules)
		b.WriteString(". ")
	} else {
		b.WriteString("Genel kurallar: Çıplaklık, şiddet, nefret söylemi, çocuklara zarar verici içerik kontrol et. ")
	}

	if kind == VerdictPercent {
		b.WriteString(`Yanıtını şu JSON formatında ver: {"status": "%XX", "comment": "açıklama"}`)
	} else {
		b.WriteString(`Yanıtını şu JSON formatında ver: {"status": true/false, "comment": "açıklama"}`)
	}

	if !image {
		b.WriteString(" Ama '''Json gibi başına ve sonuna prefixler ekleme. Dümdüz JSON'u yaz. Markdownları sakın yazma.")
	}

	return b.String()
}

// verdictEnvelope is the strict-parse shape. Status may arrive as a bool
// or a percent string, so it stays raw until inspected.
type verdictEnvelope struct {
	Status  json.RawMessage `json:"status"`
	Comment string          `json:"comment"`
}

// ParseVerdict turns a model reply into a structured verdict. The model is
// asked for strict JSON but does not always comply, so parsing degrades
// through a fenced-block extraction, a strict parse, and finally pattern
// matching over the raw text. Unparseable replies get neutral defaults.
func ParseVerdict(text, kind string) models.Verdict {
	candidate := text
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidate = m[1]
	}

	var env verdictEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(candidate)), &env); err == nil && len(env.Status) > 0 {
		if v, ok := verdictFromStatus(env.Status, env.Comment, kind); ok {
			return v
		}
	}

	return verdictFromText(text, kind)
}

func verdictFromStatus(raw json.RawMessage, comment, kind string) (models.Verdict, bool) {
	if kind == VerdictPercent {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return models.Verdict{Percent: s, Comment: comment}, true
		}
		return models.Verdict{}, false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return models.Verdict{Boolean: &b, Comment: comment}, true
	}
	return models.Verdict{}, false
}

func verdictFromText(text, kind string) models.Verdict {
	if kind == VerdictPercent {
		percent := "%50"
		if m := percentRe.FindStringSubmatch(text); m != nil {
			percent = "%" + m[1]
		}
		return models.Verdict{Percent: percent, Comment: text}
	}

	lower := strings.ToLower(text)
	ok := strings.Contains(lower, "true") || strings.Contains(lower, "uygun")
	return models.Verdict{Boolean: &ok, Comment: text}
}
