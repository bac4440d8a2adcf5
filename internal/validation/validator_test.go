// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package validation

import (
	"strings"
	"testing"
)

type sampleRequest struct {
	Query string `validate:"required"`
	Image string `validate:"omitempty,excluded_with=Video"`
	Video string `validate:"omitempty,url,excluded_with=Image"`
	Limit int    `validate:"gte=1,lte=50"`
}

func TestValidateStructPasses(t *testing.T) {
	if verr := ValidateStruct(&sampleRequest{Query: "x", Limit: 10}); verr != nil {
		t.Fatalf("unexpected failure: %v", verr)
	}
}

func TestValidateStructTranslatesMessages(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{Limit: 99})
	if verr == nil {
		t.Fatal("expected validation failure")
	}

	details := verr.Details()
	messages := make([]string, 0, len(details))
	for _, d := range details {
		messages = append(messages, d["message"].(string))
	}
	joined := strings.Join(messages, "; ")

	if !strings.Contains(joined, "Query is required") {
		t.Errorf("missing required message in %q", joined)
	}
	if !strings.Contains(joined, "Limit must be less than or equal to 50") {
		t.Errorf("missing lte message in %q", joined)
	}
}

func TestValidateStructMutualExclusion(t *testing.T) {
	verr := ValidateStruct(&sampleRequest{
		Query: "x",
		Image: "data",
		Video: "https://example.com/v.mp4",
		Limit: 1,
	})
	if verr == nil {
		t.Fatal("expected mutual-exclusion failure")
	}

	var fields []string
	for _, fe := range verr.Errors() {
		fields = append(fields, fe.Field())
	}
	got := strings.Join(fields, ",")
	if !strings.Contains(got, "Image") && !strings.Contains(got, "Video") {
		t.Errorf("failed fields = %q, want Image or Video", got)
	}
}

func TestNewRequestValidationError(t *testing.T) {
	verr := NewRequestValidationError("Model", "excluded_with", "Model parameter cannot be used with query parameter")
	if verr.Error() != "Model parameter cannot be used with query parameter" {
		t.Errorf("Error() = %q", verr.Error())
	}
	details := verr.Details()
	if len(details) != 1 || details[0]["field"] != "Model" || details[0]["rule"] != "excluded_with" {
		t.Errorf("details = %+v", details)
	}
}
