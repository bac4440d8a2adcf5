// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package transcode

import (
	"context"
	"os"
	"testing"
)

func TestIsSupportedAudio(t *testing.T) {
	tests := []struct {
		contentType string
		want        bool
	}{
		{"audio/wav", true},
		{"audio/mpeg", true},
		{"audio/mp3", true},
		{"audio/aiff", true},
		{"audio/aac", true},
		{"audio/ogg", true},
		{"audio/flac", true},
		{"audio/webm", false},
		{"video/mp4", false},
		{"application/octet-stream", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsSupportedAudio(tt.contentType); got != tt.want {
			t.Errorf("IsSupportedAudio(%q) = %v, want %v", tt.contentType, got, tt.want)
		}
	}
}

func TestToMP3MissingBinary(t *testing.T) {
	tr := New("definitely-not-a-real-ffmpeg-binary")
	tr.WorkDir = t.TempDir()

	if _, err := tr.ToMP3(context.Background(), []byte("not audio")); err == nil {
		t.Fatal("ToMP3 with missing binary returned nil error")
	}

	// Intermediate files must not linger after failure.
	entries, err := os.ReadDir(tr.WorkDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("work dir not cleaned up: %d files remain", len(entries))
	}
}
