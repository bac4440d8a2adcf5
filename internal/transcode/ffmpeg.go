// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package transcode converts downloaded audio into a format the AI
// provider accepts, by invoking an external ffmpeg binary. Transcoding
// failures are fatal for the request that needed them.
package transcode

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
)

// supportedAudioTypes are the content types the AI provider ingests
// directly; anything else is transcoded to MP3 first.
var supportedAudioTypes = map[string]bool{
	"audio/wav":  true,
	"audio/mpeg": true,
	"audio/mp3":  true,
	"audio/aiff": true,
	"audio/aac":  true,
	"audio/ogg":  true,
	"audio/flac": true,
}

// IsSupportedAudio reports whether contentType can be uploaded as-is.
func IsSupportedAudio(contentType string) bool {
	return supportedAudioTypes[contentType]
}

// Transcoder shells out to ffmpeg. WorkDir holds the intermediate files;
// it defaults to the OS temp directory.
type Transcoder struct {
	FFmpegPath string
	WorkDir    string
}

// New returns a transcoder using the given ffmpeg binary.
func New(ffmpegPath string) *Transcoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Transcoder{
		FFmpegPath: ffmpegPath,
		WorkDir:    os.TempDir(),
	}
}

// ToMP3 converts arbitrary audio or video input to 128k 44100Hz MP3 and
// returns the encoded bytes. Intermediate files are always removed.
func (t *Transcoder) ToMP3(ctx context.Context, input []byte) ([]byte, error) {
	token := uuid.New().String()
	inPath := filepath.Join(t.WorkDir, "input_"+token)
	outPath := filepath.Join(t.WorkDir, "output_"+token+".mp3")
	defer func() {
		os.Remove(inPath)
		os.Remove(outPath)
	}()

	if err := os.WriteFile(inPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write transcode input: %w", err)
	}

	cmd := exec.CommandContext(ctx, t.FFmpegPath,
		"-i", inPath,
		"-vn",
		"-acodec", "mp3",
		"-ab", "128k",
		"-ar", "44100",
		"-y",
		outPath,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg conversion failed: %w: %s", err, truncate(out, 256))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transcode output: %w", err)
	}
	return data, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}
