// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package tempstore

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestStore(t *testing.T) (*Store, *time.Time) {
	t.Helper()
	current := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	s, err := New(t.TempDir(), 5*time.Minute)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.SetClock(func() time.Time { return current })
	return s, &current
}

func TestPutAndSweepLifecycle(t *testing.T) {
	s, clock := newTestStore(t)

	url, err := s.Put("tts", ".wav", []byte("payload"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !strings.HasPrefix(url, "/temp/tts_") {
		t.Errorf("url = %q, want /temp/tts_ prefix", url)
	}

	path := filepath.Join(s.Dir(), strings.TrimPrefix(url, "/temp/"))
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact missing right after Put: %v", err)
	}

	// Not yet expired
	*clock = clock.Add(4 * time.Minute)
	if n := s.Sweep(); n != 0 {
		t.Errorf("Sweep before deadline removed %d files", n)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("artifact removed before deadline: %v", err)
	}

	// Past the deadline
	*clock = clock.Add(2 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep after deadline removed %d files, want 1", n)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("artifact still present after sweep: %v", err)
	}
	if s.PendingCount() != 0 {
		t.Errorf("PendingCount = %d, want 0", s.PendingCount())
	}
}

func TestSweepOnlyRemovesExpired(t *testing.T) {
	s, clock := newTestStore(t)

	if _, err := s.Put("img", ".png", []byte("a")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	*clock = clock.Add(3 * time.Minute)
	if _, err := s.Put("img", ".png", []byte("b")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// First artifact is 6 minutes old, second only 3.
	*clock = clock.Add(3 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d files, want 1", n)
	}
	if s.PendingCount() != 1 {
		t.Errorf("PendingCount = %d, want 1", s.PendingCount())
	}
}

func TestConcurrentPutsNeverCollide(t *testing.T) {
	s, _ := newTestStore(t)

	const writers = 32
	urls := make([]string, writers)

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			url, err := s.Put("tts", ".wav", []byte{byte(n)})
			if err != nil {
				t.Errorf("Put: %v", err)
				return
			}
			urls[n] = url
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, writers)
	for _, u := range urls {
		if seen[u] {
			t.Fatalf("duplicate artifact url %q", u)
		}
		seen[u] = true
	}

	files, err := os.ReadDir(s.Dir())
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(files) != writers {
		t.Errorf("found %d files, want %d", len(files), writers)
	}
}

func TestEncodeWAVHeaderRoundTrip(t *testing.T) {
	pcm := make([]byte, 4800) // 100ms of 24kHz 16-bit mono
	wav := EncodeWAV(pcm)

	if len(wav) != 44+len(pcm) {
		t.Fatalf("len = %d, want %d", len(wav), 44+len(pcm))
	}
	if string(wav[0:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatal("missing RIFF/WAVE markers")
	}
	if string(wav[12:16]) != "fmt " || string(wav[36:40]) != "data" {
		t.Fatal("missing fmt/data sub-chunks")
	}

	if rate := binary.LittleEndian.Uint32(wav[24:28]); rate != 24000 {
		t.Errorf("sample rate = %d, want 24000", rate)
	}
	if bits := binary.LittleEndian.Uint16(wav[34:36]); bits != 16 {
		t.Errorf("bits per sample = %d, want 16", bits)
	}
	if ch := binary.LittleEndian.Uint16(wav[22:24]); ch != 1 {
		t.Errorf("channels = %d, want 1", ch)
	}
	if size := binary.LittleEndian.Uint32(wav[40:44]); int(size) != len(pcm) {
		t.Errorf("data chunk size = %d, want %d", size, len(pcm))
	}
	if fileSize := binary.LittleEndian.Uint32(wav[4:8]); int(fileSize) != 36+len(pcm) {
		t.Errorf("riff size = %d, want %d", fileSize, 36+len(pcm))
	}
}
