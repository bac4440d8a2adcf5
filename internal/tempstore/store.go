// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package tempstore writes generated binary artifacts (synthesized speech,
// generated images) to a scratch directory, serves them through a
// time-boxed /temp/ URL, and deletes them after a fixed TTL.
//
// Deletion is not a fire-and-forget timer: expired files sit in a
// deadline-ordered queue drained by a background sweeper, so tests can
// advance a virtual clock and sweep deterministically.
package tempstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kebapcore/entegrapi/internal/logging"
	"github.com/kebapcore/entegrapi/internal/metrics"
)

// URLPrefix is the static mount the artifacts are served under.
const URLPrefix = "/temp"

type entry struct {
	path     string
	deadline time.Time
}

// Store owns the scratch directory. Concurrent writers never collide
// because every artifact name embeds a timestamp and a random token.
type Store struct {
	dir string
	ttl time.Duration

	mu      sync.Mutex
	pending []entry
	now     func() time.Time
}

// New creates the scratch directory if absent and returns a store whose
// artifacts live for ttl after creation.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir %s: %w", dir, err)
	}
	return &Store{
		dir: dir,
		ttl: ttl,
		now: time.Now,
	}, nil
}

// Dir returns the scratch directory path.
func (s *Store) Dir() string { return s.dir }

// TTL returns the artifact lifetime.
func (s *Store) TTL() time.Duration { return s.ttl }

// SetClock replaces the time source. Tests only.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// Put writes data under a collision-resistant name like
// tts_1724800000000_3f9c2a1b.wav and returns its relative URL.
// The file is queued for deletion TTL from now.
func (s *Store) Put(prefix, ext string, data []byte) (string, error) {
	s.mu.Lock()
	now := s.now()
	s.mu.Unlock()

	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	name := fmt.Sprintf("%s_%d_%s%s", prefix, now.UnixMilli(), token, ext)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	s.mu.Lock()
	// ttl is fixed, so appending keeps the queue deadline-ordered
	s.pending = append(s.pending, entry{path: path, deadline: now.Add(s.ttl)})
	s.mu.Unlock()

	metrics.TempFilesCreated.Inc()
	metrics.TempFilesActive.Inc()

	return URLPrefix + "/" + name, nil
}

// PutWAV wraps pcm in a WAV container and stores it as a speech artifact.
func (s *Store) PutWAV(pcm []byte) (string, error) {
	return s.Put("tts", ".wav", EncodeWAV(pcm))
}

// PutPNG stores a generated image artifact.
func (s *Store) PutPNG(data []byte) (string, error) {
	return s.Put("img", ".png", data)
}

// Sweep removes every artifact whose deadline has passed and returns how
// many were removed. Deletion failures are logged, never raised.
func (s *Store) Sweep() int {
	s.mu.Lock()
	now := s.now()
	var expired []entry
	for len(s.pending) > 0 && !s.pending[0].deadline.After(now) {
		expired = append(expired, s.pending[0])
		s.pending = s.pending[1:]
	}
	s.mu.Unlock()

	for _, e := range expired {
		if err := os.Remove(e.path); err != nil && !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("file", e.path).Msg("failed to delete temp file")
			continue
		}
		logging.Debug().Str("file", filepath.Base(e.path)).Msg("deleted temp file")
		metrics.TempFilesDeleted.Inc()
		metrics.TempFilesActive.Dec()
	}
	return len(expired)
}

// PendingCount returns the number of artifacts awaiting deletion.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Serve implements suture.Service: it sweeps expired artifacts once per
// second until the context is canceled, then performs a final sweep.
func (s *Store) Serve(ctx context.Context) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.Sweep()
			return ctx.Err()
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *Store) String() string { return "temp-sweeper" }
