// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

package config

import (
	"testing"
	"time"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:5000" {
		t.Errorf("Addr() = %q, want 0.0.0.0:5000", cfg.Server.Addr())
	}
	if cfg.Temp.TTL != 5*time.Minute {
		t.Errorf("Temp.TTL = %s, want 5m", cfg.Temp.TTL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port zero", func(c *Config) { c.Server.Port = 0 }},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }},
		{"zero server timeout", func(c *Config) { c.Server.Timeout = 0 }},
		{"zero ttl", func(c *Config) { c.Temp.TTL = 0 }},
		{"empty temp dir", func(c *Config) { c.Temp.Dir = "" }},
		{"zero upstream timeout", func(c *Config) { c.Upstream.Timeout = 0 }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"rate limit without budget", func(c *Config) { c.RateLimit.Requests = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, want error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"HTTP_PORT", "server.port"},
		{"GEMINI_API_KEY", "gemini.api_key"},
		{"TEMP_TTL", "temp.ttl"},
		{"FFMPEG_PATH", "tools.ffmpeg_path"},
		{"RANDOM_UNRELATED_VAR", ""},
	}
	for _, tt := range tests {
		if got := envTransformFunc(tt.in); got != tt.want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
