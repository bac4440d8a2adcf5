// EntegrAPI - Unified Data and AI Gateway
// Copyright 2026 kebapcore
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kebapcore/entegrapi

// Package config loads the gateway configuration from layered sources:
// built-in defaults, an optional YAML file, and environment variables,
// in increasing order of precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the gateway.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Temp      TempConfig      `koanf:"temp"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Tools     ToolsConfig     `koanf:"tools"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GeminiConfig holds the generative-AI provider settings. APIKey is the
// system default; callers may override it per request. An empty APIKey
// does not prevent startup, it only fails AI-dependent requests that do
// not bring their own key.
type GeminiConfig struct {
	APIKey  string        `koanf:"api_key"`
	Timeout time.Duration `koanf:"timeout"`
}

// TempConfig holds the ephemeral artifact store settings.
type TempConfig struct {
	Dir string        `koanf:"dir"`
	TTL time.Duration `koanf:"ttl"`
}

// UpstreamConfig bounds calls to public data providers.
type UpstreamConfig struct {
	Timeout time.Duration `koanf:"timeout"`
	// ExtractTimeout bounds each video-metadata extraction attempt.
	ExtractTimeout time.Duration `koanf:"extract_timeout"`
}

// RateLimitConfig throttles inbound requests per client IP.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Disabled bool          `koanf:"disabled"`
}

// ToolsConfig names the external binaries used for media handling.
type ToolsConfig struct {
	YtDlpPath     string `koanf:"ytdlp_path"`
	YoutubeDlPath string `koanf:"youtubedl_path"`
	FFmpegPath    string `koanf:"ffmpeg_path"`
}

// Validate checks loaded values for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in [1, 65535], got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	if c.Temp.TTL <= 0 {
		return fmt.Errorf("temp.ttl must be positive, got %s", c.Temp.TTL)
	}
	if c.Temp.Dir == "" {
		return fmt.Errorf("temp.dir must not be empty")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	if !c.RateLimit.Disabled && c.RateLimit.Requests <= 0 {
		return fmt.Errorf("rate_limit.requests must be positive, got %d", c.RateLimit.Requests)
	}
	return nil
}
