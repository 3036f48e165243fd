// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package config holds all application configuration, loaded in layers:
//
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML config file (config.yaml)
//  3. Environment variables: override any setting
//
// Config is immutable after Load() and safe for concurrent reads.
package config

import "time"

// Config is the root configuration for the Gazetteer service.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Sync     SyncConfig     `koanf:"sync"`
	Lint     LintConfig     `koanf:"lint"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// UpstreamConfig holds connection settings for the BTC Map API.
type UpstreamConfig struct {
	// BaseURL is the root of the upstream API, e.g. https://api.btcmap.org.
	BaseURL string `koanf:"base_url"`
	// StaticBaseURL serves uploaded area icons.
	StaticBaseURL string `koanf:"static_base_url"`
	// Token authenticates RPC (mutating) calls. Read-only endpoints work
	// without it.
	Token   string        `koanf:"token"`
	Timeout time.Duration `koanf:"timeout"`
}

// SyncConfig controls the area sync engine.
type SyncConfig struct {
	// Interval between periodic incremental syncs. Zero disables the
	// periodic runner.
	Interval time.Duration `koanf:"interval"`
	// BatchSize is the page size requested from the upstream listing
	// endpoint.
	BatchSize int `koanf:"batch_size"`
	// Pause inserted between consecutive batch fetches.
	Pause time.Duration `koanf:"pause"`
	// FullOnStartup forces the first sync to rebuild the cache from the
	// full-history epoch.
	FullOnStartup bool `koanf:"full_on_startup"`
}

// LintConfig tunes the lint rules.
type LintConfig struct {
	// VerifiedMaxAge is how old a verified:date may be before the
	// verified-stale rule fires.
	VerifiedMaxAge time.Duration `koanf:"verified_max_age"`
	// IconDownloadTimeout bounds the icon fetch inside the migrate_icon
	// fixer.
	IconDownloadTimeout time.Duration `koanf:"icon_download_timeout"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8000,
			Timeout: 30 * time.Second,
		},
		Upstream: UpstreamConfig{
			BaseURL:       "https://api.btcmap.org",
			StaticBaseURL: "https://static.btcmap.org",
			Token:         "",
			Timeout:       30 * time.Second,
		},
		Sync: SyncConfig{
			Interval:      10 * time.Minute,
			BatchSize:     100,
			Pause:         100 * time.Millisecond,
			FullOnStartup: true,
		},
		Lint: LintConfig{
			VerifiedMaxAge:      365 * 24 * time.Hour,
			IconDownloadTimeout: 30 * time.Second,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
