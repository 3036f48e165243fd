// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateUpstream(); err != nil {
		return err
	}
	if err := c.validateSync(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("GAZETTEER_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("GAZETTEER_SERVER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("GAZETTEER_UPSTREAM_BASE_URL is required")
	}
	if err := validateHTTPURL(c.Upstream.BaseURL, "GAZETTEER_UPSTREAM_BASE_URL"); err != nil {
		return err
	}
	if c.Upstream.StaticBaseURL != "" {
		if err := validateHTTPURL(c.Upstream.StaticBaseURL, "GAZETTEER_UPSTREAM_STATIC_BASE_URL"); err != nil {
			return err
		}
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("GAZETTEER_UPSTREAM_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSync() error {
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("GAZETTEER_SYNC_BATCH_SIZE must be at least 1, got %d", c.Sync.BatchSize)
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("GAZETTEER_SYNC_INTERVAL must not be negative")
	}
	if c.Sync.Pause < 0 {
		return fmt.Errorf("GAZETTEER_SYNC_PAUSE must not be negative")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("GAZETTEER_RATE_LIMIT_REQUESTS must be at least 1, got %d", c.Security.RateLimitReqs)
	}
	if c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("GAZETTEER_RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("GAZETTEER_LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("GAZETTEER_LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that the value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme, got %q", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
