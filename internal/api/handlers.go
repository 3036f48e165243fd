// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"net/http"
	"time"

	"github.com/btcmap/gazetteer/internal/cache"
	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/models"
	"github.com/btcmap/gazetteer/internal/rpc"
	areasync "github.com/btcmap/gazetteer/internal/sync"
)

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	cache     *cache.LintCache
	engine    *areasync.Engine
	fixer     *lint.Fixer
	client    rpc.ClientInterface
	startTime time.Time
}

// NewHandler creates a handler with its dependencies.
func NewHandler(lintCache *cache.LintCache, engine *areasync.Engine, fixer *lint.Fixer, client rpc.ClientInterface) *Handler {
	return &Handler{
		cache:     lintCache,
		engine:    engine,
		fixer:     fixer,
		client:    client,
		startTime: time.Now(),
	}
}

// respondUpstreamError maps an upstream failure to an HTTP error response.
func respondUpstreamError(w http.ResponseWriter, err error) {
	if rpc.IsUpstreamError(err) {
		respondError(w, http.StatusBadGateway, models.ErrCodeUpstream,
			"Upstream BTC Map API request failed", err)
		return
	}
	respondError(w, http.StatusInternalServerError, models.ErrCodeInternal,
		"Internal error", err)
}
