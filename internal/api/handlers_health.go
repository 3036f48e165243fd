// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"net/http"
	"time"
)

// Health returns overall service health. The service is degraded until the
// first sync has completed, since lint results would be empty or stale.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := h.cache.Status()

	state := "healthy"
	if status.LastSync == nil {
		state = "degraded"
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"status":       state,
		"cached_areas": h.cache.Len(),
		"last_sync":    status.LastSync,
		"is_syncing":   status.IsSyncing,
		"uptime":       time.Since(h.startTime).Seconds(),
	})
}

// HealthLive is the liveness probe. Returns 200 whenever the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady is the readiness probe. The service is ready once the lint
// cache has been populated by at least one sync.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	status := h.cache.Status()
	if status.LastSync == nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY",
			"Lint cache has not been populated yet", nil)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"ready":     true,
		"last_sync": status.LastSync,
	})
}
