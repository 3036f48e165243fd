// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/models"
	areasync "github.com/btcmap/gazetteer/internal/sync"
)

// TriggerSync starts a sync run. ?full=true replays history from the epoch.
// Returns 409 when a sync is already running; concurrent syncs are rejected,
// never queued.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	full := parseBoolParam(r, "full", false)

	summary, err := h.engine.Run(r.Context(), full)
	if errors.Is(err, areasync.ErrSyncInProgress) {
		respondError(w, http.StatusConflict, models.ErrCodeConflict,
			"A sync is already in progress", nil)
		return
	}
	if err != nil {
		// Partial runs keep their progress; report the summary alongside
		// the upstream failure.
		respondJSON(w, http.StatusBadGateway, &models.APIResponse{
			Status: models.StatusError,
			Data:   summary,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
				RequestID: logging.RequestIDFromContext(r.Context()),
			},
			Error: &models.APIError{
				Code:    models.ErrCodeUpstream,
				Message: "Sync finished partially: " + err.Error(),
			},
		})
		return
	}

	respondSuccess(w, r, http.StatusOK, summary)
}

// SyncStatus reports the sync cursor, last success and in-flight progress.
func (h *Handler) SyncStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, h.cache.Status())
}

// LintResults lists per-area lint reports. Defaults to areas with issues;
// pass ?issues_only=false for the full inventory.
func (h *Handler) LintResults(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r, true)
	results := h.cache.Results(f)

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"areas": results,
		"count": len(results),
	})
}

// LintSummary returns aggregate lint counters over the filtered areas.
func (h *Handler) LintSummary(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r, false)
	respondSuccess(w, r, http.StatusOK, h.cache.Summary(f))
}

// LintRules lists the rule registry.
func (h *Handler) LintRules(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"rules": lint.AllRules(),
	})
}

// LintTags lists the tag names present across cached areas, for building
// tag filter UIs. Excludes geo_json, which is too large to filter on.
func (h *Handler) LintTags(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"tags": h.cache.AvailableTags(),
	})
}

// LintCountries lists countries that contain at least one community, with
// community counts, sorted by name.
func (h *Handler) LintCountries(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"countries": h.cache.CountriesWithCommunities(),
	})
}

// AreaReport returns the lint report for one area. The area is re-fetched
// from upstream and re-linted first so the report reflects current data
// rather than the last sync; on upstream failure the cached report is
// served.
func (h *Handler) AreaReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	h.refreshArea(r, id)

	report, ok := h.cache.Report(id)
	if !ok {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound,
			"Area not found in lint cache", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, report)
}

// fixRequest is the body for POST /lint/areas/{id}/fix.
type fixRequest struct {
	Action string `json:"action" validate:"required"`
}

// FixArea executes a named fix action against one area and re-lints it on
// success. Fix failures are reported in the result payload, not as HTTP
// errors; 400 is reserved for unknown actions.
func (h *Handler) FixArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req fixRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			"Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	action, err := models.ParseFixAction(req.Action)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			err.Error(), nil)
		return
	}

	result, err := h.fixer.Apply(r.Context(), action, id)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			err.Error(), err)
		return
	}

	if result.Success {
		h.refreshArea(r, id)
	}

	respondSuccess(w, r, http.StatusOK, result)
}

// refreshArea re-fetches an area from upstream and re-lints it so the cache
// reflects a mutation immediately instead of waiting for the next sync.
func (h *Handler) refreshArea(r *http.Request, id string) {
	area, err := h.client.GetArea(r.Context(), id)
	if err != nil || area == nil {
		logging.Warn().
			Err(err).
			Str("area_id", sanitizeLogValue(id)).
			Msg("Failed to refresh area after mutation")
		return
	}
	h.cache.Upsert(area, time.Now())
	h.cache.DetectAliasClashes()
}
