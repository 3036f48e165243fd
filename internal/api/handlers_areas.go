// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/btcmap/gazetteer/internal/areas"
	"github.com/btcmap/gazetteer/internal/models"
)

// createAreaRequest is the body for POST /areas.
type createAreaRequest struct {
	Tags map[string]interface{} `json:"tags" validate:"required"`
}

// CreateArea validates an area's tags against its type schema and proxies
// the add to the upstream API. The new area is linted into the cache right
// away.
func (h *Handler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req createAreaRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			"Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	areaType := models.TagString(req.Tags[models.TagType])
	if areaType == "" {
		areaType = models.AreaTypeCommunity
		req.Tags[models.TagType] = areaType
	}

	if missing := areas.CheckRequired(areaType, req.Tags); len(missing) > 0 {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			"Missing required tags: "+strings.Join(missing, ", "), nil)
		return
	}

	for name, value := range req.Tags {
		spec := areas.LookupField(areaType, name)
		normalized, err := areas.ValidateValue(spec, value)
		if err != nil {
			respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
				fmt.Sprintf("%s: %v", name, err), nil)
			return
		}
		req.Tags[name] = normalized
	}

	area, err := h.client.AddArea(r.Context(), req.Tags)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if area != nil {
		h.refreshArea(r, area.ID.String())
	}

	respondSuccess(w, r, http.StatusCreated, area)
}

// GetArea proxies a single area fetch to the upstream API.
func (h *Handler) GetArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	area, err := h.client.GetArea(r.Context(), id)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}
	if area == nil {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound,
			"Area not found", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, area)
}

// setTagRequest is the body for PUT /areas/{id}/tags.
type setTagRequest struct {
	Name  string      `json:"name" validate:"required"`
	Value interface{} `json:"value" validate:"required"`
}

// SetAreaTag validates a tag value against the area type's schema and sets
// it upstream. GeoJSON values are normalized before upload.
func (h *Handler) SetAreaTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req setTagRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			"Invalid request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	areaType, ok := h.areaType(r, id)
	if !ok {
		respondError(w, http.StatusNotFound, models.ErrCodeNotFound,
			"Area not found", nil)
		return
	}

	spec := areas.LookupField(areaType, req.Name)
	normalized, err := areas.ValidateValue(spec, req.Value)
	if err != nil {
		respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
			fmt.Sprintf("%s: %v", req.Name, err), nil)
		return
	}

	if err := h.client.SetAreaTag(r.Context(), id, req.Name, normalized); err != nil {
		respondUpstreamError(w, err)
		return
	}
	h.refreshArea(r, id)

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"id":    id,
		"name":  req.Name,
		"value": normalized,
	})
}

// RemoveAreaTag removes one tag from an area. Tags required by the area
// type's schema cannot be removed.
func (h *Handler) RemoveAreaTag(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	name := chi.URLParam(r, "name")

	if areaType, ok := h.areaType(r, id); ok {
		for _, required := range areas.RequiredFields(areaType) {
			if name == required {
				respondError(w, http.StatusBadRequest, models.ErrCodeValidation,
					fmt.Sprintf("%s is required for %s areas and cannot be removed", name, areaType), nil)
				return
			}
		}
	}

	if err := h.client.RemoveAreaTag(r.Context(), id, name); err != nil {
		respondUpstreamError(w, err)
		return
	}
	h.refreshArea(r, id)

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"id":      id,
		"removed": name,
	})
}

// DeleteArea soft-deletes an area upstream.
func (h *Handler) DeleteArea(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.client.RemoveArea(r.Context(), id); err != nil {
		respondUpstreamError(w, err)
		return
	}
	h.refreshArea(r, id)

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"id":      id,
		"deleted": true,
	})
}

// SearchAreas proxies a name search to the upstream API.
func (h *Handler) SearchAreas(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) == "" {
		respondError(w, http.StatusBadRequest, models.ErrCodeBadRequest,
			"Query parameter q is required", nil)
		return
	}

	results, err := h.client.Search(r.Context(), query)
	if err != nil {
		respondUpstreamError(w, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// areaType resolves an area's type, preferring the lint cache and falling
// back to an upstream fetch for areas not yet synced.
func (h *Handler) areaType(r *http.Request, id string) (string, bool) {
	if report, ok := h.cache.Report(id); ok {
		return report.AreaType, true
	}
	area, err := h.client.GetArea(r.Context(), id)
	if err != nil || area == nil {
		return "", false
	}
	return area.Type(), true
}
