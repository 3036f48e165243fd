// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package models defines the domain types shared across Gazetteer:
// upstream area records, lint rules and issues, cached lint reports and the
// standard API response envelope.
package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Area type tag values recognized by the upstream dataset.
const (
	AreaTypeCommunity = "community"
	AreaTypeCountry   = "country"
)

// Well-known tag keys.
const (
	TagName         = "name"
	TagType         = "type"
	TagIconSquare   = "icon:square"
	TagVerifiedDate = "verified:date"
	TagURLAlias     = "url_alias"
	TagGeoJSON      = "geo_json"
)

// PendingUploadSentinel marks an icon slot that was reserved but never
// received an upload. Treated the same as a missing icon.
const PendingUploadSentinel = "pending-upload"

// Area is one community or country record from the upstream API.
//
// Required envelope fields are typed; everything else lives in the free-form
// Tags map since the upstream schema is open-ended.
type Area struct {
	ID        AreaID         `json:"id"`
	Tags      map[string]any `json:"tags"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt *time.Time     `json:"deleted_at,omitempty"`
}

// AreaID is an opaque area identifier. The upstream API serves both numeric
// and string ids, so it unmarshals from either and always renders as a string.
type AreaID string

// UnmarshalJSON accepts a JSON string or number.
func (id *AreaID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = AreaID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("area id must be a string or number: %w", err)
	}
	*id = AreaID(n.String())
	return nil
}

// MarshalJSON renders the id as a JSON string.
func (id AreaID) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(id))
}

func (id AreaID) String() string { return string(id) }

// IsDeleted reports whether the record is soft-deleted upstream.
func (a *Area) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Name returns the name tag, or "Unknown" when unset.
func (a *Area) Name() string {
	if name := a.StringTag(TagName); name != "" {
		return name
	}
	return "Unknown"
}

// Type returns the type tag, or "unknown" when unset.
func (a *Area) Type() string {
	if t := a.StringTag(TagType); t != "" {
		return t
	}
	return "unknown"
}

// StringTag returns the tag value as a string, or "" when the tag is absent
// or not a string.
func (a *Area) StringTag(key string) string {
	if a.Tags == nil {
		return ""
	}
	if s, ok := a.Tags[key].(string); ok {
		return s
	}
	return ""
}

// TagString formats any scalar tag value as a string for comparison and
// display. Used by tag filtering, which compares stringified values the same
// way regardless of the underlying JSON type.
func TagString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		// Render integral floats without the trailing ".0" JSON gives them.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
