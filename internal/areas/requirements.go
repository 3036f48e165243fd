// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package areas defines the per-type tag schema for BTC Map areas and
// validates tag values against it. The schema drives both the create-area
// endpoint (required fields) and tag mutation (per-kind value checks).
package areas

import "github.com/btcmap/gazetteer/internal/models"

// FieldKind selects the validation applied to a tag value.
type FieldKind string

const (
	KindText    FieldKind = "text"
	KindURL     FieldKind = "url"
	KindEmail   FieldKind = "email"
	KindTel     FieldKind = "tel"
	KindDate    FieldKind = "date"
	KindNumber  FieldKind = "number"
	KindInteger FieldKind = "integer"
	KindSelect  FieldKind = "select"
	KindGeoJSON FieldKind = "geo_json"
)

// FieldSpec describes one tag slot in an area type's schema.
type FieldSpec struct {
	Required bool
	Kind     FieldKind
	// AllowedValues constrains KindSelect fields.
	AllowedValues []string
}

// Continents are the allowed values for the continent tag.
var Continents = []string{
	"africa", "asia", "europe", "north-america", "oceania", "south-america",
}

// TypeRequirements maps an area type to its tag schema. Only communities
// have a curated schema; countries are maintained upstream.
var TypeRequirements = map[string]map[string]FieldSpec{
	models.AreaTypeCommunity: {
		"name":      {Required: true, Kind: KindText},
		"url_alias": {Required: true, Kind: KindText},
		"continent": {
			Required:      true,
			Kind:          KindSelect,
			AllowedValues: Continents,
		},
		"icon:square":            {Required: true, Kind: KindText},
		"population":             {Required: true, Kind: KindNumber},
		"population:date":        {Required: true, Kind: KindDate},
		"area_km2":               {Kind: KindNumber},
		"organization":           {Kind: KindText},
		"language":               {Kind: KindText},
		"contact:twitter":        {Kind: KindURL},
		"contact:website":        {Kind: KindURL},
		"contact:email":          {Kind: KindEmail},
		"contact:telegram":       {Kind: KindURL},
		"contact:signal":         {Kind: KindURL},
		"contact:whatsapp":       {Kind: KindURL},
		"contact:nostr":          {Kind: KindText},
		"contact:meetup":         {Kind: KindURL},
		"contact:discord":        {Kind: KindURL},
		"contact:instagram":      {Kind: KindURL},
		"contact:youtube":        {Kind: KindURL},
		"contact:facebook":       {Kind: KindURL},
		"contact:linkedin":       {Kind: KindURL},
		"contact:rss":            {Kind: KindURL},
		"contact:phone":          {Kind: KindTel},
		"contact:github":         {Kind: KindURL},
		"contact:matrix":         {Kind: KindURL},
		"contact:geyser":         {Kind: KindURL},
		"tips:lightning_address": {Kind: KindText},
		"description":            {Kind: KindText},
	},
}

// RequiredFields returns the required tag names for an area type, or nil when
// the type has no schema.
func RequiredFields(areaType string) []string {
	schema, ok := TypeRequirements[areaType]
	if !ok {
		return nil
	}
	var required []string
	for name, spec := range schema {
		if spec.Required {
			required = append(required, name)
		}
	}
	return required
}

// LookupField returns the spec for a tag within an area type's schema. Tags
// outside the schema validate as free-form text.
func LookupField(areaType, tag string) FieldSpec {
	if schema, ok := TypeRequirements[areaType]; ok {
		if spec, ok := schema[tag]; ok {
			return spec
		}
	}
	if tag == models.TagGeoJSON {
		return FieldSpec{Kind: KindGeoJSON}
	}
	return FieldSpec{Kind: KindText}
}
