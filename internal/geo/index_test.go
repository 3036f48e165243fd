// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package geo

import (
	"testing"

	"github.com/paulmach/orb"

	"github.com/btcmap/gazetteer/internal/models"
)

func countryReport(id, name, geo string) models.AreaReport {
	return models.AreaReport{
		AreaID:   id,
		AreaName: name,
		AreaType: models.AreaTypeCountry,
		Tags: map[string]any{
			models.TagGeoJSON: geo,
		},
	}
}

func TestBuildCountryIndexSkipsUnusable(t *testing.T) {
	countries := []models.AreaReport{
		countryReport("de", "Germany", `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`),
		countryReport("bad", "Broken", `{not json`),
		countryReport("pt", "Point Land", `{"type":"Point","coordinates":[1,1]}`),
		{AreaID: "x", AreaName: "Deleted", AreaType: models.AreaTypeCountry, Deleted: true,
			Tags: map[string]any{models.TagGeoJSON: `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`}},
		{AreaID: "c", AreaName: "Community", AreaType: models.AreaTypeCommunity,
			Tags: map[string]any{models.TagGeoJSON: `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1],[0,0]]]}`}},
	}

	idx := BuildCountryIndex(countries)
	if idx.Size() != 1 {
		t.Errorf("Size() = %d, want 1", idx.Size())
	}
}

func TestLocateCentroidContainment(t *testing.T) {
	countries := []models.AreaReport{
		countryReport("de", "Germany", `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`),
		countryReport("fr", "France", `{"type":"Polygon","coordinates":[[[20,20],[30,20],[30,30],[20,30],[20,20]]]}`),
	}
	idx := BuildCountryIndex(countries)

	// Community square centered at (5,5), inside Germany.
	community, err := ParseGeometry(`{"type":"Polygon","coordinates":[[[4,4],[6,4],[6,6],[4,6],[4,4]]]}`)
	if err != nil {
		t.Fatal(err)
	}
	ref, ok := idx.Locate(community)
	if !ok {
		t.Fatal("expected containment match")
	}
	if ref.ID != "de" || ref.Name != "Germany" {
		t.Errorf("ref = %+v", ref)
	}

	// Centroid at (50,50) is outside every country.
	outside, err := ParseGeometry(`{"type":"Polygon","coordinates":[[[49,49],[51,49],[51,51],[49,51],[49,49]]]}`)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := idx.Locate(outside); ok {
		t.Error("expected no match outside all countries")
	}
}

func TestLocatePointBBoxFalsePositive(t *testing.T) {
	// L-shaped country whose bounding box covers (9,9) but whose polygon
	// does not. The bbox candidate must be rejected by the exact test.
	lShape := `{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,2],[2,2],[2,10],[0,10],[0,0]]]}`
	idx := BuildCountryIndex([]models.AreaReport{countryReport("l", "L Land", lShape)})

	if _, ok := idx.LocatePoint(orb.Point{9, 9}); ok {
		t.Error("point in bbox but outside polygon must not match")
	}
	if ref, ok := idx.LocatePoint(orb.Point{1, 1}); !ok || ref.ID != "l" {
		t.Errorf("point inside polygon should match, got %v %v", ref, ok)
	}
}

func TestParseGeometryInputs(t *testing.T) {
	if _, err := ParseGeometry(nil); err == nil {
		t.Error("nil value should fail")
	}
	if _, err := ParseGeometry(42); err == nil {
		t.Error("non-object value should fail")
	}
	asMap := map[string]any{
		"type": "MultiPolygon",
		"coordinates": []any{
			[]any{[]any{[]any{0.0, 0.0}, []any{1.0, 0.0}, []any{1.0, 1.0}, []any{0.0, 0.0}}},
		},
	}
	geom, err := ParseGeometry(asMap)
	if err != nil {
		t.Fatalf("map input failed: %v", err)
	}
	if _, ok := geom.(orb.MultiPolygon); !ok {
		t.Errorf("geometry has type %T", geom)
	}
}
