// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package geo derives the containing country for community areas. Country
// polygons are loaded into an R-tree keyed by bounding box; lookup takes the
// community's centroid, collects bounding-box candidates and confirms with
// exact point-in-polygon tests.
package geo

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/tidwall/rtree"

	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/metrics"
	"github.com/btcmap/gazetteer/internal/models"
)

// CountryRef identifies a country area.
type CountryRef struct {
	ID   string
	Name string
}

type countryEntry struct {
	ref  CountryRef
	geom orb.Geometry
}

// CountryIndex is an immutable spatial index over country geometries. Build
// once after sync, then query concurrently.
type CountryIndex struct {
	tree rtree.RTreeG[countryEntry]
	size int
}

// ParseGeometry decodes an area's geo_json tag value into a Polygon or
// MultiPolygon. The value may be a JSON string or an already-decoded map.
func ParseGeometry(value any) (orb.Geometry, error) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case map[string]any:
		var err error
		raw, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode geo_json: %w", err)
		}
	case nil:
		return nil, fmt.Errorf("missing geo_json")
	default:
		return nil, fmt.Errorf("geo_json must be an object or JSON string, got %T", value)
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid geo_json: %w", err)
	}
	switch g := geom.Geometry().(type) {
	case orb.Polygon, orb.MultiPolygon:
		return g, nil
	default:
		return nil, fmt.Errorf("geo_json must be a Polygon or MultiPolygon, got %s", geom.Type)
	}
}

// BuildCountryIndex indexes the geometries of all non-deleted country areas.
// Countries without usable geometry are skipped with a warning.
func BuildCountryIndex(countries []models.AreaReport) *CountryIndex {
	start := time.Now()
	idx := &CountryIndex{}

	for i := range countries {
		c := &countries[i]
		if c.Deleted || c.AreaType != models.AreaTypeCountry {
			continue
		}
		geom, err := ParseGeometry(c.Tags[models.TagGeoJSON])
		if err != nil {
			logging.Warn().
				Str("country_id", c.AreaID).
				Str("country", c.AreaName).
				Err(err).
				Msg("Skipping country with unusable geometry")
			continue
		}
		bound := geom.Bound()
		idx.tree.Insert(
			[2]float64{bound.Min[0], bound.Min[1]},
			[2]float64{bound.Max[0], bound.Max[1]},
			countryEntry{
				ref:  CountryRef{ID: c.AreaID, Name: c.AreaName},
				geom: geom,
			},
		)
		idx.size++
	}

	metrics.CountryIndexSize.Set(float64(idx.size))
	metrics.CountryDerivationDuration.Observe(time.Since(start).Seconds())
	return idx
}

// Size returns the number of indexed country geometries.
func (idx *CountryIndex) Size() int {
	return idx.size
}

// Locate returns the country containing the geometry's centroid. The second
// return is false when no indexed country contains it.
func (idx *CountryIndex) Locate(geom orb.Geometry) (CountryRef, bool) {
	centroid, _ := planar.CentroidArea(geom)
	return idx.LocatePoint(centroid)
}

// LocatePoint returns the country containing the point.
func (idx *CountryIndex) LocatePoint(pt orb.Point) (CountryRef, bool) {
	var found CountryRef
	var ok bool
	idx.tree.Search(
		[2]float64{pt[0], pt[1]},
		[2]float64{pt[0], pt[1]},
		func(_, _ [2]float64, entry countryEntry) bool {
			if geometryContains(entry.geom, pt) {
				found = entry.ref
				ok = true
				return false
			}
			return true
		},
	)
	return found, ok
}

func geometryContains(geom orb.Geometry, pt orb.Point) bool {
	switch g := geom.(type) {
	case orb.Polygon:
		return planar.PolygonContains(g, pt)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(g, pt)
	default:
		return false
	}
}
