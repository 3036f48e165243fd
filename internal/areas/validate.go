// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package areas

import (
	"fmt"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/btcmap/gazetteer/internal/models"
)

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

// ValidateValue checks a tag value against its field spec and returns the
// value to store. GeoJSON values come back normalized: parsed, rewound to
// RFC 7946 ring orientation and re-encoded as a map.
func ValidateValue(spec FieldSpec, value any) (any, error) {
	switch spec.Kind {
	case KindNumber:
		return validateNumber(value)
	case KindInteger:
		return validateInteger(value)
	case KindDate:
		return validateDate(value)
	case KindSelect:
		return validateSelect(value, spec.AllowedValues)
	case KindURL:
		return validateURL(value)
	case KindEmail:
		return validateEmail(value)
	case KindTel:
		return validateTel(value)
	case KindGeoJSON:
		return ValidateGeoJSON(value)
	default:
		return validateText(value)
	}
}

// CheckRequired verifies that every required tag for the area type is present
// and non-empty. Returns the missing tag names.
func CheckRequired(areaType string, tags map[string]any) []string {
	var missing []string
	for _, name := range RequiredFields(areaType) {
		v, ok := tags[name]
		if !ok || strings.TrimSpace(models.TagString(v)) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func validateText(value any) (any, error) {
	if strings.TrimSpace(models.TagString(value)) == "" {
		return nil, fmt.Errorf("value cannot be empty")
	}
	return value, nil
}

func validateNumber(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return nil, fmt.Errorf("value must be a non-negative number")
		}
		return v, nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("value must be a non-negative number")
		}
		return v, nil
	case string:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("value must be a non-negative number")
		}
		return n, nil
	}
	return nil, fmt.Errorf("value must be a non-negative number")
}

func validateInteger(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		if v != float64(int64(v)) || v < 0 {
			return nil, fmt.Errorf("value must be a non-negative integer")
		}
		return int64(v), nil
	case int:
		if v < 0 {
			return nil, fmt.Errorf("value must be a non-negative integer")
		}
		return v, nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("value must be a non-negative integer")
		}
		return n, nil
	}
	return nil, fmt.Errorf("value must be a non-negative integer")
}

func validateDate(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return nil, fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return s, nil
}

func validateSelect(value any, allowed []string) (any, error) {
	s := strings.ToLower(models.TagString(value))
	for _, a := range allowed {
		if s == a {
			return s, nil
		}
	}
	return nil, fmt.Errorf("invalid value, choose from %s", strings.Join(allowed, ", "))
}

func validateURL(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("invalid URL format")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid URL format")
	}
	return s, nil
}

func validateEmail(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("invalid email format")
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return nil, fmt.Errorf("invalid email format")
	}
	return s, nil
}

func validateTel(value any) (any, error) {
	s, ok := value.(string)
	if !ok || !phonePattern.MatchString(s) {
		return nil, fmt.Errorf("invalid phone number format")
	}
	return s, nil
}

// ValidateGeoJSON accepts a GeoJSON geometry as a JSON string or a decoded
// map. Only Polygon and MultiPolygon geometries are allowed. Rings are
// rewound so exteriors wind counter-clockwise and holes clockwise.
func ValidateGeoJSON(value any) (any, error) {
	var raw []byte
	switch v := value.(type) {
	case string:
		raw = []byte(v)
	case map[string]any:
		var err error
		raw, err = json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("invalid GeoJSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("invalid GeoJSON: must be a JSON object or a valid JSON string")
	}

	geom, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON structure: %w", err)
	}

	switch g := geom.Geometry().(type) {
	case orb.Polygon:
		geom = geojson.NewGeometry(rewindPolygon(g))
	case orb.MultiPolygon:
		for i, p := range g {
			g[i] = rewindPolygon(p)
		}
		geom = geojson.NewGeometry(g)
	default:
		return nil, fmt.Errorf("invalid GeoJSON: only Polygon and MultiPolygon types are accepted")
	}

	encoded, err := json.Marshal(geom)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(encoded, &out); err != nil {
		return nil, fmt.Errorf("invalid GeoJSON: %w", err)
	}
	return out, nil
}

// rewindPolygon enforces RFC 7946 winding: exterior ring counter-clockwise,
// interior rings clockwise.
func rewindPolygon(p orb.Polygon) orb.Polygon {
	for i, ring := range p {
		want := orb.CCW
		if i > 0 {
			want = orb.CW
		}
		if ring.Orientation() != want {
			ring.Reverse()
		}
	}
	return p
}
