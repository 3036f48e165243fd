// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package cache holds the in-memory lint cache: one report per known area,
// plus the sync metadata the engine and the API share. All access is guarded
// by a single RWMutex; reads return copies so callers never see a report
// mutated mid-request.
package cache

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/btcmap/gazetteer/internal/geo"
	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/metrics"
	"github.com/btcmap/gazetteer/internal/models"
)

// LintCache is the authoritative in-memory store of lint reports.
type LintCache struct {
	mu      sync.RWMutex
	reports []models.AreaReport
	byID    map[string]int

	linter     *lint.Linter
	countryIdx *geo.CountryIndex

	lastSync  *time.Time
	cursor    time.Time
	isSyncing bool
	progress  models.SyncProgress
}

// New creates an empty cache using the given linter.
func New(linter *lint.Linter) *LintCache {
	return &LintCache{
		byID:   make(map[string]int),
		linter: linter,
	}
}

// Upsert replaces or inserts the report for one area. Deleted areas keep
// their slot but carry no issues. Insertion order is preserved for existing
// areas; new areas append.
func (c *LintCache) Upsert(area *models.Area, now time.Time) {
	report := c.buildReport(area, now)

	c.mu.Lock()
	defer c.mu.Unlock()
	if i, ok := c.byID[report.AreaID]; ok {
		c.reports[i] = report
		return
	}
	c.byID[report.AreaID] = len(c.reports)
	c.reports = append(c.reports, report)
}

func (c *LintCache) buildReport(area *models.Area, now time.Time) models.AreaReport {
	var issues []models.Issue
	if !area.IsDeleted() {
		issues = c.linter.CheckArea(area, now)
	}

	report := models.AreaReport{
		AreaID:   area.ID.String(),
		AreaName: area.Name(),
		AreaType: area.Type(),
		Deleted:  area.IsDeleted(),
		Tags:     area.Tags,
		Issues:   issues,
	}

	if report.AreaType != models.AreaTypeCountry {
		c.mu.RLock()
		idx := c.countryIdx
		c.mu.RUnlock()
		report.CountryID, report.CountryName = deriveCountry(idx, area.Tags[models.TagGeoJSON])
	}
	return report
}

// deriveCountry resolves the containing country for a community geometry.
// Missing or unusable geometry and no-match both come back as (nil, Unknown).
func deriveCountry(idx *geo.CountryIndex, geoTag any) (*string, *string) {
	unknown := "Unknown"
	if idx == nil || geoTag == nil {
		return nil, &unknown
	}
	geom, err := geo.ParseGeometry(geoTag)
	if err != nil {
		return nil, &unknown
	}
	ref, ok := idx.Locate(geom)
	if !ok {
		return nil, &unknown
	}
	return &ref.ID, &ref.Name
}

// Report returns a copy of one area's report.
func (c *LintCache) Report(areaID string) (models.AreaReport, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[areaID]
	if !ok {
		return models.AreaReport{}, false
	}
	return copyReport(c.reports[i]), true
}

// Len returns the number of cached reports.
func (c *LintCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.reports)
}

// RebuildCountryIndex rebuilds the spatial index from the cached country
// reports, then re-derives the country of every non-country area.
func (c *LintCache) RebuildCountryIndex() {
	c.mu.RLock()
	countries := make([]models.AreaReport, 0)
	for _, r := range c.reports {
		if r.AreaType == models.AreaTypeCountry {
			countries = append(countries, r)
		}
	}
	c.mu.RUnlock()

	idx := geo.BuildCountryIndex(countries)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.countryIdx = idx

	matched, communities := 0, 0
	for i := range c.reports {
		r := &c.reports[i]
		if r.AreaType == models.AreaTypeCountry {
			// Countries do not belong to a country.
			r.CountryID, r.CountryName = nil, nil
			continue
		}
		communities++
		r.CountryID, r.CountryName = deriveCountry(idx, r.Tags[models.TagGeoJSON])
		if r.CountryID != nil {
			matched++
		}
	}

	logging.Info().
		Int("indexed_countries", idx.Size()).
		Int("matched", matched).
		Int("communities", communities).
		Msg("Country derivation complete")
}

// DetectAliasClashes recomputes the url-alias-clash issues across the whole
// cache. Existing clash issues are cleared first so the pass is idempotent.
func (c *LintCache) DetectAliasClashes() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.reports {
		c.reports[i].Issues = withoutRule(c.reports[i].Issues, lint.RuleURLAliasClash)
	}

	aliasAreas := make(map[string][]int)
	var aliases []string
	for i := range c.reports {
		r := &c.reports[i]
		if r.Deleted {
			continue
		}
		alias := models.TagString(r.Tags[models.TagURLAlias])
		if alias == "" {
			continue
		}
		if _, seen := aliasAreas[alias]; !seen {
			aliases = append(aliases, alias)
		}
		aliasAreas[alias] = append(aliasAreas[alias], i)
	}

	clashes := 0
	for _, alias := range aliases {
		indexes := aliasAreas[alias]
		if len(indexes) < 2 {
			continue
		}
		clashes++
		for _, cur := range indexes {
			var ids, names []string
			for _, other := range indexes {
				if other == cur {
					continue
				}
				ids = append(ids, c.reports[other].AreaID)
				names = append(names, c.reports[other].AreaName)
			}
			issue := lint.NewAliasClashIssue(alias, len(indexes), ids, names)
			c.reports[cur].Issues = append(c.reports[cur].Issues, issue)
		}
	}

	if clashes > 0 {
		logging.Info().Int("clashes", clashes).Msg("URL alias clashes detected")
	}
}

func withoutRule(issues []models.Issue, ruleID string) []models.Issue {
	kept := issues[:0]
	for _, issue := range issues {
		if issue.RuleID != ruleID {
			kept = append(kept, issue)
		}
	}
	return kept
}

// AvailableTags returns every distinct tag name across all cached areas,
// sorted. The geo_json payload tag is excluded.
func (c *LintCache) AvailableTags() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	for i := range c.reports {
		for key := range c.reports[i].Tags {
			if key == models.TagGeoJSON {
				continue
			}
			seen[key] = struct{}{}
		}
	}
	tags := make([]string, 0, len(seen))
	for key := range seen {
		tags = append(tags, key)
	}
	sort.Strings(tags)
	return tags
}

// CountriesWithCommunities lists the countries at least one community
// resolves into, with community counts, sorted by lowercased name.
func (c *LintCache) CountriesWithCommunities() []models.CountryCommunities {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[string]int)
	for i := range c.reports {
		r := &c.reports[i]
		if r.AreaType == models.AreaTypeCountry || r.CountryID == nil {
			continue
		}
		counts[*r.CountryID]++
	}

	var out []models.CountryCommunities
	for i := range c.reports {
		r := &c.reports[i]
		if r.AreaType != models.AreaTypeCountry {
			continue
		}
		if n, ok := counts[r.AreaID]; ok {
			out = append(out, models.CountryCommunities{
				CountryID:   r.AreaID,
				CountryName: r.AreaName,
				Communities: n,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].CountryName) < strings.ToLower(out[j].CountryName)
	})
	return out
}

// UpdateMetrics refreshes the lint gauges from the current cache contents.
func (c *LintCache) UpdateMetrics() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	metrics.LintCachedAreas.Set(float64(len(c.reports)))
	byRule := make(map[string]int)
	for i := range c.reports {
		for _, issue := range c.reports[i].Issues {
			byRule[issue.RuleID]++
		}
	}
	for ruleID := range lint.Rules {
		metrics.LintIssuesByRule.WithLabelValues(ruleID).Set(float64(byRule[ruleID]))
	}
}

func copyReport(r models.AreaReport) models.AreaReport {
	out := r
	out.Issues = append([]models.Issue(nil), r.Issues...)
	return out
}
