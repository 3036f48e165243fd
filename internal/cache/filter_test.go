// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package cache

import (
	"testing"

	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/models"
)

func strptr(s string) *string { return &s }

// seededCache holds two communities with issues, one clean community, one
// deleted area and one country.
func seededCache(t *testing.T) *LintCache {
	t.Helper()
	c := newTestCache()

	stale := cleanCommunity("1", "Stale Town", "stale-town")
	stale.Tags["verified:date"] = "2020-01-01"
	stale.Tags["continent"] = "europe"
	c.Upsert(stale, testNow)

	noIcon := &models.Area{
		ID: "2",
		Tags: map[string]any{
			"name":          "No Icon City",
			"type":          "community",
			"url_alias":     "no-icon-city",
			"continent":     "europe",
			"verified:date": "2026-07-01",
		},
		UpdatedAt: testNow,
	}
	c.Upsert(noIcon, testNow)

	clean := cleanCommunity("3", "Clean Village", "clean-village")
	clean.Tags["continent"] = "south-america"
	c.Upsert(clean, testNow)

	deletedAt := testNow
	gone := cleanCommunity("4", "Ghost", "ghost")
	gone.DeletedAt = &deletedAt
	c.Upsert(gone, testNow)

	c.Upsert(country("de", "Germany",
		`{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,10],[0,0]]]}`), testNow)

	return c
}

func TestResultsIssuesOnly(t *testing.T) {
	c := seededCache(t)

	got := c.Results(Filter{IssuesOnly: true})
	ids := map[string]bool{}
	for _, r := range got {
		ids[r.AreaID] = true
	}
	if !ids["1"] || !ids["2"] {
		t.Errorf("results = %v", ids)
	}
	if ids["3"] || ids["4"] {
		t.Errorf("clean or deleted areas leaked: %v", ids)
	}
}

func TestResultsRuleAndSeverityFilters(t *testing.T) {
	c := seededCache(t)

	got := c.Results(Filter{Rule: lint.RuleVerifiedStale, IssuesOnly: true})
	if len(got) != 1 || got[0].AreaID != "1" {
		t.Fatalf("rule filter results = %+v", got)
	}
	for _, issue := range got[0].Issues {
		if issue.RuleID != lint.RuleVerifiedStale {
			t.Errorf("unexpected issue %s", issue.RuleID)
		}
	}

	got = c.Results(Filter{Severity: "error", IssuesOnly: true})
	if len(got) != 1 || got[0].AreaID != "2" {
		t.Fatalf("severity filter results = %+v", got)
	}
}

func TestResultsIncludeDeleted(t *testing.T) {
	c := seededCache(t)

	got := c.Results(Filter{IncludeDeleted: true})
	ids := map[string]bool{}
	for _, r := range got {
		ids[r.AreaID] = true
	}
	if !ids["4"] {
		t.Errorf("deleted area missing with IncludeDeleted: %v", ids)
	}
}

func TestResultsTypeFilter(t *testing.T) {
	c := seededCache(t)

	got := c.Results(Filter{Type: models.AreaTypeCountry})
	if len(got) != 1 || got[0].AreaID != "de" {
		t.Errorf("type filter results = %+v", got)
	}
}

func TestResultsTagFilters(t *testing.T) {
	c := seededCache(t)

	tests := []struct {
		name    string
		filters []TagFilter
		wantIDs []string
	}{
		{"exists", []TagFilter{{Name: "continent"}}, []string{"1", "2", "3"}},
		{"exact", []TagFilter{{Name: "continent", Value: strptr("europe")}}, []string{"1", "2"}},
		{"glob", []TagFilter{{Name: "continent", Value: strptr("eu*")}}, []string{"1", "2"}},
		{"glob question mark", []TagFilter{{Name: "url_alias", Value: strptr("?host")}}, nil},
		{"no match", []TagFilter{{Name: "continent", Value: strptr("asia")}}, nil},
		{"anded", []TagFilter{
			{Name: "continent", Value: strptr("europe")},
			{Name: "url_alias", Value: strptr("stale-*")},
		}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Results(Filter{Tags: tt.filters})
			var ids []string
			for _, r := range got {
				ids = append(ids, r.AreaID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range tt.wantIDs {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("ids = %v, want %v", ids, tt.wantIDs)
				}
			}
		})
	}
}

func TestResultsCountryFilter(t *testing.T) {
	c := seededCache(t)

	inside := cleanCommunity("5", "Inside", "inside")
	inside.Tags["geo_json"] = `{"type":"Polygon","coordinates":[[[4,4],[6,4],[6,6],[4,6],[4,4]]]}`
	c.Upsert(inside, testNow)
	c.RebuildCountryIndex()

	got := c.Results(Filter{CountryID: "de"})
	ids := map[string]bool{}
	for _, r := range got {
		ids[r.AreaID] = true
	}
	if !ids["5"] {
		t.Errorf("community in country missing: %v", ids)
	}
	// The country filter never excludes country areas themselves.
	if !ids["de"] {
		t.Errorf("country area should pass the country filter: %v", ids)
	}
	if ids["1"] {
		t.Errorf("community outside country leaked: %v", ids)
	}
}

func TestSummaryCounts(t *testing.T) {
	c := seededCache(t)

	s := c.Summary(Filter{})
	if s.TotalAreas != 4 {
		t.Errorf("TotalAreas = %d, want 4 (deleted excluded)", s.TotalAreas)
	}
	if s.TotalAllAreas != 5 {
		t.Errorf("TotalAllAreas = %d, want 5", s.TotalAllAreas)
	}
	if s.DeletedAreas != 1 {
		t.Errorf("DeletedAreas = %d, want 1", s.DeletedAreas)
	}
	if s.AreasWithIssues != 2 {
		t.Errorf("AreasWithIssues = %d, want 2", s.AreasWithIssues)
	}
	if s.BySeverity[models.SeverityError] != 1 || s.BySeverity[models.SeverityWarning] != 1 {
		t.Errorf("BySeverity = %v", s.BySeverity)
	}
	if s.AreasByType["community"] != 3 || s.AreasByType["country"] != 1 {
		t.Errorf("AreasByType = %v", s.AreasByType)
	}

	foundStale := false
	for _, rc := range s.ByRule {
		if rc.RuleID == lint.RuleVerifiedStale {
			foundStale = true
			if rc.Count != 1 || rc.RuleName != "Verification Stale" {
				t.Errorf("rule count = %+v", rc)
			}
		}
	}
	if !foundStale {
		t.Errorf("ByRule = %+v", s.ByRule)
	}
}

func TestSummaryRespectsFilters(t *testing.T) {
	c := seededCache(t)

	s := c.Summary(Filter{Severity: "error"})
	if s.TotalIssues != 1 {
		t.Errorf("TotalIssues = %d, want 1", s.TotalIssues)
	}
	// Without IssuesOnly, clean areas still count toward TotalAreas.
	if s.TotalAreas != 4 {
		t.Errorf("TotalAreas = %d, want 4", s.TotalAreas)
	}

	s = c.Summary(Filter{Severity: "error", IssuesOnly: true})
	if s.TotalAreas != 1 {
		t.Errorf("TotalAreas with IssuesOnly = %d, want 1", s.TotalAreas)
	}
}

func TestResultsReturnCopies(t *testing.T) {
	c := seededCache(t)

	got := c.Results(Filter{IssuesOnly: true})
	for i := range got {
		got[i].AreaName = "mutated"
		for j := range got[i].Issues {
			got[i].Issues[j].Message = "mutated"
		}
	}

	r, _ := c.Report("1")
	if r.AreaName == "mutated" {
		t.Error("cache report mutated through Results copy")
	}
	for _, issue := range r.Issues {
		if issue.Message == "mutated" {
			t.Error("cache issues mutated through Results copy")
		}
	}
}
