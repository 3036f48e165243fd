// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package cache

import (
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/btcmap/gazetteer/internal/lint"
	"github.com/btcmap/gazetteer/internal/models"
)

// TagFilter matches one tag. A nil Value only requires the tag to exist;
// otherwise values are compared stringified, with glob patterns (*, ?, [])
// supported.
type TagFilter struct {
	Name  string
	Value *string
}

// Filter selects reports and issues for the results and summary views.
type Filter struct {
	// Rule keeps only issues of this rule id.
	Rule string
	// Severity keeps only issues of this severity.
	Severity string
	// Type keeps only areas of this area type.
	Type string
	// CountryID keeps only non-country areas derived into this country.
	CountryID string
	// IncludeDeleted keeps soft-deleted areas.
	IncludeDeleted bool
	// IssuesOnly drops areas whose filtered issue list is empty. The results
	// endpoint defaults it to true, the summary endpoint to false.
	IssuesOnly bool
	// Tags are ANDed together.
	Tags []TagFilter
}

// Results returns copies of the reports passing the filter, with their issue
// lists narrowed to the matching issues.
func (c *LintCache) Results(f Filter) []models.AreaReport {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filteredLocked(f)
}

// Summary aggregates the filtered reports into counts.
func (c *LintCache) Summary(f Filter) models.LintSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	filtered := c.filteredLocked(f)

	summary := models.LintSummary{
		TotalAreas:    len(filtered),
		TotalAllAreas: len(c.reports),
		AreasByType:   make(map[string]int),
		BySeverity: map[models.Severity]int{
			models.SeverityError:   0,
			models.SeverityWarning: 0,
			models.SeverityInfo:    0,
		},
		Sync: c.statusLocked(),
	}

	for i := range c.reports {
		if c.reports[i].Deleted {
			summary.DeletedAreas++
		}
	}

	byRule := make(map[string]int)
	for i := range filtered {
		r := &filtered[i]
		summary.AreasByType[r.AreaType]++
		if len(r.Issues) > 0 {
			summary.AreasWithIssues++
		}
		summary.TotalIssues += len(r.Issues)
		for _, issue := range r.Issues {
			byRule[issue.RuleID]++
			summary.BySeverity[issue.Severity]++
		}
	}

	ruleIDs := make([]string, 0, len(byRule))
	for id := range byRule {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)
	for _, id := range ruleIDs {
		rc := models.RuleCount{RuleID: id, Count: byRule[id]}
		if rule, ok := lint.Rules[id]; ok {
			rc.RuleName = rule.Name
			rc.Severity = rule.Severity
		}
		summary.ByRule = append(summary.ByRule, rc)
	}
	return summary
}

func (c *LintCache) filteredLocked(f Filter) []models.AreaReport {
	var out []models.AreaReport
	for i := range c.reports {
		r := &c.reports[i]
		if !f.IncludeDeleted && r.Deleted {
			continue
		}
		if f.Type != "" && r.AreaType != f.Type {
			continue
		}
		if f.CountryID != "" && r.AreaType != models.AreaTypeCountry {
			if r.CountryID == nil || *r.CountryID != f.CountryID {
				continue
			}
		}
		if !matchTags(r.Tags, f.Tags) {
			continue
		}

		issues := filterIssues(r.Issues, f.Rule, f.Severity)
		if f.IssuesOnly && len(issues) == 0 {
			continue
		}

		kept := copyReport(*r)
		kept.Issues = issues
		out = append(out, kept)
	}
	return out
}

func filterIssues(issues []models.Issue, rule, severity string) []models.Issue {
	var kept []models.Issue
	for _, issue := range issues {
		if rule != "" && issue.RuleID != rule {
			continue
		}
		if severity != "" && string(issue.Severity) != severity {
			continue
		}
		kept = append(kept, issue)
	}
	return kept
}

func matchTags(tags map[string]any, filters []TagFilter) bool {
	for _, f := range filters {
		value, ok := tags[f.Name]
		if !ok || value == nil {
			return false
		}
		if f.Value == nil {
			continue
		}
		got := models.TagString(value)
		want := *f.Value
		if strings.ContainsAny(want, "*?[") {
			matched, err := doublestar.Match(want, got)
			if err != nil || !matched {
				return false
			}
		} else if got != want {
			return false
		}
	}
	return true
}
