// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package models

import (
	"fmt"
	"time"
)

// Severity classifies how serious a lint finding is.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// FixAction identifies an automated remediation.
type FixAction string

const (
	FixMigrateIcon  FixAction = "migrate_icon"
	FixBumpVerified FixAction = "bump_verified"
)

// ParseFixAction validates a client-supplied fix action name.
func ParseFixAction(s string) (FixAction, error) {
	switch FixAction(s) {
	case FixMigrateIcon, FixBumpVerified:
		return FixAction(s), nil
	}
	return "", fmt.Errorf("unknown fix action %q", s)
}

// Rule describes one lint rule in the registry.
type Rule struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	AutoFixable bool      `json:"auto_fixable"`
	FixAction   FixAction `json:"fix_action,omitempty"`
}

// Issue is one finding against one area. Rule metadata is flattened into the
// issue so API consumers never have to join against the rule registry.
type Issue struct {
	RuleID      string    `json:"rule_id"`
	RuleName    string    `json:"rule_name"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
	AutoFixable bool      `json:"auto_fixable"`
	FixAction   FixAction `json:"fix_action,omitempty"`

	Message      string `json:"message,omitempty"`
	CurrentValue string `json:"current_value,omitempty"`

	// Populated only for url-alias-clash findings.
	ClashingAreaIDs   []string `json:"clashing_area_ids,omitempty"`
	ClashingAreaNames []string `json:"clashing_area_names,omitempty"`
}

// IssueFromRule builds an issue carrying the rule's metadata.
func IssueFromRule(rule Rule, message string) Issue {
	return Issue{
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		Description: rule.Description,
		Severity:    rule.Severity,
		AutoFixable: rule.AutoFixable,
		FixAction:   rule.FixAction,
		Message:     message,
	}
}

// AreaReport is the lint cache's unit of storage: one area plus its current
// findings and derived country.
type AreaReport struct {
	AreaID   string         `json:"area_id"`
	AreaName string         `json:"area_name"`
	AreaType string         `json:"area_type"`
	Deleted  bool           `json:"deleted"`
	Tags     map[string]any `json:"tags"`

	// Derived via spatial containment; nil when no country matched or the
	// area has no usable geometry.
	CountryID   *string `json:"country_id"`
	CountryName *string `json:"country_name"`

	Issues []Issue `json:"issues"`
}

// HasIssues reports whether any finding is open against the area.
func (r *AreaReport) HasIssues() bool {
	return len(r.Issues) > 0
}

// SyncProgress tracks a running sync for status reporting.
type SyncProgress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}

// SyncStatus is the cache's sync metadata exposed on summary responses.
type SyncStatus struct {
	LastSync  *time.Time    `json:"last_sync"`
	Cursor    *time.Time    `json:"cursor"`
	IsSyncing bool          `json:"is_syncing"`
	Progress  *SyncProgress `json:"progress,omitempty"`
}

// SyncSummary reports the outcome of one sync run.
type SyncSummary struct {
	Full           bool          `json:"full"`
	AreasProcessed int           `json:"areas_processed"`
	Batches        int           `json:"batches"`
	Partial        bool          `json:"partial"`
	Duration       time.Duration `json:"-"`
	DurationMS     int64         `json:"duration_ms"`
	StartedAt      time.Time     `json:"started_at"`
}

// RuleCount is one entry of the per-rule issue breakdown.
type RuleCount struct {
	RuleID   string   `json:"rule_id"`
	RuleName string   `json:"rule_name"`
	Severity Severity `json:"severity"`
	Count    int      `json:"count"`
}

// LintSummary is the aggregate view over the (filtered) cache. TotalAreas
// counts the filtered set; TotalAllAreas and DeletedAreas always count the
// whole cache.
type LintSummary struct {
	TotalAreas      int              `json:"total_areas"`
	TotalAllAreas   int              `json:"total_all_areas"`
	DeletedAreas    int              `json:"deleted_areas"`
	AreasWithIssues int              `json:"areas_with_issues"`
	TotalIssues     int              `json:"total_issues"`
	AreasByType     map[string]int   `json:"areas_by_type"`
	ByRule          []RuleCount      `json:"issues_by_rule"`
	BySeverity      map[Severity]int `json:"issues_by_severity"`
	Sync            SyncStatus       `json:"sync"`
}

// CountryCommunities pairs a country with its community count, for the
// countries listing endpoint.
type CountryCommunities struct {
	CountryID   string `json:"country_id"`
	CountryName string `json:"country_name"`
	Communities int    `json:"communities"`
}

// FixResult reports the outcome of one fix execution.
type FixResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
