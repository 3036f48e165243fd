// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package lint implements the area quality rules: the rule registry, the
// per-area checkers and the auto-fix executors.
package lint

import (
	"fmt"
	"sort"

	"github.com/btcmap/gazetteer/internal/models"
)

// Rule identifiers.
const (
	RuleIconLegacyURL = "icon-legacy-url"
	RuleIconMissing   = "icon-missing"
	RuleVerifiedStale = "verified-stale"
	RuleURLAliasClash = "url-alias-clash"
)

// Rules is the registry of all lint rules, keyed by rule id.
var Rules = map[string]models.Rule{
	RuleIconLegacyURL: {
		ID:          RuleIconLegacyURL,
		Name:        "Legacy Icon URL",
		Description: "Icon is not hosted on the standard static.btcmap.org location",
		Severity:    models.SeverityWarning,
		AutoFixable: true,
		FixAction:   models.FixMigrateIcon,
	},
	RuleIconMissing: {
		ID:          RuleIconMissing,
		Name:        "Missing Icon",
		Description: "No icon:square tag is set for this area",
		Severity:    models.SeverityError,
		AutoFixable: false,
	},
	RuleVerifiedStale: {
		ID:          RuleVerifiedStale,
		Name:        "Verification Stale",
		Description: "Area has not been verified in over 12 months",
		Severity:    models.SeverityWarning,
		AutoFixable: true,
		FixAction:   models.FixBumpVerified,
	},
	RuleURLAliasClash: {
		ID:          RuleURLAliasClash,
		Name:        "URL Alias Clash",
		Description: "Multiple areas share the same url_alias",
		Severity:    models.SeverityError,
		AutoFixable: false,
	},
}

// AllRules returns every rule sorted by id.
func AllRules() []models.Rule {
	rules := make([]models.Rule, 0, len(Rules))
	for _, r := range Rules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// NewAliasClashIssue builds the url-alias-clash issue attached to one of the
// clashing areas. total counts every area sharing the alias, including the
// one the issue is attached to.
func NewAliasClashIssue(alias string, total int, clashingIDs, clashingNames []string) models.Issue {
	issue := models.IssueFromRule(Rules[RuleURLAliasClash],
		fmt.Sprintf("Duplicate url_alias shared by %d areas", total))
	issue.CurrentValue = alias
	issue.ClashingAreaIDs = clashingIDs
	issue.ClashingAreaNames = clashingNames
	return issue
}
