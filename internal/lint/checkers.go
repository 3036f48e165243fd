// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package lint

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/btcmap/gazetteer/internal/config"
	"github.com/btcmap/gazetteer/internal/models"
)

// Linter runs the per-area checks. The url-alias-clash rule needs the whole
// dataset and lives in the cache's clash detection pass instead.
type Linter struct {
	staticBaseURL  string
	verifiedMaxAge time.Duration
}

// New creates a Linter. staticBaseURL is the icon host the icon-legacy-url
// rule expects, e.g. https://static.btcmap.org.
func New(cfg config.LintConfig, staticBaseURL string) *Linter {
	return &Linter{
		staticBaseURL:  strings.TrimSuffix(staticBaseURL, "/"),
		verifiedMaxAge: cfg.VerifiedMaxAge,
	}
}

// CheckArea runs all per-area checks and returns the open issues, in stable
// rule order.
func (l *Linter) CheckArea(area *models.Area, now time.Time) []models.Issue {
	var issues []models.Issue
	checks := []func(*models.Area, time.Time) *models.Issue{
		l.checkIconMissing,
		l.checkIconLegacyURL,
		l.checkVerifiedStale,
	}
	for _, check := range checks {
		if issue := check(area, now); issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues
}

// IconURLValid reports whether the icon URL already follows the canonical
// scheme <static>/images/areas/<id>.<ext>.
func (l *Linter) IconURLValid(areaID, iconURL string) bool {
	pattern := fmt.Sprintf(`^%s/images/areas/%s\.\w+$`,
		regexp.QuoteMeta(l.staticBaseURL), regexp.QuoteMeta(areaID))
	matched, err := regexp.MatchString(pattern, iconURL)
	return err == nil && matched
}

func (l *Linter) checkIconMissing(area *models.Area, _ time.Time) *models.Issue {
	iconURL := area.StringTag(models.TagIconSquare)
	if iconURL == "" || iconURL == models.PendingUploadSentinel {
		issue := models.IssueFromRule(Rules[RuleIconMissing], "No icon is set for this area")
		return &issue
	}
	return nil
}

func (l *Linter) checkIconLegacyURL(area *models.Area, _ time.Time) *models.Issue {
	iconURL := area.StringTag(models.TagIconSquare)
	if iconURL == "" {
		// Handled by icon-missing.
		return nil
	}
	if l.IconURLValid(area.ID.String(), iconURL) {
		return nil
	}
	issue := models.IssueFromRule(Rules[RuleIconLegacyURL], "Icon URL does not match expected format")
	issue.CurrentValue = iconURL
	return &issue
}

func (l *Linter) checkVerifiedStale(area *models.Area, now time.Time) *models.Issue {
	verifiedStr := area.StringTag(models.TagVerifiedDate)

	var verified time.Time
	var haveDate bool
	if verifiedStr != "" {
		verified, haveDate = parseVerifiedDate(verifiedStr)
	} else if !area.UpdatedAt.IsZero() {
		verified, haveDate = area.UpdatedAt, true
	}

	if !haveDate {
		issue := models.IssueFromRule(Rules[RuleVerifiedStale], "No verification date found")
		return &issue
	}

	verified = verified.UTC()
	cutoff := now.UTC().Add(-l.verifiedMaxAge)
	if verified.Before(cutoff) {
		issue := models.IssueFromRule(Rules[RuleVerifiedStale],
			fmt.Sprintf("Last verified %s, over 12 months ago", verified.Format("2006-01-02")))
		if verifiedStr != "" {
			issue.CurrentValue = verifiedStr
		} else {
			issue.CurrentValue = area.UpdatedAt.UTC().Format(time.RFC3339)
		}
		return &issue
	}
	return nil
}

// parseVerifiedDate accepts a plain calendar date first, then a full RFC 3339
// timestamp.
func parseVerifiedDate(s string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
