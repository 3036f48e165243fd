// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package api

import (
	"net/http"
	"strings"

	"github.com/btcmap/gazetteer/internal/cache"
)

// tagParamPrefix marks query parameters that filter on arbitrary area tags,
// e.g. ?tag.continent=europe or ?tag.contact:email= (bare = existence check).
const tagParamPrefix = "tag."

// parseFilter builds a cache filter from query parameters. issuesOnlyDefault
// differs per endpoint: results lists problem areas by default while summary
// counts everything.
func parseFilter(r *http.Request, issuesOnlyDefault bool) cache.Filter {
	q := r.URL.Query()

	f := cache.Filter{
		Rule:           q.Get("rule"),
		Severity:       q.Get("severity"),
		Type:           q.Get("type"),
		CountryID:      q.Get("country_id"),
		IncludeDeleted: parseBoolParam(r, "include_deleted", false),
		IssuesOnly:     parseBoolParam(r, "issues_only", issuesOnlyDefault),
	}

	for key, values := range q {
		name, ok := strings.CutPrefix(key, tagParamPrefix)
		if !ok || name == "" {
			continue
		}
		tf := cache.TagFilter{Name: name}
		if len(values) > 0 && values[0] != "" {
			value := values[0]
			tf.Value = &value
		}
		f.Tags = append(f.Tags, tf)
	}

	return f
}
