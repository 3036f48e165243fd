// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package lint

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/btcmap/gazetteer/internal/metrics"
	"github.com/btcmap/gazetteer/internal/models"
	"github.com/btcmap/gazetteer/internal/rpc"
)

// maxIconSize bounds icon downloads during migration.
const maxIconSize = 10 << 20 // 10MB

// contentTypeExtensions maps icon content types to upload extensions.
// Anything unrecognized falls back to png.
var contentTypeExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// Fixer executes auto-fix actions against the upstream API.
type Fixer struct {
	client     rpc.ClientInterface
	linter     *Linter
	httpClient *http.Client
	// now is swapped in tests for a fixed clock.
	now func() time.Time
}

// NewFixer creates a Fixer sharing the upstream client and the linter's icon
// URL scheme.
func NewFixer(client rpc.ClientInterface, linter *Linter, downloadTimeout time.Duration) *Fixer {
	return &Fixer{
		client: client,
		linter: linter,
		httpClient: &http.Client{
			Timeout: downloadTimeout,
		},
		now: time.Now,
	}
}

// Apply runs one fix action on one area. Fix failures are reported in the
// result, not as an error; the error return is reserved for unknown actions.
func (f *Fixer) Apply(ctx context.Context, action models.FixAction, areaID string) (models.FixResult, error) {
	var result models.FixResult
	switch action {
	case models.FixMigrateIcon:
		result = f.migrateIcon(ctx, areaID)
	case models.FixBumpVerified:
		result = f.bumpVerified(ctx, areaID)
	default:
		return models.FixResult{}, fmt.Errorf("unknown fix action %q", action)
	}

	outcome := "success"
	if !result.Success {
		outcome = "failure"
	}
	metrics.LintFixesExecuted.WithLabelValues(string(action), outcome).Inc()
	return result, nil
}

// migrateIcon downloads the area's current icon from its legacy location and
// re-uploads it through set_area_icon so it lands on the canonical host.
func (f *Fixer) migrateIcon(ctx context.Context, areaID string) models.FixResult {
	area, err := f.client.GetArea(ctx, areaID)
	if err != nil {
		return models.FixResult{Success: false, Error: fmt.Sprintf("Failed to load area: %v", err)}
	}
	if area == nil {
		return models.FixResult{Success: false, Error: "Area not found"}
	}

	iconURL := area.StringTag(models.TagIconSquare)
	if iconURL == "" {
		return models.FixResult{Success: false, Error: "No icon URL to migrate"}
	}
	if f.linter.IconURLValid(area.ID.String(), iconURL) {
		return models.FixResult{Success: true, Message: "Icon already in correct format"}
	}

	data, contentType, err := f.downloadIcon(ctx, iconURL)
	if err != nil {
		return models.FixResult{Success: false, Error: fmt.Sprintf("Failed to download icon: %v", err)}
	}

	ext, ok := contentTypeExtensions[normalizeContentType(contentType)]
	if !ok {
		ext = "png"
	}

	encoded := base64.StdEncoding.EncodeToString(data)
	if err := f.client.SetAreaIcon(ctx, areaID, encoded, ext); err != nil {
		return models.FixResult{Success: false, Error: fmt.Sprintf("Failed to upload icon: %v", err)}
	}
	return models.FixResult{Success: true, Message: "Icon migrated successfully"}
}

// bumpVerified sets verified:date to today's date.
func (f *Fixer) bumpVerified(ctx context.Context, areaID string) models.FixResult {
	today := f.now().UTC().Format("2006-01-02")
	if err := f.client.SetAreaTag(ctx, areaID, models.TagVerifiedDate, today); err != nil {
		return models.FixResult{Success: false, Error: fmt.Sprintf("Failed to set verified date: %v", err)}
	}
	return models.FixResult{Success: true, Message: fmt.Sprintf("Verified date set to %s", today)}
}

func (f *Fixer) downloadIcon(ctx context.Context, iconURL string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconSize+1))
	if err != nil {
		return nil, "", err
	}
	if len(data) > maxIconSize {
		return nil, "", fmt.Errorf("icon exceeds %d bytes", maxIconSize)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

// normalizeContentType strips parameters like "; charset=binary".
func normalizeContentType(ct string) string {
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.TrimSpace(strings.ToLower(ct))
}
