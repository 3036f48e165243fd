// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package sync pulls area records from the upstream BTC Map API into the
// lint cache. Syncs page through /v3/areas ordered by updated_at, tracking a
// cursor so incremental runs only fetch what changed.
package sync

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/btcmap/gazetteer/internal/cache"
	"github.com/btcmap/gazetteer/internal/config"
	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/metrics"
	"github.com/btcmap/gazetteer/internal/models"
	"github.com/btcmap/gazetteer/internal/rpc"
)

// ErrSyncInProgress is returned when a sync is requested while another run
// holds the sync flag. Concurrent syncs are rejected, never queued.
var ErrSyncInProgress = errors.New("sync already in progress")

// fullSyncEpoch is the updated_since floor for a full sync. Predates every
// record upstream.
var fullSyncEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Engine drives sync runs against the upstream API.
type Engine struct {
	client    rpc.ClientInterface
	cache     *cache.LintCache
	batchSize int
	limiter   *rate.Limiter

	// now is swapped in tests for a fixed clock.
	now func() time.Time
}

// NewEngine creates a sync engine. cfg.Pause spaces out consecutive batch
// fetches to keep load on the upstream API polite.
func NewEngine(client rpc.ClientInterface, lintCache *cache.LintCache, cfg config.SyncConfig) *Engine {
	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Pause > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Pause), 1)
	}
	return &Engine{
		client:    client,
		cache:     lintCache,
		batchSize: cfg.BatchSize,
		limiter:   limiter,
		now:       time.Now,
	}
}

// Run executes one sync. A full run replays history from the epoch and is
// also forced when no cursor exists yet. Returns ErrSyncInProgress when
// another run is active.
//
// Transport failures mid-run do not discard progress: everything ingested so
// far is kept, the cursor advances to the last complete batch and the
// summary is marked partial.
func (e *Engine) Run(ctx context.Context, full bool) (models.SyncSummary, error) {
	if !e.cache.TryBeginSync() {
		metrics.SyncErrors.WithLabelValues("conflict").Inc()
		return models.SyncSummary{}, ErrSyncInProgress
	}
	defer e.cache.EndSync()

	started := e.now()
	cursor := e.cache.Cursor()
	if full || cursor.IsZero() {
		full = true
		cursor = fullSyncEpoch
	}

	logging.Info().
		Bool("full", full).
		Time("cursor", cursor).
		Int("batch_size", e.batchSize).
		Msg("Starting area sync")

	summary := models.SyncSummary{Full: full, StartedAt: started}
	var runErr error
	stuck := false

	for {
		if err := ctx.Err(); err != nil {
			runErr = err
			summary.Partial = true
			break
		}

		areas, err := e.client.ListAreas(ctx, cursor, e.batchSize)
		if err != nil {
			logging.Error().Err(err).Time("cursor", cursor).Msg("Batch fetch failed, finishing sync as partial")
			metrics.SyncErrors.WithLabelValues("upstream").Inc()
			summary.Partial = true
			runErr = err
			break
		}
		if len(areas) == 0 {
			break
		}

		summary.Batches++
		metrics.SyncBatchSize.Observe(float64(len(areas)))

		batchMax := cursor
		for i := range areas {
			e.cache.Upsert(&areas[i], started)
			summary.AreasProcessed++
			if areas[i].UpdatedAt.After(batchMax) {
				batchMax = areas[i].UpdatedAt
			}
		}
		e.cache.SetProgress(summary.AreasProcessed, 0)

		if !batchMax.After(cursor) {
			// Every record in the batch shares the cursor timestamp, so the
			// next fetch would return the same page. Nudge past it once; if
			// that does not help the upstream ordering is broken.
			if stuck {
				logging.Warn().Time("cursor", cursor).Msg("Cursor failed to advance twice, aborting sync")
				metrics.SyncErrors.WithLabelValues("stuck_cursor").Inc()
				summary.Partial = true
				break
			}
			stuck = true
			cursor = cursor.Add(time.Millisecond)
		} else {
			stuck = false
			cursor = batchMax
		}

		if len(areas) < e.batchSize {
			break
		}
		if err := e.limiter.Wait(ctx); err != nil {
			runErr = err
			summary.Partial = true
			break
		}
	}

	// Finalize even on partial runs: whatever was ingested should be
	// consistent.
	e.cache.SetCursor(cursor)
	e.cache.RebuildCountryIndex()
	e.cache.DetectAliasClashes()
	e.cache.UpdateMetrics()
	if !summary.Partial {
		e.cache.MarkSynced(e.now())
	}

	summary.Duration = e.now().Sub(started)
	summary.DurationMS = summary.Duration.Milliseconds()
	metrics.RecordSyncOperation(summary.Duration, summary.AreasProcessed, runErr)

	logging.Info().
		Int("areas", summary.AreasProcessed).
		Int("batches", summary.Batches).
		Bool("partial", summary.Partial).
		Dur("duration", summary.Duration).
		Msg("Area sync finished")

	return summary, runErr
}
