// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package services

import (
	"context"
	"errors"
	"time"

	"github.com/btcmap/gazetteer/internal/logging"
	"github.com/btcmap/gazetteer/internal/models"
	areasync "github.com/btcmap/gazetteer/internal/sync"
)

// SyncRunner matches the sync engine's Run method, allowing tests to
// substitute a mock.
type SyncRunner interface {
	Run(ctx context.Context, full bool) (models.SyncSummary, error)
}

// SyncService runs periodic area syncs under supervision.
//
// A manually triggered sync holds the cache's sync flag, so a tick that
// collides with one is simply skipped rather than queued.
type SyncService struct {
	engine        SyncRunner
	interval      time.Duration
	fullOnStartup bool
	name          string
}

// NewSyncService creates a periodic sync runner. When fullOnStartup is set
// the first run replays history from the epoch, populating a cold cache.
// A non-positive interval disables the periodic loop; only the startup run
// happens and further syncs are manual.
func NewSyncService(engine SyncRunner, interval time.Duration, fullOnStartup bool) *SyncService {
	return &SyncService{
		engine:        engine,
		interval:      interval,
		fullOnStartup: fullOnStartup,
		name:          "sync-runner",
	}
}

// Serve implements suture.Service. Sync failures are logged and retried on
// the next tick; only context cancellation ends the loop.
func (s *SyncService) Serve(ctx context.Context) error {
	s.runOnce(ctx, s.fullOnStartup)

	if s.interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx, false)
		}
	}
}

func (s *SyncService) runOnce(ctx context.Context, full bool) {
	if ctx.Err() != nil {
		return
	}
	_, err := s.engine.Run(ctx, full)
	switch {
	case err == nil:
	case errors.Is(err, areasync.ErrSyncInProgress):
		logging.Debug().Msg("Scheduled sync skipped, another sync is running")
	case errors.Is(err, context.Canceled):
	default:
		logging.Error().Err(err).Msg("Scheduled sync failed, will retry on next tick")
	}
}

// String implements fmt.Stringer; suture uses it in log messages.
func (s *SyncService) String() string {
	return s.name
}
