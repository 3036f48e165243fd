// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package cache

import (
	"time"

	"github.com/btcmap/gazetteer/internal/models"
)

// TryBeginSync marks the cache as syncing. Returns false when another sync
// already holds the flag; concurrent syncs are rejected, not queued.
func (c *LintCache) TryBeginSync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isSyncing {
		return false
	}
	c.isSyncing = true
	c.progress = models.SyncProgress{}
	return true
}

// EndSync clears the syncing flag.
func (c *LintCache) EndSync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isSyncing = false
}

// SetProgress updates the live progress counters.
func (c *LintCache) SetProgress(current, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.progress = models.SyncProgress{Current: current, Total: total}
}

// Cursor returns the incremental sync cursor, the highest updated_at
// ingested so far. Zero until the first successful batch.
func (c *LintCache) Cursor() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cursor
}

// SetCursor advances the incremental sync cursor.
func (c *LintCache) SetCursor(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = t
}

// ResetCursor clears the cursor so the next sync replays full history.
func (c *LintCache) ResetCursor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cursor = time.Time{}
}

// MarkSynced records a completed sync run.
func (c *LintCache) MarkSynced(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastSync = &at
}

// Status snapshots the sync metadata.
func (c *LintCache) Status() models.SyncStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.statusLocked()
}

func (c *LintCache) statusLocked() models.SyncStatus {
	status := models.SyncStatus{
		IsSyncing: c.isSyncing,
	}
	if c.lastSync != nil {
		t := *c.lastSync
		status.LastSync = &t
	}
	if !c.cursor.IsZero() {
		t := c.cursor
		status.Cursor = &t
	}
	if c.isSyncing {
		p := c.progress
		status.Progress = &p
	}
	return status
}
