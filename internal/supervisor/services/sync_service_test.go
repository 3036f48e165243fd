// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/btcmap/gazetteer/internal/models"
	areasync "github.com/btcmap/gazetteer/internal/sync"
)

// recordingRunner records every Run call.
type recordingRunner struct {
	mu    sync.Mutex
	calls []bool // full flag per call
	err   error
}

func (r *recordingRunner) Run(_ context.Context, full bool) (models.SyncSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, full)
	return models.SyncSummary{Full: full}, r.err
}

func (r *recordingRunner) snapshot() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.calls...)
}

func TestSyncServiceFullOnStartup(t *testing.T) {
	runner := &recordingRunner{}
	svc := NewSyncService(runner, time.Hour, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(runner.snapshot()) == 0 {
		select {
		case <-deadline:
			t.Fatal("initial sync never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	calls := runner.snapshot()
	if !calls[0] {
		t.Error("startup sync should be full")
	}
}

func TestSyncServicePeriodicTicks(t *testing.T) {
	runner := &recordingRunner{}
	svc := NewSyncService(runner, 20*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(runner.snapshot()) < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d runs before deadline", len(runner.snapshot()))
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	<-done

	for i, full := range runner.snapshot()[:3] {
		if full {
			t.Errorf("run %d was full, want incremental", i)
		}
	}
}

func TestSyncServiceSurvivesConflictsAndErrors(t *testing.T) {
	runner := &recordingRunner{err: areasync.ErrSyncInProgress}
	svc := NewSyncService(runner, 10*time.Millisecond, false)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(runner.snapshot()) < 2 {
		select {
		case <-deadline:
			t.Fatal("loop stopped after conflict")
		case <-time.After(5 * time.Millisecond):
		}
	}

	runner.mu.Lock()
	runner.err = errors.New("upstream down")
	runner.mu.Unlock()

	before := len(runner.snapshot())
	deadline = time.After(2 * time.Second)
	for len(runner.snapshot()) <= before {
		select {
		case <-deadline:
			t.Fatal("loop stopped after upstream error")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	err := <-done
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}

func TestSyncServiceZeroIntervalIsManualOnly(t *testing.T) {
	runner := &recordingRunner{}
	svc := NewSyncService(runner, 0, true)
	if svc.String() != "sync-runner" {
		t.Errorf("String() = %q", svc.String())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	deadline := time.After(2 * time.Second)
	for len(runner.snapshot()) == 0 {
		select {
		case <-deadline:
			t.Fatal("startup sync never ran")
		case <-time.After(5 * time.Millisecond):
		}
	}

	// No ticker should fire after the startup run.
	time.Sleep(50 * time.Millisecond)
	if got := len(runner.snapshot()); got != 1 {
		t.Errorf("runs = %d, want 1", got)
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v", err)
	}
}
