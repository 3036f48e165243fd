// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// mockServer implements HTTPServer for lifecycle tests.
type mockServer struct {
	listenErr error
	closed    chan struct{}
	shutdowns int
}

func newMockServer(listenErr error) *mockServer {
	return &mockServer{listenErr: listenErr, closed: make(chan struct{})}
}

func (m *mockServer) ListenAndServe() error {
	if m.listenErr != nil {
		return m.listenErr
	}
	<-m.closed
	return http.ErrServerClosed
}

func (m *mockServer) Shutdown(context.Context) error {
	m.shutdowns++
	close(m.closed)
	return nil
}

func TestHTTPServiceGracefulShutdown(t *testing.T) {
	server := newMockServer(nil)
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return")
	}
	if server.shutdowns != 1 {
		t.Errorf("shutdowns = %d", server.shutdowns)
	}
}

func TestHTTPServiceStartFailure(t *testing.T) {
	server := newMockServer(errors.New("port in use"))
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if err == nil {
		t.Fatal("expected error when listen fails")
	}
	if server.shutdowns != 0 {
		t.Errorf("shutdown called on failed start")
	}
}

func TestHTTPServiceDefaultTimeout(t *testing.T) {
	svc := NewHTTPServerService(newMockServer(nil), 0)
	if svc.shutdownTimeout != 10*time.Second {
		t.Errorf("shutdownTimeout = %v", svc.shutdownTimeout)
	}
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}
