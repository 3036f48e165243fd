// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package lint

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/btcmap/gazetteer/internal/models"
	"github.com/btcmap/gazetteer/internal/rpc"
)

// mockClient records upstream calls for fixer tests.
type mockClient struct {
	areas    map[string]*models.Area
	setTags  []string
	icons    []string
	iconExt  string
	tagErr   error
	iconErr  error
	getErr   error
	lastTagV any
}

var _ rpc.ClientInterface = (*mockClient)(nil)

func (m *mockClient) ListAreas(context.Context, time.Time, int) ([]models.Area, error) {
	return nil, nil
}

func (m *mockClient) GetArea(_ context.Context, id string) (*models.Area, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.areas[id], nil
}

func (m *mockClient) AddArea(context.Context, map[string]any) (*models.Area, error) {
	return nil, nil
}

func (m *mockClient) SetAreaTag(_ context.Context, id, name string, value any) error {
	if m.tagErr != nil {
		return m.tagErr
	}
	m.setTags = append(m.setTags, id+"/"+name)
	m.lastTagV = value
	return nil
}

func (m *mockClient) RemoveAreaTag(context.Context, string, string) error { return nil }
func (m *mockClient) RemoveArea(context.Context, string) error            { return nil }

func (m *mockClient) SetAreaIcon(_ context.Context, id, iconBase64, iconExt string) error {
	if m.iconErr != nil {
		return m.iconErr
	}
	m.icons = append(m.icons, id+"/"+iconBase64)
	m.iconExt = iconExt
	return nil
}

func (m *mockClient) Search(context.Context, string) ([]rpc.SearchResult, error) {
	return nil, nil
}

func newTestFixer(client rpc.ClientInterface) *Fixer {
	f := NewFixer(client, testLinter(), 5*time.Second)
	f.now = func() time.Time { return time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC) }
	return f
}

func TestBumpVerified(t *testing.T) {
	client := &mockClient{}
	f := newTestFixer(client)

	result, err := f.Apply(context.Background(), models.FixBumpVerified, "42")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.Message != "Verified date set to 2026-08-28" {
		t.Errorf("Message = %q", result.Message)
	}
	if len(client.setTags) != 1 || client.setTags[0] != "42/verified:date" {
		t.Errorf("setTags = %v", client.setTags)
	}
	if client.lastTagV != "2026-08-28" {
		t.Errorf("tag value = %v", client.lastTagV)
	}
}

func TestBumpVerifiedUpstreamFailure(t *testing.T) {
	client := &mockClient{tagErr: fmt.Errorf("boom")}
	f := newTestFixer(client)

	result, err := f.Apply(context.Background(), models.FixBumpVerified, "42")
	if err != nil {
		t.Fatal(err)
	}
	if result.Success || result.Error == "" {
		t.Errorf("result = %+v", result)
	}
}

func TestMigrateIcon(t *testing.T) {
	iconBytes := []byte("fake-image-bytes")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp; charset=binary")
		_, _ = w.Write(iconBytes)
	}))
	defer srv.Close()

	client := &mockClient{
		areas: map[string]*models.Area{
			"42": {
				ID:   "42",
				Tags: map[string]any{models.TagIconSquare: srv.URL + "/legacy.webp"},
			},
		},
	}
	f := newTestFixer(client)

	result, err := f.Apply(context.Background(), models.FixMigrateIcon, "42")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if len(client.icons) != 1 {
		t.Fatalf("icons = %v", client.icons)
	}
	want := "42/" + base64.StdEncoding.EncodeToString(iconBytes)
	if client.icons[0] != want {
		t.Errorf("upload = %q, want %q", client.icons[0], want)
	}
	if client.iconExt != "webp" {
		t.Errorf("ext = %q, want webp", client.iconExt)
	}
}

func TestMigrateIconAlreadyCanonical(t *testing.T) {
	client := &mockClient{
		areas: map[string]*models.Area{
			"42": {
				ID:   "42",
				Tags: map[string]any{models.TagIconSquare: "https://static.btcmap.org/images/areas/42.png"},
			},
		},
	}
	f := newTestFixer(client)

	result, err := f.Apply(context.Background(), models.FixMigrateIcon, "42")
	if err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.Message != "Icon already in correct format" {
		t.Errorf("result = %+v", result)
	}
	if len(client.icons) != 0 {
		t.Errorf("no upload expected, got %v", client.icons)
	}
}

func TestMigrateIconFailures(t *testing.T) {
	downSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer downSrv.Close()

	tests := []struct {
		name   string
		client *mockClient
	}{
		{"area not found", &mockClient{areas: map[string]*models.Area{}}},
		{"no icon url", &mockClient{areas: map[string]*models.Area{
			"42": {ID: "42", Tags: map[string]any{}},
		}}},
		{"download fails", &mockClient{areas: map[string]*models.Area{
			"42": {ID: "42", Tags: map[string]any{models.TagIconSquare: downSrv.URL + "/x.png"}},
		}}},
		{"get area fails", &mockClient{getErr: fmt.Errorf("upstream down")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFixer(tt.client)
			result, err := f.Apply(context.Background(), models.FixMigrateIcon, "42")
			if err != nil {
				t.Fatal(err)
			}
			if result.Success || result.Error == "" {
				t.Errorf("result = %+v", result)
			}
		})
	}
}

func TestApplyUnknownAction(t *testing.T) {
	f := newTestFixer(&mockClient{})
	if _, err := f.Apply(context.Background(), models.FixAction("nuke"), "42"); err == nil {
		t.Error("unknown action should error")
	}
}

func TestNormalizeContentType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"image/png", "image/png"},
		{"image/JPEG; charset=binary", "image/jpeg"},
		{" image/webp ", "image/webp"},
	}
	for _, tt := range tests {
		if got := normalizeContentType(tt.in); got != tt.want {
			t.Errorf("normalizeContentType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
