// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package rpc is the client for the upstream BTC Map API. Mutating calls go
// through the JSON-RPC 2.0 endpoint at /rpc; bulk reads use the REST listing
// at /v3/areas. All calls are protected by a shared circuit breaker.
package rpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/btcmap/gazetteer/internal/config"
	"github.com/btcmap/gazetteer/internal/metrics"
	"github.com/btcmap/gazetteer/internal/models"
)

// maxErrorBodySize bounds how much of an error response body is read back
// for diagnostics.
const maxErrorBodySize = 64 * 1024

// ClientInterface defines the upstream operations used by the rest of the
// service. Implemented by Client for production and by mocks in tests.
type ClientInterface interface {
	ListAreas(ctx context.Context, updatedSince time.Time, limit int) ([]models.Area, error)
	GetArea(ctx context.Context, id string) (*models.Area, error)
	AddArea(ctx context.Context, tags map[string]any) (*models.Area, error)
	SetAreaTag(ctx context.Context, id, name string, value any) error
	RemoveAreaTag(ctx context.Context, id, name string) error
	RemoveArea(ctx context.Context, id string) error
	SetAreaIcon(ctx context.Context, id, iconBase64, iconExt string) error
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// SearchResult is one hit from the upstream search RPC.
type SearchResult struct {
	ID   models.AreaID `json:"id"`
	Name string        `json:"name"`
	Type string        `json:"type"`
}

// Client talks to the upstream BTC Map API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *breaker
}

var _ ClientInterface = (*Client)(nil)

// NewClient creates an upstream client from config.
func NewClient(cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		breaker: newBreaker("btcmap-api"),
	}
}

// rpcRequest is a JSON-RPC 2.0 call envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params"`
	ID      int    `json:"id"`
}

// rpcResponse is a JSON-RPC 2.0 reply envelope.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      int             `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// call performs one JSON-RPC request and decodes the result into out when
// out is non-nil.
func (c *Client) call(ctx context.Context, method string, params, out any) error {
	start := time.Now()
	err := c.breaker.execute(func() error {
		return c.doCall(ctx, method, params, out)
	})
	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(method).Inc()
	}
	return err
}

func (c *Client) doCall(ctx context.Context, method string, params, out any) error {
	payload, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rpc", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := readBodyForError(resp.Body)
		return &UpstreamError{
			Method:     method,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
		}
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return &UpstreamError{Method: method, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if envelope.Error != nil {
		return &UpstreamError{Method: method, Err: envelope.Error}
	}
	if out != nil && len(envelope.Result) > 0 {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return &UpstreamError{Method: method, Err: fmt.Errorf("failed to decode result: %w", err)}
		}
	}
	return nil
}

// ListAreas fetches one page of areas updated strictly after updatedSince,
// ordered by updated_at ascending.
func (c *Client) ListAreas(ctx context.Context, updatedSince time.Time, limit int) ([]models.Area, error) {
	const method = "list_areas"
	start := time.Now()

	var areas []models.Area
	err := c.breaker.execute(func() error {
		u, err := url.Parse(c.baseURL + "/v3/areas")
		if err != nil {
			return fmt.Errorf("invalid base URL: %w", err)
		}
		q := u.Query()
		q.Set("updated_since", updatedSince.UTC().Format(time.RFC3339Nano))
		q.Set("limit", strconv.Itoa(limit))
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("failed to build list request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return &UpstreamError{Method: method, Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body := readBodyForError(resp.Body)
			return &UpstreamError{
				Method:     method,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
			}
		}
		if err := json.NewDecoder(resp.Body).Decode(&areas); err != nil {
			return &UpstreamError{Method: method, Err: fmt.Errorf("failed to decode areas: %w", err)}
		}
		return nil
	})

	metrics.UpstreamRequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestErrors.WithLabelValues(method).Inc()
		return nil, err
	}
	return areas, nil
}

// GetArea fetches a single area by id via RPC.
func (c *Client) GetArea(ctx context.Context, id string) (*models.Area, error) {
	var area models.Area
	if err := c.call(ctx, "get_area", map[string]any{"id": id}, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// AddArea creates a new area with the given tags.
func (c *Client) AddArea(ctx context.Context, tags map[string]any) (*models.Area, error) {
	var area models.Area
	if err := c.call(ctx, "add_area", map[string]any{"tags": tags}, &area); err != nil {
		return nil, err
	}
	return &area, nil
}

// SetAreaTag sets a single tag on an area.
func (c *Client) SetAreaTag(ctx context.Context, id, name string, value any) error {
	return c.call(ctx, "set_area_tag", map[string]any{
		"id":    id,
		"name":  name,
		"value": value,
	}, nil)
}

// RemoveAreaTag deletes a single tag from an area.
func (c *Client) RemoveAreaTag(ctx context.Context, id, name string) error {
	return c.call(ctx, "remove_area_tag", map[string]any{
		"id":  id,
		"tag": name,
	}, nil)
}

// RemoveArea soft-deletes an area upstream.
func (c *Client) RemoveArea(ctx context.Context, id string) error {
	return c.call(ctx, "remove_area", map[string]any{"id": id}, nil)
}

// SetAreaIcon uploads a new icon for an area as base64 plus extension.
func (c *Client) SetAreaIcon(ctx context.Context, id, iconBase64, iconExt string) error {
	return c.call(ctx, "set_area_icon", map[string]any{
		"id":          id,
		"icon_base64": iconBase64,
		"icon_ext":    iconExt,
	}, nil)
}

// Search queries upstream areas by name.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var results []SearchResult
	if err := c.call(ctx, "search", map[string]any{"query": query}, &results); err != nil {
		return nil, err
	}
	return results, nil
}

// readBodyForError reads at most maxErrorBodySize of the response body for
// error reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
