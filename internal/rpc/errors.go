// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

package rpc

import (
	"errors"
	"fmt"
)

// UpstreamError wraps any failure talking to the BTC Map API. Handlers map
// it to an UPSTREAM_ERROR response; the sync engine treats it as a signal to
// finish the run as partial.
type UpstreamError struct {
	Method     string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("upstream %s failed with status %d: %v", e.Method, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("upstream %s failed: %v", e.Method, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsUpstreamError reports whether err is (or wraps) an UpstreamError.
func IsUpstreamError(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
