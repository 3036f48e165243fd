// Gazetteer - Area Curation and Data Quality for BTC Map
// Copyright 2026 BTC Map contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/btcmap/gazetteer

// Package middleware provides HTTP middleware shared across the API surface.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/btcmap/gazetteer/internal/logging"
)

// RequestIDHeader is the header carrying the request identifier. Clients may
// supply their own; otherwise one is generated.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context and echoes it on the
// response so clients can correlate logs.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := logging.ContextWithRequestID(r.Context(), requestID)
		w.Header().Set(RequestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
