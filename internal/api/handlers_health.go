// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"time"
)

// HealthStatus is the body of the health endpoints.
type HealthStatus struct {
	Status          string `json:"status"`
	SnapshotVersion int64  `json:"snapshot_version,omitempty"`
}

// HealthLive reports that the process is serving HTTP.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, HealthStatus{Status: "alive"}, time.Now(), false)
}

// HealthReady reports whether the engine has a snapshot to serve.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.engine == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "Engine not initialized", nil)
		return
	}

	version := h.engine.Status().SnapshotVersion
	if version <= 0 {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeNotReady, "No snapshot loaded", nil)
		return
	}

	respondSuccess(w, r, http.StatusOK, HealthStatus{Status: "ready", SnapshotVersion: version}, start, false)
}
