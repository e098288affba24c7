// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/hybridrec/internal/logging"
	"github.com/tomtom215/hybridrec/internal/recommend"
)

// RecommendationItem is one ranked product with its explanation.
type RecommendationItem struct {
	ProductID int                `json:"product_id"`
	Name      string             `json:"name,omitempty"`
	Category  string             `json:"category,omitempty"`
	Score     float64            `json:"score"`
	Sources   map[string]float64 `json:"sources,omitempty"`
	Reasons   []string           `json:"reasons"`
}

// RecommendationsResponse is the body of GET /recommendations/user/{userID}.
type RecommendationsResponse struct {
	UserID          int                  `json:"user_id"`
	ColdStart       bool                 `json:"cold_start"`
	SnapshotVersion int64                `json:"snapshot_version"`
	SourcesUsed     []string             `json:"sources_used"`
	Items           []RecommendationItem `json:"items"`
}

// StatusResponse is the body of GET /recommendations/status.
type StatusResponse struct {
	recommend.Status
	CacheBackend string            `json:"cache_backend"`
	Counters     recommend.Metrics `json:"counters"`
}

// GetRecommendations returns ranked products for a user together with the
// reasons for each.
//
// Query parameters:
//   - k: number of products (default from configuration, capped by max_top_n)
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil || userID <= 0 {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidUserID, "User ID must be a positive integer", nil)
		return
	}

	topN := 0
	if raw := r.URL.Query().Get("k"); raw != "" {
		topN, err = strconv.Atoi(raw)
		if err != nil || topN <= 0 {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "k must be a positive integer", nil)
			return
		}
	}

	ctx := r.Context()
	result, err := h.engine.RecommendExplained(ctx, recommend.Request{
		UserID:    userID,
		TopN:      topN,
		RequestID: logging.RequestIDFromContext(ctx),
	})
	if err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	resp, explanations, snap := result.Response, result.Explanations, result.Snapshot
	items := make([]RecommendationItem, len(resp.Items))
	for i, scored := range resp.Items {
		item := RecommendationItem{
			ProductID: scored.ProductID,
			Score:     scored.Score,
			Sources:   scored.Sources,
			Reasons:   explanations[scored.ProductID],
		}
		if item.Reasons == nil {
			item.Reasons = []string{}
		}
		if snap != nil {
			if p, ok := snap.Product(scored.ProductID); ok {
				item.Name = p.Name
				item.Category = p.Category
			}
		}
		items[i] = item
	}

	respondSuccess(w, r, http.StatusOK, RecommendationsResponse{
		UserID:          userID,
		ColdStart:       resp.ColdStart,
		SnapshotVersion: resp.Metadata.SnapshotVersion,
		SourcesUsed:     resp.Metadata.SourcesUsed,
		Items:           items,
	}, start, resp.Metadata.CacheHit)
}

// GetStatus returns the snapshot summary, engine counters and cache backend.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, r, http.StatusOK, StatusResponse{
		Status:       h.engine.Status(),
		CacheBackend: h.cacheBackend,
		Counters:     h.engine.GetMetrics(),
	}, start, false)
}

// respondEngineError maps engine errors to HTTP responses.
func (h *Handler) respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeUserNotFound, "User not found", nil)
	case errors.Is(err, recommend.ErrDuplicateProduct):
		respondError(w, r, http.StatusConflict, ErrCodeProductExists, "Product already exists", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", err)
	}
}
