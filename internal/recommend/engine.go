// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Note: This package has no dependencies on other internal packages.
// Generators, caches and metrics are injected through the interfaces in
// types.go.

// Dependencies are the collaborators an Engine is constructed with.
type Dependencies struct {
	// Generators run on every warm request. Their outputs are fused in
	// slice order.
	Generators []CandidateGenerator

	// Rerankers run in slice order on the truncated fused list.
	Rerankers []Reranker

	// Peers backs the "similar users" explanation. Optional.
	Peers PeerFinder

	// Clusters labels unclustered snapshots during rebuilds. Optional when
	// every snapshot handed to the engine is already clustered.
	Clusters ClusterProvider

	// Cache stores final results when caching is enabled. Optional.
	Cache CacheStore

	// Observer receives metrics events. Optional.
	Observer Observer
}

// Engine fuses candidate generators into ranked recommendations.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	generators []CandidateGenerator
	rerankers  []Reranker
	peers      PeerFinder
	clusters   ClusterProvider
	cache      CacheStore
	observer   Observer

	// mu guards snapshot. Requests hold it shared for their whole
	// duration; rebuilds hold it exclusively.
	mu        sync.RWMutex
	snapshot  *Snapshot
	rebuiltAt time.Time

	// rebuildMu serializes rebuilds that derive from the current snapshot.
	rebuildMu sync.Mutex

	requestCount   atomic.Int64
	coldStartCount atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	errorCount     atomic.Int64
	generatorFails atomic.Int64
	rebuildCount   atomic.Int64
}

// NewEngine creates an engine over the snapshot. An unclustered snapshot is
// labelled by deps.Clusters and every Refresher generator is refreshed
// before the engine serves.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(ctx context.Context, cfg *Config, snap *Snapshot, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}

	e := &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		generators: append([]CandidateGenerator(nil), deps.Generators...),
		rerankers:  append([]Reranker(nil), deps.Rerankers...),
		peers:      deps.Peers,
		clusters:   deps.Clusters,
		cache:      deps.Cache,
		observer:   deps.Observer,
	}

	prepared, err := e.prepareSnapshot(ctx, snap)
	if err != nil {
		return nil, err
	}
	e.snapshot = prepared
	e.rebuiltAt = time.Now()

	for _, g := range e.generators {
		e.logger.Info().Str("generator", g.Name()).Float64("weight", e.config.Weights.For(g.Name())).Msg("registered generator")
	}
	for _, r := range e.rerankers {
		e.logger.Info().Str("reranker", r.Name()).Msg("registered reranker")
	}

	return e, nil
}

// Recommend generates recommendations for a user.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)

	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.recommend(ctx, e.snapshot, req, start)
}

// RecommendExplained ranks products for a user and explains them against
// the same snapshot, which is returned with the result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) RecommendExplained(ctx context.Context, req Request) (*ExplainedResponse, error) {
	start := time.Now()
	e.requestCount.Add(1)

	req = e.prepareRequest(req)

	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := e.snapshot

	resp, err := e.recommend(ctx, snap, req, start)
	if err != nil {
		return nil, err
	}
	explanations, err := e.explain(ctx, snap, req.UserID, resp.ProductIDs())
	if err != nil {
		return nil, err
	}
	return &ExplainedResponse{Response: resp, Explanations: explanations, Snapshot: snap}, nil
}

// recommend serves one request from snap. Callers hold the read lock.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) recommend(ctx context.Context, snap *Snapshot, req Request, start time.Time) (*Response, error) {
	logger := e.createRequestLogger(req)

	if _, ok := snap.User(req.UserID); !ok {
		e.errorCount.Add(1)
		err := fmt.Errorf("%w: %d", ErrUserNotFound, req.UserID)
		e.observeRequest(false, false, start, err)
		return nil, err
	}

	coldStart := len(snap.History(req.UserID)) == 0
	logger.Debug().Bool("cold_start", coldStart).Msg("processing recommendation request")

	if resp := e.tryGetCachedResponse(ctx, snap, req, coldStart, start, logger); resp != nil {
		e.observeRequest(coldStart, true, start, nil)
		return resp, nil
	}

	var (
		items   []ScoredProduct
		sources []string
	)
	if coldStart {
		e.coldStartCount.Add(1)
		items = e.coldStartItems(snap, req.TopN)
		sources = []string{SourceCluster}
	} else {
		items, sources = e.fuse(ctx, snap, req, logger)
		items = e.applyRerankers(ctx, snap, req.UserID, items)
	}

	resp := &Response{
		Items:     items,
		ColdStart: coldStart,
		Metadata:  e.buildResponseMetadata(snap, req, sources, start, false),
	}
	e.cacheResponse(ctx, snap, req, resp, logger)

	logger.Debug().
		Int("returned", len(items)).
		Strs("sources", sources).
		Int64("latency_ms", resp.Metadata.LatencyMS).
		Msg("recommendation complete")

	e.observeRequest(coldStart, false, start, nil)
	return resp, nil
}

// RecommendIDs returns the ranked product IDs for a user.
func (e *Engine) RecommendIDs(ctx context.Context, userID, topN int) ([]int, error) {
	resp, err := e.Recommend(ctx, Request{UserID: userID, TopN: topN})
	if err != nil {
		return nil, err
	}
	return resp.ProductIDs(), nil
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.NewString()
	}
	if req.TopN <= 0 {
		req.TopN = e.config.Limits.DefaultTopN
	}
	if req.TopN > e.config.Limits.MaxTopN {
		req.TopN = e.config.Limits.MaxTopN
	}
	return req
}

// createRequestLogger creates a logger with request context.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Int("user_id", req.UserID).
		Int("top_n", req.TopN).
		Logger()
}

// coldStartItems returns the most common user cluster's interacted
// products ranked by global interaction frequency.
func (e *Engine) coldStartItems(snap *Snapshot, topN int) []ScoredProduct {
	label, ok := snap.DominantUserCluster()
	if !ok {
		return []ScoredProduct{}
	}

	ids := snap.PopularInteractedInCluster(label)
	if len(ids) > topN {
		ids = ids[:topN]
	}

	items := make([]ScoredProduct, len(ids))
	for i, id := range ids {
		items[i] = ScoredProduct{ProductID: id}
	}
	return items
}

// fuse runs every generator and blends their lists.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) fuse(ctx context.Context, snap *Snapshot, req Request, logger zerolog.Logger) ([]ScoredProduct, []string) {
	results := e.runGenerators(ctx, snap, req)

	lists := make([]SourceList, 0, len(results))
	sources := make([]string, 0, len(results))
	for _, r := range results {
		if !e.shouldUseResult(r, logger) {
			continue
		}
		lists = append(lists, SourceList{Source: r.name, IDs: r.ids})
		sources = append(sources, r.name)
	}

	return Fuse(lists, e.config.Weights, snap.Interacted(req.UserID), req.TopN), sources
}

// genResult holds the result of a single generator call.
type genResult struct {
	name string
	ids  []int
	err  error
}

// runGenerators runs all generators in parallel. Results keep generator
// order regardless of completion order.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runGenerators(ctx context.Context, snap *Snapshot, req Request) []genResult {
	results := make([]genResult, len(e.generators))
	var wg sync.WaitGroup

	for i, g := range e.generators {
		wg.Add(1)
		go func(idx int, gen CandidateGenerator) {
			defer wg.Done()
			results[idx] = e.runSingleGenerator(ctx, snap, req, gen)
		}(i, g)
	}

	wg.Wait()
	return results
}

// runSingleGenerator runs one generator under the configured timeout.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) runSingleGenerator(ctx context.Context, snap *Snapshot, req Request, gen CandidateGenerator) genResult {
	start := time.Now()
	genCtx, cancel := context.WithTimeout(ctx, e.config.GeneratorTimeout)
	defer cancel()

	ids, err := gen.Generate(genCtx, snap, req.UserID, req.TopN)
	if e.observer != nil {
		e.observer.ObserveGenerator(gen.Name(), len(ids), time.Since(start), err)
	}
	return genResult{name: gen.Name(), ids: ids, err: err}
}

// shouldUseResult checks if a generator result contributes to fusion.
// Failures degrade to an empty contribution.
func (e *Engine) shouldUseResult(r genResult, logger zerolog.Logger) bool {
	if r.err != nil {
		e.generatorFails.Add(1)
		logger.Warn().
			Str("generator", r.name).
			Err(r.err).
			Msg("candidate generation failed")
		return false
	}

	if len(r.ids) == 0 {
		return false
	}

	return e.config.Weights.For(r.name) > 0
}

// applyRerankers reorders the fused list. Items keep their scores.
func (e *Engine) applyRerankers(ctx context.Context, snap *Snapshot, userID int, items []ScoredProduct) []ScoredProduct {
	if len(e.rerankers) == 0 || len(items) == 0 {
		return items
	}

	byID := make(map[int]ScoredProduct, len(items))
	ids := make([]int, len(items))
	for i, item := range items {
		byID[item.ProductID] = item
		ids[i] = item.ProductID
	}

	for _, rr := range e.rerankers {
		ids = rr.Rerank(ctx, snap, userID, ids)
	}

	out := make([]ScoredProduct, 0, len(ids))
	for _, id := range ids {
		if item, ok := byID[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

// buildResponseMetadata constructs response metadata.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) buildResponseMetadata(snap *Snapshot, req Request, sources []string, start time.Time, cacheHit bool) ResponseMetadata {
	return ResponseMetadata{
		RequestID:       req.RequestID,
		UserID:          req.UserID,
		TopN:            req.TopN,
		SourcesUsed:     sources,
		SnapshotVersion: snap.Version(),
		CacheHit:        cacheHit,
		LatencyMS:       time.Since(start).Milliseconds(),
		Timestamp:       time.Now(),
	}
}

// cacheKey identifies a result. The snapshot version keeps results from
// older snapshots out of reach after a rebuild.
func cacheKey(snap *Snapshot, userID, topN int) string {
	return fmt.Sprintf("rec:%d:%d:%d", snap.Version(), userID, topN)
}

// tryGetCachedResponse attempts to serve a stored result. Hits carry the
// scores and sources of the response that was cached.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) tryGetCachedResponse(ctx context.Context, snap *Snapshot, req Request, coldStart bool, start time.Time, logger zerolog.Logger) *Response {
	if !e.config.Cache.Enabled || e.cache == nil {
		return nil
	}

	cached, ok, err := e.cache.Get(ctx, cacheKey(snap, req.UserID, req.TopN))
	if err != nil {
		logger.Warn().Err(err).Msg("cache read failed")
		e.cacheMisses.Add(1)
		return nil
	}
	if !ok {
		e.cacheMisses.Add(1)
		return nil
	}

	e.cacheHits.Add(1)
	cached = cached.Clone()
	logger.Debug().Msg("cache hit")

	return &Response{
		Items:     cached.Items,
		ColdStart: coldStart,
		Metadata:  e.buildResponseMetadata(snap, req, cached.Sources, start, true),
	}
}

// cacheResponse stores the final items if caching is enabled.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) cacheResponse(ctx context.Context, snap *Snapshot, req Request, resp *Response, logger zerolog.Logger) {
	if !e.config.Cache.Enabled || e.cache == nil {
		return
	}
	result := CachedResult{Items: resp.Items, Sources: resp.Metadata.SourcesUsed}.Clone()
	if err := e.cache.Set(ctx, cacheKey(snap, req.UserID, req.TopN), result, e.config.Cache.TTL); err != nil {
		logger.Warn().Err(err).Msg("cache write failed")
	}
}

// observeRequest forwards a request outcome to the observer.
func (e *Engine) observeRequest(coldStart, cacheHit bool, start time.Time, err error) {
	if e.observer != nil {
		e.observer.ObserveRequest(coldStart, cacheHit, time.Since(start), err)
	}
}

// Rebuild swaps in a new snapshot. It labels an unclustered snapshot,
// refreshes generators and clears cached results. Requests wait for the
// swap; requests already running finish on the previous snapshot first.
func (e *Engine) Rebuild(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}

	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()
	return e.rebuildLocked(ctx, snap)
}

// AddProduct appends a product to the catalog through a rebuild. The
// product is clustered with the rest of the catalog and refreshed
// generators index it before the new snapshot is served.
//
//nolint:gocritic // hugeParam: product passed by value, stored as a copy
func (e *Engine) AddProduct(ctx context.Context, p Product) error {
	if p.ID <= 0 {
		return fmt.Errorf("%w: product id must be positive, got %d", ErrInvalidSnapshot, p.ID)
	}
	if p.Category == "" {
		return fmt.Errorf("%w: product %d has no category", ErrInvalidSnapshot, p.ID)
	}

	e.rebuildMu.Lock()
	defer e.rebuildMu.Unlock()

	e.mu.RLock()
	current := e.snapshot
	e.mu.RUnlock()

	next, err := current.WithProduct(p)
	if err != nil {
		return err
	}
	if err := e.rebuildLocked(ctx, next); err != nil {
		return err
	}

	e.logger.Info().
		Int("product_id", p.ID).
		Str("category", p.Category).
		Msg("product added")
	return nil
}

// rebuildLocked performs the rebuild. Must be called with rebuildMu held.
func (e *Engine) rebuildLocked(ctx context.Context, snap *Snapshot) error {
	start := time.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	prepared, err := e.prepareSnapshot(ctx, snap)
	if err != nil {
		return err
	}

	e.snapshot = prepared
	e.rebuiltAt = time.Now()
	e.rebuildCount.Add(1)

	if e.config.Cache.InvalidateOnRebuild {
		e.clearCache(ctx)
	}
	if e.observer != nil {
		e.observer.ObserveRebuild("snapshot")
	}

	e.logger.Info().
		Int64("version", prepared.Version()).
		Int("users", prepared.UserCount()).
		Int("products", prepared.ProductCount()).
		Int("interactions", prepared.InteractionCount()).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("snapshot rebuilt")
	return nil
}

// prepareSnapshot clusters the snapshot if needed and refreshes generators.
func (e *Engine) prepareSnapshot(ctx context.Context, snap *Snapshot) (*Snapshot, error) {
	if !snap.Clustered() {
		if e.clusters == nil {
			return nil, fmt.Errorf("%w: snapshot is unclustered and no cluster provider is set", ErrInvalidSnapshot)
		}
		clustered, err := e.clusters.AssignClusters(ctx, snap)
		if err != nil {
			return nil, fmt.Errorf("assign clusters: %w", err)
		}
		snap = clustered
	}

	for _, g := range e.generators {
		r, ok := g.(Refresher)
		if !ok {
			continue
		}
		if err := r.Refresh(ctx, snap); err != nil {
			return nil, fmt.Errorf("refresh %s: %w", g.Name(), err)
		}
	}

	return snap, nil
}

// clearCache removes cached results. Failures are logged.
func (e *Engine) clearCache(ctx context.Context) {
	if e.cache == nil {
		return
	}
	if err := e.cache.Clear(ctx); err != nil {
		e.logger.Warn().Err(err).Msg("cache clear failed")
		return
	}
	e.logger.Debug().Msg("cache cleared")
}

// Snapshot returns the snapshot new requests will read.
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Status returns a summary of the current snapshot.
func (e *Engine) Status() Status {
	e.mu.RLock()
	snap := e.snapshot
	rebuiltAt := e.rebuiltAt
	e.mu.RUnlock()

	generators := make([]string, len(e.generators))
	for i, g := range e.generators {
		generators[i] = g.Name()
	}
	rerankers := make([]string, len(e.rerankers))
	for i, r := range e.rerankers {
		rerankers[i] = r.Name()
	}

	return Status{
		SnapshotVersion: snap.Version(),
		Users:           snap.UserCount(),
		Products:        snap.ProductCount(),
		Interactions:    snap.InteractionCount(),
		Clustered:       snap.Clustered(),
		RebuiltAt:       rebuiltAt,
		Generators:      generators,
		Rerankers:       rerankers,
	}
}

// GetMetrics returns the current engine counters.
func (e *Engine) GetMetrics() Metrics {
	return Metrics{
		RequestCount:   e.requestCount.Load(),
		ColdStartCount: e.coldStartCount.Load(),
		CacheHits:      e.cacheHits.Load(),
		CacheMisses:    e.cacheMisses.Load(),
		ErrorCount:     e.errorCount.Load(),
		GeneratorFails: e.generatorFails.Load(),
		RebuildCount:   e.rebuildCount.Load(),
	}
}

// GetConfig returns a copy of the current configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// IsUserNotFound reports whether err is an unknown user error.
func IsUserNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
