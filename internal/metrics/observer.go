// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package metrics

import "time"

// EngineObserver forwards engine events to the package collectors.
type EngineObserver struct{}

// NewEngineObserver creates an observer.
func NewEngineObserver() *EngineObserver {
	return &EngineObserver{}
}

// ObserveRequest records a finished request.
func (o *EngineObserver) ObserveRequest(coldStart, cacheHit bool, latency time.Duration, err error) {
	switch {
	case err != nil:
		RecordRecommendRequest(OutcomeError, false, latency)
	case coldStart:
		RecordRecommendRequest(OutcomeColdStart, cacheHit, latency)
	default:
		RecordRecommendRequest(OutcomeWarm, cacheHit, latency)
	}
}

// ObserveGenerator records one generator call.
func (o *EngineObserver) ObserveGenerator(source string, candidates int, latency time.Duration, err error) {
	RecordGenerator(source, candidates, latency, err)
}

// ObserveRebuild records a rebuild.
func (o *EngineObserver) ObserveRebuild(component string) {
	RecordRebuild(component)
}
