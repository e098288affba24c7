// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package reranking

import (
	"context"
	"time"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// Season labels produced by SeasonOf.
const (
	SeasonHoliday = "Holiday"
	SeasonSummer  = "Summer"
	SeasonAllYear = "All Year"
)

// SeasonOf maps a month to its season label.
func SeasonOf(m time.Month) string {
	switch m {
	case time.December, time.January, time.February:
		return SeasonHoliday
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonAllYear
	}
}

// ContextAdjuster reorders a list by calendar context.
type ContextAdjuster struct {
	now func() time.Time
}

// NewContextAdjuster creates a context adjuster. A nil clock uses time.Now.
func NewContextAdjuster(now func() time.Time) *ContextAdjuster {
	if now == nil {
		now = time.Now
	}
	return &ContextAdjuster{now: now}
}

// Name returns the reranker identifier.
func (a *ContextAdjuster) Name() string {
	return "context"
}

// Rerank adjusts ids for the current time.
func (a *ContextAdjuster) Rerank(_ context.Context, snap *recommend.Snapshot, _ int, ids []int) []int {
	return Adjust(snap, ids, a.now())
}

// Adjust moves every product whose category rule matches now to the front.
// Products are visited in input order and each match is pulled to
// position 0, so later matches precede earlier ones. Unmatched products
// keep their relative order. Products without a rule never move.
func Adjust(snap *recommend.Snapshot, ids []int, now time.Time) []int {
	weekday := now.Weekday().String()
	season := SeasonOf(now.Month())

	adjusted := append([]int(nil), ids...)
	for idx, id := range ids {
		p, ok := snap.Product(id)
		if !ok {
			continue
		}
		rule, ok := snap.Rule(p.Category)
		if !ok || !rule.Matches(weekday, season) {
			continue
		}
		// Earlier moves only take elements from positions before idx, so
		// position idx still holds id.
		moved := adjusted[idx]
		copy(adjusted[1:idx+1], adjusted[:idx])
		adjusted[0] = moved
	}
	return adjusted
}
