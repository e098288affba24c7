// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import "sort"

// SourceList is one generator's ranked output.
type SourceList struct {
	Source string
	IDs    []int
}

// scoreBoard accumulates weighted reciprocal-rank contributions. It keeps
// the order in which products first appeared so equal scores resolve the
// same way on every run.
type scoreBoard struct {
	exclude map[int]struct{}
	order   []int
	scores  map[int]float64
	sources map[int]map[string]float64
}

func newScoreBoard(exclude map[int]struct{}) *scoreBoard {
	return &scoreBoard{
		exclude: exclude,
		scores:  make(map[int]float64),
		sources: make(map[int]map[string]float64),
	}
}

// add scores a ranked list: the product at rank r gains weight/(r+1).
// Excluded products never enter the board.
func (b *scoreBoard) add(source string, weight float64, ids []int) {
	for rank, id := range ids {
		if _, skip := b.exclude[id]; skip {
			continue
		}
		if _, seen := b.scores[id]; !seen {
			b.order = append(b.order, id)
			b.sources[id] = make(map[string]float64)
		}
		contribution := weight / float64(rank+1)
		b.scores[id] += contribution
		b.sources[id][source] += contribution
	}
}

// ranked returns up to topN products by score descending. Ties keep
// first-appearance order.
func (b *scoreBoard) ranked(topN int) []ScoredProduct {
	items := make([]ScoredProduct, len(b.order))
	for i, id := range b.order {
		items[i] = ScoredProduct{
			ProductID: id,
			Score:     b.scores[id],
			Sources:   b.sources[id],
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if topN >= 0 && len(items) > topN {
		items = items[:topN]
	}
	return items
}

// Fuse blends ranked lists with weighted reciprocal-rank scoring. Lists are
// applied in the given order; sources with a non-positive weight or an
// empty list contribute nothing. Products in exclude are dropped before
// scoring. The result holds at most topN products.
func Fuse(lists []SourceList, weights SourceWeights, exclude map[int]struct{}, topN int) []ScoredProduct {
	board := newScoreBoard(exclude)
	for _, l := range lists {
		w := weights.For(l.Source)
		if w <= 0 || len(l.IDs) == 0 {
			continue
		}
		board.add(l.Source, w, l.IDs)
	}
	return board.ranked(topN)
}
