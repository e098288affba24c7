// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// tokenPattern matches words of two or more characters.
var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// stopWords are dropped before weighting.
var stopWords = map[string]struct{}{
	"a": {}, "about": {}, "above": {}, "after": {}, "again": {}, "against": {}, "all": {}, "also": {},
	"am": {}, "an": {}, "and": {}, "any": {}, "are": {}, "as": {}, "at": {}, "be": {}, "because": {},
	"been": {}, "before": {}, "being": {}, "below": {}, "between": {}, "both": {}, "but": {}, "by": {},
	"can": {}, "could": {}, "did": {}, "do": {}, "does": {}, "doing": {}, "down": {}, "during": {},
	"each": {}, "few": {}, "for": {}, "from": {}, "further": {}, "had": {}, "has": {}, "have": {},
	"having": {}, "he": {}, "her": {}, "here": {}, "hers": {}, "him": {}, "his": {}, "how": {},
	"if": {}, "in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "itself": {}, "just": {}, "me": {},
	"more": {}, "most": {}, "my": {}, "no": {}, "nor": {}, "not": {}, "now": {}, "of": {}, "off": {},
	"on": {}, "once": {}, "only": {}, "or": {}, "other": {}, "our": {}, "out": {}, "over": {}, "own": {},
	"same": {}, "she": {}, "should": {}, "so": {}, "some": {}, "such": {}, "than": {}, "that": {},
	"the": {}, "their": {}, "them": {}, "then": {}, "there": {}, "these": {}, "they": {}, "this": {},
	"those": {}, "through": {}, "to": {}, "too": {}, "under": {}, "until": {}, "up": {}, "very": {},
	"was": {}, "we": {}, "were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "while": {},
	"who": {}, "whom": {}, "why": {}, "will": {}, "with": {}, "would": {}, "you": {}, "your": {},
}

// tokenize lower-cases text and returns its non-stop-word tokens.
func tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	tokens := raw[:0]
	for _, t := range raw {
		if _, stop := stopWords[t]; stop {
			continue
		}
		tokens = append(tokens, t)
	}
	return tokens
}

// productDocument is the text a product is indexed by: its tags followed
// by its category.
func productDocument(p *recommend.Product) string {
	return strings.Join(p.Tags, " ") + " " + p.Category
}

// ContentIndex holds TF-IDF vectors for the catalog and their pairwise
// cosine similarities.
//
// Term weights use raw term counts and a smoothed inverse document
// frequency, idf(t) = ln((1+n)/(1+df(t))) + 1. Rows are L2-normalised, so
// cosine similarity is a dot product.
type ContentIndex struct {
	baseModel

	// ids lists indexed products in catalog order.
	ids []int

	// position maps product ID to its row.
	position map[int]int

	// sims is the dense product-by-product similarity matrix.
	sims [][]float64
}

// NewContentIndex creates an empty content index.
func NewContentIndex() *ContentIndex {
	return &ContentIndex{
		baseModel: newBaseModel("content_index"),
		position:  make(map[int]int),
	}
}

// Build indexes every product in the snapshot.
func (c *ContentIndex) Build(ctx context.Context, snap *recommend.Snapshot) error {
	c.acquireBuildLock()
	defer c.releaseBuildLock()

	products := snap.Products()
	ids := make([]int, len(products))
	position := make(map[int]int, len(products))
	docs := make([][]string, len(products))
	df := make(map[string]int)

	for i := range products {
		ids[i] = products[i].ID
		position[products[i].ID] = i
		docs[i] = tokenize(productDocument(&products[i]))

		seen := make(map[string]struct{}, len(docs[i]))
		for _, t := range docs[i] {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	vocab := make([]string, 0, len(df))
	for t := range df {
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)
	column := make(map[string]int, len(vocab))
	for i, t := range vocab {
		column[t] = i
	}

	n := float64(len(products))
	vectors := make([][]float64, len(products))
	for i, doc := range docs {
		v := make([]float64, len(vocab))
		for _, t := range doc {
			v[column[t]]++
		}
		var sumSq float64
		for j, tf := range v {
			if tf == 0 {
				continue
			}
			v[j] = tf * (math.Log((1+n)/(1+float64(df[vocab[j]]))) + 1)
			sumSq += v[j] * v[j]
		}
		if sumSq > 0 {
			norm := math.Sqrt(sumSq)
			for j := range v {
				v[j] /= norm
			}
		}
		vectors[i] = v
	}

	sims := make([][]float64, len(products))
	for i := range sims {
		sims[i] = make([]float64, len(products))
	}
	for i := range vectors {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		for j := i; j < len(vectors); j++ {
			var dot float64
			for f := range vectors[i] {
				dot += vectors[i][f] * vectors[j][f]
			}
			sims[i][j] = dot
			sims[j][i] = dot
		}
	}

	c.ids = ids
	c.position = position
	c.sims = sims
	c.markBuilt(snap.Version())
	return nil
}

// Covers reports whether the index was built from this snapshot. A
// snapshot with the same product IDs but another version may carry
// different tags or categories, so it is not covered.
func (c *ContentIndex) Covers(snap *recommend.Snapshot) bool {
	c.acquireLookupLock()
	defer c.releaseLookupLock()

	return c.built && c.version == snap.Version()
}

// Size returns the number of indexed products.
func (c *ContentIndex) Size() int {
	c.acquireLookupLock()
	defer c.releaseLookupLock()
	return len(c.ids)
}

// Similarity returns the cosine similarity of two products.
func (c *ContentIndex) Similarity(a, b int) (float64, error) {
	c.acquireLookupLock()
	defer c.releaseLookupLock()

	ia, ok := c.position[a]
	if !ok {
		return 0, fmt.Errorf("%w: %d", recommend.ErrProductNotIndexed, a)
	}
	ib, ok := c.position[b]
	if !ok {
		return 0, fmt.Errorf("%w: %d", recommend.ErrProductNotIndexed, b)
	}
	return c.sims[ia][ib], nil
}

// MostSimilar returns up to k products ranked by similarity to id, self
// excluded. Ties, including the zero-similarity tail, keep catalog order.
// Non-positive k returns the whole ranked row.
func (c *ContentIndex) MostSimilar(id, k int) ([]recommend.Neighbor, error) {
	c.acquireLookupLock()
	defer c.releaseLookupLock()

	row, ok := c.position[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", recommend.ErrProductNotIndexed, id)
	}

	ns := make([]recommend.Neighbor, 0, len(c.ids))
	for j, other := range c.ids {
		if j == row {
			continue
		}
		ns = append(ns, recommend.Neighbor{ID: other, Similarity: c.sims[row][j]})
	}
	sort.SliceStable(ns, func(a, b int) bool {
		return ns[a].Similarity > ns[b].Similarity
	})

	return truncate(ns, k), nil
}
