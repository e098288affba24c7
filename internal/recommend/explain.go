// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"fmt"
	"sort"
)

// Reason strings returned by Explain.
const (
	ReasonColdStart    = "Popular among all users"
	ReasonSimilarUsers = "Users similar to you purchased this"
	ReasonFallback     = "Popular product"
)

// TagReason returns the reason for a tag shared with the user's history.
func TagReason(tag string) string {
	return fmt.Sprintf("Because you showed interest in %s products", tag)
}

// CategoryReason returns the reason for a category in the user's history.
func CategoryReason(category string) string {
	return fmt.Sprintf("Because you interacted with %s products", category)
}

// Explain attributes each product in ids to the signals that support it.
// Every product gets at least one reason.
func (e *Engine) Explain(ctx context.Context, userID int, ids []int) (Explanations, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.explain(ctx, e.snapshot, userID, ids)
}

// explain builds reasons from snap. Callers hold the read lock.
func (e *Engine) explain(ctx context.Context, snap *Snapshot, userID int, ids []int) (Explanations, error) {
	if _, ok := snap.User(userID); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}

	out := make(Explanations, len(ids))
	history := snap.History(userID)
	if len(history) == 0 {
		for _, id := range ids {
			out[id] = []string{ReasonColdStart}
		}
		return out, nil
	}

	x := explainer{
		peerItems:  e.peerItems(ctx, snap, userID),
		tags:       make(map[string]struct{}),
		categories: make(map[string]struct{}),
	}
	for _, pid := range history {
		p, ok := snap.Product(pid)
		if !ok {
			continue
		}
		for _, tag := range p.Tags {
			x.tags[tag] = struct{}{}
		}
	}
	for _, c := range snap.Categories(userID) {
		x.categories[c] = struct{}{}
	}

	for _, id := range ids {
		out[id] = x.reasons(snap, id)
	}
	return out, nil
}

// peerItems returns the products the user's similar peers interacted with.
// A peer lookup failure yields no peer-based reasons.
func (e *Engine) peerItems(ctx context.Context, snap *Snapshot, userID int) map[int]struct{} {
	items := make(map[int]struct{})
	if e.peers == nil {
		return items
	}

	peers, err := e.peers.Peers(ctx, snap, userID, e.config.Neighbors)
	if err != nil {
		e.logger.Warn().Err(err).Int("user_id", userID).Msg("peer lookup failed")
		return items
	}

	for _, peer := range peers {
		for _, pid := range snap.History(peer.ID) {
			items[pid] = struct{}{}
		}
	}
	return items
}

// explainer holds the user-side facts reasons are derived from.
type explainer struct {
	peerItems  map[int]struct{}
	tags       map[string]struct{}
	categories map[string]struct{}
}

// reasons builds the sorted reason set for one product.
func (x *explainer) reasons(snap *Snapshot, productID int) []string {
	set := make(map[string]struct{})

	if _, ok := x.peerItems[productID]; ok {
		set[ReasonSimilarUsers] = struct{}{}
	}

	if p, ok := snap.Product(productID); ok {
		for _, tag := range p.Tags {
			if _, shared := x.tags[tag]; shared {
				set[TagReason(tag)] = struct{}{}
			}
		}
		if _, seen := x.categories[p.Category]; seen {
			set[CategoryReason(p.Category)] = struct{}{}
		}
	}

	if len(set) == 0 {
		return []string{ReasonFallback}
	}

	reasons := make([]string, 0, len(set))
	for r := range set {
		reasons = append(reasons, r)
	}
	sort.Strings(reasons)
	return reasons
}
