// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// snapshotSeq hands out snapshot versions. Versions are unique within a
// process so derived indexes can tell any two snapshots apart.
var snapshotSeq atomic.Int64

// Snapshot is an immutable, versioned view of the user, product,
// interaction and context rule tables plus the aggregates every component
// reads. Derivations (cluster labels, new products) return a new Snapshot.
//
// Accessors return copies; callers may modify what they receive.
type Snapshot struct {
	version   int64
	clustered bool

	users        []User
	products     []Product
	interactions []Interaction
	rules        []ContextRule

	userIndex    map[int]int
	productIndex map[int]int
	ruleIndex    map[string]int

	// history lists each user's distinct products in first-interaction order.
	history map[int][]int
	// weights is the user-item weight matrix; repeated pairs are summed.
	weights map[int]map[int]float64
	// events holds each user's interaction positions in log order.
	events map[int][]int
	// frequency counts interaction records per product.
	frequency map[int]int
}

// NewSnapshot validates the tables and builds an unclustered snapshot.
// Interactions must reference known users and products; their weight and
// category are derived when missing and rejected when inconsistent.
func NewSnapshot(users []User, products []Product, interactions []Interaction, rules []ContextRule) (*Snapshot, error) {
	s := &Snapshot{
		version:      snapshotSeq.Add(1),
		users:        make([]User, len(users)),
		products:     make([]Product, len(products)),
		interactions: make([]Interaction, len(interactions)),
		rules:        make([]ContextRule, len(rules)),
		userIndex:    make(map[int]int, len(users)),
		productIndex: make(map[int]int, len(products)),
		ruleIndex:    make(map[string]int, len(rules)),
	}

	for i, u := range users {
		if _, dup := s.userIndex[u.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate user %d", ErrInvalidSnapshot, u.ID)
		}
		u.Cluster = NoCluster
		s.users[i] = u
		s.userIndex[u.ID] = i
	}

	for i := range products {
		p := products[i]
		if _, dup := s.productIndex[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product %d", ErrInvalidSnapshot, p.ID)
		}
		p.Cluster = NoCluster
		p.Tags = append([]string(nil), p.Tags...)
		s.products[i] = p
		s.productIndex[p.ID] = i
	}

	for i, r := range rules {
		if _, dup := s.ruleIndex[r.Category]; dup {
			return nil, fmt.Errorf("%w: duplicate context rule for category %q", ErrInvalidSnapshot, r.Category)
		}
		r.PeakDays = append([]string(nil), r.PeakDays...)
		s.rules[i] = r
		s.ruleIndex[r.Category] = i
	}

	for i, inter := range interactions {
		normalized, err := s.normalizeInteraction(inter)
		if err != nil {
			return nil, fmt.Errorf("interaction %d: %w", i, err)
		}
		s.interactions[i] = normalized
	}

	s.aggregate()
	return s, nil
}

// normalizeInteraction checks references and fills derived fields.
//
//nolint:gocritic // hugeParam: interaction passed by value, result is a modified copy
func (s *Snapshot) normalizeInteraction(inter Interaction) (Interaction, error) {
	if _, ok := s.userIndex[inter.UserID]; !ok {
		return inter, fmt.Errorf("%w: %w: %d", ErrInvalidSnapshot, ErrUserNotFound, inter.UserID)
	}
	pi, ok := s.productIndex[inter.ProductID]
	if !ok {
		return inter, fmt.Errorf("%w: %w: %d", ErrInvalidSnapshot, ErrProductNotFound, inter.ProductID)
	}

	weight, err := inter.Kind.Weight()
	if err != nil {
		return inter, err
	}
	if inter.Weight == 0 {
		inter.Weight = weight
	} else if inter.Weight != weight {
		return inter, fmt.Errorf("%w: weight %d does not match event %s", ErrInvalidSnapshot, inter.Weight, inter.Kind)
	}

	category := s.products[pi].Category
	if inter.Category == "" {
		inter.Category = category
	} else if inter.Category != category {
		return inter, fmt.Errorf("%w: category %q does not match product %d", ErrInvalidSnapshot, inter.Category, inter.ProductID)
	}

	return inter, nil
}

// aggregate builds the per-user and per-product aggregates.
func (s *Snapshot) aggregate() {
	s.history = make(map[int][]int)
	s.weights = make(map[int]map[int]float64)
	s.events = make(map[int][]int)
	s.frequency = make(map[int]int)

	for i, inter := range s.interactions {
		row := s.weights[inter.UserID]
		if row == nil {
			row = make(map[int]float64)
			s.weights[inter.UserID] = row
		}
		if _, seen := row[inter.ProductID]; !seen {
			s.history[inter.UserID] = append(s.history[inter.UserID], inter.ProductID)
		}
		row[inter.ProductID] += float64(inter.Weight)
		s.events[inter.UserID] = append(s.events[inter.UserID], i)
		s.frequency[inter.ProductID]++
	}
}

// derive returns a shallow copy with a fresh version. Tables that the
// caller replaces must be copied by the caller.
func (s *Snapshot) derive() *Snapshot {
	next := *s
	next.version = snapshotSeq.Add(1)
	return &next
}

// WithClusters returns a new snapshot with every user and product labelled.
// Both maps must cover their whole population.
func (s *Snapshot) WithClusters(userLabels, productLabels map[int]int) (*Snapshot, error) {
	next := s.derive()

	next.users = make([]User, len(s.users))
	for i, u := range s.users {
		label, ok := userLabels[u.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no cluster label for user %d", ErrInvalidSnapshot, u.ID)
		}
		u.Cluster = label
		next.users[i] = u
	}

	next.products = make([]Product, len(s.products))
	for i := range s.products {
		p := s.products[i]
		label, ok := productLabels[p.ID]
		if !ok {
			return nil, fmt.Errorf("%w: no cluster label for product %d", ErrInvalidSnapshot, p.ID)
		}
		p.Cluster = label
		next.products[i] = p
	}

	next.clustered = true
	return next, nil
}

// WithProduct returns a new snapshot with the product appended to the
// catalog. The new snapshot is unclustered until the next clustering pass;
// existing user labels are kept.
//
//nolint:gocritic // hugeParam: product passed by value, stored as a copy
func (s *Snapshot) WithProduct(p Product) (*Snapshot, error) {
	if _, dup := s.productIndex[p.ID]; dup {
		return nil, fmt.Errorf("%w: %w %d", ErrInvalidSnapshot, ErrDuplicateProduct, p.ID)
	}

	next := s.derive()
	p.Cluster = NoCluster
	p.Tags = append([]string(nil), p.Tags...)

	next.products = make([]Product, len(s.products), len(s.products)+1)
	copy(next.products, s.products)
	next.products = append(next.products, p)

	next.productIndex = make(map[int]int, len(next.products))
	for i := range next.products {
		next.productIndex[next.products[i].ID] = i
	}

	next.clustered = false
	return next, nil
}

// Version returns the snapshot's unique version.
func (s *Snapshot) Version() int64 {
	return s.version
}

// Clustered reports whether every user and product carries a cluster label.
func (s *Snapshot) Clustered() bool {
	return s.clustered
}

// Users returns the user table in load order.
func (s *Snapshot) Users() []User {
	out := make([]User, len(s.users))
	copy(out, s.users)
	return out
}

// Products returns the product table in catalog order.
func (s *Snapshot) Products() []Product {
	out := make([]Product, len(s.products))
	for i := range s.products {
		out[i] = s.products[i]
		out[i].Tags = append([]string(nil), s.products[i].Tags...)
	}
	return out
}

// Interactions returns the interaction log in order.
func (s *Snapshot) Interactions() []Interaction {
	out := make([]Interaction, len(s.interactions))
	copy(out, s.interactions)
	return out
}

// ContextRules returns the context rule table.
func (s *Snapshot) ContextRules() []ContextRule {
	out := make([]ContextRule, len(s.rules))
	for i, r := range s.rules {
		r.PeakDays = append([]string(nil), r.PeakDays...)
		out[i] = r
	}
	return out
}

// User returns the user with the given ID.
func (s *Snapshot) User(id int) (User, bool) {
	i, ok := s.userIndex[id]
	if !ok {
		return User{}, false
	}
	return s.users[i], true
}

// Product returns the product with the given ID.
func (s *Snapshot) Product(id int) (Product, bool) {
	i, ok := s.productIndex[id]
	if !ok {
		return Product{}, false
	}
	p := s.products[i]
	p.Tags = append([]string(nil), p.Tags...)
	return p, true
}

// Rule returns the context rule for a category.
func (s *Snapshot) Rule(category string) (ContextRule, bool) {
	i, ok := s.ruleIndex[category]
	if !ok {
		return ContextRule{}, false
	}
	r := s.rules[i]
	r.PeakDays = append([]string(nil), r.PeakDays...)
	return r, true
}

// History returns the user's distinct products in first-interaction order.
func (s *Snapshot) History(userID int) []int {
	return append([]int(nil), s.history[userID]...)
}

// Interacted returns the set of products the user has interacted with.
func (s *Snapshot) Interacted(userID int) map[int]struct{} {
	set := make(map[int]struct{}, len(s.history[userID]))
	for _, id := range s.history[userID] {
		set[id] = struct{}{}
	}
	return set
}

// UserInteractions returns the user's interactions in log order.
func (s *Snapshot) UserInteractions(userID int) []Interaction {
	positions := s.events[userID]
	out := make([]Interaction, len(positions))
	for i, pos := range positions {
		out[i] = s.interactions[pos]
	}
	return out
}

// Weights returns the user's row of the user-item weight matrix.
func (s *Snapshot) Weights(userID int) map[int]float64 {
	row := s.weights[userID]
	out := make(map[int]float64, len(row))
	for id, w := range row {
		out[id] = w
	}
	return out
}

// Weight returns the summed weight of a user-product pair.
func (s *Snapshot) Weight(userID, productID int) float64 {
	return s.weights[userID][productID]
}

// Frequency returns how many interaction records reference the product.
func (s *Snapshot) Frequency(productID int) int {
	return s.frequency[productID]
}

// Categories returns the categories the user interacted with, in
// first-interaction order.
func (s *Snapshot) Categories(userID int) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, pos := range s.events[userID] {
		c := s.interactions[pos].Category
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

// ClusterProducts returns the products labelled with the cluster, in
// catalog order.
func (s *Snapshot) ClusterProducts(label int) []int {
	if !s.clustered {
		return nil
	}
	var out []int
	for i := range s.products {
		if s.products[i].Cluster == label {
			out = append(out, s.products[i].ID)
		}
	}
	return out
}

// PopularInCluster returns the cluster's products ordered by interaction
// frequency descending, ties by ascending product ID. Products that were
// never interacted with are included at the tail.
func (s *Snapshot) PopularInCluster(label int) []int {
	ids := s.ClusterProducts(label)
	sort.SliceStable(ids, func(i, j int) bool {
		fi, fj := s.frequency[ids[i]], s.frequency[ids[j]]
		if fi != fj {
			return fi > fj
		}
		return ids[i] < ids[j]
	})
	return ids
}

// PopularInteractedInCluster is PopularInCluster without the products
// nobody interacted with.
func (s *Snapshot) PopularInteractedInCluster(label int) []int {
	ids := s.PopularInCluster(label)
	n := 0
	for n < len(ids) && s.frequency[ids[n]] > 0 {
		n++
	}
	return ids[:n]
}

// DominantUserCluster returns the most common user cluster label, with
// ties going to the smallest label. ok is false when the snapshot is
// unclustered or has no users.
func (s *Snapshot) DominantUserCluster() (label int, ok bool) {
	if !s.clustered || len(s.users) == 0 {
		return NoCluster, false
	}

	counts := make(map[int]int)
	for _, u := range s.users {
		counts[u.Cluster]++
	}

	best, bestCount := NoCluster, -1
	for l, c := range counts {
		if c > bestCount || (c == bestCount && l < best) {
			best, bestCount = l, c
		}
	}
	return best, true
}

// UserCount returns the number of users.
func (s *Snapshot) UserCount() int { return len(s.users) }

// ProductCount returns the number of products.
func (s *Snapshot) ProductCount() int { return len(s.products) }

// InteractionCount returns the number of interaction records.
func (s *Snapshot) InteractionCount() int { return len(s.interactions) }
