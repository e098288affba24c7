// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// EventKind classifies a raw user-product event.
type EventKind int

const (
	// EventUnknown is the zero value and never carries a weight.
	EventUnknown EventKind = iota
	// EventView is a product page view.
	EventView
	// EventClick is a click on a product.
	EventClick
	// EventAddToCart is a product added to the cart.
	EventAddToCart
	// EventPurchase is a completed purchase.
	EventPurchase
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventView:
		return "view"
	case EventClick:
		return "click"
	case EventAddToCart:
		return "add_to_cart"
	case EventPurchase:
		return "purchase"
	default:
		return "unknown"
	}
}

// Weight returns the affinity weight for the event kind.
// Stronger intent maps to a larger weight.
func (k EventKind) Weight() (int, error) {
	switch k {
	case EventView:
		return 1, nil
	case EventClick:
		return 2, nil
	case EventAddToCart:
		return 3, nil
	case EventPurchase:
		return 5, nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnknownEventKind, int(k))
	}
}

// ParseEventKind converts a wire name into an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "view":
		return EventView, nil
	case "click":
		return EventClick, nil
	case "add_to_cart":
		return EventAddToCart, nil
	case "purchase":
		return EventPurchase, nil
	default:
		return EventUnknown, fmt.Errorf("%w: %q", ErrUnknownEventKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	if _, err := k.Weight(); err != nil {
		return nil, err
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEventKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// NoCluster marks a user or product that has not been through a clustering pass.
const NoCluster = -1

// User is a customer that receives recommendations.
type User struct {
	// ID is the unique user identifier.
	ID int `json:"user_id" validate:"required,gt=0"`

	// Name is the display name.
	Name string `json:"name"`

	// Location is the locale attribute (city or region).
	Location string `json:"location"`

	// Device is the device class (mobile, desktop, tablet).
	Device string `json:"device"`

	// Cluster is the label assigned by the clustering provider.
	Cluster int `json:"cluster"`
}

// Product is a catalog entry.
type Product struct {
	// ID is the unique product identifier.
	ID int `json:"product_id" validate:"required,gt=0"`

	// Name is the product name.
	Name string `json:"name" validate:"required"`

	// Category is one of the catalog's fixed categories.
	Category string `json:"category" validate:"required"`

	// Tags are free-form descriptors. May be empty.
	Tags []string `json:"tags"`

	// Rating is the quality rating (0-5).
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`

	// Cluster is the label assigned by the clustering provider.
	Cluster int `json:"cluster"`
}

// HasTag reports whether the product carries the given tag.
func (p *Product) HasTag(tag string) bool {
	return slices.Contains(p.Tags, tag)
}

// Interaction is one entry of the append-only interaction log.
type Interaction struct {
	// UserID is the acting user.
	UserID int `json:"user_id"`

	// ProductID is the product acted on.
	ProductID int `json:"product_id"`

	// Kind is the raw event kind.
	Kind EventKind `json:"event"`

	// Timestamp is when the event happened.
	Timestamp time.Time `json:"timestamp"`

	// Weight is derived from Kind.
	Weight int `json:"weight"`

	// Category is derived from the product.
	Category string `json:"category"`
}

// NewInteraction builds an interaction record, deriving its weight from the
// event kind and its category from the product.
//
//nolint:gocritic // hugeParam: product passed by value, callers hold copies
func NewInteraction(userID int, product Product, kind EventKind, ts time.Time) (Interaction, error) {
	weight, err := kind.Weight()
	if err != nil {
		return Interaction{}, err
	}
	return Interaction{
		UserID:    userID,
		ProductID: product.ID,
		Kind:      kind,
		Timestamp: ts,
		Weight:    weight,
		Category:  product.Category,
	}, nil
}

// Weekday returns the weekday name of the interaction timestamp.
func (i *Interaction) Weekday() string {
	return i.Timestamp.Weekday().String()
}

// Hour returns the hour of day of the interaction timestamp.
func (i *Interaction) Hour() int {
	return i.Timestamp.Hour()
}

// ContextRule describes when a category is most relevant.
type ContextRule struct {
	// Category is the product category the rule applies to.
	Category string `json:"category" validate:"required"`

	// PeakDays are weekday names (Monday..Sunday).
	PeakDays []string `json:"peak_days" validate:"dive,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`

	// Season is a season label (Holiday, Summer, All Year, ...).
	Season string `json:"season" validate:"required"`
}

// Matches reports whether the rule fires for the given weekday and season.
func (r *ContextRule) Matches(weekday, season string) bool {
	return slices.Contains(r.PeakDays, weekday) || r.Season == season
}

// ScoredProduct is one entry of a recommendation result.
type ScoredProduct struct {
	// ProductID is the recommended product.
	ProductID int `json:"product_id"`

	// Score is the fused score. Zero for cold-start results.
	Score float64 `json:"score"`

	// Sources maps generator name to the contribution it made.
	Sources map[string]float64 `json:"sources,omitempty"`
}

// Request contains parameters for a recommendation request.
type Request struct {
	// UserID is the user to recommend for.
	UserID int `json:"user_id"`

	// TopN is the number of products to return. Zero uses the configured default.
	TopN int `json:"top_n"`

	// RequestID is used for tracing. Generated when empty.
	RequestID string `json:"request_id,omitempty"`
}

// Response contains a recommendation result and its metadata.
type Response struct {
	// Items are the ranked products, best first.
	Items []ScoredProduct `json:"items"`

	// ColdStart is true when the user had no interactions.
	ColdStart bool `json:"cold_start"`

	// Metadata describes how the result was produced.
	Metadata ResponseMetadata `json:"metadata"`
}

// ProductIDs returns the ranked product identifiers.
func (r *Response) ProductIDs() []int {
	ids := make([]int, len(r.Items))
	for i, item := range r.Items {
		ids[i] = item.ProductID
	}
	return ids
}

// ResponseMetadata contains information about how recommendations were produced.
type ResponseMetadata struct {
	RequestID       string    `json:"request_id"`
	UserID          int       `json:"user_id"`
	TopN            int       `json:"top_n"`
	SourcesUsed     []string  `json:"sources_used"`
	SnapshotVersion int64     `json:"snapshot_version"`
	CacheHit        bool      `json:"cache_hit"`
	LatencyMS       int64     `json:"latency_ms"`
	Timestamp       time.Time `json:"timestamp"`
}

// ExplainedResponse is a Response with its reasons and the snapshot both
// were computed from.
type ExplainedResponse struct {
	Response     *Response
	Explanations Explanations
	Snapshot     *Snapshot
}

// Explanations maps a recommended product to its reasons.
// Reasons are de-duplicated and sorted.
type Explanations map[int][]string

// CandidateGenerator produces a ranked candidate list for one user.
// Rank 0 is the most relevant entry. Lists never contain duplicates.
// An empty list is a normal outcome.
type CandidateGenerator interface {
	// Name identifies the generator's source weight and metrics label.
	Name() string

	// Generate returns up to topN candidates for the user. Generators that
	// are not bounded by topN (category match, cluster) may return more.
	Generate(ctx context.Context, snap *Snapshot, userID, topN int) ([]int, error)
}

// Refresher is implemented by generators that derive structures from a
// snapshot. Refresh is called during the engine's exclusive rebuild step.
type Refresher interface {
	Refresh(ctx context.Context, snap *Snapshot) error
}

// Neighbor is an entity with its similarity to a query entity.
type Neighbor struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// SimilarityEngine scores pairs of entities of one kind.
type SimilarityEngine interface {
	// Similarity returns the similarity of a and b.
	Similarity(a, b int) (float64, error)

	// MostSimilar returns up to k entities most similar to id, self
	// excluded, in similarity-descending order with ties by ascending ID.
	MostSimilar(id, k int) ([]Neighbor, error)
}

// PeerFinder returns the users most similar to a user for a snapshot.
// It backs the "similar users" explanation.
type PeerFinder interface {
	Peers(ctx context.Context, snap *Snapshot, userID, k int) ([]Neighbor, error)
}

// LatentFactorPredictor scores user-product pairs from a trained model.
type LatentFactorPredictor interface {
	// KnownUser reports whether the model was trained with the user.
	// An unknown user is distinct from a low score.
	KnownUser(userID int) bool

	// Predict returns the predicted affinity; ok is false for unknown
	// users or products.
	Predict(userID, productID int) (score float64, ok bool)
}

// ClusterProvider assigns cluster labels over the full user and product
// populations and returns a new snapshot carrying them.
type ClusterProvider interface {
	AssignClusters(ctx context.Context, snap *Snapshot) (*Snapshot, error)
}

// CachedResult is the stored form of one served recommendation list.
type CachedResult struct {
	Items   []ScoredProduct `json:"items"`
	Sources []string        `json:"sources"`
}

// IDs returns the cached product identifiers in rank order.
func (c CachedResult) IDs() []int {
	ids := make([]int, len(c.Items))
	for i, item := range c.Items {
		ids[i] = item.ProductID
	}
	return ids
}

// Clone returns a deep copy. Nil slices become empty ones.
func (c CachedResult) Clone() CachedResult {
	out := CachedResult{
		Items:   make([]ScoredProduct, len(c.Items)),
		Sources: append([]string{}, c.Sources...),
	}
	for i, item := range c.Items {
		out.Items[i] = item
		if item.Sources != nil {
			contrib := make(map[string]float64, len(item.Sources))
			for name, v := range item.Sources {
				contrib[name] = v
			}
			out.Items[i].Sources = contrib
		}
	}
	return out
}

// CacheStore persists final recommendation results.
type CacheStore interface {
	Set(ctx context.Context, key string, result CachedResult, ttl time.Duration) error
	Get(ctx context.Context, key string) (CachedResult, bool, error)
	Clear(ctx context.Context) error
}

// Reranker reorders a final recommendation list. Implementations return the
// same elements, possibly in a different order.
type Reranker interface {
	Name() string
	Rerank(ctx context.Context, snap *Snapshot, userID int, ids []int) []int
}

// Observer receives engine events for metrics export.
type Observer interface {
	ObserveRequest(coldStart, cacheHit bool, latency time.Duration, err error)
	ObserveGenerator(source string, candidates int, latency time.Duration, err error)
	ObserveRebuild(component string)
}

// Status summarises the engine's current snapshot.
type Status struct {
	SnapshotVersion int64     `json:"snapshot_version"`
	Users           int       `json:"users"`
	Products        int       `json:"products"`
	Interactions    int       `json:"interactions"`
	Clustered       bool      `json:"clustered"`
	RebuiltAt       time.Time `json:"rebuilt_at"`
	Generators      []string  `json:"generators"`
	Rerankers       []string  `json:"rerankers"`
}

// Metrics contains engine performance counters.
type Metrics struct {
	RequestCount   int64 `json:"request_count"`
	ColdStartCount int64 `json:"cold_start_count"`
	CacheHits      int64 `json:"cache_hits"`
	CacheMisses    int64 `json:"cache_misses"`
	ErrorCount     int64 `json:"error_count"`
	GeneratorFails int64 `json:"generator_failures"`
	RebuildCount   int64 `json:"rebuild_count"`
}
