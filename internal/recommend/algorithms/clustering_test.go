// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

func TestNewKMeans_Defaults(t *testing.T) {
	t.Parallel()

	k := NewKMeans(KMeansConfig{}, testLogger())
	if k.config != DefaultKMeansConfig() {
		t.Errorf("config = %+v, want defaults", k.config)
	}
}

func TestKMeans_AssignClusters(t *testing.T) {
	t.Parallel()

	snap := fixtureSnapshot(t)
	k := NewKMeans(DefaultKMeansConfig(), testLogger())

	clustered, err := k.AssignClusters(context.Background(), snap)
	if err != nil {
		t.Fatalf("AssignClusters: %v", err)
	}
	if !clustered.Clustered() {
		t.Fatal("result should be clustered")
	}
	if snap.Clustered() {
		t.Error("input snapshot must not change")
	}

	wantUsers := map[int]int{1: 0, 2: 1, 3: 2, 4: 1, 5: 2, 6: 1}
	for id, want := range wantUsers {
		u, _ := clustered.User(id)
		if u.Cluster != want {
			t.Errorf("user %d cluster = %d, want %d", id, u.Cluster, want)
		}
	}

	// No two products share a tag: the first three seed the centroids and
	// the rest tie to centroid 0.
	wantProducts := map[int]int{101: 0, 102: 1, 103: 2, 104: 0, 105: 0, 106: 0, 107: 0, 108: 0}
	for id, want := range wantProducts {
		p, _ := clustered.Product(id)
		if p.Cluster != want {
			t.Errorf("product %d cluster = %d, want %d", id, p.Cluster, want)
		}
	}

	label, ok := clustered.DominantUserCluster()
	if !ok || label != 1 {
		t.Errorf("DominantUserCluster = %d, %v, want 1, true", label, ok)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	t.Parallel()

	k := NewKMeans(DefaultKMeansConfig(), testLogger())
	a, err := k.AssignClusters(context.Background(), fixtureSnapshot(t))
	if err != nil {
		t.Fatalf("AssignClusters: %v", err)
	}
	b, err := k.AssignClusters(context.Background(), fixtureSnapshot(t))
	if err != nil {
		t.Fatalf("AssignClusters: %v", err)
	}

	ua, ub := a.Users(), b.Users()
	for i := range ua {
		if ua[i].Cluster != ub[i].Cluster {
			t.Errorf("user %d: %d vs %d", ua[i].ID, ua[i].Cluster, ub[i].Cluster)
		}
	}
	pa, pb := a.Products(), b.Products()
	for i := range pa {
		if pa[i].Cluster != pb[i].Cluster {
			t.Errorf("product %d: %d vs %d", pa[i].ID, pa[i].Cluster, pb[i].Cluster)
		}
	}
}

func TestKMeans_FewerDistinctPointsThanClusters(t *testing.T) {
	t.Parallel()

	// Users without interactions all share the zero vector.
	snap, err := recommend.NewSnapshot(
		[]recommend.User{{ID: 1}, {ID: 2}, {ID: 3}},
		[]recommend.Product{{ID: 10, Category: "A", Tags: []string{"t"}}},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}

	clustered, err := NewKMeans(DefaultKMeansConfig(), testLogger()).AssignClusters(context.Background(), snap)
	if err != nil {
		t.Fatalf("AssignClusters: %v", err)
	}
	for _, u := range clustered.Users() {
		if u.Cluster != 0 {
			t.Errorf("user %d cluster = %d, want 0", u.ID, u.Cluster)
		}
	}
}

func TestKMeans_EmptySnapshot(t *testing.T) {
	t.Parallel()

	snap, err := recommend.NewSnapshot(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	clustered, err := NewKMeans(DefaultKMeansConfig(), testLogger()).AssignClusters(context.Background(), snap)
	if err != nil {
		t.Fatalf("AssignClusters: %v", err)
	}
	if !clustered.Clustered() {
		t.Error("empty snapshot should still be marked clustered")
	}
	if _, ok := clustered.DominantUserCluster(); ok {
		t.Error("DominantUserCluster should report false without users")
	}
}

func TestKMeans_ContextCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewKMeans(DefaultKMeansConfig(), testLogger()).AssignClusters(ctx, fixtureSnapshot(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestRenumber(t *testing.T) {
	t.Parallel()

	got := renumber([]int{2, 2, 0, 1, 0})
	if !equalIDs(got, []int{0, 0, 1, 2, 1}) {
		t.Errorf("renumber = %v, want [0 0 1 2 1]", got)
	}
}

func TestNearest_TiesGoToLowerCentroid(t *testing.T) {
	t.Parallel()

	centroids := [][]float64{{0, 1}, {1, 0}}
	if got := nearest(centroids, []float64{0, 0}); got != 0 {
		t.Errorf("nearest = %d, want 0", got)
	}
}
