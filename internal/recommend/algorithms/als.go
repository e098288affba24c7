// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package algorithms

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/tomtom215/hybridrec/internal/recommend"
)

// ALSConfig contains configuration for the ALS model.
type ALSConfig struct {
	// NumFactors is the dimension of the latent factor vectors.
	NumFactors int

	// NumIterations is the number of alternating passes.
	NumIterations int

	// Regularization is the L2 regularization parameter.
	Regularization float64

	// Alpha scales the confidence transformation for implicit feedback.
	// c = 1 + alpha * w, where w is the summed interaction weight.
	Alpha float64

	// NumWorkers is the number of parallel workers per pass.
	// If <= 0, defaults to 4.
	NumWorkers int
}

// DefaultALSConfig returns default ALS configuration.
func DefaultALSConfig() ALSConfig {
	return ALSConfig{
		NumFactors:     16,
		NumIterations:  15,
		Regularization: 0.1,
		Alpha:          40.0,
		NumWorkers:     4,
	}
}

// ALS implements Alternating Least Squares for implicit feedback.
// Reference: "Collaborative Filtering for Implicit Feedback Datasets" (Hu, Koren, Volinsky, 2008)
//
// The user-item weight matrix is factorised into user factors X and product
// factors Y by minimising
//
//	sum_{u,i} c_ui * (p_ui - x_u' * y_i)^2 + lambda * (||x_u||^2 + ||y_i||^2)
//
// where p_ui = 1 if the user interacted with the product and c_ui is the
// confidence. Users and products are indexed in ascending ID order and
// factors are initialised deterministically, so fitting the same snapshot
// twice yields identical predictions.
type ALS struct {
	baseModel
	config ALSConfig

	// X is the user factor matrix (numUsers x numFactors)
	X [][]float64

	// Y is the product factor matrix (numProducts x numFactors)
	Y [][]float64

	userIndex    map[int]int
	productIndex map[int]int
	indexToProd  []int
}

// entry is one non-zero confidence of a matrix row.
type entry struct {
	col  int
	conf float64
}

// NewALS creates a new ALS model with the given configuration.
func NewALS(cfg ALSConfig) *ALS {
	if cfg.NumFactors <= 0 {
		cfg.NumFactors = 16
	}
	if cfg.NumIterations <= 0 {
		cfg.NumIterations = 15
	}
	if cfg.Regularization <= 0 {
		cfg.Regularization = 0.1
	}
	if cfg.Alpha <= 0 {
		cfg.Alpha = 40.0
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 4
	}

	return &ALS{
		baseModel:    newBaseModel("als"),
		config:       cfg,
		userIndex:    make(map[int]int),
		productIndex: make(map[int]int),
	}
}

// Fit trains the model on the snapshot's user-item weight matrix. Only
// users and products with interactions get factors.
//
//nolint:gocyclo // ML training algorithms are inherently complex
func (a *ALS) Fit(ctx context.Context, snap *recommend.Snapshot) error {
	a.acquireBuildLock()
	defer a.releaseBuildLock()

	if ContextCancelled(ctx) {
		return ctx.Err()
	}

	var userIDs []int
	productSet := make(map[int]struct{})
	for _, u := range snap.Users() {
		row := snap.Weights(u.ID)
		if len(row) == 0 {
			continue
		}
		userIDs = append(userIDs, u.ID)
		for pid := range row {
			productSet[pid] = struct{}{}
		}
	}
	sort.Ints(userIDs)
	productIDs := make([]int, 0, len(productSet))
	for pid := range productSet {
		productIDs = append(productIDs, pid)
	}
	sort.Ints(productIDs)

	a.userIndex = make(map[int]int, len(userIDs))
	for i, id := range userIDs {
		a.userIndex[id] = i
	}
	a.productIndex = make(map[int]int, len(productIDs))
	for i, id := range productIDs {
		a.productIndex[id] = i
	}
	a.indexToProd = productIDs

	numUsers := len(userIDs)
	numProducts := len(productIDs)
	numFactors := a.config.NumFactors

	if numUsers == 0 || numProducts == 0 {
		a.X, a.Y = nil, nil
		a.markBuilt(snap.Version())
		return nil
	}

	// Confidence rows in ascending column order.
	userRows := make([][]entry, numUsers)
	productRows := make([][]entry, numProducts)
	for u, uid := range userIDs {
		row := snap.Weights(uid)
		cols := make([]int, 0, len(row))
		for pid := range row {
			cols = append(cols, a.productIndex[pid])
		}
		sort.Ints(cols)
		for _, col := range cols {
			conf := 1.0 + a.config.Alpha*row[productIDs[col]]
			userRows[u] = append(userRows[u], entry{col: col, conf: conf})
			productRows[col] = append(productRows[col], entry{col: u, conf: conf})
		}
	}

	a.X = initFactors(numUsers, numFactors)
	a.Y = initFactors(numProducts, numFactors)

	lambda := a.config.Regularization
	for iter := 0; iter < a.config.NumIterations; iter++ {
		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		a.updateFactors(a.X, a.Y, userRows, numFactors, lambda)

		if ContextCancelled(ctx) {
			return ctx.Err()
		}
		a.updateFactors(a.Y, a.X, productRows, numFactors, lambda)
	}

	a.markBuilt(snap.Version())
	return nil
}

// initFactors returns small deterministic starting factors.
func initFactors(rows, numFactors int) [][]float64 {
	m := make([][]float64, rows)
	for r := range m {
		m[r] = make([]float64, numFactors)
		for f := 0; f < numFactors; f++ {
			m[r][f] = 0.1 * (float64((r*numFactors+f)%1000)/1000.0 - 0.5)
		}
	}
	return m
}

// updateFactors solves every row of target with fixed held factors.
// Rows are independent, so workers write disjoint slices.
func (a *ALS) updateFactors(target, fixed [][]float64, rows [][]entry, numFactors int, lambda float64) {
	gram := gramMatrix(fixed, numFactors)

	n := len(target)
	var wg sync.WaitGroup
	chunkSize := (n + a.config.NumWorkers - 1) / a.config.NumWorkers

	for w := 0; w < a.config.NumWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(rStart, rEnd int) {
			defer wg.Done()
			for r := rStart; r < rEnd; r++ {
				target[r] = solveRow(rows[r], fixed, gram, numFactors, lambda)
			}
		}(start, end)
	}

	wg.Wait()
}

// gramMatrix returns M'M for the factor matrix M.
func gramMatrix(m [][]float64, numFactors int) [][]float64 {
	g := make([][]float64, numFactors)
	for f := range g {
		g[f] = make([]float64, numFactors)
	}
	for _, v := range m {
		for f1 := 0; f1 < numFactors; f1++ {
			for f2 := f1; f2 < numFactors; f2++ {
				g[f1][f2] += v[f1] * v[f2]
			}
		}
	}
	for f1 := 0; f1 < numFactors; f1++ {
		for f2 := 0; f2 < f1; f2++ {
			g[f1][f2] = g[f2][f1]
		}
	}
	return g
}

// solveRow computes one factor vector:
//
//	A = M'M + M' (C - I) M + lambda * I
//	b = M' C p
//	x = A^(-1) b
//
//nolint:gocritic // A follows standard linear algebra notation
func solveRow(row []entry, fixed, gram [][]float64, numFactors int, lambda float64) []float64 {
	A := make([][]float64, numFactors)
	for f := range A {
		A[f] = make([]float64, numFactors)
		copy(A[f], gram[f])
		A[f][f] += lambda
	}

	b := make([]float64, numFactors)
	for _, e := range row {
		y := fixed[e.col]
		cMinus1 := e.conf - 1.0

		for f1 := 0; f1 < numFactors; f1++ {
			for f2 := f1; f2 < numFactors; f2++ {
				delta := cMinus1 * y[f1] * y[f2]
				A[f1][f2] += delta
				if f1 != f2 {
					A[f2][f1] += delta
				}
			}
			b[f1] += e.conf * y[f1]
		}
	}

	return solveLinearSystem(A, b)
}

// solveLinearSystem solves A*x = b using Cholesky decomposition.
//
//nolint:gocritic // A, L follow standard linear algebra notation
func solveLinearSystem(A [][]float64, b []float64) []float64 {
	n := len(b)

	// Cholesky decomposition: A = L * L'
	L := make([][]float64, n)
	for i := range L {
		L[i] = make([]float64, n)
	}

	for i := 0; i < n; i++ {
		for j := 0; j <= i; j++ {
			sum := A[i][j]
			for k := 0; k < j; k++ {
				sum -= L[i][k] * L[j][k]
			}

			if i == j {
				if sum <= 0 {
					sum = 1e-10
				}
				L[i][j] = math.Sqrt(sum)
			} else if L[j][j] != 0 {
				L[i][j] = sum / L[j][j]
			}
		}
	}

	// Forward substitution: L * z = b
	z := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := b[i]
		for j := 0; j < i; j++ {
			sum -= L[i][j] * z[j]
		}
		if L[i][i] != 0 {
			z[i] = sum / L[i][i]
		}
	}

	// Back substitution: L' * x = z
	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := z[i]
		for j := i + 1; j < n; j++ {
			sum -= L[j][i] * x[j]
		}
		if L[i][i] != 0 {
			x[i] = sum / L[i][i]
		}
	}

	return x
}

// KnownUser reports whether the model has factors for the user.
func (a *ALS) KnownUser(userID int) bool {
	a.acquireLookupLock()
	defer a.releaseLookupLock()
	_, ok := a.userIndex[userID]
	return ok
}

// Predict returns x_u' * y_i. ok is false when either side is unknown.
func (a *ALS) Predict(userID, productID int) (float64, bool) {
	a.acquireLookupLock()
	defer a.releaseLookupLock()

	ui, ok := a.userIndex[userID]
	if !ok {
		return 0, false
	}
	pi, ok := a.productIndex[productID]
	if !ok {
		return 0, false
	}

	var score float64
	for f := range a.X[ui] {
		score += a.X[ui][f] * a.Y[pi][f]
	}
	return score, true
}

// Products returns the products the model has factors for, ascending.
func (a *ALS) Products() []int {
	a.acquireLookupLock()
	defer a.releaseLookupLock()
	return append([]int(nil), a.indexToProd...)
}

// LatentFactorGenerator ranks the products a user has not interacted with
// by predicted affinity.
type LatentFactorGenerator struct {
	model *ALS
}

// NewLatentFactorGenerator creates a generator over an ALS model.
func NewLatentFactorGenerator(model *ALS) *LatentFactorGenerator {
	return &LatentFactorGenerator{model: model}
}

// Name returns the source name.
func (g *LatentFactorGenerator) Name() string {
	return recommend.SourceLatentFactor
}

// Refresh refits the model on the snapshot.
func (g *LatentFactorGenerator) Refresh(ctx context.Context, snap *recommend.Snapshot) error {
	return g.model.Fit(ctx, snap)
}

// Generate returns the top topN unrated products by predicted score, ties
// by ascending ID. Users unknown to the model get an empty list.
func (g *LatentFactorGenerator) Generate(_ context.Context, snap *recommend.Snapshot, userID, topN int) ([]int, error) {
	g.model.acquireLookupLock()
	err := g.model.checkSnapshot(snap)
	g.model.releaseLookupLock()
	if err != nil {
		return nil, err
	}

	if !g.model.KnownUser(userID) {
		return nil, nil
	}

	rated := snap.Interacted(userID)
	scores := make(map[int]float64)
	for _, pid := range g.model.Products() {
		if _, ok := rated[pid]; ok {
			continue
		}
		if score, ok := g.model.Predict(userID, pid); ok {
			scores[pid] = score
		}
	}

	return truncate(rankByScore(scores), topN), nil
}
