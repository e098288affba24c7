// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package recommend

import "errors"

var (
	// ErrUserNotFound is returned when the requested user is not in the snapshot.
	ErrUserNotFound = errors.New("user not found")

	// ErrProductNotFound is returned when a referenced product is not in the snapshot.
	ErrProductNotFound = errors.New("product not found")

	// ErrDuplicateProduct is returned when an added product reuses an existing ID.
	// It is always wrapped together with ErrInvalidSnapshot.
	ErrDuplicateProduct = errors.New("duplicate product")

	// ErrUnknownEventKind is returned for event kinds outside the weighting table.
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrProductNotIndexed is returned by similarity indexes asked about a
	// product they were not built with. Generators recover from it by
	// rebuilding; it never reaches Recommend callers.
	ErrProductNotIndexed = errors.New("product not indexed")

	// ErrInvalidSnapshot is returned when snapshot tables are inconsistent.
	ErrInvalidSnapshot = errors.New("invalid snapshot")

	// ErrInvalidConfig is returned when the engine configuration is rejected.
	ErrInvalidConfig = errors.New("invalid config")

	// ErrStaleModel is returned by generators whose derived structures were
	// built from a different snapshot version.
	ErrStaleModel = errors.New("model built from a different snapshot")
)
