// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

package api

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hybridrec/internal/catalog"
	"github.com/tomtom215/hybridrec/internal/recommend"
	"github.com/tomtom215/hybridrec/internal/validation"
)

// maxProductBodyBytes bounds POST /products bodies.
const maxProductBodyBytes = 64 << 10

// AddProductRequest is the body of POST /products.
type AddProductRequest struct {
	ProductID int      `json:"product_id" validate:"required,gt=0"`
	Name      string   `json:"name" validate:"required,notblank,max=200"`
	Category  string   `json:"category" validate:"required,notblank"`
	Tags      []string `json:"tags" validate:"omitempty,max=32,dive,notblank,max=64"`
	Rating    float64  `json:"rating" validate:"gte=0,lte=5"`
}

// AddProduct appends a product to the catalog and rebuilds the snapshot.
func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req AddProductRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProductBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeInvalidBody, "Request body must be a JSON product", nil)
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondValidationError(w, r, verr)
		return
	}
	if !slices.Contains(catalog.Categories, req.Category) {
		respondErrorDetails(w, r, http.StatusBadRequest, ErrCodeValidation, "category is not a catalog category", map[string]interface{}{
			"field":   "category",
			"allowed": strings.Join(catalog.Categories, ", "),
		})
		return
	}

	product := recommend.Product{
		ID:       req.ProductID,
		Name:     req.Name,
		Category: req.Category,
		Tags:     req.Tags,
		Rating:   req.Rating,
	}
	if err := h.engine.AddProduct(r.Context(), product); err != nil {
		h.respondEngineError(w, r, err)
		return
	}

	h.logger.Info().
		Int("product_id", product.ID).
		Str("category", product.Category).
		Msg("product added via API")

	respondSuccess(w, r, http.StatusCreated, req, start, false)
}
