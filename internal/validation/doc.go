// Hybridrec - Multi-signal Product Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hybridrec

/*
Package validation provides struct validation using go-playground/validator v10.

A single validator instance is shared by the whole process. It is configured
once with:

  - WithRequiredStructEnabled (v11 compatibility)
  - JSON tag names in error messages, so API clients and dataset authors see
    the field names they wrote ("product_id", not "ID")
  - the notblank validator, which rejects strings made only of whitespace

Validation errors are returned as *RequestValidationError. ToAPIError converts
them to the VALIDATION_ERROR shape used by the HTTP API:

	if verr := validation.ValidateStruct(&product); verr != nil {
	    apiErr := verr.ToAPIError()
	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
	    return
	}

The catalog loader validates every dataset record the same way before a
snapshot is built.
*/
package validation
