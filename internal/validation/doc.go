// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package validation wraps go-playground/validator for Sotonavi.

Two kinds of structs are validated:

  - Upstream rows after mapping (ListingSummary, Organizer, Category): a row
    that fails is dropped at the loader instead of reaching a handler with
    missing identifiers.
  - HTTP request parameters and bodies: failures become VALIDATION_ERROR
    responses through RequestValidationError.ToAPIError.

Field names in errors use the json tag, so messages match what clients send.

Custom tags:

  - isodate: a calendar day in YYYY-MM-DD form

Usage:

	if verr := validation.ValidateStruct(&req); verr != nil {
	    api := verr.ToAPIError()
	    // respond 400 with api.Code, api.Message, api.Details
	}

The underlying validator is created once and shared; it is safe for
concurrent use.
*/
package validation
