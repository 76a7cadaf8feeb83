// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package normalize canonicalizes loosely typed upstream values.

Upstream listing data spells the same concept several ways (organizerId,
organizer_id, organizer.id, ...) and encodes "no value" as "", "undefined"
or "null". Instead of scattering fallback chains across the code base, every
spelling of a field is listed once in the alias table (Aliases) and resolved
through Lookup, LookupID and friends.

Adding a new upstream spelling is a one-line change to the table.

Usage:

	id, ok := normalize.LookupID(row, normalize.FieldOrganizerID)
	title := normalize.Text(row, normalize.FieldTitle)
*/
package normalize
