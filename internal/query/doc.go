// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package query holds the pure listing operations run over an assembled
dataset: filtering, the upcoming/recent/recommended views, similarity and
related-event scoring, and the rating and badge helpers of listing cards.

Nothing here performs I/O or mutates its input. Every function returns a new
slice; the elements are copies of the input rows.

# Dates

Occurrence dates are calendar days. Comparisons ignore the time of day and
use the calendar day of Criteria.Now in its own location as "today". Weeks
start on Monday.

# Similar

Similar scores every event additively:

	category match              +5
	area id / slug / name / region   +5 / +4 / +3 / +2
	query in title or description    +4
	first date inside target range   +5
	first date within 7 days of target  max(1, 4 - days)

Only positive scores rank. The result is then padded, in order, with the
events closest to the target date, recommended events and finally the
collection order, so a non-empty input always yields min(limit, len(events))
events.
*/
package query
