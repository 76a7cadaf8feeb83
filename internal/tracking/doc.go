// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package tracking forwards listing click beacons to the click counting
endpoint.

Delivery is best effort. Track validates and deduplicates a click, then
queues it; the Tracker's Serve loop posts queued clicks one at a time, paced
by a rate limiter. A click for the same visitor and event is suppressed for
the dedup window (10 minutes by default). When a send fails, or the queue is
full, the suppression entry is cleared so a later click can retry.

The beacon body is JSON sent as text/plain, the form the counting endpoint
accepts without a CORS preflight:

	{"token": "<secret>", "event_id": "e1", "organizer_id": "org-1"}

Serve implements suture.Service and is meant to run under the supervisor
tree.
*/
package tracking
