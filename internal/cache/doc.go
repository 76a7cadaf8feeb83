// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package cache provides the versioned persistent cache and in-memory TTL cache
used by the Sotonavi pipeline.

# Versioned Cache

Versioned stores payloads in a key/value Store wrapped in an envelope:

	{"timestamp": 1734480000000, "version": "v1_2025-12-18", "data": <payload>}

An entry is only served when its version equals the running version tag, it
is younger than the caller's TTL, and the payload passes the caller's health
predicate. Bumping the version tag invalidates every stored entry at once
without a migration.

The cache is an optimization. Read never fails (storage and decode errors are
treated as a miss) and Write never fails (errors are logged and dropped).

Stores:

  - BadgerStore: persistent storage on dgraph-io/badger
  - MemoryStore: map-backed storage for tests

# TTL Cache

Cache is a small thread-safe map with per-entry expiry. The click beacon uses
it to suppress repeated clicks on the same event.
*/
package cache
