// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package dataset assembles the index, metadata and per-event details into the
single Dataset served to listing pages.

# Assembly

LoadDataset runs, at most once per process epoch:

 1. A versioned cache read of the assembled dataset. Entries without events,
    or where no event carries an organizer, are never trusted.
 2. Concurrent index and metadata loads.
 3. A dates backfill: index rows without any occurrence are completed from
    their detail record, five requests at a time.
 4. An organizer backfill for rows that still lack an organizer and whose
    detail was not fetched successfully in step 3.
 5. A best-effort cache write.

Detail values only fill gaps. An index row that already carries a date or an
organizer keeps it even when the detail disagrees.

A failed detail fetch leaves its row as it was. Any panic in the pipeline
yields an empty dataset instead of an error.

# Concurrency

Concurrent LoadDataset calls share one in-flight assembly. Chunks run one
after another; requests inside a chunk run concurrently.

# Usage

	a := dataset.NewAssembler(indexLoader, metaLoader, detailLoader, vc, dataset.DefaultConfig())
	ds := a.LoadDataset(ctx)
	for _, e := range ds.Events {
	    fmt.Println(e.ID, e.NextDate)
	}
*/
package dataset
