// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package main is the entry point for the Sotonavi listings data server.

The server fetches the events index, shared metadata and per-event details
from the listing site's static JSON host (or the legacy RPC backend),
reconciles them into one dataset and serves it over a JSON API.

# Application Architecture

Components are supervised with suture v4:

	RootSupervisor ("sotonavi")
	├── DataSupervisor ("data-layer")
	│   └── Dataset refresher (warm load + periodic reload)
	├── TrackingSupervisor ("tracking-layer")
	│   └── Click tracker (beacon sender)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Initialization order:

 1. Configuration: koanf (defaults, config file, environment)
 2. Logging: zerolog
 3. Cache store: BadgerDB on disk, or in memory
 4. Fetch client: strict JSON fetches with pacing and circuit breakers
 5. Source resolver and loaders (index, metadata, detail)
 6. Dataset assembler
 7. Click tracker
 8. HTTP router and server
 9. Supervisor tree

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests, the tracker stops sending and the Badger store is closed.

# Example Usage

	export SOTONAVI_PRIMARY_BASE=https://sotonavi.jp/data
	export SOTONAVI_CACHE_PATH=/var/lib/sotonavi/cache
	export HTTP_PORT=8080
	./sotonavi
*/
package main
