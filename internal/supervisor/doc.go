// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package supervisor runs the long-lived services of the listings server under
a suture supervisor tree.

The tree has three layers, each its own child supervisor:

	sotonavi
	├── data-layer      dataset refresher
	├── tracking-layer  click beacon sender
	└── api-layer       HTTP server

A service that returns an error or panics is restarted by its layer with
backoff. A crash in the tracking layer leaves the API and the memoized
dataset untouched.

Usage:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}
	tree.AddDataService(services.NewDatasetRefresher(assembler, cfg.Loader.RefreshInterval))
	tree.AddTrackingService(tracker)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	return tree.Serve(ctx)

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog, bridged to zerolog by the logging package.
*/
package supervisor
