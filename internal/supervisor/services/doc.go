// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package services adapts the server's long-running components to
suture.Service so they can run under the supervisor tree.

  - HTTPServerService: wraps *http.Server, translating ListenAndServe and
    Shutdown into a context-driven Serve.
  - DatasetRefresher: warms the dataset at startup and re-assembles it
    every refresh interval so a long-running process picks up new data.

The click tracker already implements suture.Service and needs no wrapper.

Every service returns ctx.Err() when its context is canceled and an error
only for failures that warrant a restart.
*/
package services
