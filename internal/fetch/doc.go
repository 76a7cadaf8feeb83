// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

/*
Package fetch performs strict JSON GET requests against the listing data hosts.

A static host that is misconfigured will happily answer 200 OK with an HTML
error page. Client.FetchJSONStrict refuses such responses: the status must be
2xx and the declared content type must be a JSON media type before the body is
decoded. Every failure carries the URL and a truncated body excerpt so that
operators can see what the host actually sent.

Error Types:

  - NetworkError: the request could not be sent or completed, including
    requests rejected by an open circuit breaker
  - HTTPError: non-2xx status
  - NotJSONError: 2xx status with a non-JSON content type
  - DecodeError: JSON content type with a body that does not parse

Resilience:

FetchJSONStrict performs at most one request per call and never retries;
fallback between hosts is the caller's job. Each upstream host gets its own
sony/gobreaker circuit breaker so a dead mirror fails fast without affecting
the primary host, and an x/time/rate limiter paces requests so that detail
backfill bursts stay polite.

Thread Safety:

Client is safe for concurrent use.
*/
package fetch
