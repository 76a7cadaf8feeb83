// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package fetch

import (
	"errors"
	"fmt"
)

// NetworkError is returned when the request could not be sent or completed.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: network error: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// HTTPError is returned for a non-2xx response.
type HTTPError struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("fetch %s: HTTP %d: %s", e.URL, e.StatusCode, e.Body)
}

// NotJSONError is returned when a successful response does not declare a
// JSON content type.
type NotJSONError struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        string
}

func (e *NotJSONError) Error() string {
	ct := e.ContentType
	if ct == "" {
		ct = "(none)"
	}
	return fmt.Sprintf("fetch %s: expected JSON, got content-type %s: %s", e.URL, ct, e.Body)
}

// DecodeError is returned when a JSON-typed body does not parse.
type DecodeError struct {
	URL  string
	Err  error
	Body string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("fetch %s: invalid JSON: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNotFound reports whether err is an HTTP 404 from upstream.
func IsNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == 404
}

// Outcome classifies err into a short label for metrics and logs.
func Outcome(err error) string {
	var (
		ne *NetworkError
		he *HTTPError
		je *NotJSONError
		de *DecodeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &he):
		return "http"
	case errors.As(err, &je):
		return "not_json"
	case errors.As(err, &de):
		return "decode"
	case errors.As(err, &ne):
		if errors.Is(err, errBreakerOpen) {
			return "rejected"
		}
		return "network"
	default:
		return "error"
	}
}

// DiagnosticFields returns structured log fields describing err: status,
// content type and body excerpt when err carries them. The URL is left to
// the caller, which usually logs it already.
func DiagnosticFields(err error) map[string]interface{} {
	fields := map[string]interface{}{"fetch_outcome": Outcome(err)}
	var (
		ne *NetworkError
		he *HTTPError
		je *NotJSONError
		de *DecodeError
	)
	switch {
	case errors.As(err, &he):
		fields["status"] = he.StatusCode
		fields["content_type"] = he.ContentType
		fields["body_excerpt"] = he.Body
	case errors.As(err, &je):
		fields["status"] = je.StatusCode
		fields["content_type"] = je.ContentType
		fields["body_excerpt"] = je.Body
	case errors.As(err, &de):
		fields["body_excerpt"] = de.Body
	case errors.As(err, &ne) && ne.Err != nil:
		fields["cause"] = ne.Err.Error()
	}
	return fields
}
