// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newTestClient returns a client without pacing and a breaker that trips quickly.
func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RequestsPerSecond = 0
	cfg.Timeout = 2 * time.Second
	cfg.Breaker.MinRequests = 3
	cfg.Breaker.Timeout = time.Hour
	return NewClient(cfg)
}

func serve(t *testing.T, status int, contentType, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestFetchJSONStrict_Success(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		contentType string
		body        string
	}{
		{"application/json", "application/json", `{"events_index":[{"id":"e1"}]}`},
		{"with charset", "application/json; charset=utf-8", `[{"id":"e1"}]`},
		{"text/json", "text/json", `[]`},
		{"vendor suffix", "application/vnd.sotonavi+json", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv, hits := serve(t, http.StatusOK, tt.contentType, tt.body)
			c := newTestClient(t)

			v, err := c.FetchJSONStrict(context.Background(), srv.URL+"/events_index.json")
			if err != nil {
				t.Fatalf("FetchJSONStrict() error = %v", err)
			}
			if v == nil {
				t.Fatal("expected a decoded value")
			}
			if n := atomic.LoadInt32(hits); n != 1 {
				t.Errorf("requests = %d, want exactly 1", n)
			}
		})
	}
}

func TestFetchJSONStrict_HTMLWith200(t *testing.T) {
	t.Parallel()

	srv, _ := serve(t, http.StatusOK, "text/html", "<!doctype html><title>Not Found</title>")
	c := newTestClient(t)

	_, err := c.FetchJSONStrict(context.Background(), srv.URL+"/events_index.json")
	var nj *NotJSONError
	if !errors.As(err, &nj) {
		t.Fatalf("error = %v, want *NotJSONError", err)
	}
	if nj.ContentType != "text/html" {
		t.Errorf("ContentType = %q", nj.ContentType)
	}
	if !strings.Contains(nj.Body, "Not Found") {
		t.Errorf("Body excerpt = %q, want page text", nj.Body)
	}
	if Outcome(err) != "not_json" {
		t.Errorf("Outcome = %s", Outcome(err))
	}
}

func TestFetchJSONStrict_MissingContentType(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	_, err := newTestClient(t).FetchJSONStrict(context.Background(), srv.URL)
	var nj *NotJSONError
	if !errors.As(err, &nj) {
		t.Fatalf("error = %v, want *NotJSONError", err)
	}
}

func TestFetchJSONStrict_HTTPError(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", maxErrorBodySize*2)
	srv, _ := serve(t, http.StatusBadGateway, "application/json", long)

	_, err := newTestClient(t).FetchJSONStrict(context.Background(), srv.URL+"/meta.json")
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("error = %v, want *HTTPError", err)
	}
	if he.StatusCode != http.StatusBadGateway {
		t.Errorf("StatusCode = %d", he.StatusCode)
	}
	if !strings.HasSuffix(he.Body, "... (truncated)") {
		t.Errorf("body excerpt not truncated: %d bytes", len(he.Body))
	}
	if len(he.Body) > maxErrorBodySize+len("\n... (truncated)") {
		t.Errorf("body excerpt too long: %d bytes", len(he.Body))
	}
}

func TestFetchJSONStrict_NotFound(t *testing.T) {
	t.Parallel()

	srv, _ := serve(t, http.StatusNotFound, "text/plain", "missing")
	_, err := newTestClient(t).FetchJSONStrict(context.Background(), srv.URL+"/events/e9.json")
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestFetchJSONStrict_DecodeError(t *testing.T) {
	t.Parallel()

	srv, _ := serve(t, http.StatusOK, "application/json", `{"events_index": [`)
	_, err := newTestClient(t).FetchJSONStrict(context.Background(), srv.URL)
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
}

func TestFetchJSONStrict_NetworkError(t *testing.T) {
	t.Parallel()

	srv, _ := serve(t, http.StatusOK, "application/json", `{}`)
	addr := srv.URL
	srv.Close()

	_, err := newTestClient(t).FetchJSONStrict(context.Background(), addr)
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
	if Outcome(err) != "network" {
		t.Errorf("Outcome = %s, want network", Outcome(err))
	}
}

func TestFetchJSONStrict_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := newTestClient(t).FetchJSONStrict(context.Background(), "not a url")
	var ne *NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("error = %v, want *NetworkError", err)
	}
}

func TestFetchJSONStrict_BreakerOpensOnServerErrors(t *testing.T) {
	t.Parallel()

	srv, hits := serve(t, http.StatusInternalServerError, "text/plain", "down")
	c := newTestClient(t)

	for i := 0; i < 3; i++ {
		_, _ = c.FetchJSONStrict(context.Background(), srv.URL)
	}
	before := atomic.LoadInt32(hits)

	_, err := c.FetchJSONStrict(context.Background(), srv.URL)
	if Outcome(err) != "rejected" {
		t.Fatalf("Outcome = %s, want rejected (err=%v)", Outcome(err), err)
	}
	if atomic.LoadInt32(hits) != before {
		t.Error("open breaker should not reach the host")
	}
}

func TestFetchJSONStrict_NotFoundDoesNotTrip(t *testing.T) {
	t.Parallel()

	srv, hits := serve(t, http.StatusNotFound, "text/plain", "missing")
	c := newTestClient(t)

	for i := 0; i < 6; i++ {
		_, err := c.FetchJSONStrict(context.Background(), srv.URL)
		if !IsNotFound(err) {
			t.Fatalf("request %d: error = %v, want 404", i, err)
		}
	}
	if n := atomic.LoadInt32(hits); n != 6 {
		t.Errorf("requests = %d, want 6", n)
	}
}

func TestIsJSONMediaType(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"application/json":                true,
		"Application/JSON; charset=UTF-8": true,
		"application/ld+json":             true,
		"text/json":                       true,
		"text/html":                       false,
		"text/plain":                      false,
		"":                                false,
		"application/javascript":          false,
	}
	for ct, want := range tests {
		if got := isJSONMediaType(ct); got != want {
			t.Errorf("isJSONMediaType(%q) = %v, want %v", ct, got, want)
		}
	}
}

func TestResourceLabel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn.example.com/data/events_index.json", "events_index"},
		{"https://cdn.example.com/data/meta.json", "meta"},
		{"https://cdn.example.com/data/events/e1.json", "event_detail"},
		{"https://script.example.com/exec?type=index", "legacy_index"},
		{"https://script.example.com/exec?type=event&id=e1", "legacy_event"},
	}
	for _, tt := range tests {
		if got := resourceLabel(tt.url); got != tt.want {
			t.Errorf("resourceLabel(%s) = %s, want %s", tt.url, got, tt.want)
		}
	}
}
