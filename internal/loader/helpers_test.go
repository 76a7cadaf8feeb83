// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"context"
	"sync"

	"github.com/tomtom215/sotonavi/internal/fetch"
	"github.com/tomtom215/sotonavi/internal/source"
)

const (
	testPrimary = "https://cdn.example.com/data"
	testMirror  = "https://mirror.example.com/data"
)

var testEndpoints = source.StaticEndpoints{PrimaryBase: testPrimary, MirrorBase: testMirror}

// fakeFetcher serves canned JSON values by URL. When gate is set, every
// fetch blocks until it is closed.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	calls     map[string]int
	gate      chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: make(map[string]any),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeFetcher) FetchJSONStrict(ctx context.Context, url string) (any, error) {
	f.mu.Lock()
	f.calls[url]++
	gate := f.gate
	resp, hasResp := f.responses[url]
	err, hasErr := f.errs[url]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, &fetch.NetworkError{URL: url, Err: ctx.Err()}
		}
	}
	if hasErr {
		return nil, err
	}
	if hasResp {
		return resp, nil
	}
	return nil, &fetch.HTTPError{URL: url, StatusCode: 404, Body: "not found"}
}

func (f *fakeFetcher) set(url string, v any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[url] = v
}

func (f *fakeFetcher) fail(url string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[url] = err
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func obj(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}
