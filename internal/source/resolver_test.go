// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package source

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/tomtom215/sotonavi/internal/fetch"
)

// stubFetcher serves canned responses per URL and counts calls.
type stubFetcher struct {
	mu        sync.Mutex
	responses map[string]any
	errs      map[string]error
	calls     map[string]int
}

func newStub() *stubFetcher {
	return &stubFetcher{
		responses: make(map[string]any),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (s *stubFetcher) FetchJSONStrict(_ context.Context, url string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[url]++
	if err, ok := s.errs[url]; ok {
		return nil, err
	}
	if v, ok := s.responses[url]; ok {
		return v, nil
	}
	return nil, &fetch.HTTPError{URL: url, StatusCode: 404}
}

func (s *stubFetcher) count(url string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[url]
}

// rowsResource scores rows by the fraction carrying "organizerId".
func rowsResource(primary, fallback string) Resource[[]map[string]any] {
	return Resource[[]map[string]any]{
		Name:     "events_index",
		Primary:  primary,
		Fallback: fallback,
		Decode: func(raw any) ([]map[string]any, error) {
			arr, err := ToArray("events_index", raw, "events_index")
			if err != nil {
				return nil, err
			}
			rows, _ := Objects(arr)
			return rows, nil
		},
		Quality: func(rows []map[string]any) float64 {
			if len(rows) == 0 {
				return 0
			}
			n := 0
			for _, r := range rows {
				if _, ok := r["organizerId"]; ok {
					n++
				}
			}
			return float64(n) / float64(len(rows))
		},
		Size: func(rows []map[string]any) int { return len(rows) },
	}
}

func rows(withOrg, without int) []any {
	out := make([]any, 0, withOrg+without)
	for i := 0; i < withOrg; i++ {
		out = append(out, map[string]any{"id": "a", "organizerId": "o"})
	}
	for i := 0; i < without; i++ {
		out = append(out, map[string]any{"id": "b"})
	}
	return out
}

const (
	primaryURL  = "https://cdn.example.com/events_index.json"
	fallbackURL = "https://mirror.example.com/events_index.json"
)

func TestResolve_PrimaryHealthySkipsFallback(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.responses[primaryURL] = map[string]any{"events_index": rows(10, 0)}

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Origin != OriginPrimary || res.Size != 10 || res.Quality != 1 {
		t.Errorf("Resolve() = %+v", res)
	}
	if f.count(fallbackURL) != 0 {
		t.Error("fallback should not be fetched when primary is healthy")
	}
}

func TestResolve_NotJSONFallsBack(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.errs[primaryURL] = &fetch.NotJSONError{URL: primaryURL, StatusCode: 200, ContentType: "text/html"}
	f.responses[fallbackURL] = rows(3, 0)

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Origin != OriginFallback || res.Size != 3 {
		t.Errorf("Resolve() = %+v, want fallback with 3 rows", res)
	}
}

func TestResolve_ShapeErrorReadsAsEmpty(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.responses[primaryURL] = map[string]any{"unexpected": true}
	f.responses[fallbackURL] = rows(1, 0)

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Origin != OriginFallback {
		t.Errorf("Origin = %s, want fallback", res.Origin)
	}
}

func TestResolve_FallbackEmptyIsNeverAdopted(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.responses[primaryURL] = rows(1, 4)
	f.responses[fallbackURL] = []any{}

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Origin != OriginPrimary || res.Size != 5 {
		t.Errorf("Resolve() = %+v, want degraded primary", res)
	}
	if f.count(fallbackURL) != 1 {
		t.Errorf("fallback fetched %d times, want 1", f.count(fallbackURL))
	}
}

func TestResolve_FallbackWorseIsRejected(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.responses[primaryURL] = rows(8, 2)
	f.responses[fallbackURL] = rows(5, 5)

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Origin != OriginPrimary || res.Quality != 0.8 {
		t.Errorf("Resolve() = %+v, want primary at 0.8", res)
	}
}

func TestResolve_BothUnavailable(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.errs[primaryURL] = &fetch.NetworkError{URL: primaryURL, Err: errors.New("refused")}

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, fallbackURL))
	if res.Size != 0 || res.Value != nil {
		t.Errorf("Resolve() = %+v, want empty", res)
	}
}

func TestResolve_NoFallbackConfigured(t *testing.T) {
	t.Parallel()

	f := newStub()
	f.responses[primaryURL] = rows(1, 1)

	res := Resolve(context.Background(), NewResolver(f, 0.9), rowsResource(primaryURL, ""))
	if res.Origin != OriginPrimary || res.Size != 2 {
		t.Errorf("Resolve() = %+v", res)
	}
}

func TestResolve_NeverRegressesQuality(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		pw, pn := rng.Intn(6), rng.Intn(6)
		fw, fn := rng.Intn(6), rng.Intn(6)

		f := newStub()
		f.responses[primaryURL] = rows(pw, pn)
		f.responses[fallbackURL] = rows(fw, fn)
		resource := rowsResource(primaryURL, fallbackURL)

		primaryQuality := resource.Quality(mustRows(t, rows(pw, pn)))
		res := Resolve(context.Background(), NewResolver(f, 0.9), resource)

		if res.Quality < primaryQuality {
			t.Fatalf("case %d: quality regressed %.2f -> %.2f", i, primaryQuality, res.Quality)
		}
		if res.Origin == OriginFallback && fw+fn == 0 {
			t.Fatalf("case %d: adopted empty fallback", i)
		}
	}
}

func TestNewResolver_ThresholdDefault(t *testing.T) {
	t.Parallel()

	for _, th := range []float64{0, -1, 1.5} {
		if got := NewResolver(newStub(), th).Threshold(); got != DefaultQualityThreshold {
			t.Errorf("NewResolver(%v).Threshold() = %v", th, got)
		}
	}
	if got := NewResolver(newStub(), 0.5).Threshold(); got != 0.5 {
		t.Errorf("Threshold() = %v, want 0.5", got)
	}
}

func mustRows(t *testing.T, arr []any) []map[string]any {
	t.Helper()
	out, skipped := Objects(arr)
	if skipped != 0 {
		t.Fatalf("unexpected non-object rows: %d", skipped)
	}
	return out
}
