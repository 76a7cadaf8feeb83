// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/sotonavi/internal/fetch"
	"github.com/tomtom215/sotonavi/internal/source"
)

func detailURL(id string) string {
	return testEndpoints.DetailURL(id)
}

func TestLoadDetail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		id       string
		response any
		err      error
		wantErr  error
		wantDate string
	}{
		{
			name:     "bare object",
			id:       "e1",
			response: obj("id", "e1", "dates", []any{obj("date", "2025-03-01")}),
			wantDate: "2025-03-01",
		},
		{
			name:     "wrapped object",
			id:       "e1",
			response: obj("event", obj("id", "e1", "dates", []any{"2025-04-01"})),
			wantDate: "2025-04-01",
		},
		{
			name:     "wrapper without id takes requested id",
			id:       "e1",
			response: obj("event", obj("title", "untitled")),
		},
		{name: "wrapped null", id: "e1", response: obj("event", nil), wantErr: ErrNotFound},
		{name: "empty id", id: "  ", wantErr: ErrNotFound},
		{name: "undefined id", id: "undefined", wantErr: ErrNotFound},
		{name: "upstream 404", id: "missing", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFakeFetcher()
			if tt.response != nil {
				f.set(detailURL(tt.id), tt.response)
			}

			d, err := NewDetailLoader(f, testEndpoints).LoadDetail(context.Background(), tt.id)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadDetail() error = %v", err)
			}
			if d.ID != tt.id {
				t.Errorf("ID = %q, want %q", d.ID, tt.id)
			}
			if tt.wantDate != "" && (len(d.Dates) == 0 || d.Dates[0].Date != tt.wantDate) {
				t.Errorf("Dates = %+v, want %s", d.Dates, tt.wantDate)
			}
			if f.count(detailURL(tt.id)) != 1 {
				t.Errorf("fetches = %d, want 1", f.count(detailURL(tt.id)))
			}
		})
	}
}

func TestLoadDetail_PropagatesFetchErrors(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.fail(detailURL("e1"), &fetch.HTTPError{StatusCode: 503, Body: "down"})

	_, err := NewDetailLoader(f, testEndpoints).LoadDetail(context.Background(), "e1")
	var he *fetch.HTTPError
	if !errors.As(err, &he) || he.StatusCode != 503 {
		t.Fatalf("error = %v, want wrapped HTTPError 503", err)
	}
	if errors.Is(err, ErrNotFound) {
		t.Error("a 503 is not a not-found")
	}
}

func TestLoadDetail_NoCaching(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.set(detailURL("e1"), obj("id", "e1"))
	l := NewDetailLoader(f, testEndpoints)

	for i := 0; i < 3; i++ {
		if _, err := l.LoadDetail(context.Background(), "e1"); err != nil {
			t.Fatal(err)
		}
	}
	if f.count(detailURL("e1")) != 3 {
		t.Errorf("fetches = %d, want 3", f.count(detailURL("e1")))
	}
}

func TestLoadDetail_ShapeError(t *testing.T) {
	t.Parallel()

	f := newFakeFetcher()
	f.set(detailURL("e1"), []any{})

	_, err := NewDetailLoader(f, testEndpoints).LoadDetail(context.Background(), "e1")
	var se *source.ShapeError
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want ShapeError", err)
	}
}
