// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sotonavi/internal/auth"
	"github.com/tomtom215/sotonavi/internal/loader"
	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/tracking"
)

// Wednesday.
var testNow = time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)

type stubDataset struct {
	ds            models.Dataset
	loaded        bool
	refreshes     atomic.Int32
	invalidations atomic.Int32
}

func (s *stubDataset) LoadDataset(context.Context) models.Dataset { return s.ds }

func (s *stubDataset) Snapshot() (models.Dataset, bool) { return s.ds, s.loaded }

func (s *stubDataset) Refresh(context.Context) models.Dataset {
	s.refreshes.Add(1)
	return s.ds
}

func (s *stubDataset) Invalidate(context.Context) { s.invalidations.Add(1) }

type stubDetails struct {
	details map[string]models.EventDetail
}

func (s *stubDetails) LoadDetail(_ context.Context, id string) (models.EventDetail, error) {
	if id == "broken" {
		return models.EventDetail{}, errors.New("upstream 503")
	}
	d, ok := s.details[id]
	if !ok {
		return models.EventDetail{}, fmt.Errorf("%w: %s", loader.ErrNotFound, id)
	}
	return d, nil
}

type stubTracker struct {
	mu      sync.Mutex
	clicks  []tracking.Click
	outcome tracking.Outcome
}

func (s *stubTracker) Track(c tracking.Click) (tracking.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clicks = append(s.clicks, c)
	return s.outcome, nil
}

func ptr[T any](v T) *T { return &v }

func fixtureDataset() models.Dataset {
	return models.Dataset{
		Events: []models.ListingSummary{
			{
				ID: "a1", Title: "Canyoning in Minakami", CategoryID: "water", OrganizerID: "o1",
				AreaID: "gunma", Dates: []models.Occurrence{{Date: "2025-03-14"}},
				IsRecommended: true, PublishedAt: ptr(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
			},
			{
				ID: "a2", Title: "Snowshoe walk", CategoryID: "snow", OrganizerID: "o1",
				AreaID: "nagano", Dates: []models.Occurrence{{Date: "2025-03-20"}},
				PublishedAt: ptr(time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)),
			},
			{
				ID: "a3", Title: "Rafting", CategoryID: "water", OrganizerID: "o2", AreaID: "kochi",
			},
		},
		Organizers: []models.Organizer{
			{ID: "o1", Name: "Mountain Guides", Rating: ptr(4.8), ReviewCount: ptr(120)},
			{ID: "o2", Name: "River Crew"},
		},
		Categories: []models.Category{{ID: "water", Name: "Water"}, {ID: "snow", Name: "Snow"}},
		Areas:      []string{"gunma", "nagano", "kochi"},
	}
}

const testJWTSecret = "sotonavi-test-secret-with-32-plus-characters"

type testServer struct {
	dataset *stubDataset
	tracker *stubTracker
	handler http.Handler
	tokens  *auth.JWTManager
}

func newTestServer(t *testing.T, ds models.Dataset, mw *ChiMiddleware) *testServer {
	t.Helper()
	if mw == nil {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitDisabled = true
		mw = NewChiMiddleware(cfg)
	}
	s := &testServer{
		dataset: &stubDataset{ds: ds, loaded: !ds.IsEmpty()},
		tracker: &stubTracker{outcome: tracking.OutcomeQueued},
	}
	details := &stubDetails{details: map[string]models.EventDetail{
		"a1": {
			ListingSummary: models.ListingSummary{ID: "a1", Title: "Canyoning in Minakami", CategoryID: "water"},
			Facilities:     "parking| toilets ||",
		},
	}}
	tokens, err := auth.NewJWTManager(testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	s.tokens = tokens

	h := NewHandler(s.dataset, details, s.tracker, "test")
	h.now = func() time.Time { return testNow }
	s.handler = NewRouter(h, mw.WithOperatorTokens(tokens)).SetupChi()
	return s
}

// operatorToken signs a token with the given role.
func (s *testServer) operatorToken(t *testing.T, role string) string {
	t.Helper()
	token, err := s.tokens.GenerateToken("test-operator", role)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func (s *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	return s.doWithToken(t, method, target, body, "")
}

// doWithToken sends the request with a bearer token when token is set.
func (s *testServer) doWithToken(t *testing.T, method, target, body, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v\n%s", err, rec.Body.String())
		}
	}
	return rec, env
}

func idsOf(t *testing.T, raw json.RawMessage) []string {
	t.Helper()
	var rows []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	out := make([]string, len(rows))
	for i := range rows {
		out[i] = rows[i].ID
	}
	return out
}
