// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/sotonavi/internal/auth"
	"github.com/tomtom215/sotonavi/internal/models"
	"github.com/tomtom215/sotonavi/internal/tracking"
)

func TestDataset(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), nil)
	rec, env := s.do(t, http.MethodGet, "/api/v1/dataset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var ds models.Dataset
	if err := json.Unmarshal(env.Data, &ds); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(ds.Events) != 3 || len(ds.Organizers) != 2 || len(ds.Categories) != 2 {
		t.Errorf("dataset = %d events, %d organizers, %d categories", len(ds.Events), len(ds.Organizers), len(ds.Categories))
	}
	if env.Metadata.Count == nil || *env.Metadata.Count != 3 {
		t.Errorf("count = %v", env.Metadata.Count)
	}
	if rec.Header().Get("ETag") == "" {
		t.Error("missing ETag")
	}
	if rec.Header().Get("X-Request-ID") == "" || env.Metadata.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("request id header %q, metadata %q", rec.Header().Get("X-Request-ID"), env.Metadata.RequestID)
	}
}

func TestDataset_EmptySerializesArrays(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, models.EmptyDataset(), nil)
	rec, env := s.do(t, http.MethodGet, "/api/v1/dataset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, field := range []string{`"events":[]`, `"organizers":[]`, `"categories":[]`, `"areas":[]`} {
		if !strings.Contains(string(env.Data), field) {
			t.Errorf("data %s missing %s", env.Data, field)
		}
	}
}

func TestRefreshDataset(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), nil)
	token := s.operatorToken(t, auth.RoleOperator)
	rec, env := s.doWithToken(t, http.MethodPost, "/api/v1/dataset/refresh", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := s.dataset.refreshes.Load(); got != 1 {
		t.Errorf("refreshes = %d, want 1", got)
	}
	if got := s.dataset.invalidations.Load(); got != 0 {
		t.Errorf("invalidations = %d, want 0", got)
	}

	var result RefreshResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Hard || !result.Loaded || result.Events != 3 || result.Organizers != 2 {
		t.Errorf("result = %+v", result)
	}

	rec, _ = s.doWithToken(t, http.MethodGet, "/api/v1/dataset/refresh", "", token)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET refresh status = %d, want 405", rec.Code)
	}
}

func TestRefreshDataset_Hard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		query             string
		wantStatus        int
		wantInvalidations int32
		wantRefreshes     int32
	}{
		{"hard", "?hard=true", http.StatusOK, 1, 0},
		{"explicit soft", "?hard=false", http.StatusOK, 0, 1},
		{"not a boolean", "?hard=maybe", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, fixtureDataset(), nil)
			rec, env := s.doWithToken(t, http.MethodPost, "/api/v1/dataset/refresh"+tt.query, "", s.operatorToken(t, auth.RoleOperator))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := s.dataset.invalidations.Load(); got != tt.wantInvalidations {
				t.Errorf("invalidations = %d, want %d", got, tt.wantInvalidations)
			}
			if got := s.dataset.refreshes.Load(); got != tt.wantRefreshes {
				t.Errorf("refreshes = %d, want %d", got, tt.wantRefreshes)
			}
			if tt.wantStatus == http.StatusBadRequest && (env.Error == nil || env.Error.Code != ErrCodeValidation) {
				t.Errorf("error = %+v", env.Error)
			}
		})
	}
}

func TestRefreshDataset_RequiresOperator(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), nil)
	other, err := auth.NewJWTManager(strings.Repeat("z", auth.MinSecretLength), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	foreign, _ := other.GenerateToken("intruder", auth.RoleOperator)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantCode   string
	}{
		{"missing header", "", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"basic scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"malformed token", "Bearer not-a-jwt", http.StatusUnauthorized, ErrCodeUnauthorized},
		{"foreign signature", "Bearer " + foreign, http.StatusUnauthorized, ErrCodeUnauthorized},
		{"viewer role", "Bearer " + s.operatorToken(t, "viewer"), http.StatusForbidden, ErrCodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset/refresh", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			s.handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var env envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}

	if got := s.dataset.refreshes.Load(); got != 0 {
		t.Errorf("refreshes = %d, want 0", got)
	}
}

func TestRefreshDataset_DisabledWithoutSecret(t *testing.T) {
	t.Parallel()

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	ds := &stubDataset{ds: fixtureDataset()}
	h := NewHandler(ds, &stubDetails{}, nil, "test")
	handler := NewRouter(h, NewChiMiddleware(cfg)).SetupChi()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/dataset/refresh", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := ds.refreshes.Load(); got != 0 {
		t.Errorf("refreshes = %d, want 0", got)
	}
}

func TestRefreshDataset_RateLimited(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), NewChiMiddleware(DefaultChiMiddlewareConfig()))
	token := s.operatorToken(t, auth.RoleOperator)
	for i := 0; i < 2; i++ {
		if rec, _ := s.doWithToken(t, http.MethodPost, "/api/v1/dataset/refresh", "", token); rec.Code != http.StatusOK {
			t.Fatalf("refresh %d: status = %d", i, rec.Code)
		}
	}

	rec, env := s.doWithToken(t, http.MethodPost, "/api/v1/dataset/refresh", "", token)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeRateLimited {
		t.Errorf("error = %+v", env.Error)
	}
	if got := s.dataset.refreshes.Load(); got != 2 {
		t.Errorf("refreshes = %d, want 2", got)
	}
}

func TestClick(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), nil)
	rec, env := s.do(t, http.MethodPost, "/api/v1/clicks", `{"event_id":" a1 ","organizer_id":"o1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result ClickResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Outcome != tracking.OutcomeQueued {
		t.Errorf("outcome = %q", result.Outcome)
	}

	s.tracker.mu.Lock()
	defer s.tracker.mu.Unlock()
	if len(s.tracker.clicks) != 1 {
		t.Fatalf("clicks = %d, want 1", len(s.tracker.clicks))
	}
	c := s.tracker.clicks[0]
	if c.EventID != " a1 " || c.OrganizerID != "o1" || c.Visitor != "192.0.2.1" {
		t.Errorf("click = %+v", c)
	}
}

func TestClick_VisitorFromForwardedFor(t *testing.T) {
	t.Parallel()

	s := newTestServer(t, fixtureDataset(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", strings.NewReader(`{"event_id":"a2"}`))
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	s.tracker.mu.Lock()
	defer s.tracker.mu.Unlock()
	if len(s.tracker.clicks) != 1 || s.tracker.clicks[0].Visitor != "203.0.113.7" {
		t.Errorf("clicks = %+v", s.tracker.clicks)
	}
}

func TestClick_Rejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"event_id":`, http.StatusBadRequest, ErrCodeBadRequest},
		{"missing event id", `{"organizer_id":"o1"}`, http.StatusBadRequest, ErrCodeValidation},
		{"event id too long", `{"event_id":"` + strings.Repeat("x", 200) + `"}`, http.StatusBadRequest, ErrCodeValidation},
		{"body too large", `{"event_id":"a1","pad":"` + strings.Repeat("x", 8<<10) + `"}`, http.StatusRequestEntityTooLarge, ErrCodeBodyTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, fixtureDataset(), nil)
			rec, env := s.do(t, http.MethodPost, "/api/v1/clicks", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if env.Error == nil || env.Error.Code != tt.wantErr {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantErr)
			}
			if len(s.tracker.clicks) != 0 {
				t.Errorf("tracker received %d clicks", len(s.tracker.clicks))
			}
		})
	}
}

func TestClick_NoTracker(t *testing.T) {
	t.Parallel()

	h := NewHandler(&stubDataset{ds: fixtureDataset()}, &stubDetails{}, nil, "test")
	handler := NewRouter(h, nil).SetupChi()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/clicks", strings.NewReader(`{"event_id":"a1"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"outcome":"disabled"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	t.Run("live", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, models.EmptyDataset(), nil)
		rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", "")
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d", rec.Code)
		}
	})

	t.Run("not ready before a load", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, models.EmptyDataset(), nil)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("status = %d, want 503", rec.Code)
		}
		if env.Error == nil || env.Error.Code != ErrCodeUnavailable {
			t.Errorf("error = %+v", env.Error)
		}
	})

	t.Run("ready", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, fixtureDataset(), nil)
		rec, env := s.do(t, http.MethodGet, "/api/v1/health/ready", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		var health models.HealthStatus
		if err := json.Unmarshal(env.Data, &health); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if health.Status != "ready" || !health.DatasetLoaded || health.EventCount != 3 || health.Version != "test" {
			t.Errorf("health = %+v", health)
		}
	})
}
