// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package tracking

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/sotonavi/internal/cache"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/metrics"
)

// ErrMissingEventID is returned by Track for a click without an event ID.
var ErrMissingEventID = errors.New("click has no event id")

// Outcome describes what Track did with a click.
type Outcome string

// Track outcomes, also used as metric labels.
const (
	OutcomeQueued     Outcome = "queued"
	OutcomeSuppressed Outcome = "suppressed"
	OutcomeDropped    Outcome = "dropped"
	OutcomeDisabled   Outcome = "disabled"
)

// Config holds beacon settings.
type Config struct {
	Enabled bool
	// URL of the click counting endpoint.
	URL string
	// Secret is sent as the token field.
	Secret string
	// Window suppresses repeated clicks on the same event.
	Window time.Duration
	// Timeout bounds one send.
	Timeout time.Duration
	// QueueSize bounds clicks waiting to be sent.
	QueueSize int
	// RequestsPerSecond paces sends.
	RequestsPerSecond float64
}

// DefaultConfig returns the default beacon settings.
func DefaultConfig() Config {
	return Config{
		Window:            10 * time.Minute,
		Timeout:           5 * time.Second,
		QueueSize:         256,
		RequestsPerSecond: 10,
	}
}

// Click is one listing click.
type Click struct {
	EventID     string `json:"eventId" validate:"required,max=128"`
	OrganizerID string `json:"organizerId,omitempty" validate:"max=128"`
	// Visitor scopes suppression. Clicks from different visitors on the same
	// event are counted separately.
	Visitor string `json:"-"`
}

func (c Click) dedupKey() string {
	return c.Visitor + "|" + c.EventID
}

// beacon is the wire payload.
type beacon struct {
	Token       string `json:"token"`
	EventID     string `json:"event_id"`
	OrganizerID string `json:"organizer_id"`
}

// Tracker deduplicates and sends click beacons.
type Tracker struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	seen    *cache.Cache
	queue   chan Click
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithHTTPClient replaces the HTTP client used for sends.
func WithHTTPClient(c *http.Client) Option {
	return func(t *Tracker) {
		t.client = c
	}
}

// WithClock replaces the clock of the suppression window.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.seen = cache.NewWithClock(t.cfg.Window, now)
	}
}

// New creates a tracker. Zero config fields take their defaults.
func New(cfg Config, opts ...Option) *Tracker {
	def := DefaultConfig()
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}

	t := &Tracker{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		seen:    cache.New(cfg.Window),
		queue:   make(chan Click, cfg.QueueSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track queues a click. It never blocks on the network.
func (t *Tracker) Track(c Click) (Outcome, error) {
	c.EventID = strings.TrimSpace(c.EventID)
	c.OrganizerID = strings.TrimSpace(c.OrganizerID)
	if c.EventID == "" {
		return "", ErrMissingEventID
	}
	if !t.cfg.Enabled || t.cfg.URL == "" {
		metrics.RecordClick(string(OutcomeDisabled))
		return OutcomeDisabled, nil
	}

	key := c.dedupKey()
	if !t.seen.SetIfAbsent(key, struct{}{}) {
		metrics.RecordClick(string(OutcomeSuppressed))
		return OutcomeSuppressed, nil
	}

	select {
	case t.queue <- c:
		metrics.RecordClick(string(OutcomeQueued))
		return OutcomeQueued, nil
	default:
		t.seen.Delete(key)
		metrics.RecordClick(string(OutcomeDropped))
		logging.Warn().Str("event_id", c.EventID).Msg("Click queue full, dropping beacon")
		return OutcomeDropped, nil
	}
}

// sweep drops expired suppressions and publishes the window's stats.
func (t *Tracker) sweep() int {
	n := t.seen.Cleanup()
	stats := t.seen.GetStats()
	metrics.SetClickSuppressions(stats.TotalKeys, stats.Evictions, t.seen.HitRate())
	return n
}

// Serve sends queued clicks until ctx is done.
func (t *Tracker) Serve(ctx context.Context) error {
	log := logging.WithComponent("tracker")
	log.Info().Str("url", t.cfg.URL).Bool("enabled", t.cfg.Enabled).Msg("Click tracker started")

	cleanup := time.NewTicker(t.cfg.Window)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("pending", len(t.queue)).Msg("Click tracker stopped")
			return ctx.Err()
		case <-cleanup.C:
			if n := t.sweep(); n > 0 {
				log.Debug().Int("expired", n).Msg("Expired click suppressions")
			}
		case c := <-t.queue:
			if err := t.limiter.Wait(ctx); err != nil {
				t.seen.Delete(c.dedupKey())
				return ctx.Err()
			}
			if err := t.send(ctx, c); err != nil {
				t.seen.Delete(c.dedupKey())
				metrics.RecordClick("failed")
				log.Warn().Err(err).Str("event_id", c.EventID).Msg("Click beacon failed")
				continue
			}
			metrics.RecordClick("sent")
		}
	}
}

// String identifies the service in supervisor logs.
func (t *Tracker) String() string {
	return "click-tracker"
}

func (t *Tracker) send(ctx context.Context, c Click) error {
	body, err := json.Marshal(beacon{
		Token:       t.cfg.Secret,
		EventID:     c.EventID,
		OrganizerID: c.OrganizerID,
	})
	if err != nil {
		return fmt.Errorf("encode beacon: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build beacon request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain;charset=utf-8")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send beacon: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return fmt.Errorf("beacon endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
