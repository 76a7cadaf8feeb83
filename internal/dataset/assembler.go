// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package dataset

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/sotonavi/internal/cache"
	"github.com/tomtom215/sotonavi/internal/loader"
	"github.com/tomtom215/sotonavi/internal/logging"
	"github.com/tomtom215/sotonavi/internal/metrics"
	"github.com/tomtom215/sotonavi/internal/models"
)

// DefaultBackfillWidth is the number of detail requests run concurrently.
const DefaultBackfillWidth = 5

// Backfill pass names used in logs and metrics.
const (
	passDates     = "dates"
	passOrganizer = "organizer"
)

// IndexSource loads the events index. RefreshIndex bypasses the cache and
// keeps the previous index when the reload is empty.
type IndexSource interface {
	LoadIndex(ctx context.Context) []models.ListingSummary
	RefreshIndex(ctx context.Context) []models.ListingSummary
	Reset()
}

// MetaSource loads the shared metadata. RefreshMeta bypasses the cache and
// keeps the previous metadata when the reload has no organizers.
type MetaSource interface {
	LoadMeta(ctx context.Context) models.Meta
	RefreshMeta(ctx context.Context) models.Meta
	Reset()
}

// DetailSource loads one event detail.
type DetailSource interface {
	LoadDetail(ctx context.Context, id string) (models.EventDetail, error)
}

// Config holds assembler settings.
type Config struct {
	// BackfillWidth bounds concurrent detail requests per chunk.
	BackfillWidth int
	// TTL is the freshness window of the cached dataset.
	TTL time.Duration
}

// DefaultConfig returns the default assembler settings.
func DefaultConfig() Config {
	return Config{
		BackfillWidth: DefaultBackfillWidth,
		TTL:           cache.DefaultTTL,
	}
}

// Assembler builds and memoizes the Dataset.
type Assembler struct {
	index  IndexSource
	meta   MetaSource
	detail DetailSource
	cache  *cache.Versioned
	cfg    Config
	memo   *loader.Memo[models.Dataset]
}

// NewAssembler creates an assembler. A nil cache disables caching.
func NewAssembler(index IndexSource, meta MetaSource, detail DetailSource, vc *cache.Versioned, cfg Config) *Assembler {
	if cfg.BackfillWidth < 1 {
		cfg.BackfillWidth = DefaultBackfillWidth
	}
	if cfg.TTL <= 0 {
		cfg.TTL = cache.DefaultTTL
	}
	return &Assembler{
		index:  index,
		meta:   meta,
		detail: detail,
		cache:  vc,
		cfg:    cfg,
		memo: loader.NewMemo("dataset", func(ds models.Dataset) bool {
			return !ds.IsEmpty()
		}),
	}
}

// LoadDataset returns the assembled dataset. It never fails; on an
// unrecoverable error the dataset is empty.
//
// The returned collections are shared between callers and must not be
// modified.
func (a *Assembler) LoadDataset(ctx context.Context) models.Dataset {
	ds := a.memo.Get(ctx, a.assemble)
	if ds.Events == nil {
		return models.EmptyDataset()
	}
	return ds
}

// Snapshot returns the memoized dataset without loading.
func (a *Assembler) Snapshot() (models.Dataset, bool) {
	return a.memo.Peek()
}

// Invalidate drops the memoized dataset, index and metadata along with
// their cache entries, so the next LoadDataset fetches everything again.
// Until that load finishes callers wait on it, and an outage leaves them
// with an empty dataset; Refresh avoids both.
func (a *Assembler) Invalidate(ctx context.Context) {
	a.memo.Reset()
	a.index.Reset()
	a.meta.Reset()
	if a.cache != nil {
		a.cache.Delete(ctx, cache.KeyDataset)
		a.cache.Delete(ctx, cache.KeyIndex)
		a.cache.Delete(ctx, loader.KeyMeta)
	}
	logging.Ctx(ctx).Info().Msg("Dataset invalidated")
}

// Refresh reassembles the dataset from upstream data, bypassing the cache,
// while the current dataset keeps being served. The result replaces the
// current dataset only when it is non-empty, so an upstream outage leaves
// the last good dataset in place. It returns the dataset served afterwards.
func (a *Assembler) Refresh(ctx context.Context) models.Dataset {
	ds := a.memo.Refresh(ctx, a.rebuild)
	if ds.Events == nil {
		return models.EmptyDataset()
	}
	return ds
}

// assemble builds the dataset from the cache or the memoized sources.
func (a *Assembler) assemble(ctx context.Context) models.Dataset {
	return a.build(ctx, true, a.index.LoadIndex, a.meta.LoadMeta)
}

// rebuild builds the dataset from freshly fetched sources.
func (a *Assembler) rebuild(ctx context.Context) models.Dataset {
	return a.build(ctx, false, a.index.RefreshIndex, a.meta.RefreshMeta)
}

// build runs one full assembly. With useCache a fresh cached dataset is
// returned as is.
func (a *Assembler) build(
	ctx context.Context,
	useCache bool,
	loadIndex func(context.Context) []models.ListingSummary,
	loadMeta func(context.Context) models.Meta,
) (ds models.Dataset) {
	if logging.LoadIDFromContext(ctx) == "" {
		ctx = logging.ContextWithNewLoadID(ctx)
	}
	log := logging.Ctx(ctx)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Dataset assembly panicked, serving empty dataset")
			ds = models.EmptyDataset()
		}
		metrics.RecordDatasetLoad(time.Since(start), len(ds.Events))
	}()

	if useCache && a.cache != nil {
		if cached, ok := cache.Read(ctx, a.cache, cache.KeyDataset, a.cfg.TTL, datasetHealthy); ok {
			log.Info().Int("events", len(cached.Events)).Msg("Dataset served from cache")
			return cached
		}
	}

	var (
		index []models.ListingSummary
		meta  models.Meta
	)
	var g errgroup.Group
	g.Go(func() (err error) {
		defer recoverInto(&err)
		index = loadIndex(ctx)
		return nil
	})
	g.Go(func() (err error) {
		defer recoverInto(&err)
		meta = loadMeta(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Dataset sources failed, serving empty dataset")
		return models.EmptyDataset()
	}

	events := make([]models.ListingSummary, len(index))
	for i := range index {
		events[i] = index[i].Clone()
	}

	fetched := make([]bool, len(events))

	var missingDates []int
	for i := range events {
		if !events[i].HasDates() {
			missingDates = append(missingDates, i)
		}
	}
	datesFilled := a.backfill(ctx, passDates, events, missingDates, fetched)

	var missingOrganizer []int
	for i := range events {
		if events[i].OrganizerID == "" && !fetched[i] {
			missingOrganizer = append(missingOrganizer, i)
		}
	}
	organizersFilled := a.backfill(ctx, passOrganizer, events, missingOrganizer, fetched)

	ds = models.Dataset{
		Events:     events,
		Organizers: nonNil(meta.Organizers),
		Categories: nonNil(meta.Categories),
		Areas:      nonNil(meta.Areas),
	}

	if a.cache != nil && !ds.IsEmpty() {
		a.cache.Write(ctx, cache.KeyDataset, ds)
	}

	log.Info().
		Int("events", len(ds.Events)).
		Int("organizers", len(ds.Organizers)).
		Int("categories", len(ds.Categories)).
		Int("dates_missing", len(missingDates)).
		Int("dates_backfilled", datesFilled).
		Int("organizers_missing", len(missingOrganizer)).
		Int("organizers_backfilled", organizersFilled).
		Dur("duration", time.Since(start)).
		Msg("Dataset assembled")
	return ds
}

// backfill fetches the details of events[rows] in chunks of BackfillWidth
// and fills the gaps of each row. Each goroutine owns one row, so rows are
// written without locking. A failing row is logged and left unchanged.
// It returns the number of rows whose detail was merged.
func (a *Assembler) backfill(ctx context.Context, pass string, events []models.ListingSummary, rows []int, fetched []bool) int {
	if len(rows) == 0 {
		return 0
	}
	log := logging.Ctx(ctx)
	width := a.cfg.BackfillWidth

	for start := 0; start < len(rows); start += width {
		end := min(start+width, len(rows))

		var g errgroup.Group
		for _, i := range rows[start:end] {
			g.Go(func() error {
				err := a.fillRow(ctx, &events[i])
				metrics.RecordBackfill(pass, err)
				if err != nil {
					log.Debug().Err(err).Str("pass", pass).Str("event_id", events[i].ID).Msg("Backfill skipped row")
					return nil
				}
				fetched[i] = true
				return nil
			})
		}
		_ = g.Wait()
	}

	filled := 0
	for _, i := range rows {
		if fetched[i] {
			filled++
		}
	}
	return filled
}

// fillRow loads the detail of row and merges it, converting a panic into an
// error so one row cannot bring down the batch.
func (a *Assembler) fillRow(ctx context.Context, row *models.ListingSummary) (err error) {
	defer recoverInto(&err)
	d, err := a.detail.LoadDetail(ctx, row.ID)
	if err != nil {
		return err
	}
	FillGaps(row, d)
	return nil
}

// FillGaps copies detail fields into row where row lacks them. Fields the
// row already carries are never overwritten.
func FillGaps(row *models.ListingSummary, d models.EventDetail) {
	if !row.HasDates() {
		if len(d.Dates) > 0 {
			row.Dates = append([]models.Occurrence(nil), d.Dates...)
		}
		next := d.NextDate
		if t, ok := d.FirstDate(); ok {
			next = t.Format(models.DateLayout)
		}
		row.NextDate = next
	}
	if row.OrganizerID == "" {
		row.OrganizerID = d.OrganizerID
	}
	if row.CategoryID == "" {
		row.CategoryID = d.CategoryID
		if row.CategoryName == "" {
			row.CategoryName = d.CategoryName
		}
	}
	if row.Area == "" {
		row.Area = d.Area
	}
	if row.AreaID == "" {
		row.AreaID = d.AreaID
	}
	if row.Prefecture == "" {
		row.Prefecture = d.Prefecture
	}
	if row.Image == "" {
		row.Image = d.Image
	}
	if row.PublishedAt == nil && d.PublishedAt != nil {
		t := *d.PublishedAt
		row.PublishedAt = &t
	}
}

// datasetHealthy rejects empty datasets and datasets where no event has an
// organizer.
func datasetHealthy(ds models.Dataset) bool {
	if len(ds.Events) == 0 {
		return false
	}
	for i := range ds.Events {
		if ds.Events[i].OrganizerID != "" {
			return true
		}
	}
	return false
}

func recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("panic: %v", r)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
