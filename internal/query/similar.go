// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package query

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/sotonavi/internal/models"
)

// Default result sizes.
const (
	DefaultSimilarLimit = 4
	DefaultRelatedLimit = 4
)

// scored pairs an event's input position with its score.
type scored struct {
	index int
	score float64
}

// rank sorts by descending score, keeping input order on ties.
func rank(items []scored) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].score > items[j].score
	})
}

// Similar returns up to limit events resembling the criteria. A limit <= 0
// uses DefaultSimilarLimit.
func Similar(events []models.ListingSummary, c Criteria, limit int) []models.ListingSummary {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	want := min(limit, len(events))
	if want == 0 {
		return []models.ListingSummary{}
	}

	q := strings.ToLower(strings.TrimSpace(c.Query))
	category := strings.TrimSpace(c.Category)
	area := strings.TrimSpace(c.Area)
	start, end, hasTarget := c.target()
	center := start.Add(end.Sub(start) / 2)

	items := make([]scored, 0, len(events))
	for i := range events {
		e := &events[i]
		score := 0.0

		if category != "" && e.CategoryID == category {
			score += 5
		}
		if area != "" {
			score += float64(areaPoints(e, area))
		}
		if q != "" && strings.Contains(strings.ToLower(e.Title+" "+e.Description), q) {
			score += 4
		}
		if hasTarget {
			if first, ok := e.FirstDate(); ok {
				score += datePoints(first, start, end, center)
			}
		}

		if score > 0 {
			items = append(items, scored{index: i, score: score})
		}
	}
	rank(items)

	picked := make(map[int]struct{}, want)
	out := make([]models.ListingSummary, 0, want)
	add := func(i int) {
		if len(out) >= want {
			return
		}
		if _, dup := picked[i]; dup {
			return
		}
		picked[i] = struct{}{}
		out = append(out, events[i])
	}

	for _, it := range items {
		add(it.index)
	}

	if len(out) < want && hasTarget {
		for _, i := range nearest(events, center) {
			add(i)
		}
	}
	if len(out) < want {
		for i := range events {
			if events[i].IsRecommended {
				add(i)
			}
		}
	}
	for i := 0; len(out) < want && i < len(events); i++ {
		add(i)
	}
	return out
}

// areaPoints adds up every way the area criterion matches.
func areaPoints(e *models.ListingSummary, area string) int {
	points := 0
	if e.AreaID != "" && e.AreaID == area {
		points += 5
	}
	if e.AreaSlug != "" && e.AreaSlug == area {
		points += 4
	}
	if e.Area != "" && e.Area == area {
		points += 3
	}
	if e.Prefecture != "" && e.Prefecture == area {
		points += 2
	}
	return points
}

// datePoints scores a first occurrence against the target range: 5 inside
// it, otherwise max(1, 4-days) within a week of its center.
func datePoints(first, start, end, center time.Time) float64 {
	if !first.Before(start) && !first.After(end) {
		return 5
	}
	days := daysBetween(first, center)
	if days > 7 {
		return 0
	}
	return math.Max(1, 4-math.Floor(days))
}

// nearest returns the indexes of dated events ordered by distance to center.
func nearest(events []models.ListingSummary, center time.Time) []int {
	items := make([]scored, 0, len(events))
	for i := range events {
		if first, ok := events[i].FirstDate(); ok {
			items = append(items, scored{index: i, score: -daysBetween(first, center)})
		}
	}
	rank(items)

	out := make([]int, len(items))
	for i, it := range items {
		out[i] = it.index
	}
	return out
}

// Related returns up to limit other events resembling base: category +5,
// area +3, region +1 and up to +3 for first-date proximity. Every other event
// is eligible, so the result is short only when the dataset is. A limit <= 0
// uses DefaultRelatedLimit.
func Related(events []models.ListingSummary, base *models.ListingSummary, limit int) []models.ListingSummary {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	baseDate, hasBaseDate := base.FirstDate()

	items := make([]scored, 0, len(events))
	for i := range events {
		e := &events[i]
		if e.ID == base.ID {
			continue
		}
		score := 0.0
		if base.CategoryID != "" && e.CategoryID == base.CategoryID {
			score += 5
		}
		if base.Area != "" && e.Area == base.Area {
			score += 3
		}
		if base.Prefecture != "" && e.Prefecture == base.Prefecture {
			score += 1
		}
		if hasBaseDate {
			if d, ok := e.FirstDate(); ok {
				score += math.Max(0, 3-math.Min(daysBetween(d, baseDate), 3))
			}
		}
		items = append(items, scored{index: i, score: score})
	}
	rank(items)

	if len(items) > limit {
		items = items[:limit]
	}
	out := make([]models.ListingSummary, len(items))
	for i, it := range items {
		out[i] = events[it.index]
	}
	return out
}
