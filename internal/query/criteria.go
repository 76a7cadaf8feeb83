// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package query

import (
	"strings"
	"time"

	"github.com/itlightning/dateparse"

	"github.com/tomtom215/sotonavi/internal/models"
)

// Relative week buckets accepted by Criteria.Weekday.
const (
	ThisWeek = "this-week"
	NextWeek = "next-week"
)

// Criteria selects events. Empty fields do not filter.
type Criteria struct {
	// Query is a case-insensitive substring over title, description, area
	// and category name.
	Query string `json:"q,omitempty"`
	// Category is compared with the event's category ID.
	Category string `json:"category,omitempty"`
	// Area matches the area ID, slug, display name or region.
	Area string `json:"area,omitempty"`
	// Date selects events with an occurrence on that calendar day.
	Date string `json:"date,omitempty" validate:"omitempty,isodate"`
	// Weekday selects events occurring this week or next week.
	Weekday string `json:"weekday,omitempty" validate:"omitempty,oneof=this-week next-week"`

	// Now anchors relative dates. The zero value uses the current time.
	Now time.Time `json:"-"`
}

// IsZero reports whether no criterion is set.
func (c *Criteria) IsZero() bool {
	return c.Query == "" && c.Category == "" && c.Area == "" && c.Date == "" && c.Weekday == ""
}

func (c *Criteria) today() time.Time {
	now := c.Now
	if now.IsZero() {
		now = time.Now()
	}
	return day(now)
}

// week returns the Monday-start week containing today, or the week after
// it for NextWeek.
func (c *Criteria) week() (start, end time.Time) {
	today := c.today()
	fromMonday := (int(today.Weekday()) + 6) % 7
	start = today.AddDate(0, 0, -fromMonday)
	if c.Weekday == NextWeek {
		start = start.AddDate(0, 0, 7)
	}
	return start, start.AddDate(0, 0, 6)
}

// target returns the date range the criteria point at. A date wins over a
// weekday bucket. ok is false when neither applies.
func (c *Criteria) target() (start, end time.Time, ok bool) {
	if c.Date != "" {
		d, valid := parseDay(c.Date)
		if !valid {
			return time.Time{}, time.Time{}, false
		}
		return d, d, true
	}
	if c.Weekday == ThisWeek || c.Weekday == NextWeek {
		start, end = c.week()
		return start, end, true
	}
	return time.Time{}, time.Time{}, false
}

// day truncates t to its calendar day, expressed in UTC so it compares with
// occurrence days.
func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// parseDay parses a date criterion into its calendar day.
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(models.DateLayout, s); err == nil {
		return t, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return day(t), true
}

// daysBetween returns |a - b| in days.
func daysBetween(a, b time.Time) float64 {
	d := a.Sub(b).Hours() / 24
	if d < 0 {
		return -d
	}
	return d
}
