// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/itlightning/dateparse"

	"github.com/tomtom215/sotonavi/internal/models"
	n "github.com/tomtom215/sotonavi/internal/normalize"
	"github.com/tomtom215/sotonavi/internal/validation"
)

// mapListing maps one raw index row onto a ListingSummary.
func mapListing(row map[string]any) (models.ListingSummary, error) {
	l := models.ListingSummary{
		ID:            n.Text(row, n.FieldID),
		Title:         n.Text(row, n.FieldTitle),
		Description:   n.Text(row, n.FieldDescription),
		Image:         n.Text(row, n.FieldImage),
		Area:          n.Text(row, n.FieldArea),
		AreaID:        n.Text(row, n.FieldAreaID),
		AreaSlug:      n.Text(row, n.FieldAreaSlug),
		Prefecture:    n.Text(row, n.FieldPrefecture),
		IsRecommended: n.Bool(row, n.FieldRecommended),
		IsNew:         n.Bool(row, n.FieldNew),
		CategoryID:    n.Text(row, n.FieldCategoryID),
		CategoryName:  n.Text(row, n.FieldCategoryName),
		OrganizerID:   n.Text(row, n.FieldOrganizerID),
		NextDate:      parseDay(n.Text(row, n.FieldNextDate)),
		Dates:         mapOccurrences(row),
		PublishedAt:   parseTimestamp(n.Text(row, n.FieldPublishedAt)),
	}
	if p, ok := n.Float(row, n.FieldPrice); ok {
		l.Price = p
	}
	if r, ok := n.Float(row, n.FieldRating); ok {
		l.Rating = &r
	}
	if c, ok := n.Int(row, n.FieldReviewCount); ok {
		l.ReviewCount = &c
	}

	if verr := validation.ValidateStruct(&l); verr != nil {
		return l, fmt.Errorf("invalid listing row: %w", verr)
	}
	return l, nil
}

// mapDetail maps a raw detail object onto an EventDetail.
func mapDetail(row map[string]any) (models.EventDetail, error) {
	summary, err := mapListing(row)
	if err != nil {
		return models.EventDetail{}, err
	}

	d := models.EventDetail{
		ListingSummary: summary,
		Duration:       n.Text(row, n.FieldDuration),
		Location:       mapLocation(row),
		Target:         n.Text(row, n.FieldTarget),
		Notes:          n.Text(row, n.FieldNotes),
		Highlights:     n.Strings(row, n.FieldHighlights),
		Facilities:     strings.Join(n.Strings(row, n.FieldFacilities), "|"),
		ExternalLink:   n.Text(row, n.FieldExternalLink),
		SubImages:      n.Strings(row, n.FieldSubImages),
	}
	return d, nil
}

// mapOrganizer maps one organizer directory entry.
func mapOrganizer(row map[string]any) (models.Organizer, error) {
	o := models.Organizer{
		ID:              n.Text(row, n.FieldID),
		Name:            n.Text(row, n.FieldName),
		Description:     n.Text(row, n.FieldDescription),
		Logo:            n.Text(row, n.FieldLogo),
		Website:         n.Text(row, n.FieldWebsite),
		Contact:         n.Text(row, n.FieldContact),
		EstablishedYear: n.Text(row, n.FieldEstablished),
	}
	if r, ok := n.Float(row, n.FieldRating); ok {
		o.Rating = &r
	}
	if c, ok := n.Int(row, n.FieldReviewCount); ok {
		o.ReviewCount = &c
	}
	if verr := validation.ValidateStruct(&o); verr != nil {
		return o, fmt.Errorf("invalid organizer: %w", verr)
	}
	return o, nil
}

// mapCategory maps one category directory entry.
func mapCategory(row map[string]any) (models.Category, error) {
	c := models.Category{
		ID:   n.Text(row, n.FieldID),
		Name: n.Text(row, n.FieldName),
		Icon: n.Text(row, n.FieldIcon),
	}
	if verr := validation.ValidateStruct(&c); verr != nil {
		return c, fmt.Errorf("invalid category: %w", verr)
	}
	return c, nil
}

// mapLocation accepts either {name, lat, lng} or a bare venue string.
func mapLocation(row map[string]any) models.Location {
	obj, ok := n.Object(row, n.FieldLocation)
	if !ok {
		return models.Location{Name: n.Text(row, n.FieldLocation)}
	}
	loc := models.Location{Name: n.Text(obj, n.FieldName)}
	if lat, ok := n.Float(obj, n.FieldLat); ok {
		loc.Lat = &lat
	}
	if lng, ok := n.Float(obj, n.FieldLng); ok {
		loc.Lng = &lng
	}
	return loc
}

// mapOccurrences reads the schedule list. Entries may be bare date strings
// or objects with date and optional times. Undated entries are dropped.
func mapOccurrences(row map[string]any) []models.Occurrence {
	list, ok := n.List(row, n.FieldDates)
	if !ok || len(list) == 0 {
		return nil
	}

	out := make([]models.Occurrence, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			if occ, ok := occurrenceFromText(v); ok {
				out = append(out, occ)
			}
		case map[string]any:
			occ, ok := occurrenceFromText(n.Text(v, n.FieldOccurrenceDay))
			if !ok {
				continue
			}
			if t := n.Text(v, n.FieldTime); t != "" {
				occ.Time = t
			}
			occ.StartTime = n.Text(v, n.FieldStartTime)
			occ.EndTime = n.Text(v, n.FieldEndTime)
			if occ.Time == "" && occ.StartTime != "" {
				occ.Time = occ.StartTime
			}
			out = append(out, occ)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// occurrenceFromText parses a date or date-time into an Occurrence. A clock
// time that is not midnight becomes the occurrence time label.
func occurrenceFromText(s string) (models.Occurrence, bool) {
	t, ok := parseTime(s)
	if !ok {
		return models.Occurrence{}, false
	}
	occ := models.Occurrence{Date: t.Format(models.DateLayout)}
	if t.Hour() != 0 || t.Minute() != 0 {
		occ.Time = t.Format("15:04")
	}
	return occ, true
}

// parseDay normalizes a date or date-time to YYYY-MM-DD; unparseable input
// yields "".
func parseDay(s string) string {
	t, ok := parseTime(s)
	if !ok {
		return ""
	}
	return t.Format(models.DateLayout)
}

// parseTimestamp parses a publication timestamp.
func parseTimestamp(s string) *time.Time {
	t, ok := parseTime(s)
	if !ok {
		return nil
	}
	return &t
}

// parseTime parses upstream dates. The calendar layout is tried first;
// anything else goes through dateparse, which keeps an explicit offset and
// reads naive values as UTC, so the calendar day is the one written.
func parseTime(s string) (time.Time, bool) {
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
	return t, true
}
