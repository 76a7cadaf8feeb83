// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"reflect"
	"testing"

	"github.com/tomtom215/sotonavi/internal/models"
)

func TestMapListing_OrganizerNormalization(t *testing.T) {
	t.Parallel()

	e1, err := mapListing(obj("id", "e1", "organizerId", ""))
	if err != nil {
		t.Fatalf("mapListing(e1) error = %v", err)
	}
	if e1.OrganizerID != "" {
		t.Errorf("e1.OrganizerID = %q, want absent", e1.OrganizerID)
	}

	e2, err := mapListing(obj("id", "e2", "organizer_id", "org-9"))
	if err != nil {
		t.Fatalf("mapListing(e2) error = %v", err)
	}
	if e2.OrganizerID != "org-9" {
		t.Errorf("e2.OrganizerID = %q, want org-9", e2.OrganizerID)
	}
}

func TestMapListing_Fields(t *testing.T) {
	t.Parallel()

	row := obj(
		"id", 101.0,
		"name", "Rafting",
		"area_name", "Minakami",
		"area_id", "a-1",
		"areaSlug", "minakami",
		"prefecture", "Gunma",
		"price", "8500",
		"isRecommended", true,
		"rating", 4.7,
		"review_count", 31.0,
		"category", obj("id", "water", "name", "Water"),
		"next_date", "2025-07-01",
		"publishedAt", "2025-05-20T09:00:00Z",
	)

	l, err := mapListing(row)
	if err != nil {
		t.Fatalf("mapListing() error = %v", err)
	}
	if l.ID != "101" || l.Title != "Rafting" || l.Area != "Minakami" || l.AreaID != "a-1" {
		t.Errorf("identity fields = %+v", l)
	}
	if l.CategoryID != "water" || l.CategoryName != "Water" {
		t.Errorf("category = %q / %q", l.CategoryID, l.CategoryName)
	}
	if l.Price != 8500 || !l.IsRecommended || l.IsNew {
		t.Errorf("price/flags = %v %v %v", l.Price, l.IsRecommended, l.IsNew)
	}
	if l.Rating == nil || *l.Rating != 4.7 || l.ReviewCount == nil || *l.ReviewCount != 31 {
		t.Errorf("rating = %v / %v", l.Rating, l.ReviewCount)
	}
	if l.NextDate != "2025-07-01" {
		t.Errorf("NextDate = %q", l.NextDate)
	}
	if l.PublishedAt == nil || l.PublishedAt.Year() != 2025 {
		t.Errorf("PublishedAt = %v", l.PublishedAt)
	}
}

func TestMapListing_MissingID(t *testing.T) {
	t.Parallel()

	for _, row := range []map[string]any{
		obj("title", "no id"),
		obj("id", ""),
		obj("id", "undefined"),
	} {
		if _, err := mapListing(row); err == nil {
			t.Errorf("mapListing(%v) should fail", row)
		}
	}
}

func TestMapOccurrences(t *testing.T) {
	t.Parallel()

	row := obj("dates", []any{
		obj("date", "2025-03-01", "time", "10:00"),
		"2025-03-08",
		obj("date", "2025-03-15T13:30:00", "start_time", "13:30", "end_time", "16:00"),
		obj("time", "no date"),
		"not a date at all",
	})

	got := mapOccurrences(row)
	want := []models.Occurrence{
		{Date: "2025-03-01", Time: "10:00"},
		{Date: "2025-03-08"},
		{Date: "2025-03-15", Time: "13:30", StartTime: "13:30", EndTime: "16:00"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mapOccurrences() = %+v\nwant %+v", got, want)
	}

	if got := mapOccurrences(obj("dates", []any{})); got != nil {
		t.Errorf("empty dates = %v, want nil", got)
	}
}

func TestMapDetail(t *testing.T) {
	t.Parallel()

	row := obj(
		"id", "e1",
		"title", "Canyoning",
		"duration", "3h",
		"location", obj("name", "Tone River", "lat", 36.8, "lng", "138.9"),
		"targetAge", "12+",
		"highlights", []any{"waterfall", "jump"},
		"facilities", "parking|toilet",
		"externalLink", "https://book.example.com/e1",
		"subImages", []any{"a.jpg", "b.jpg"},
	)

	d, err := mapDetail(row)
	if err != nil {
		t.Fatalf("mapDetail() error = %v", err)
	}
	if d.Duration != "3h" || d.Target != "12+" || d.ExternalLink == "" {
		t.Errorf("detail fields = %+v", d)
	}
	if d.Location.Name != "Tone River" || !d.Location.HasCoordinates() || *d.Location.Lng != 138.9 {
		t.Errorf("location = %+v", d.Location)
	}
	if !reflect.DeepEqual(d.FacilityTags(), []string{"parking", "toilet"}) {
		t.Errorf("facilities = %v", d.FacilityTags())
	}
	if len(d.Highlights) != 2 || len(d.SubImages) != 2 {
		t.Errorf("lists = %v / %v", d.Highlights, d.SubImages)
	}

	bare, _ := mapDetail(obj("id", "e2", "location", "Shibuya station"))
	if bare.Location.Name != "Shibuya station" || bare.Location.HasCoordinates() {
		t.Errorf("bare location = %+v", bare.Location)
	}
}

func TestMapOrganizer(t *testing.T) {
	t.Parallel()

	o, err := mapOrganizer(obj("id", "org-1", "name", "Valley Guides", "establishedYear", 2015.0, "email", "hi@example.com"))
	if err != nil {
		t.Fatalf("mapOrganizer() error = %v", err)
	}
	if o.EstablishedYear != "2015" || o.Contact != "hi@example.com" {
		t.Errorf("organizer = %+v", o)
	}

	if _, err := mapOrganizer(obj("name", "anonymous")); err == nil {
		t.Error("organizer without id should fail")
	}
}

func TestParseDay(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"2025-03-01":                "2025-03-01",
		"2025-03-01T23:30:00+09:00": "2025-03-01",
		"2025/03/01":                "2025-03-01",
		"":                          "",
		"soon":                      "",
	}
	for in, want := range tests {
		if got := parseDay(in); got != want {
			t.Errorf("parseDay(%q) = %q, want %q", in, got, want)
		}
	}
}
