// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package normalize

import (
	"strconv"
	"strings"
)

// Field names a canonical concept found in upstream rows.
type Field string

// Canonical fields.
const (
	FieldID            Field = "id"
	FieldTitle         Field = "title"
	FieldDescription   Field = "description"
	FieldImage         Field = "image"
	FieldArea          Field = "area"
	FieldAreaID        Field = "areaId"
	FieldAreaSlug      Field = "areaSlug"
	FieldPrefecture    Field = "prefecture"
	FieldPrice         Field = "price"
	FieldRecommended   Field = "isRecommended"
	FieldNew           Field = "isNew"
	FieldRating        Field = "rating"
	FieldReviewCount   Field = "reviewCount"
	FieldCategoryID    Field = "categoryId"
	FieldCategoryName  Field = "categoryName"
	FieldOrganizerID   Field = "organizerId"
	FieldNextDate      Field = "nextDate"
	FieldDates         Field = "dates"
	FieldPublishedAt   Field = "publishedAt"
	FieldDuration      Field = "duration"
	FieldLocation      Field = "location"
	FieldTarget        Field = "target"
	FieldNotes         Field = "notes"
	FieldHighlights    Field = "highlights"
	FieldFacilities    Field = "facilities"
	FieldExternalLink  Field = "externalLink"
	FieldSubImages     Field = "subImages"
	FieldOccurrenceDay Field = "occurrenceDate"
	FieldStartTime     Field = "startTime"
	FieldEndTime       Field = "endTime"
	FieldTime          Field = "time"
	FieldLogo          Field = "logo"
	FieldWebsite       Field = "website"
	FieldContact       Field = "contact"
	FieldEstablished   Field = "establishedYear"
	FieldName          Field = "name"
	FieldIcon          Field = "icon"
	FieldLat           Field = "lat"
	FieldLng           Field = "lng"
)

// Aliases lists, per field, every upstream spelling in priority order.
// Paths use dots for nested objects and numeric segments for array indexes.
var Aliases = map[Field][]string{
	FieldID:            {"id", "event_id", "eventId"},
	FieldTitle:         {"title", "name"},
	FieldDescription:   {"description", "summary"},
	FieldImage:         {"image", "image_url", "imageUrl", "thumbnail"},
	FieldArea:          {"area", "area_name", "areaName", "city", "area.name"},
	FieldAreaID:        {"areaId", "area_id", "area.id"},
	FieldAreaSlug:      {"area_slug", "areaSlug", "area.slug"},
	FieldPrefecture:    {"prefecture", "region"},
	FieldPrice:         {"price"},
	FieldRecommended:   {"isRecommended", "is_recommended", "recommended"},
	FieldNew:           {"isNew", "is_new"},
	FieldRating:        {"rating"},
	FieldReviewCount:   {"reviewCount", "review_count"},
	FieldCategoryID:    {"categoryId", "category_id", "category.id", "categories.0.id"},
	FieldCategoryName:  {"category_name", "categoryName", "category.name", "categories.0.name", "category"},
	FieldOrganizerID:   {"organizerId", "organizer_id", "organizerID", "organizer.id"},
	FieldNextDate:      {"next_date", "nextDate"},
	FieldDates:         {"dates", "schedule"},
	FieldPublishedAt:   {"publishedAt", "published_at", "createdAt", "created_at"},
	FieldDuration:      {"duration"},
	FieldLocation:      {"location"},
	FieldTarget:        {"targetAge", "target_age", "target"},
	FieldNotes:         {"notes", "note"},
	FieldHighlights:    {"highlights"},
	FieldFacilities:    {"facilities", "facility"},
	FieldExternalLink:  {"externalLink", "external_link", "bookingUrl", "booking_url"},
	FieldSubImages:     {"subImages", "sub_images", "images"},
	FieldOccurrenceDay: {"date", "day"},
	FieldStartTime:     {"startTime", "start_time"},
	FieldEndTime:       {"endTime", "end_time"},
	FieldTime:          {"time"},
	FieldLogo:          {"logo", "image"},
	FieldWebsite:       {"website", "url"},
	FieldContact:       {"contact", "email"},
	FieldEstablished:   {"establishedYear", "established_year", "founded"},
	FieldName:          {"name", "title"},
	FieldIcon:          {"icon"},
	FieldLat:           {"lat", "latitude"},
	FieldLng:           {"lng", "lon", "longitude"},
}

// Path resolves a dotted path against a decoded JSON object.
// Missing keys, out-of-range indexes and type mismatches yield ok=false.
func Path(row map[string]any, path string) (any, bool) {
	var cur any = row
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// Lookup returns the first non-nil raw value among the field's aliases.
func Lookup(row map[string]any, f Field) (any, bool) {
	for _, alias := range Aliases[f] {
		if v, ok := Path(row, alias); ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// LookupID returns the first alias whose value normalizes to a present
// identifier. Blank spellings are skipped so that {"organizerId": "",
// "organizer_id": "org-9"} resolves to "org-9".
func LookupID(row map[string]any, f Field) (string, bool) {
	for _, alias := range Aliases[f] {
		v, ok := Path(row, alias)
		if !ok {
			continue
		}
		if s, ok := Normalize(v); ok {
			return s, true
		}
	}
	return "", false
}
