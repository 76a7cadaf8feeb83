// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package models

import (
	"time"
)

// APIResponse represents the standardized wrapper returned by every HTTP endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": [{"id": "e1", "title": "Canyoning"}],
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "count": 1}
//	}
//
// Empty results are successes with an empty array, never errors.
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Count       *int      `json:"count,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: Invalid input parameters
//   - NOT_FOUND: Event or organizer doesn't exist
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Unexpected failure
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of the readiness check.
type HealthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	DatasetLoaded bool    `json:"dataset_loaded"`
	EventCount    int     `json:"event_count"`
	Uptime        float64 `json:"uptime_seconds"`
}

// ClickRequest is the body accepted by the click beacon endpoint.
type ClickRequest struct {
	EventID     string `json:"event_id" validate:"required,max=128"`
	OrganizerID string `json:"organizer_id,omitempty" validate:"max=128"`
}

// EventPage is the detail endpoint payload.
type EventPage struct {
	Event          EventDetail      `json:"event"`
	Organizer      *Organizer       `json:"organizer,omitempty"`
	Category       *Category        `json:"category,omitempty"`
	FacilityTags   []string         `json:"facilityTags"`
	Rating         float64          `json:"rating"`
	ReviewCount    int              `json:"reviewCount"`
	IsUpcomingSoon bool             `json:"isUpcomingSoon"`
	Related        []ListingSummary `json:"related"`
}

// OrganizerPage is the organizer endpoint payload.
type OrganizerPage struct {
	Organizer Organizer        `json:"organizer"`
	Events    []ListingSummary `json:"events"`
}
