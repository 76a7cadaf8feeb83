// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package validation

import (
	"strings"
	"testing"
)

type eventQuery struct {
	Date    string `json:"date" validate:"omitempty,isodate"`
	Weekday string `json:"weekday" validate:"omitempty,oneof=this-week next-week"`
	Limit   int    `json:"limit" validate:"omitempty,min=1,max=100"`
}

type row struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{"valid query", &eventQuery{Date: "2025-03-01", Weekday: "next-week", Limit: 5}, false, "", ""},
		{"empty query", &eventQuery{}, false, "", ""},
		{"bad date", &eventQuery{Date: "03/01/2025"}, true, "date", "date must be a date in YYYY-MM-DD format"},
		{"bad weekday", &eventQuery{Weekday: "someday"}, true, "weekday", "weekday must be one of: this-week next-week"},
		{"limit too big", &eventQuery{Limit: 500}, true, "limit", "limit must be at most 100"},
		{"missing id", &row{}, true, "id", "id is required"},
		{"title too long", &row{ID: "e1", Title: "abcdefgh"}, true, "title", "title must be at most 5 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			verr := ValidateStruct(tt.input)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
			if !tt.wantErr {
				return
			}
			errs := verr.Errors()
			if len(errs) != 1 {
				t.Fatalf("got %d errors, want 1", len(errs))
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("Field() = %s, want %s", errs[0].Field(), tt.wantField)
			}
			if errs[0].Error() != tt.wantMsg {
				t.Errorf("message = %q, want %q", errs[0].Error(), tt.wantMsg)
			}
		})
	}
}

func TestToAPIError(t *testing.T) {
	t.Parallel()

	single := ValidateStruct(&row{})
	api := single.ToAPIError()
	if api.Code != "VALIDATION_ERROR" || api.Details["field"] != "id" {
		t.Errorf("single ToAPIError() = %+v", api)
	}

	multi := ValidateStruct(&eventQuery{Date: "x", Limit: -1})
	api = multi.ToAPIError()
	fields, ok := api.Details["fields"].([]map[string]interface{})
	if !ok || len(fields) != 2 {
		t.Fatalf("multi ToAPIError() details = %+v", api.Details)
	}
	if !strings.Contains(api.Message, ";") {
		t.Errorf("multi message = %q, want joined messages", api.Message)
	}

	if (&RequestValidationError{}).ToAPIError().Message != "Validation failed" {
		t.Error("empty error should have generic message")
	}
}

func TestToAPIError_Details(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     interface{}
		wantTag   string
		wantParam string
		wantValue interface{}
	}{
		{"no param", &row{}, "required", "", ""},
		{"max param", &eventQuery{Limit: 500}, "max", "100", 500},
		{"oneof param", &eventQuery{Weekday: "someday"}, "oneof", "this-week next-week", "someday"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			api := ValidateStruct(tt.input).ToAPIError()
			if api.Details["tag"] != tt.wantTag {
				t.Errorf("tag = %v, want %s", api.Details["tag"], tt.wantTag)
			}
			param, hasParam := api.Details["param"]
			if tt.wantParam == "" && hasParam {
				t.Errorf("param = %v, want none", param)
			}
			if tt.wantParam != "" && param != tt.wantParam {
				t.Errorf("param = %v, want %s", param, tt.wantParam)
			}
			if api.Details["value"] != tt.wantValue {
				t.Errorf("value = %v, want %v", api.Details["value"], tt.wantValue)
			}
		})
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	t.Parallel()

	if GetValidator() != GetValidator() {
		t.Error("GetValidator should return the same instance")
	}
}
