// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package loader

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/sotonavi/internal/fetch"
	"github.com/tomtom215/sotonavi/internal/models"
	n "github.com/tomtom215/sotonavi/internal/normalize"
	"github.com/tomtom215/sotonavi/internal/source"
)

const resourceDetail = "event_detail"

// ErrNotFound is returned when an event detail does not exist or the
// requested ID is empty.
var ErrNotFound = errors.New("event not found")

// DetailLoader loads single event details. It does not cache.
type DetailLoader struct {
	fetcher   source.Fetcher
	endpoints source.Endpoints
}

// NewDetailLoader creates a detail loader.
func NewDetailLoader(fetcher source.Fetcher, endpoints source.Endpoints) *DetailLoader {
	return &DetailLoader{fetcher: fetcher, endpoints: endpoints}
}

// LoadDetail fetches the detail record of id with exactly one request.
//
// Both a bare detail object and an {"event": {...}} wrapper are accepted.
// An empty id, an upstream 404 and a wrapper holding null all yield an error
// matching ErrNotFound. Other fetch failures are returned wrapped.
func (l *DetailLoader) LoadDetail(ctx context.Context, id string) (models.EventDetail, error) {
	id, ok := n.Normalize(id)
	if !ok {
		return models.EventDetail{}, fmt.Errorf("%w: empty id", ErrNotFound)
	}

	url := l.endpoints.DetailURL(id)
	raw, err := l.fetcher.FetchJSONStrict(ctx, url)
	if err != nil {
		if fetch.IsNotFound(err) {
			return models.EventDetail{}, fmt.Errorf("%w: %s: %w", ErrNotFound, id, err)
		}
		return models.EventDetail{}, fmt.Errorf("load detail %s: %w", id, err)
	}

	obj, err := source.ToObject(resourceDetail, raw)
	if err != nil {
		return models.EventDetail{}, fmt.Errorf("load detail %s: %w", id, err)
	}

	if wrapped, has := obj["event"]; has {
		switch v := wrapped.(type) {
		case nil:
			return models.EventDetail{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		case map[string]any:
			obj = v
		default:
			return models.EventDetail{}, fmt.Errorf("load detail %s: %w", id,
				&source.ShapeError{Resource: resourceDetail, Expected: "event object", Got: fmt.Sprintf("%T", v)})
		}
	}

	if _, present := n.LookupID(obj, n.FieldID); !present {
		obj["id"] = id
	}

	d, err := mapDetail(obj)
	if err != nil {
		return models.EventDetail{}, fmt.Errorf("load detail %s: %w", id, err)
	}
	return d, nil
}
