// Sotonavi - Outdoor Experience Listings Data Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sotonavi

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	// loadIDKey tags every log line emitted while assembling one dataset.
	loadIDKey contextKey = "load_id"

	// requestIDKey is the context key for HTTP request IDs.
	requestIDKey contextKey = "request_id"
)

// GenerateLoadID creates a short identifier for one dataset load.
// Returns the first 8 characters of a UUID for readability.
func GenerateLoadID() string {
	return uuid.New().String()[:8]
}

// GenerateRequestID creates a new unique request ID.
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithLoadID returns a new context carrying the given load ID.
func ContextWithLoadID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, loadIDKey, id)
}

// ContextWithNewLoadID returns a context with a freshly generated load ID,
// unless ctx already carries one.
func ContextWithNewLoadID(ctx context.Context) context.Context {
	if LoadIDFromContext(ctx) != "" {
		return ctx
	}
	return ContextWithLoadID(ctx, GenerateLoadID())
}

// LoadIDFromContext retrieves the load ID from context.
// Returns empty string if not present.
func LoadIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(loadIDKey).(string); ok {
		return id
	}
	return ""
}

// ContextWithRequestID returns a new context with the given request ID.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns a logger with context values (load_id, request_id) added.
//
//	logging.Ctx(ctx).Info().Msg("Dataset assembled")
//	// {"level":"info","load_id":"abc12345","message":"Dataset assembled"}
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := LoadIDFromContext(ctx); id != "" {
		lc = lc.Str("load_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	l := lc.Logger()
	return &l
}
