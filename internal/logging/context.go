// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	requestIDKey     contextKey = "request_id"
	sourceKey        contextKey = "source"
	loggerKey        contextKey = "logger"
)

// ContextWithNewCorrelationID attaches a short correlation ID (the first 8
// characters of a UUID) that follows one request through every adapter.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return context.WithValue(ctx, correlationIDKey, uuid.New().String()[:8])
}

func CorrelationIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(correlationIDKey).(string)
	return id
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithSource marks ctx as belonging to one source adapter call.
func ContextWithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, sourceKey, source)
}

func SourceFromContext(ctx context.Context) string {
	s, _ := ctx.Value(sourceKey).(string)
	return s
}

// ContextWithLogger overrides the logger Ctx starts from.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns a logger carrying the correlation ID, request ID and source
// stored in ctx.
//
//	logging.Ctx(ctx).Info().Int("object_ids", n).Msg("Met search returned")
func Ctx(ctx context.Context) *zerolog.Logger {
	logger, ok := ctx.Value(loggerKey).(zerolog.Logger)
	if !ok {
		logger = Logger()
	}
	lc := logger.With()
	if id := CorrelationIDFromContext(ctx); id != "" {
		lc = lc.Str("correlation_id", id)
	}
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if s := SourceFromContext(ctx); s != "" {
		lc = lc.Str("source", s)
	}
	l := lc.Logger()
	return &l
}
