// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// slogHandler implements slog.Handler on top of zerolog so that sutureslog
// restart and backoff events land in the same JSON stream as everything else.
//
// Attributes added with WithAttrs are folded into a zerolog.Context up front;
// the group prefix applies to attributes added after the group was opened.
type slogHandler struct {
	base   func() zerolog.Logger
	fields []func(zerolog.Context) zerolog.Context
	prefix string
}

// NewSlogLogger returns an *slog.Logger that writes through the global
// zerolog logger with a component field. The global logger is resolved on
// every record, so a later Init still applies.
//
//	(&sutureslog.Handler{Logger: logging.NewSlogLogger("supervisor")}).MustHook()
func NewSlogLogger(component string) *slog.Logger {
	return slog.New(&slogHandler{
		base: func() zerolog.Logger { return WithComponent(component) },
	})
}

// newSlogLoggerFrom is used by tests to capture output.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newSlogLoggerFrom(l zerolog.Logger) *slog.Logger {
	return slog.New(&slogHandler{base: func() zerolog.Logger { return l }})
}

func (h *slogHandler) Enabled(_ context.Context, level slog.Level) bool {
	zl := slogToZerologLevel(level)
	return zl >= zerolog.GlobalLevel() && zl >= h.base().GetLevel()
}

//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *slogHandler) Handle(_ context.Context, record slog.Record) error {
	lc := h.base().With()
	for _, f := range h.fields {
		lc = f(lc)
	}
	l := lc.Logger()

	event := l.WithLevel(slogToZerologLevel(record.Level))
	record.Attrs(func(attr slog.Attr) bool {
		event = addAttr(event, h.prefix, attr)
		return true
	})
	event.Msg(record.Message)
	return nil
}

func (h *slogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	prefix := h.prefix
	for _, attr := range attrs {
		next.fields = append(next.fields, func(lc zerolog.Context) zerolog.Context {
			return lc.Interface(prefix+attr.Key, attrValue(attr.Value))
		})
	}
	return next
}

func (h *slogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.prefix = h.prefix + name + "."
	return next
}

func (h *slogHandler) clone() *slogHandler {
	return &slogHandler{
		base:   h.base,
		fields: append([]func(zerolog.Context) zerolog.Context(nil), h.fields...),
		prefix: h.prefix,
	}
}

func addAttr(event *zerolog.Event, prefix string, attr slog.Attr) *zerolog.Event {
	if attr.Value.Kind() == slog.KindGroup {
		for _, ga := range attr.Value.Group() {
			event = addAttr(event, prefix+attr.Key+".", ga)
		}
		return event
	}
	key := prefix + attr.Key
	switch attr.Value.Kind() {
	case slog.KindString:
		return event.Str(key, attr.Value.String())
	case slog.KindInt64:
		return event.Int64(key, attr.Value.Int64())
	case slog.KindBool:
		return event.Bool(key, attr.Value.Bool())
	case slog.KindDuration:
		return event.Dur(key, attr.Value.Duration())
	default:
		return event.Interface(key, attrValue(attr.Value))
	}
}

// attrValue renders durations as strings; Interface would emit nanoseconds.
func attrValue(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() == slog.KindDuration {
		return v.Duration().String()
	}
	return v.Any()
}

func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}
