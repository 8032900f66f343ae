// ArtHistoryNavigator - Art and History Metadata Search Aggregator
// Copyright 2026 DervinEvolve
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/DervinEvolve/ArtHistoryNavigator

// Package logging provides the process-wide zerolog logger for ArtHistoryNavigator.
//
// All components log through this package so that output format, level and
// request correlation are configured in one place. Every line carries the
// service name and build version; lines written while a source adapter runs
// also carry a "source" field.
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Version: version})
//
//	logging.Info().Int("mandatory_sources", 6).Msg("Search stack ready")
//	logging.Ctx(ctx).Warn().Err(err).Msg("Detail lookup failed")
//
// Always terminate log chains with .Msg() or .Send(); an unterminated event is
// never written.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is stamped on every log line unless Config.Service overrides it.
const ServiceName = "arthistory"

// Config holds logging configuration.
type Config struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string

	// Format is the output format: json or console.
	// Default: json
	Format string

	// Caller includes caller file and line number in logs.
	Caller bool

	// Timestamp enables timestamps in log output.
	Timestamp bool

	// Service and Version are attached to every line. Empty Version is omitted.
	Service string
	Version string

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Service:   ServiceName,
		Output:    os.Stderr,
	}
}

var (
	log zerolog.Logger
	mu  sync.RWMutex
)

//nolint:gochecknoinits // logging must work before Init is called from main
func init() {
	initLogger(DefaultConfig())
}

// Init reconfigures the global logger. It is safe to call more than once.
func Init(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	initLogger(cfg)
}

// initLogger must be called with mu held.
func initLogger(cfg Config) {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.Service == "" {
		cfg.Service = ServiceName
	}

	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	output := cfg.Output
	if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: "15:04:05"}
	}

	lc := zerolog.New(output).With().Str("service", cfg.Service)
	if cfg.Version != "" {
		lc = lc.Str("version", cfg.Version)
	}
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	log = lc.Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger returns the global logger instance.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

func Debug() *zerolog.Event { l := Logger(); return l.Debug() }
func Info() *zerolog.Event  { l := Logger(); return l.Info() }
func Warn() *zerolog.Event  { l := Logger(); return l.Warn() }
func Error() *zerolog.Event { l := Logger(); return l.Error() }

// WithComponent creates a child logger tagged with a component field, for
// long-running services that log outside any request.
func WithComponent(component string) zerolog.Logger {
	return Logger().With().Str("component", component).Logger()
}

// NewTestLogger creates a logger that writes JSON to w, for use with
// ContextWithLogger in tests.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
