/*
Copyright 2026 The Quiver Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package logging provides configurable zap logger creation, and a mapping
// from a Query's DebugLevel to a zap level for per-query verbosity.
package logging

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Style selects the logger's output format.
type Style string

const (
	StyleTerminal Style = "terminal"
	StyleJson     Style = "json"
	StyleNoop     Style = "noop"
)

// Config controls logger construction. A zero Config yields a terminal
// logger at info level.
type Config struct {
	Style Style
	Level zapcore.Level
}

// baseConfigs maps a Style to the zap.Config it builds from. StyleNoop has
// no entry: it's handled separately since zap.NewNop() takes no config at
// all and never fails.
var baseConfigs = map[Style]func() zap.Config{
	StyleJson:     zap.NewProductionConfig,
	StyleTerminal: zap.NewDevelopmentConfig,
}

// NewLogger builds a zap.Logger from c. If c is nil, defaults to terminal
// style at info level.
func NewLogger(c *Config) *zap.Logger {
	style := StyleTerminal
	level := zapcore.InfoLevel
	if c != nil {
		if c.Style != "" {
			style = c.Style
		}
		level = c.Level
	}

	if style == StyleNoop {
		return zap.NewNop()
	}
	newConfig, ok := baseConfigs[style]
	if !ok {
		log.Fatalf("invalid logging style %q: must be one of: terminal, json, noop", style)
	}
	cfg := newConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := cfg.Build(zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel))
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	return logger
}

// LevelForDebugLevel maps a Query.DebugLevel (0 = silent, higher = more
// verbose) to a zap level, so a single query can ask the engine to log its
// own planning/execution more loudly than the process default.
func LevelForDebugLevel(debugLevel uint64) zapcore.Level {
	switch {
	case debugLevel == 0:
		return zapcore.WarnLevel
	case debugLevel == 1:
		return zapcore.InfoLevel
	case debugLevel == 2:
		return zapcore.DebugLevel
	default:
		return zapcore.DebugLevel
	}
}

// global is the process-wide logger, replaced via SetGlobal.
var global = NewLogger(nil)

// SetGlobal replaces the package-level logger returned by L.
func SetGlobal(l *zap.Logger) {
	global = l
}

// L returns the current package-level logger.
func L() *zap.Logger {
	return global
}
