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

package query

import (
	"go.uber.org/zap"

	"github.com/quiverdb/quiver/logging"
)

// defaultDebugLevel is the fallback verbosity consulted by Parse when a
// failed parse carries no in-band DebugLevel of its own (the SQL dialect
// has no debug_level clause). cmd/quiverql wires its --verbose flag
// through SetDefaultDebugLevel so operators can see why a query failed to
// parse without every caller threading a level through by hand.
var defaultDebugLevel uint64

// SetDefaultDebugLevel sets the fallback verbosity used by Parse, ParseJson
// and Deserialize when logging parse failures.
func SetDefaultDebugLevel(level uint64) {
	defaultDebugLevel = level
}

// logParseFailure logs a parse error at Warn through the package logger
// when debugLevel indicates the caller wants parse diagnostics surfaced
// (DebugLevel >= 1), as required for all three codecs. It never swallows
// the error; callers still return it unchanged.
func logParseFailure(format string, err error, debugLevel uint64) {
	if err == nil || debugLevel < 1 {
		return
	}
	logging.L().Warn("query parse failed",
		zap.String("format", format),
		zap.Error(err),
	)
}

// partialDebugLevel reads DebugLevel off a partially-decoded binary query,
// falling back to defaultDebugLevel when decoding failed before any Query
// was constructed at all (q == nil, e.g. a bad root namespace) or before
// its debug_level tag was reached.
func partialDebugLevel(q *Query) uint64 {
	if q == nil {
		return defaultDebugLevel
	}
	return debugLevelOrDefault(q.DebugLevel)
}

// debugLevelOrDefault falls back to defaultDebugLevel when level is unset,
// i.e. a partial DSL decode whose debug_level field sat past the failure.
func debugLevelOrDefault(level uint64) uint64 {
	if level > 0 {
		return level
	}
	return defaultDebugLevel
}
