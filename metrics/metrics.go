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

// Package metrics exposes the Prometheus collectors the query and
// highlight packages update as they run. Registration against a custom
// registry is opt-in via Register; until then the collectors are live but
// unexported to any scrape endpoint, matching how libaf/healthserver wires
// prometheus/client_golang behind an explicit Start call rather than
// relying on the default registry being scraped implicitly.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// QueriesParsedTotal counts successful SQL/JSON-DSL/binary parses,
	// labeled by the source format ("sql", "json" or "binary").
	QueriesParsedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiver",
		Subsystem: "query",
		Name:      "parsed_total",
		Help:      "Number of queries successfully parsed, by source format.",
	}, []string{"format"})

	// ParseErrorsTotal counts failed parses, labeled by source format.
	ParseErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "quiver",
		Subsystem: "query",
		Name:      "parse_errors_total",
		Help:      "Number of query parse failures, by source format.",
	}, []string{"format"})

	// AreasCommittedTotal counts AreaHolder.Commit invocations.
	AreasCommittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quiver",
		Subsystem: "highlight",
		Name:      "areas_committed_total",
		Help:      "Number of AreaHolder Commit calls.",
	})

	// AreaCapRejectionsTotal counts AddWord calls rejected because a
	// field's area list was already at kMaxAreasInResult.
	AreaCapRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "quiver",
		Subsystem: "highlight",
		Name:      "area_cap_rejections_total",
		Help:      "Number of AddWord calls rejected by the per-field area cap.",
	})
)

// Register adds every collector in this package to reg. A collector that
// reg already holds (prometheus.AlreadyRegisteredError) is skipped, so
// calling Register again with the same registry is harmless; any other
// registration error is returned.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		QueriesParsedTotal,
		ParseErrorsTotal,
		AreasCommittedTotal,
		AreaCapRejectionsTotal,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}
