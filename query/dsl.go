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
	stdjson "encoding/json"
	"errors"
	"fmt"

	"github.com/quiverdb/quiver/jsonutil"
	"github.com/quiverdb/quiver/metrics"
	"github.com/quiverdb/quiver/wire"
)

// jsonSyntaxOffset extracts the byte offset of a JSON syntax error when the
// underlying decoder reports one (encoding/json always does; sonic reports
// positions in its error text but not through this stdlib type, so those
// fall back to offset 0).
func jsonSyntaxOffset(err error) int64 {
	var syn *stdjson.SyntaxError
	if errors.As(err, &syn) {
		return syn.Offset
	}
	return 0
}

// dslQuery is the JSON-DSL wire shape, a structural mirror of the binary
// field set with stable string enum spellings instead of wire tags.
type dslQuery struct {
	Namespace       string           `json:"namespace"`
	Filters         []dslFilter      `json:"filters,omitempty"`
	Aggregations    []dslAgg         `json:"aggregations,omitempty"`
	Sort            *dslSort         `json:"sort,omitempty"`
	Limit           *uint64          `json:"limit,omitempty"`
	Offset          uint64           `json:"offset,omitempty"`
	ReqTotal        string           `json:"req_total,omitempty"`
	SelectFilter    []string         `json:"select_filter,omitempty"`
	SelectFunctions []string         `json:"select_functions,omitempty"`
	JoinQueries     []dslJoin        `json:"join_queries,omitempty"`
	MergeQueries    []dslMerge       `json:"merge_queries,omitempty"`
	Describe        bool             `json:"describe,omitempty"`
	Namespaces      []string         `json:"namespaces,omitempty"`
	DebugLevel      uint64           `json:"debug_level,omitempty"`
}

type dslFilter struct {
	Op       string      `json:"op,omitempty"`
	Field    string      `json:"field"`
	Cond     string      `json:"cond,omitempty"`
	Value    []any       `json:"value,omitempty"`
	Distinct bool        `json:"distinct,omitempty"`
}

type dslAgg struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

type dslSort struct {
	Field  string `json:"field"`
	Desc   bool   `json:"desc,omitempty"`
	Values []any  `json:"values,omitempty"`
}

type dslJoinOn struct {
	Op         string `json:"op,omitempty"`
	Cond       string `json:"cond"`
	LeftField  string `json:"left_field"`
	RightField string `json:"right_field"`
}

type dslJoin struct {
	Type  string     `json:"type"`
	Query dslQuery   `json:"query"`
	On    []dslJoinOn `json:"on,omitempty"`
}

type dslMerge struct {
	Query dslQuery `json:"query"`
}

var condDslNames = map[Condition]string{
	CondEq:     "eq",
	CondGt:     "gt",
	CondLt:     "lt",
	CondGe:     "ge",
	CondLe:     "le",
	CondRange:  "range",
	CondSet:    "set",
	CondAllSet: "allset",
	CondEmpty:  "empty",
	CondLike:   "like",
	CondAny:    "any",
}

var condDslValues = reverseStringMap(condDslNames)

var opDslNames = map[Op]string{OpAnd: "and", OpOr: "or", OpNot: "not"}
var opDslValues = reverseOpMap(opDslNames)

var aggDslNames = map[AggKind]string{AggAvg: "avg", AggSum: "sum"}
var aggDslValues = reverseAggMap(aggDslNames)

var totalDslNames = map[CalcTotalMode]string{
	CalcTotalNone: "none", CalcTotalApproximate: "approximate", CalcTotalAccurate: "accurate",
}
var totalDslValues = reverseTotalMap(totalDslNames)

var joinDslNames = map[JoinType]string{
	JoinInner: "inner", JoinOrInner: "or_inner", JoinLeft: "left", JoinMerge: "merge",
}
var joinDslValues = reverseJoinMap(joinDslNames)

func reverseStringMap(m map[Condition]string) map[string]Condition {
	out := make(map[string]Condition, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseOpMap(m map[Op]string) map[string]Op {
	out := make(map[string]Op, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseAggMap(m map[AggKind]string) map[string]AggKind {
	out := make(map[string]AggKind, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseTotalMap(m map[CalcTotalMode]string) map[string]CalcTotalMode {
	out := make(map[string]CalcTotalMode, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

func reverseJoinMap(m map[JoinType]string) map[string]JoinType {
	out := make(map[string]JoinType, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

// ToDsl marshals q into the JSON-DSL wire shape.
func (q *Query) ToDsl() ([]byte, error) {
	d, err := q.toDslQuery()
	if err != nil {
		return nil, err
	}
	data, err := jsonutil.Marshal(d)
	if err != nil {
		return nil, NewParseJsonError("failed to marshal query", 0, err)
	}
	return data, nil
}

func (q *Query) toDslQuery() (dslQuery, error) {
	d := dslQuery{
		Namespace:       q.Namespace,
		Offset:          q.Offset,
		SelectFilter:    q.SelectFilter,
		SelectFunctions: q.SelectFunctions,
		Describe:        q.Describe,
		Namespaces:      q.Namespaces,
		DebugLevel:      q.DebugLevel,
	}
	if q.Limit != MaxLimit {
		lim := q.Limit
		d.Limit = &lim
	}
	if q.CalcTotalMode != CalcTotalNone {
		d.ReqTotal = totalDslNames[q.CalcTotalMode]
	}
	for _, e := range q.Entries {
		f := dslFilter{Op: opDslNames[e.Op], Field: e.Field, Distinct: e.Distinct}
		if !e.Distinct {
			f.Cond = condDslNames[e.Condition]
			f.Value = valuesToAny(e.Values)
		}
		d.Filters = append(d.Filters, f)
	}
	for _, a := range q.Aggregations {
		d.Aggregations = append(d.Aggregations, dslAgg{Field: a.Field, Type: aggDslNames[a.Kind]})
	}
	if q.SortBy != "" {
		d.Sort = &dslSort{Field: q.SortBy, Desc: q.SortDescending, Values: valuesToAny(q.ForcedSortOrder)}
	}
	for _, jq := range q.JoinQueries {
		jd, err := jq.toDslQuery()
		if err != nil {
			return dslQuery{}, err
		}
		var ons []dslJoinOn
		for _, je := range jq.JoinEntries {
			ons = append(ons, dslJoinOn{
				Op: opDslNames[je.Op], Cond: condDslNames[je.Condition],
				LeftField: je.LeftField, RightField: je.RightField,
			})
		}
		d.JoinQueries = append(d.JoinQueries, dslJoin{Type: joinDslNames[jq.JoinType], Query: jd, On: ons})
	}
	for _, mq := range q.MergeQueries {
		md, err := mq.toDslQuery()
		if err != nil {
			return dslQuery{}, err
		}
		d.MergeQueries = append(d.MergeQueries, dslMerge{Query: md})
	}
	return d, nil
}

// ParseJson decodes a JSON-DSL document into a Query.
func ParseJson(data []byte) (*Query, error) {
	q, err := parseJSON(data)
	if err != nil {
		metrics.ParseErrorsTotal.WithLabelValues("json").Inc()
		return nil, err
	}
	metrics.QueriesParsedTotal.WithLabelValues("json").Inc()
	return q, nil
}

// parseJSON decodes data into the DSL wire shape and maps it to a Query. On
// failure it logs through logParseFailure using whatever DebugLevel the
// partial decode recovered: encoding/json and sonic both populate struct
// fields as they go, so a debug_level that appears before the offending
// byte is usually already set even though the overall decode failed.
func parseJSON(data []byte) (*Query, error) {
	var d dslQuery
	if err := jsonutil.Unmarshal(data, &d); err != nil {
		offset := jsonSyntaxOffset(err)
		parseErr := NewParseJsonError("malformed JSON-DSL query", offset, err)
		logParseFailure("json", parseErr, debugLevelOrDefault(d.DebugLevel))
		return nil, parseErr
	}
	q, err := dslToQuery(d)
	if err != nil {
		logParseFailure("json", err, debugLevelOrDefault(d.DebugLevel))
		return nil, err
	}
	return q, nil
}

func dslToQuery(d dslQuery) (*Query, error) {
	q := New(d.Namespace)
	q.Offset = d.Offset
	q.SelectFilter = d.SelectFilter
	q.SelectFunctions = d.SelectFunctions
	q.Describe = d.Describe
	q.Namespaces = d.Namespaces
	q.DebugLevel = d.DebugLevel

	if d.Limit != nil {
		q.Limit = *d.Limit
	}
	if d.ReqTotal != "" {
		mode, ok := totalDslValues[d.ReqTotal]
		if !ok {
			return nil, NewParamsError("unknown req_total value: " + d.ReqTotal)
		}
		q.CalcTotalMode = mode
	}

	for _, f := range d.Filters {
		op, ok := opDslValues[f.Op]
		if f.Op != "" && !ok {
			return nil, NewParamsError("unknown filter op: " + f.Op)
		}
		if f.Distinct {
			q.Entries = append(q.Entries, Entry{Op: op, Field: f.Field, Condition: CondAny, Distinct: true})
			continue
		}
		cond, ok := condDslValues[f.Cond]
		if !ok {
			return nil, NewParamsError("unknown filter cond: " + f.Cond)
		}
		q.Entries = append(q.Entries, Entry{Op: op, Field: f.Field, Condition: cond, Values: anyToValues(f.Value)})
	}

	for _, a := range d.Aggregations {
		kind, ok := aggDslValues[a.Type]
		if !ok {
			return nil, NewParamsError("unknown aggregation type: " + a.Type)
		}
		q.Aggregations = append(q.Aggregations, Aggregation{Field: a.Field, Kind: kind})
	}

	if d.Sort != nil {
		q.SortBy = d.Sort.Field
		q.SortDescending = d.Sort.Desc
		q.ForcedSortOrder = anyToValues(d.Sort.Values)
	}

	for _, j := range d.JoinQueries {
		jtype, ok := joinDslValues[j.Type]
		if !ok {
			return nil, NewParamsError("unknown join type: " + j.Type)
		}
		child, err := dslToQuery(j.Query)
		if err != nil {
			return nil, err
		}
		child.JoinType = jtype
		for _, on := range j.On {
			op, ok := opDslValues[on.Op]
			if on.Op != "" && !ok {
				return nil, NewParamsError("unknown join-on op: " + on.Op)
			}
			cond, ok := condDslValues[on.Cond]
			if !ok {
				return nil, NewParamsError("unknown join-on cond: " + on.Cond)
			}
			child.JoinEntries = append(child.JoinEntries, JoinCondition{
				Op: op, Condition: cond, LeftField: on.LeftField, RightField: on.RightField,
			})
		}
		q.JoinQueries = append(q.JoinQueries, child)
	}

	for _, m := range d.MergeQueries {
		child, err := dslToQuery(m.Query)
		if err != nil {
			return nil, err
		}
		child.JoinType = JoinMerge
		q.MergeQueries = append(q.MergeQueries, child)
	}

	return q, nil
}

// dslFloat tags a DSL literal as explicitly floating point. Plain JSON
// numbers (no wrapper) still decode as Int64 when whole and Float64 when
// fractional, but a KindDouble value that happens to be whole — e.g.
// wire.Float64(5.0) — would otherwise be indistinguishable on the wire
// from wire.Int64(5); wrapping it here is how valuesToAny/anyToValues tell
// the two apart without guessing from the numeric value.
type dslFloat struct {
	Float float64 `json:"float"`
}

func valuesToAny(values []wire.Value) []any {
	if len(values) == 0 {
		return nil
	}
	out := make([]any, len(values))
	for i, v := range values {
		switch v.Kind {
		case wire.KindInt:
			out[i] = v.Int
		case wire.KindDouble:
			out[i] = dslFloat{Float: v.Double}
		case wire.KindString:
			out[i] = v.Str
		case wire.KindBool:
			out[i] = v.Bool
		case wire.KindNull:
			out[i] = nil
		}
	}
	return out
}

func anyToValues(values []any) []wire.Value {
	if len(values) == 0 {
		return nil
	}
	out := make([]wire.Value, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case nil:
			out[i] = wire.Null
		case bool:
			out[i] = wire.Bool(t)
		case string:
			out[i] = wire.String(t)
		case map[string]any:
			if f, ok := t["float"]; ok {
				if fv, ok := f.(float64); ok {
					out[i] = wire.Float64(fv)
					continue
				}
			}
			out[i] = wire.String(fmt.Sprintf("%v", t))
		case float64:
			if t == float64(int64(t)) {
				out[i] = wire.Int64(int64(t))
			} else {
				out[i] = wire.Float64(t)
			}
		case int64:
			out[i] = wire.Int64(t)
		default:
			out[i] = wire.String(fmt.Sprintf("%v", t))
		}
	}
	return out
}
