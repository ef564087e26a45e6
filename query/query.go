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

import "github.com/quiverdb/quiver/wire"

// Entry is one WHERE conjunct/disjunct. When Distinct is true, Condition
// is always CondAny and Values is empty.
type Entry struct {
	Op        Op
	Field     string
	Condition Condition
	Values    []wire.Value
	Distinct  bool
}

// Aggregation requests a computed value (AVG/SUM) over Field.
type Aggregation struct {
	Field string
	Kind  AggKind
}

// JoinCondition is one equation in a JOIN's ON clause. LeftField always
// names a field on the parent query's namespace; RightField names a field
// on the child's.
type JoinCondition struct {
	Op         Op
	Condition  Condition
	LeftField  string
	RightField string
}

// Query is a tree node: either the root of a query, or (when JoinType !=
// JoinNone) a join/merge child owned exclusively by its parent's
// JoinQueries/MergeQueries slice. See DESIGN.md for the equality contract.
type Query struct {
	Namespace string

	Entries      []Entry
	Aggregations []Aggregation

	// JoinEntries are the ON-clause conditions of THIS query when it is a
	// join child; they describe how it attaches to its parent.
	JoinEntries []JoinCondition

	JoinQueries  []*Query
	MergeQueries []*Query

	SortBy          string
	SortDescending  bool
	ForcedSortOrder []wire.Value

	SelectFilter    []string
	SelectFunctions []string

	Offset        uint64
	Limit         uint64
	CalcTotalMode CalcTotalMode

	Describe   bool
	Namespaces []string

	DebugLevel uint64
	JoinType   JoinType

	// nextOp is transient parser state: which boolean operator the next
	// parsed clause/join should carry. It resets to OpAnd after each
	// consumed operand and is never part of the observable data model —
	// excluded from Equal, Serialize, and the DSL codec.
	nextOp Op
}

// New returns a Query over namespace with Limit defaulted to MaxLimit
// (unbounded), matching the SQL parser's "bare *" / "bare field" default.
func New(namespace string) *Query {
	return &Query{Namespace: namespace, Limit: MaxLimit}
}

// Equal reports whether q and o represent the same query, field by field,
// recursing into join/merge children. nextOp is intentionally excluded.
func (q *Query) Equal(o *Query) bool {
	if q == nil || o == nil {
		return q == o
	}
	if q.Namespace != o.Namespace ||
		q.SortBy != o.SortBy ||
		q.SortDescending != o.SortDescending ||
		q.CalcTotalMode != o.CalcTotalMode ||
		q.Describe != o.Describe ||
		q.Offset != o.Offset ||
		q.Limit != o.Limit ||
		q.DebugLevel != o.DebugLevel ||
		q.JoinType != o.JoinType {
		return false
	}
	if !equalEntries(q.Entries, o.Entries) {
		return false
	}
	if !equalAggregations(q.Aggregations, o.Aggregations) {
		return false
	}
	if !equalJoinEntries(q.JoinEntries, o.JoinEntries) {
		return false
	}
	if !equalValues(q.ForcedSortOrder, o.ForcedSortOrder) {
		return false
	}
	if !equalStrings(q.SelectFilter, o.SelectFilter) {
		return false
	}
	if !equalStrings(q.SelectFunctions, o.SelectFunctions) {
		return false
	}
	if !equalStrings(q.Namespaces, o.Namespaces) {
		return false
	}
	if !equalQuerySlices(q.JoinQueries, o.JoinQueries) {
		return false
	}
	if !equalQuerySlices(q.MergeQueries, o.MergeQueries) {
		return false
	}
	return true
}

func equalQuerySlices(a, b []*Query) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalEntries(a, b []Entry) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Op != b[i].Op || a[i].Field != b[i].Field ||
			a[i].Condition != b[i].Condition || a[i].Distinct != b[i].Distinct {
			return false
		}
		if !equalValues(a[i].Values, b[i].Values) {
			return false
		}
	}
	return true
}

func equalAggregations(a, b []Aggregation) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalJoinEntries(a, b []JoinCondition) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalValues(a, b []wire.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
