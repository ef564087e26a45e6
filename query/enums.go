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

// Package query implements the structured query object and its four
// codecs: a restricted SQL dialect parser/printer, a binary wire codec,
// and a JSON-DSL codec.
package query

import "math"

// Op is the boolean operator joining a clause to the ones before it.
type Op int

const (
	OpAnd Op = iota
	OpOr
	OpNot
)

// Condition is the comparison kind of a WHERE clause or JOIN ON condition.
// The numeric values are part of the binary wire format and must never be
// reordered; they match the historical CondType ordering this query
// language was distilled from.
type Condition int

const (
	CondEq Condition = iota
	CondGt
	CondLt
	CondGe
	CondLe
	CondRange
	CondSet
	CondAllSet
	CondEmpty
	CondLike
	CondAny
)

var condNames = map[Condition]string{
	CondEq:     "=",
	CondGt:     ">",
	CondLt:     "<",
	CondGe:     ">=",
	CondLe:     "<=",
	CondRange:  "RANGE",
	CondSet:    "IN",
	CondAllSet: "ALLSET",
	CondEmpty:  "IS NULL",
	CondLike:   "LIKE",
	CondAny:    "ANY",
}

func (c Condition) String() string {
	if s, ok := condNames[c]; ok {
		return s
	}
	return "<?cond>"
}

// AggKind is an aggregation function over a field.
type AggKind int

const (
	AggAvg AggKind = iota
	AggSum
)

// JoinType classifies a child Query relative to its parent: how the join
// or merge combines rows. JoinNone means "not a join child" (the root
// query, or a describe query).
type JoinType int

const (
	JoinNone JoinType = iota
	JoinInner
	JoinOrInner
	JoinLeft
	JoinMerge
)

// joinTypeNames are the printer's stable spellings, per the external
// interface contract.
var joinTypeNames = map[JoinType]string{
	JoinInner:   "INNER JOIN",
	JoinOrInner: "OR INNER JOIN",
	JoinLeft:    "LEFT JOIN",
	JoinMerge:   "MERGE",
}

func (j JoinType) String() string {
	if s, ok := joinTypeNames[j]; ok {
		return s
	}
	return "<unknown>"
}

// CalcTotalMode selects whether and how the engine computes a match count
// independent of Limit.
type CalcTotalMode int

const (
	CalcTotalNone CalcTotalMode = iota
	CalcTotalApproximate
	CalcTotalAccurate
)

// MaxLimit is the sentinel meaning "unbounded" for Query.Limit. It is
// deliberately bounded to 32 bits: the source this language was distilled
// from stored count as a platform int and compared it against UINT_MAX in
// one place and INT_MAX in another, an inconsistency this implementation
// resolves by picking a single sentinel used everywhere.
const MaxLimit = uint64(math.MaxUint32)
