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
	"testing"

	"github.com/quiverdb/quiver/wire"
)

func sampleQuery() *Query {
	q := New("items")
	q.Entries = []Entry{
		{Op: OpAnd, Field: "price", Condition: CondGt, Values: []wire.Value{wire.Int64(10)}},
		{Op: OpOr, Field: "tag", Condition: CondSet, Values: []wire.Value{wire.String("a"), wire.String("b")}},
		{Field: "name", Condition: CondAny, Distinct: true},
	}
	q.Aggregations = []Aggregation{{Field: "price", Kind: AggAvg}}
	q.SortBy = "tag"
	q.SortDescending = true
	q.ForcedSortOrder = []wire.Value{wire.String("hi"), wire.String("lo")}
	q.Offset = 5
	q.Limit = 20
	q.CalcTotalMode = CalcTotalAccurate
	q.SelectFilter = []string{"a", "b"}
	q.SelectFunctions = []string{"lower(a)"}
	q.DebugLevel = 3

	child := New("reviews")
	child.JoinType = JoinInner
	child.DebugLevel = q.DebugLevel // decoded children inherit the parent's level
	child.JoinEntries = []JoinCondition{{Op: OpAnd, Condition: CondEq, LeftField: "id", RightField: "item_id"}}
	q.JoinQueries = append(q.JoinQueries, child)

	merged := New("archive")
	merged.JoinType = JoinMerge
	merged.DebugLevel = q.DebugLevel
	q.MergeQueries = append(q.MergeQueries, merged)

	return q
}

func TestBinaryRoundTrip(t *testing.T) {
	q := sampleQuery()
	data := q.Serialize(0)
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestBinaryRoundTripEmptyQuery(t *testing.T) {
	q := New("items")
	data := q.Serialize(0)
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestBinarySkipLimitOffset(t *testing.T) {
	q := sampleQuery()
	data := q.Serialize(SkipLimitOffset)
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Limit != MaxLimit {
		t.Errorf("Limit = %d, want MaxLimit", got.Limit)
	}
	if got.Offset != 0 {
		t.Errorf("Offset = %d, want 0", got.Offset)
	}
	got.Limit = q.Limit
	got.Offset = q.Offset
	if !q.Equal(got) {
		t.Fatalf("all other fields should still be equal:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestBinarySkipJoinAndMergeQueries(t *testing.T) {
	q := sampleQuery()
	data := q.Serialize(SkipJoinQueries | SkipMergeQueries)
	got, err := Deserialize(data)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if len(got.JoinQueries) != 0 || len(got.MergeQueries) != 0 {
		t.Fatalf("expected no join/merge children, got %+v", got)
	}
}

func TestDeserializeUnknownTagIsFatal(t *testing.T) {
	w := wire.NewWriter()
	w.PutVString("items")
	w.PutVarUint(999) // unknown clause tag
	if _, err := Deserialize(w.Bytes()); err == nil {
		t.Fatal("expected an error for an unknown clause tag")
	}
}

func TestDeserializeMissingEndIsFatal(t *testing.T) {
	w := wire.NewWriter()
	w.PutVString("items")
	if _, err := Deserialize(w.Bytes()); err == nil {
		t.Fatal("expected an error for a missing QueryEnd terminator")
	}
}

func TestZeroLimitAggregateOnlyAmbiguity(t *testing.T) {
	// count(*) sets Limit=0, which Serialize omits from the wire exactly
	// like "never set" does (matching the original encoder). A decoder
	// can't tell the two cases apart; per the documented resolution, a
	// decoded query with the default (unbounded) limit and
	// CalcTotalMode=Accurate is the aggregate-only case.
	q := New("items")
	q.Limit = 0
	q.CalcTotalMode = CalcTotalAccurate
	got, err := Deserialize(q.Serialize(0))
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Limit != MaxLimit {
		t.Errorf("Limit = %d, want MaxLimit (0 is indistinguishable from absent on the wire)", got.Limit)
	}
	if got.CalcTotalMode != CalcTotalAccurate {
		t.Errorf("CalcTotalMode = %v, want Accurate", got.CalcTotalMode)
	}
}
