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

func TestDslRoundTripWholeNumberFloat(t *testing.T) {
	// A filter value of wire.Float64(5.0) must decode back as KindDouble,
	// not get silently coerced to KindInt just because it has no
	// fractional part.
	q := New("items")
	q.Entries = []Entry{{Op: OpAnd, Field: "price", Condition: CondEq, Values: []wire.Value{wire.Float64(5.0)}}}

	data, err := q.ToDsl()
	if err != nil {
		t.Fatalf("ToDsl: %v", err)
	}
	got, err := ParseJson(data)
	if err != nil {
		t.Fatalf("ParseJson(%s): %v", data, err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
	if got.Entries[0].Values[0].Kind != wire.KindDouble {
		t.Fatalf("Kind = %v, want KindDouble", got.Entries[0].Values[0].Kind)
	}
}

func TestDslRoundTrip(t *testing.T) {
	q := sampleQuery()
	data, err := q.ToDsl()
	if err != nil {
		t.Fatalf("ToDsl: %v", err)
	}
	got, err := ParseJson(data)
	if err != nil {
		t.Fatalf("ParseJson(%s): %v", data, err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestDslRoundTripEmptyQuery(t *testing.T) {
	q := New("items")
	data, err := q.ToDsl()
	if err != nil {
		t.Fatalf("ToDsl: %v", err)
	}
	got, err := ParseJson(data)
	if err != nil {
		t.Fatalf("ParseJson(%s): %v", data, err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestDslRoundTripDescribe(t *testing.T) {
	q := New("")
	q.Describe = true
	q.Namespaces = []string{"items", "reviews"}
	data, err := q.ToDsl()
	if err != nil {
		t.Fatalf("ToDsl: %v", err)
	}
	got, err := ParseJson(data)
	if err != nil {
		t.Fatalf("ParseJson(%s): %v", data, err)
	}
	if !q.Equal(got) {
		t.Fatalf("round-trip mismatch:\nwant %+v\ngot  %+v", q, got)
	}
}

func TestParseJsonUnknownCondIsError(t *testing.T) {
	doc := []byte(`{"namespace":"items","filters":[{"field":"price","cond":"bogus","value":[1]}]}`)
	if _, err := ParseJson(doc); err == nil {
		t.Fatal("expected an error for an unknown cond spelling")
	}
}

func TestParseJsonMalformedIsParseJsonError(t *testing.T) {
	_, err := ParseJson([]byte(`{"namespace": `))
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if _, ok := err.(*ParseJsonError); !ok {
		t.Fatalf("error type = %T, want *ParseJsonError", err)
	}
}

func TestParseJsonExplicitLimit(t *testing.T) {
	doc := []byte(`{"namespace":"items","limit":0,"req_total":"accurate"}`)
	q, err := ParseJson(doc)
	if err != nil {
		t.Fatalf("ParseJson: %v", err)
	}
	if q.Limit != 0 {
		t.Errorf("Limit = %d, want 0 (DSL carries an explicit pointer, unlike the binary codec)", q.Limit)
	}
	if q.CalcTotalMode != CalcTotalAccurate {
		t.Errorf("CalcTotalMode = %v, want Accurate", q.CalcTotalMode)
	}
}
