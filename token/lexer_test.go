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

package token

import "testing"

func TestStreamBasic(t *testing.T) {
	s := New("SELECT * FROM items WHERE price > 10.5 AND name = 'it''s'")
	var got []Token
	for !s.End() {
		got = append(got, s.Next(false))
	}

	want := []struct {
		kind Kind
		text string
	}{
		{Name, "select"},
		{Symbol, "*"},
		{Name, "from"},
		{Name, "items"},
		{Name, "where"},
		{Name, "price"},
		{Symbol, ">"},
		{Number, "10.5"},
		{Name, "and"},
		{Name, "name"},
		{Symbol, "="},
		{String, "it's"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Text != w.text {
			t.Errorf("token %d = %+v, want {%v %q}", i, got[i], w.kind, w.text)
		}
	}
}

func TestStreamPreserveCase(t *testing.T) {
	s := New("MyField")
	if tok := s.Peek(false); tok.Text != "myfield" {
		t.Errorf("Peek(false) = %q, want %q", tok.Text, "myfield")
	}
	if tok := s.Next(true); tok.Text != "MyField" {
		t.Errorf("Next(true) = %q, want %q", tok.Text, "MyField")
	}
}

func TestStreamMultiCharSymbols(t *testing.T) {
	s := New("a<=b<>c!=d>=e")
	var texts []string
	for !s.End() {
		tok := s.Next(false)
		if tok.Kind == Symbol {
			texts = append(texts, tok.Text)
		}
	}
	want := []string{"<=", "<>", "!=", ">="}
	if len(texts) != len(want) {
		t.Fatalf("got symbols %v, want %v", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("symbol %d = %q, want %q", i, texts[i], want[i])
		}
	}
}

func TestStreamPeekIdempotent(t *testing.T) {
	s := New("select")
	a := s.Peek(false)
	b := s.Peek(false)
	if a != b {
		t.Fatalf("successive Peek calls differ: %+v vs %+v", a, b)
	}
	c := s.Next(false)
	if c != a {
		t.Fatalf("Next after Peek = %+v, want %+v", c, a)
	}
	if !s.End() {
		t.Fatalf("expected end of stream")
	}
}

func TestStreamWhere(t *testing.T) {
	s := New("select * from t")
	s.Next(false)
	s.Next(false)
	s.Next(false)
	where := s.Where()
	if where == "" {
		t.Fatal("Where() returned empty string")
	}
}
