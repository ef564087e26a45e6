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

package highlight

import (
	"reflect"
	"testing"
)

func TestAddWordMergeAndCoalesce(t *testing.T) {
	h := NewHolder(Config{})
	h.AddWord(0, 3, 0)
	h.AddWord(2, 4, 0)
	h.AddWord(10, 2, 0)
	h.Commit()

	got, ok := h.GetAreas(0)
	if !ok {
		t.Fatal("field 0 absent")
	}
	want := []Area{{0, 6}, {10, 12}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestAddWordCap(t *testing.T) {
	h := NewHolder(Config{})
	var results []bool
	for i := 0; i < 10; i++ {
		results = append(results, h.AddWord(i*10, 1, 0))
	}
	for i := 0; i < 5; i++ {
		if !results[i] {
			t.Errorf("call %d: got false, want true", i)
		}
	}
	for i := 5; i < 10; i++ {
		if results[i] {
			t.Errorf("call %d: got true, want false", i)
		}
	}
	areas, _ := h.GetAreas(0)
	if len(areas) != kMaxAreasInResult {
		t.Errorf("got %d areas, want %d", len(areas), kMaxAreasInResult)
	}
}

func TestGetSnippetClamping(t *testing.T) {
	h := NewHolder(Config{})
	h.AddWord(0, 3, 0)
	snippet := h.GetSnippet(0, 2, 4, 100)
	want := []Area{{0, 7}}
	if !reflect.DeepEqual(snippet, want) {
		t.Errorf("got %v, want %v", snippet, want)
	}

	// Snippet expansion must not mutate the stored areas.
	stored, _ := h.GetAreas(0)
	if !reflect.DeepEqual(stored, []Area{{0, 3}}) {
		t.Errorf("stored areas mutated: %v", stored)
	}
}

func TestCommitIdempotent(t *testing.T) {
	h := NewHolder(Config{})
	h.AddWord(5, 2, 0)
	h.AddWord(0, 2, 0)
	h.Commit()
	first := append([]Area(nil), h.areas[0]...)
	h.Commit()
	if !reflect.DeepEqual(h.areas[0], first) {
		t.Errorf("second commit changed state: got %v, want %v", h.areas[0], first)
	}
}

func TestCoalescingInvariant(t *testing.T) {
	h := NewHolder(Config{})
	spans := [][2]int{{5, 3}, {0, 2}, {20, 1}, {7, 1}, {1, 1}}
	for _, sp := range spans {
		h.AddWord(sp[0], sp[1], 0)
	}
	areas, _ := h.GetAreas(0)
	for i := 0; i+1 < len(areas); i++ {
		if areas[i].End >= areas[i+1].Start {
			t.Errorf("areas %v and %v are not disjoint", areas[i], areas[i+1])
		}
	}
}

func TestAddTreeGrammRegions(t *testing.T) {
	cfg := Config{BufferSize: 10, SpaceSize: 3, TotalSize: 100}
	h := NewHolder(cfg)

	h.AddTreeGramm(1, 0) // head region: pos < spaceSize
	areas, _ := h.GetAreas(0)
	if got := areas[0]; got.Start != 0 || got.End != 1+(10-1)-3 {
		t.Errorf("head region area = %+v", got)
	}

	h2 := NewHolder(cfg)
	h2.AddTreeGramm(99, 0) // tail region: pos > totalSize-spaceSize
	areas2, _ := h2.GetAreas(0)
	wantStart := 99 - cfg.SpaceSize
	wantEnd := cfg.BufferSize - 1 + cfg.TotalSize - 2*cfg.SpaceSize
	if got := areas2[0]; got.Start != wantStart || got.End != wantEnd {
		t.Errorf("tail region area = %+v, want {%d %d}", got, wantStart, wantEnd)
	}

	h3 := NewHolder(cfg)
	h3.AddTreeGramm(50, 0) // interior
	areas3, _ := h3.GetAreas(0)
	if got := areas3[0]; got.Start != 50-3 || got.End != 50-3+9 {
		t.Errorf("interior area = %+v", got)
	}
}

func TestReserveFieldGrowsAndTruncates(t *testing.T) {
	h := NewHolder(Config{})
	h.ReserveField(3)
	if len(h.areas) != 3 {
		t.Fatalf("got %d fields, want 3", len(h.areas))
	}
	h.AddWord(0, 1, 2)
	h.ReserveField(1)
	if len(h.areas) != 1 {
		t.Fatalf("got %d fields after truncate, want 1", len(h.areas))
	}
}

func TestGetAreasAbsentField(t *testing.T) {
	h := NewHolder(Config{})
	h.AddWord(0, 1, 0)
	if _, ok := h.GetAreas(5); ok {
		t.Error("expected absent field to return ok=false")
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		a, b  Area
		merge bool
		want  Area
	}{
		{Area{0, 3}, Area{3, 5}, true, Area{0, 5}},   // touching closures merge
		{Area{0, 3}, Area{4, 5}, false, Area{0, 3}},  // gap, no merge
		{Area{5, 10}, Area{2, 6}, true, Area{2, 10}}, // overlap, receiver widens left
	}
	for _, tt := range tests {
		a := tt.a
		got := a.Concat(tt.b)
		if got != tt.merge {
			t.Errorf("Concat(%v,%v) merged=%v, want %v", tt.a, tt.b, got, tt.merge)
		}
		if tt.merge && a != tt.want {
			t.Errorf("Concat(%v,%v) = %v, want %v", tt.a, tt.b, a, tt.want)
		}
	}
}
