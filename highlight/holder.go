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
	"sort"

	"github.com/quiverdb/quiver/metrics"
)

// Holder accumulates highlight Areas per field, addressed by zero-based
// index; the field list grows on demand. It is exclusively owned by the
// scoring result that populates it for the duration of any mutation, and
// is safe to read concurrently once committed and no longer written.
type Holder struct {
	cfg       Config
	areas     [][]Area
	committed bool
}

// NewHolder returns an empty Holder configured for AddTreeGramm geometry.
// The zero value of cfg is usable when the caller never calls
// AddTreeGramm.
func NewHolder(cfg Config) *Holder {
	return &Holder{cfg: cfg}
}

// Reserve hints the capacity of the field sequence.
func (h *Holder) Reserve(n int) {
	if cap(h.areas) < n {
		grown := make([][]Area, len(h.areas), n)
		copy(grown, h.areas)
		h.areas = grown
	}
}

// ReserveField sizes the field sequence to exactly n empty field-area
// lists, discarding anything beyond n.
func (h *Holder) ReserveField(n int) {
	if n <= len(h.areas) {
		h.areas = h.areas[:n]
		return
	}
	grown := make([][]Area, n)
	copy(grown, h.areas)
	h.areas = grown
	h.committed = false
}

// AddWord adds the area [start, start+length) to field. It returns false
// only when the cap would be exceeded without a merge.
func (h *Holder) AddWord(start, length, field int) bool {
	return h.insertArea(Area{Start: start, End: start + length}, field)
}

// AddTreeGramm adds an area derived from a tri-gram match at token
// position pos, using the Holder's configured buffer geometry. The three
// branches below are preserved verbatim from the original padded
// tri-gram layout; re-derive them together if the tri-gram indexer
// changes its padding scheme.
func (h *Holder) AddTreeGramm(pos, field int) {
	var a Area
	switch {
	case pos < h.cfg.SpaceSize:
		a.Start = 0
		a.End = pos + (h.cfg.BufferSize - 1) - h.cfg.SpaceSize
	case pos > h.cfg.TotalSize-h.cfg.SpaceSize:
		a.Start = pos - h.cfg.SpaceSize
		a.End = h.cfg.BufferSize - 1 + h.cfg.TotalSize - 2*h.cfg.SpaceSize
	default:
		a.Start = pos - h.cfg.SpaceSize
		a.End = pos - h.cfg.SpaceSize + (h.cfg.BufferSize - 1)
	}
	h.insertArea(a, field)
}

// insertArea is the shared cap/merge policy behind AddWord and
// AddTreeGramm: try to concat with the last area of the field first, and
// only count against the cap when that fails.
func (h *Holder) insertArea(a Area, field int) bool {
	h.committed = false
	if len(h.areas) <= field {
		grown := make([][]Area, field+1)
		copy(grown, h.areas)
		h.areas = grown
	}
	list := h.areas[field]
	if len(list) > 0 {
		last := &list[len(list)-1]
		if last.Concat(a) {
			return true
		}
	}
	if len(list) >= kMaxAreasInResult {
		metrics.AreaCapRejectionsTotal.Inc()
		return false
	}
	h.areas[field] = append(list, a)
	return true
}

// Commit normalizes every field's area list: sort by Start ascending, then
// coalesce touching/overlapping areas in a single left-to-right sweep.
// Building a fresh slice per field avoids the iterator-invalidation
// pitfalls of erasing while iterating.
func (h *Holder) Commit() {
	for i, list := range h.areas {
		h.areas[i] = sortAndCoalesce(list)
	}
	h.committed = true
	metrics.AreasCommittedTotal.Inc()
}

func sortAndCoalesce(list []Area) []Area {
	if len(list) == 0 {
		return list
	}
	sorted := make([]Area, len(list))
	copy(sorted, list)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]Area, 0, len(sorted))
	out = append(out, sorted[0])
	for _, a := range sorted[1:] {
		last := &out[len(out)-1]
		if !last.Concat(a) {
			out = append(out, a)
		}
	}
	return out
}

// GetAreas commits if needed and returns the field's area list. The second
// return value is false if field lies beyond the current field sequence
// (no insert or ReserveField has reached that index).
func (h *Holder) GetAreas(field int) ([]Area, bool) {
	if !h.committed {
		h.Commit()
	}
	if field >= len(h.areas) {
		return nil, false
	}
	return h.areas[field], true
}

// GetSnippet commits if needed and returns a fresh sequence in which each
// area of field is expanded by frontPad on the left and backPad on the
// right, clamped to [0, totalSize] (negative padding clamps aggressively
// to the near edge), then re-coalesced. The stored areas are never
// mutated.
func (h *Holder) GetSnippet(field, frontPad, backPad, totalSize int) []Area {
	if !h.committed {
		h.Commit()
	}
	if field >= len(h.areas) {
		return nil
	}

	expanded := make([]Area, len(h.areas[field]))
	for i, a := range h.areas[field] {
		a.Start -= frontPad
		if a.Start < 0 || frontPad < 0 {
			a.Start = 0
		}
		a.End += backPad
		if a.End > totalSize || backPad < 0 {
			a.End = totalSize
		}
		expanded[i] = a
	}
	return sortAndCoalesce(expanded)
}
