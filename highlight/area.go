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

// Package highlight accumulates, merges, caps, and expands full-text-match
// highlight spans per document field, for later snippet extraction.
package highlight

// kMaxAreasInResult is the maximum number of highlight areas kept per
// field after accumulation.
const kMaxAreasInResult = 5

// Area is a [Start, End] span of character positions within a document's
// text. Both endpoints are signed to allow temporary negative
// intermediates during snippet window expansion.
type Area struct {
	Start int
	End   int
}

// Concat merges b into a if their closures intersect, i.e.
// max(a.Start,b.Start) <= min(a.End,b.End). It reports whether a merge
// happened; when it did, the receiver is updated in place to the union.
func (a *Area) Concat(b Area) bool {
	lo := a.Start
	if b.Start > lo {
		lo = b.Start
	}
	hi := a.End
	if b.End < hi {
		hi = b.End
	}
	if lo > hi {
		return false
	}
	if b.Start < a.Start {
		a.Start = b.Start
	}
	if b.End > a.End {
		a.End = b.End
	}
	return true
}
