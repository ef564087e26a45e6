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

// clauseTag is a binary wire clause type tag. Values are stable within a
// deployment; the exact integers are this implementation's own choice.
type clauseTag uint64

const (
	tagQueryCondition clauseTag = iota + 1
	tagQueryDistinct
	tagQueryAggregation
	tagQuerySortIndex
	tagQueryJoinOn
	tagQueryDebugLevel
	tagQueryLimit
	tagQueryOffset
	tagQueryReqTotal
	tagQuerySelectFilter
	tagQuerySelectFunction
	tagQueryEnd
)

// Mode is a bitset of Serialize behavior flags.
type Mode uint8

const (
	// SkipLimitOffset omits QueryLimit/QueryOffset from the encoding.
	SkipLimitOffset Mode = 1 << iota
	// SkipJoinQueries omits the join-query trailer.
	SkipJoinQueries
	// SkipMergeQueries omits the merge-query trailer.
	SkipMergeQueries
)
