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
	"fmt"

	"github.com/quiverdb/quiver/metrics"
	"github.com/quiverdb/quiver/wire"
)

// Serialize encodes q and its join/merge children into the binary wire
// format described in DESIGN.md, honoring mode's Skip* flags for the root
// query only — children are always written in full, matching how the
// format was distilled.
func (q *Query) Serialize(mode Mode) []byte {
	w := wire.NewWriter()
	q.serialize(w, mode)
	return w.Bytes()
}

func (q *Query) serialize(w *wire.Writer, mode Mode) {
	w.PutVString(q.Namespace)

	for _, e := range q.Entries {
		if e.Distinct {
			w.PutVarUint(uint64(tagQueryDistinct))
			w.PutVString(e.Field)
			continue
		}
		w.PutVarUint(uint64(tagQueryCondition))
		w.PutVString(e.Field)
		w.PutVarUint(uint64(e.Op))
		w.PutVarUint(uint64(e.Condition))
		w.PutVarUint(uint64(len(e.Values)))
		for _, v := range e.Values {
			w.PutValue(v)
		}
	}

	for _, agg := range q.Aggregations {
		w.PutVarUint(uint64(tagQueryAggregation))
		w.PutVString(agg.Field)
		w.PutVarUint(uint64(agg.Kind))
	}

	if q.SortBy != "" {
		w.PutVarUint(uint64(tagQuerySortIndex))
		w.PutVString(q.SortBy)
		w.PutVarUint(boolToUint(q.SortDescending))
		w.PutVarUint(uint64(len(q.ForcedSortOrder)))
		for _, v := range q.ForcedSortOrder {
			w.PutValue(v)
		}
	}

	for _, je := range q.JoinEntries {
		w.PutVarUint(uint64(tagQueryJoinOn))
		w.PutVarUint(uint64(je.Op))
		w.PutVarUint(uint64(je.Condition))
		w.PutVString(je.LeftField)
		w.PutVString(je.RightField)
	}

	w.PutVarUint(uint64(tagQueryDebugLevel))
	w.PutVarUint(q.DebugLevel)

	if mode&SkipLimitOffset == 0 {
		if q.Limit != 0 {
			w.PutVarUint(uint64(tagQueryLimit))
			w.PutVarUint(q.Limit)
		}
		if q.Offset != 0 {
			w.PutVarUint(uint64(tagQueryOffset))
			w.PutVarUint(q.Offset)
		}
	}

	if q.CalcTotalMode != CalcTotalNone {
		w.PutVarUint(uint64(tagQueryReqTotal))
		w.PutVarUint(uint64(q.CalcTotalMode))
	}

	for _, f := range q.SelectFilter {
		w.PutVarUint(uint64(tagQuerySelectFilter))
		w.PutVString(f)
	}
	for _, f := range q.SelectFunctions {
		w.PutVarUint(uint64(tagQuerySelectFunction))
		w.PutVString(f)
	}

	w.PutVarUint(uint64(tagQueryEnd)) // finishes this query's own clauses

	if mode&SkipJoinQueries == 0 {
		for _, jq := range q.JoinQueries {
			w.PutVarUint(uint64(jq.JoinType))
			jq.serialize(w, 0)
		}
	}
	if mode&SkipMergeQueries == 0 {
		for _, mq := range q.MergeQueries {
			w.PutVarUint(uint64(mq.JoinType))
			mq.serialize(w, 0)
		}
	}
}

// Deserialize decodes a Query previously produced by Serialize. Unknown
// clause tags are a fatal decode error wrapped in a ParamsError: this
// module has no rolling-upgrade deployment model, so failing loud beats
// silently dropping a clause.
func Deserialize(data []byte) (*Query, error) {
	q, err := deserialize(data)
	if err != nil {
		metrics.ParseErrorsTotal.WithLabelValues("binary").Inc()
		logParseFailure("binary", err, partialDebugLevel(q))
		return nil, err
	}
	metrics.QueriesParsedTotal.WithLabelValues("binary").Inc()
	return q, nil
}

// deserialize returns the partially-decoded query alongside any error: the
// query's own DebugLevel tag may have already been read before a later tag
// fails, and callers use that to gate diagnostic logging of the failure.
func deserialize(data []byte) (*Query, error) {
	r := wire.NewReader(data)
	ns, err := r.GetVString()
	if err != nil {
		return nil, WrapParamsError("decode root namespace", err)
	}
	q := New(ns)
	if err := q.deserializeBody(r); err != nil {
		return q, err
	}

	for !r.EOF() {
		jt, err := r.GetVarUint()
		if err != nil {
			return q, WrapParamsError("decode child join type", err)
		}
		childNs, err := r.GetVString()
		if err != nil {
			return q, WrapParamsError("decode child namespace", err)
		}
		child := New(childNs)
		child.JoinType = JoinType(jt)
		if err := child.deserializeBody(r); err != nil {
			return q, err
		}
		child.DebugLevel = q.DebugLevel

		if child.JoinType == JoinMerge {
			q.MergeQueries = append(q.MergeQueries, child)
		} else {
			q.JoinQueries = append(q.JoinQueries, child)
		}
	}
	return q, nil
}

func (q *Query) deserializeBody(r *wire.Reader) error {
	for !r.EOF() {
		tagU, err := r.GetVarUint()
		if err != nil {
			return WrapParamsError("decode clause tag", err)
		}

		switch clauseTag(tagU) {
		case tagQueryCondition:
			field, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode condition field", err)
			}
			op, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode condition op", err)
			}
			cond, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode condition kind", err)
			}
			n, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode condition value count", err)
			}
			values := make([]wire.Value, 0, n)
			for i := uint64(0); i < n; i++ {
				v, err := r.GetValue()
				if err != nil {
					return WrapParamsError("decode condition value", err)
				}
				values = append(values, v)
			}
			q.Entries = append(q.Entries, Entry{
				Op: Op(op), Field: field, Condition: Condition(cond), Values: values,
			})

		case tagQueryDistinct:
			field, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode distinct field", err)
			}
			q.Entries = append(q.Entries, Entry{Field: field, Condition: CondAny, Distinct: true})

		case tagQueryAggregation:
			field, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode aggregation field", err)
			}
			kind, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode aggregation kind", err)
			}
			q.Aggregations = append(q.Aggregations, Aggregation{Field: field, Kind: AggKind(kind)})

		case tagQuerySortIndex:
			sortBy, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode sort field", err)
			}
			desc, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode sort direction", err)
			}
			n, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode forced sort order count", err)
			}
			q.SortBy = sortBy
			q.SortDescending = desc != 0
			for i := uint64(0); i < n; i++ {
				v, err := r.GetValue()
				if err != nil {
					return WrapParamsError("decode forced sort order value", err)
				}
				q.ForcedSortOrder = append(q.ForcedSortOrder, v)
			}

		case tagQueryJoinOn:
			op, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode join-on op", err)
			}
			cond, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode join-on condition", err)
			}
			left, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode join-on left field", err)
			}
			right, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode join-on right field", err)
			}
			q.JoinEntries = append(q.JoinEntries, JoinCondition{
				Op: Op(op), Condition: Condition(cond), LeftField: left, RightField: right,
			})

		case tagQueryDebugLevel:
			lvl, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode debug level", err)
			}
			q.DebugLevel = lvl

		case tagQueryLimit:
			lim, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode limit", err)
			}
			q.Limit = lim

		case tagQueryOffset:
			off, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode offset", err)
			}
			q.Offset = off

		case tagQueryReqTotal:
			m, err := r.GetVarUint()
			if err != nil {
				return WrapParamsError("decode calc-total mode", err)
			}
			q.CalcTotalMode = CalcTotalMode(m)

		case tagQuerySelectFilter:
			f, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode select filter", err)
			}
			q.SelectFilter = append(q.SelectFilter, f)

		case tagQuerySelectFunction:
			f, err := r.GetVString()
			if err != nil {
				return WrapParamsError("decode select function", err)
			}
			q.SelectFunctions = append(q.SelectFunctions, f)

		case tagQueryEnd:
			return nil

		default:
			return WrapParamsError("decode query", fmt.Errorf("unknown binary clause tag %d", tagU))
		}
	}
	return WrapParamsError("decode query", fmt.Errorf("missing QueryEnd terminator"))
}

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
