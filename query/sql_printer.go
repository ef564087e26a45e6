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
	"strings"

	"github.com/quiverdb/quiver/wire"
)

// Dump renders q as canonical SQL, reversible by Parse up to whitespace
// and keyword case. Printing never fails.
func (q *Query) Dump() string {
	if q.Describe {
		return q.dumpDescribe()
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(q.projection())
	buf.WriteString(" FROM ")
	buf.WriteString(q.Namespace)
	buf.WriteString(q.whereClause())
	buf.WriteString(q.dumpJoined())
	buf.WriteString(q.dumpMerged())
	buf.WriteString(q.dumpOrderBy())

	if q.Offset != 0 {
		fmt.Fprintf(&buf, " OFFSET %d", q.Offset)
	}
	if q.Limit != MaxLimit {
		fmt.Fprintf(&buf, " LIMIT %d", q.Limit)
	}
	return buf.String()
}

// String makes Query satisfy fmt.Stringer with its SQL dump.
func (q *Query) String() string {
	return q.Dump()
}

func (q *Query) dumpDescribe() string {
	if len(q.Namespaces) == 0 {
		return "DESCRIBE *"
	}
	return "DESCRIBE " + strings.Join(q.Namespaces, ", ")
}

func (q *Query) projection() string {
	if len(q.Aggregations) > 0 {
		parts := make([]string, len(q.Aggregations))
		for i, a := range q.Aggregations {
			switch a.Kind {
			case AggAvg:
				parts[i] = "AVG(" + a.Field + ")"
			case AggSum:
				parts[i] = "SUM(" + a.Field + ")"
			default:
				parts[i] = "<?> (" + a.Field + ")"
			}
		}
		return appendCountStar(q, strings.Join(parts, ","))
	}
	if len(q.SelectFilter) > 0 {
		return appendCountStar(q, strings.Join(q.SelectFilter, ","))
	}
	return appendCountStar(q, "*")
}

func appendCountStar(q *Query, filt string) string {
	if q.CalcTotalMode != CalcTotalNone {
		return filt + ", COUNT(*)"
	}
	return filt
}

func (q *Query) whereClause() string {
	if len(q.Entries) == 0 {
		return ""
	}
	return " WHERE " + dumpEntries(q.Entries)
}

func dumpEntries(entries []Entry) string {
	var buf strings.Builder
	for i, e := range entries {
		if i > 0 {
			if e.Op == OpOr {
				buf.WriteString(" OR ")
			} else {
				buf.WriteString(" AND ")
			}
		}
		if e.Op == OpNot {
			buf.WriteString("NOT ")
		}
		buf.WriteString(dumpPredicate(e))
	}
	return buf.String()
}

func dumpPredicate(e Entry) string {
	if e.Distinct {
		return "DISTINCT(" + e.Field + ")"
	}
	switch e.Condition {
	case CondEq:
		return e.Field + " = " + dumpFirstValue(e.Values)
	case CondGt:
		return e.Field + " > " + dumpFirstValue(e.Values)
	case CondLt:
		return e.Field + " < " + dumpFirstValue(e.Values)
	case CondGe:
		return e.Field + " >= " + dumpFirstValue(e.Values)
	case CondLe:
		return e.Field + " <= " + dumpFirstValue(e.Values)
	case CondRange:
		if len(e.Values) == 2 {
			return e.Field + " BETWEEN " + dumpValue(e.Values[0]) + " AND " + dumpValue(e.Values[1])
		}
		return e.Field + " RANGE " + dumpValueList(e.Values)
	case CondSet:
		return e.Field + " IN (" + dumpValueList(e.Values) + ")"
	case CondAllSet:
		return e.Field + " ALLSET (" + dumpValueList(e.Values) + ")"
	case CondEmpty:
		return e.Field + " IS NULL"
	case CondLike:
		return e.Field + " LIKE " + dumpFirstValue(e.Values)
	case CondAny:
		return e.Field + " IS NOT NULL"
	default:
		return e.Field + " <?cond>"
	}
}

func dumpFirstValue(values []wire.Value) string {
	if len(values) == 0 {
		return "NULL"
	}
	return dumpValue(values[0])
}

func dumpValueList(values []wire.Value) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = dumpValue(v)
	}
	return strings.Join(parts, ",")
}

// dumpValue renders v as a SQL literal: strings are single-quoted with
// embedded quotes doubled, as the lexer reads them back.
func dumpValue(v wire.Value) string {
	if v.Kind == wire.KindString {
		return "'" + strings.ReplaceAll(v.Str, "'", "''") + "'"
	}
	return v.String()
}

func (q *Query) dumpJoined() string {
	var buf strings.Builder
	for _, jq := range q.JoinQueries {
		buf.WriteString(" ")
		buf.WriteString(jq.JoinType.String())
		buf.WriteString(" ")

		if len(jq.Entries) == 0 && jq.Limit == MaxLimit {
			buf.WriteString(jq.Namespace)
		} else {
			buf.WriteString("(")
			buf.WriteString(jq.Dump())
			buf.WriteString(")")
		}
		buf.WriteString(" ON ")

		multiple := len(jq.JoinEntries) != 1
		if multiple {
			buf.WriteString("(")
		}
		for i, je := range jq.JoinEntries {
			if i > 0 {
				if je.Op == OpOr {
					buf.WriteString(" OR ")
				} else {
					buf.WriteString(" AND ")
				}
			}
			fmt.Fprintf(&buf, "%s.%s %s %s.%s", jq.Namespace, je.RightField, je.Condition, q.Namespace, je.LeftField)
		}
		if multiple {
			buf.WriteString(")")
		}
	}
	return buf.String()
}

func (q *Query) dumpMerged() string {
	var buf strings.Builder
	for _, mq := range q.MergeQueries {
		buf.WriteString(" ")
		buf.WriteString(mq.JoinType.String())
		buf.WriteString("( ")
		buf.WriteString(mq.Dump())
		buf.WriteString(")")
	}
	return buf.String()
}

func (q *Query) dumpOrderBy() string {
	if q.SortBy == "" {
		return ""
	}
	var buf strings.Builder
	buf.WriteString(" ORDER BY ")
	if len(q.ForcedSortOrder) == 0 {
		buf.WriteString(q.SortBy)
	} else {
		buf.WriteString("FIELD(")
		buf.WriteString(q.SortBy)
		for _, v := range q.ForcedSortOrder {
			buf.WriteString(", ")
			buf.WriteString(dumpValue(v))
		}
		buf.WriteString(")")
	}
	if q.SortDescending {
		buf.WriteString(" DESC")
	}
	return buf.String()
}
