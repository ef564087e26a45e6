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
	"strconv"

	"github.com/quiverdb/quiver/metrics"
	"github.com/quiverdb/quiver/token"
	"github.com/quiverdb/quiver/wire"
)

// Parse reads one query from SQL text, either a SELECT or a DESCRIBE
// statement, optionally terminated by a single ';'. Trailing non-whitespace
// after the statement is a ParseSqlError.
func Parse(sql string) (*Query, error) {
	q, err := parseSQL(sql)
	if err != nil {
		metrics.ParseErrorsTotal.WithLabelValues("sql").Inc()
		// The SQL dialect has no debug_level clause, so a failed parse
		// carries no in-band DebugLevel to consult; fall back to the
		// process-wide default set via SetDefaultDebugLevel.
		logParseFailure("sql", err, defaultDebugLevel)
		return nil, err
	}
	metrics.QueriesParsedTotal.WithLabelValues("sql").Inc()
	return q, nil
}

func parseSQL(sql string) (*Query, error) {
	s := token.New(sql)
	tok := s.Next(false)

	var q *Query
	var err error
	switch tok.Text {
	case "describe":
		q, err = describeParse(s)
	case "select":
		q, err = selectParse(s)
	default:
		return nil, NewParseSqlError("syntax error at or near '"+tok.Text+"'", s.Where())
	}
	if err != nil {
		return nil, err
	}

	if !s.End() {
		tok = s.Peek(false)
		if tok.Is(";") {
			s.Next(false)
		}
	}
	if !s.End() {
		tok = s.Peek(false)
		return nil, NewParseSqlError("unexpected '"+tok.Text+"' in query", s.Where())
	}
	return q, nil
}

func describeParse(s *token.Stream) (*Query, error) {
	q := New("")
	q.Describe = true

	tok := s.Next(true)
	if tok.Text == "*" {
		return q, nil
	}
	for {
		q.Namespaces = append(q.Namespaces, tok.Text)
		if !s.Peek(false).Is(",") {
			break
		}
		s.Next(false)
		tok = s.Next(true)
	}
	return q, nil
}

// selectParse parses the body of a SELECT, starting right after the
// "select" keyword has already been consumed.
func selectParse(s *token.Stream) (*Query, error) {
	q := New("")

	if err := parseProjection(s, q); err != nil {
		return nil, err
	}

	tok := s.Next(false)
	if tok.Text != "from" {
		return nil, NewParseSqlError("expected 'FROM', but found '"+tok.Text+"' in query", s.Where())
	}
	q.Namespace = s.Next(true).Text

	for !s.End() {
		tok = s.Peek(false)
		switch tok.Text {
		case "where":
			s.Next(false)
			if err := parseWhere(s, q); err != nil {
				return nil, err
			}
		case "limit":
			s.Next(false)
			n, err := parseUint(s)
			if err != nil {
				return nil, err
			}
			q.Limit = n
		case "offset":
			s.Next(false)
			n, err := parseUint(s)
			if err != nil {
				return nil, err
			}
			q.Offset = n
		case "order":
			s.Next(false)
			if err := parseOrderBy(s, q); err != nil {
				return nil, err
			}
		case "join":
			s.Next(false)
			if err := parseJoin(s, q, JoinInner); err != nil {
				return nil, err
			}
		case "left":
			s.Next(false)
			if next := s.Next(false); next.Text != "join" {
				return nil, NewParseSqlError("expected JOIN, but found '"+next.Text+"'", s.Where())
			}
			if err := parseJoin(s, q, JoinLeft); err != nil {
				return nil, err
			}
		case "inner":
			s.Next(false)
			if next := s.Next(false); next.Text != "join" {
				return nil, NewParseSqlError("expected JOIN, but found '"+next.Text+"'", s.Where())
			}
			jtype := JoinInner
			if q.nextOp == OpOr {
				jtype = JoinOrInner
			}
			q.nextOp = OpAnd
			if err := parseJoin(s, q, jtype); err != nil {
				return nil, err
			}
		case "merge":
			s.Next(false)
			if err := parseMerge(s, q); err != nil {
				return nil, err
			}
		case "or":
			s.Next(false)
			q.nextOp = OpOr
		default:
			return q, nil
		}
	}
	return q, nil
}

func parseProjection(s *token.Stream, q *Query) error {
	for !s.End() {
		nameWithCase := s.Peek(true).Text
		name := s.Next(false).Text
		tok := s.Peek(false)

		if tok.Is("(") {
			s.Next(false)
			arg := s.Next(true)
			switch name {
			case "avg":
				q.Aggregations = append(q.Aggregations, Aggregation{Field: arg.Text, Kind: AggAvg})
			case "sum":
				q.Aggregations = append(q.Aggregations, Aggregation{Field: arg.Text, Kind: AggSum})
			case "count":
				q.CalcTotalMode = CalcTotalAccurate
				q.Limit = 0
			default:
				return NewParamsError("unknown function name in SQL - " + name + ", " + s.Where())
			}
			if closing := s.Next(false); !closing.Is(")") {
				return NewParseSqlError("expected ')', but found '"+closing.Text+"'", s.Where())
			}
			tok = s.Peek(false)
		} else if name != "*" {
			q.SelectFilter = append(q.SelectFilter, nameWithCase)
		}

		if !tok.Is(",") {
			break
		}
		s.Next(false)
	}
	return nil
}

func parseUint(s *token.Stream) (uint64, error) {
	tok := s.Next(false)
	if tok.Kind != token.Number {
		return 0, NewParseSqlError("expected number, but found '"+tok.Text+"' in query", s.Where())
	}
	n, err := strconv.ParseUint(tok.Text, 10, 64)
	if err != nil {
		return 0, NewParseSqlError("invalid number '"+tok.Text+"' in query", s.Where())
	}
	return n, nil
}

func parseOrderBy(s *token.Stream, q *Query) error {
	s.Next(false) // skip BY

	keyword := s.Peek(false).Text
	tok := s.Next(true)
	if tok.Kind != token.Name {
		return NewParseSqlError("expected name, but found '"+tok.Text+"' in query", s.Where())
	}
	q.SortBy = tok.Text

	tok = s.Peek(false)
	if tok.Is("(") && keyword == "field" {
		s.Next(false)
		fieldTok := s.Next(true)
		if fieldTok.Kind != token.Name {
			return NewParseSqlError("expected name, but found '"+fieldTok.Text+"' in query", s.Where())
		}
		q.SortBy = fieldTok.Text
		for {
			tok = s.Next(false)
			if tok.Is(")") {
				break
			}
			if !tok.Is(",") {
				return NewParseSqlError("expected ')' or ',', but found '"+tok.Text+"' in query", s.Where())
			}
			tok = s.Next(true)
			if tok.Kind != token.Number && tok.Kind != token.String {
				return NewParseSqlError("expected parameter, but found '"+tok.Text+"' in query", s.Where())
			}
			q.ForcedSortOrder = append(q.ForcedSortOrder, wire.FromToken(tok.Text, tok.Kind == token.Number))
		}
		tok = s.Peek(false)
	}

	if tok.Text == "asc" || tok.Text == "desc" {
		q.SortDescending = tok.Text == "desc"
		s.Next(false)
	}
	return nil
}

func parseJoin(s *token.Stream, q *Query, jtype JoinType) error {
	jq := New("")
	tok := s.Next(false)
	if tok.Is("(") {
		inner := s.Next(false)
		if inner.Text != "select" {
			return NewParseSqlError("expected 'SELECT', but found '"+inner.Text+"'", s.Where())
		}
		parsed, err := selectParse(s)
		if err != nil {
			return err
		}
		jq = parsed
		if closing := s.Next(false); !closing.Is(")") {
			return NewParseSqlError("expected ')', but found '"+closing.Text+"'", s.Where())
		}
	} else {
		jq.Namespace = tok.Text
	}
	jq.JoinType = jtype

	if err := parseJoinEntries(s, jq, q.Namespace); err != nil {
		return err
	}
	q.JoinQueries = append(q.JoinQueries, jq)
	return nil
}

func parseMerge(s *token.Stream, q *Query) error {
	mq := New("")
	tok := s.Next(false)
	if tok.Is("(") {
		inner := s.Next(false)
		if inner.Text != "select" {
			return NewParseSqlError("expected 'SELECT', but found '"+inner.Text+"'", s.Where())
		}
		parsed, err := selectParse(s)
		if err != nil {
			return err
		}
		mq = parsed
		if closing := s.Next(false); !closing.Is(")") {
			return NewParseSqlError("expected ')', but found '"+closing.Text+"'", s.Where())
		}
	}
	mq.JoinType = JoinMerge
	q.MergeQueries = append(q.MergeQueries, mq)
	return nil
}

// parseDotField reads an optional "table." prefix in front of a field name,
// returning the field name and recording the seen table prefix (if any)
// into ns.
func parseDotField(s *token.Stream) (field, ns string, err error) {
	tok := s.Next(true)
	if tok.Kind != token.Name && tok.Kind != token.String {
		return "", "", NewParseSqlError("expected name, but found '"+tok.Text+"'", s.Where())
	}
	if !s.Peek(false).Is(".") {
		return tok.Text, "", nil
	}
	s.Next(false)
	ns = tok.Text
	tok = s.Next(true)
	if tok.Kind != token.Name && tok.Kind != token.String {
		return "", "", NewParseSqlError("expected name, but found '"+tok.Text+"'", s.Where())
	}
	return tok.Text, ns, nil
}

func parseJoinEntries(s *token.Stream, jq *Query, mainNs string) error {
	tok := s.Next(false)
	if tok.Text != "on" {
		return NewParseSqlError("expected 'ON', but found '"+tok.Text+"'", s.Where())
	}

	braces := s.Peek(false).Is("(")
	if braces {
		s.Next(false)
	}

	for !s.End() {
		tok = s.Peek(false)
		op := OpAnd
		switch tok.Text {
		case "or":
			op = OpOr
			s.Next(false)
			tok = s.Peek(false)
		case "and":
			s.Next(false)
			tok = s.Peek(false)
		}

		if braces && tok.Is(")") {
			s.Next(false)
			return nil
		}

		field1, ns1, err := parseDotField(s)
		if err != nil {
			return err
		}
		if ns1 == "" {
			ns1 = mainNs
		}
		condTok := s.Next(false)
		cond, ok := parseCondName(condTok.Text)
		if !ok {
			return NewParseSqlError("unknown condition '"+condTok.Text+"' in ON clause", s.Where())
		}
		field2, ns2, err := parseDotField(s)
		if err != nil {
			return err
		}
		if ns2 == "" {
			ns2 = jq.Namespace
		}

		var leftField, rightField string
		switch {
		case ns1 == mainNs && ns2 == jq.Namespace:
			leftField, rightField = field1, field2
		case ns2 == mainNs && ns1 == jq.Namespace:
			leftField, rightField = field2, field1
		default:
			return NewParamsError("unexpected tables in ON clause: ('" + ns1 + "' and '" + ns2 + "') but expected ('" + mainNs + "' and '" + jq.Namespace + "'), " + s.Where())
		}

		jq.JoinEntries = append(jq.JoinEntries, JoinCondition{
			Op: op, Condition: cond, LeftField: leftField, RightField: rightField,
		})
		if !braces {
			return nil
		}
	}
	return nil
}

// parseWhere parses a WHERE clause's predicate-list into q.Entries.
func parseWhere(s *token.Stream, q *Query) error {
	for {
		op := OpAnd
		tok := s.Peek(false)
		switch tok.Text {
		case "not":
			op = OpNot
			s.Next(false)
		case "and":
			s.Next(false)
			tok = s.Peek(false)
		case "or":
			op = OpOr
			s.Next(false)
		}

		entry, err := parsePredicate(s, op)
		if err != nil {
			return err
		}
		q.Entries = append(q.Entries, entry)

		tok = s.Peek(false)
		if tok.Text != "and" && tok.Text != "or" {
			return nil
		}
	}
}

func parsePredicate(s *token.Stream, op Op) (Entry, error) {
	nameWithCase := s.Peek(true).Text
	nameTok := s.Next(false)

	if nameTok.Text == "distinct" && s.Peek(false).Is("(") {
		s.Next(false)
		field := s.Next(true).Text
		if closing := s.Next(false); !closing.Is(")") {
			return Entry{}, NewParseSqlError("expected ')', but found '"+closing.Text+"'", s.Where())
		}
		return Entry{Op: op, Field: field, Condition: CondAny, Distinct: true}, nil
	}
	field := nameWithCase

	tok := s.Next(false)
	switch {
	case tok.Is("="):
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondEq, Values: []wire.Value{v}}, nil
	case tok.Is("<"):
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondLt, Values: []wire.Value{v}}, nil
	case tok.Is("<="):
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondLe, Values: []wire.Value{v}}, nil
	case tok.Is(">"):
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondGt, Values: []wire.Value{v}}, nil
	case tok.Is(">="):
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondGe, Values: []wire.Value{v}}, nil
	case tok.Text == "between":
		lo, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		if and := s.Next(false); and.Text != "and" {
			return Entry{}, NewParseSqlError("expected 'AND', but found '"+and.Text+"'", s.Where())
		}
		hi, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondRange, Values: []wire.Value{lo, hi}}, nil
	case tok.Text == "in":
		values, err := parseOperandList(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondSet, Values: values}, nil
	case tok.Text == "allset":
		values, err := parseOperandList(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondAllSet, Values: values}, nil
	case tok.Text == "like":
		v, err := parseOperand(s)
		if err != nil {
			return Entry{}, err
		}
		return Entry{Op: op, Field: field, Condition: CondLike, Values: []wire.Value{v}}, nil
	case tok.Text == "is":
		if null := s.Next(false); null.Text != "null" {
			return Entry{}, NewParseSqlError("expected 'NULL', but found '"+null.Text+"'", s.Where())
		}
		return Entry{Op: op, Field: field, Condition: CondEmpty}, nil
	default:
		return Entry{}, NewParseSqlError("unexpected condition '"+tok.Text+"' in WHERE clause", s.Where())
	}
}

func parseOperandList(s *token.Stream) ([]wire.Value, error) {
	if open := s.Next(false); !open.Is("(") {
		return nil, NewParseSqlError("expected '(', but found '"+open.Text+"'", s.Where())
	}
	var values []wire.Value
	for {
		v, err := parseOperand(s)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		tok := s.Next(false)
		if tok.Is(")") {
			return values, nil
		}
		if !tok.Is(",") {
			return nil, NewParseSqlError("expected ')' or ',', but found '"+tok.Text+"'", s.Where())
		}
	}
}

// parseOperand reads one literal, handling the lexer's "-" + Number split
// for negative numeric literals.
func parseOperand(s *token.Stream) (wire.Value, error) {
	tok := s.Next(true)
	if tok.Is("-") {
		num := s.Next(true)
		if num.Kind != token.Number {
			return wire.Value{}, NewParseSqlError("expected number after '-', but found '"+num.Text+"'", s.Where())
		}
		v := wire.FromToken(num.Text, true)
		if v.Kind == wire.KindInt {
			v.Int = -v.Int
		} else {
			v.Double = -v.Double
		}
		return v, nil
	}
	if tok.Kind == token.End {
		return wire.Value{}, NewParseSqlError("unexpected end of query, expected a value", s.Where())
	}
	return wire.FromToken(tok.Text, tok.Kind == token.Number), nil
}

func parseCondName(text string) (Condition, bool) {
	for cond, name := range condNames {
		if name == text {
			return cond, true
		}
	}
	switch text {
	case "=":
		return CondEq, true
	}
	return 0, false
}
