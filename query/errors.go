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

import "fmt"

// ParseSqlError is a SQL grammar violation. Where is the token stream's
// positional description at the offending token.
type ParseSqlError struct {
	Message string
	Where   string
}

func NewParseSqlError(message, where string) *ParseSqlError {
	return &ParseSqlError{Message: message, Where: where}
}

func (e *ParseSqlError) Error() string {
	return fmt.Sprintf("%s, %s", e.Message, e.Where)
}

// ParseJsonError is malformed JSON-DSL input. Offset is the byte offset of
// the syntax error when the JSON engine reports it as an encoding/json
// SyntaxError, and 0 otherwise (errors from the default sonic engine are
// not of that type).
type ParseJsonError struct {
	Message string
	Offset  int64
	Cause   error
}

func NewParseJsonError(message string, offset int64, cause error) *ParseJsonError {
	return &ParseJsonError{Message: message, Offset: offset, Cause: cause}
}

func (e *ParseJsonError) Error() string {
	return fmt.Sprintf("%s at byte %d", e.Message, e.Offset)
}

func (e *ParseJsonError) Unwrap() error {
	return e.Cause
}

// ParamsError is a semantic validation failure inside an otherwise
// well-formed grammar: an unknown aggregation function name, an ON-clause
// namespace mismatch, or an unrecognized wire tag.
type ParamsError struct {
	Message string
	Cause   error
}

func NewParamsError(message string) *ParamsError {
	return &ParamsError{Message: message}
}

func WrapParamsError(message string, cause error) *ParamsError {
	return &ParamsError{Message: message, Cause: cause}
}

func (e *ParamsError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ParamsError) Unwrap() error {
	return e.Cause
}
