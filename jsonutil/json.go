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

// Package jsonutil provides a configurable JSON encoding/decoding layer for
// the query package's DSL codec. It defaults to github.com/bytedance/sonic
// but can be swapped for encoding/json or any other implementation.
//
// Usage:
//
//	import "github.com/quiverdb/quiver/jsonutil"
//
//	data, err := jsonutil.Marshal(v)
//	err = jsonutil.Unmarshal(data, &v)
//
// To fall back to the standard library:
//
//	jsonutil.SetConfig(jsonutil.StdConfig())
package jsonutil

import (
	stdjson "encoding/json"
	"io"

	"github.com/bytedance/sonic"
)

// Encoder is the interface for streaming JSON encoding. Both sonic and
// encoding/json satisfy this.
type Encoder interface {
	Encode(v any) error
}

// Decoder is the interface for streaming JSON decoding.
type Decoder interface {
	Decode(v any) error
}

// Config holds the JSON encoding/decoding functions.
type Config struct {
	Marshal       func(v any) ([]byte, error)
	MarshalIndent func(v any, prefix, indent string) ([]byte, error)
	Unmarshal     func(data []byte, v any) error
	NewEncoder    func(w io.Writer) Encoder
	NewDecoder    func(r io.Reader) Decoder
}

// DefaultConfig returns the default configuration, backed by sonic.
func DefaultConfig() Config {
	api := sonic.ConfigDefault
	return Config{
		Marshal:       api.Marshal,
		MarshalIndent: api.MarshalIndent,
		Unmarshal:     api.Unmarshal,
		NewEncoder: func(w io.Writer) Encoder {
			return api.NewEncoder(w)
		},
		NewDecoder: func(r io.Reader) Decoder {
			return api.NewDecoder(r)
		},
	}
}

// StdConfig returns a configuration backed by encoding/json, useful when a
// caller needs stdlib struct-tag semantics sonic does not replicate.
func StdConfig() Config {
	return Config{
		Marshal:       stdjson.Marshal,
		MarshalIndent: stdjson.MarshalIndent,
		Unmarshal:     stdjson.Unmarshal,
		NewEncoder: func(w io.Writer) Encoder {
			return stdjson.NewEncoder(w)
		},
		NewDecoder: func(r io.Reader) Decoder {
			return stdjson.NewDecoder(r)
		},
	}
}

var config = DefaultConfig()

// SetConfig replaces the global configuration.
func SetConfig(c Config) {
	config = c
}

// GetConfig returns the current global configuration.
func GetConfig() Config {
	return config
}

// Marshal returns the JSON encoding of v.
func Marshal(v any) ([]byte, error) {
	return config.Marshal(v)
}

// MarshalIndent is like Marshal but applies Indent to format the output.
func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return config.MarshalIndent(v, prefix, indent)
}

// Unmarshal parses the JSON-encoded data and stores the result in v.
func Unmarshal(data []byte, v any) error {
	return config.Unmarshal(data, v)
}

// NewEncoder returns a new Encoder that writes to w.
func NewEncoder(w io.Writer) Encoder {
	return config.NewEncoder(w)
}

// NewDecoder returns a new Decoder that reads from r.
func NewDecoder(r io.Reader) Decoder {
	return config.NewDecoder(r)
}

// RawMessage is a raw encoded JSON value, an alias of encoding/json's
// RawMessage.
type RawMessage = stdjson.RawMessage
