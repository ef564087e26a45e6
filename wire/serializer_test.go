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

package wire

import (
	"errors"
	"testing"
)

func TestVarUintRoundTrip(t *testing.T) {
	for _, v := range []uint64{0, 1, 127, 128, 300, 1 << 40} {
		w := NewWriter()
		w.PutVarUint(v)
		r := NewReader(w.Bytes())
		got, err := r.GetVarUint()
		if err != nil {
			t.Fatalf("GetVarUint(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("got %d, want %d", got, v)
		}
		if !r.EOF() {
			t.Errorf("reader not at EOF after reading %d", v)
		}
	}
}

func TestVStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.PutVString("hello")
	w.PutVString("")
	w.PutVString("world")
	r := NewReader(w.Bytes())
	for _, want := range []string{"hello", "", "world"} {
		got, err := r.GetVString()
		if err != nil {
			t.Fatalf("GetVString: %v", err)
		}
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	}
}

func TestValueRoundTrip(t *testing.T) {
	values := []Value{
		Int64(42),
		Int64(-17),
		Float64(3.25),
		String("price"),
		Bool(true),
		Bool(false),
		Null,
	}
	w := NewWriter()
	for _, v := range values {
		w.PutValue(v)
	}
	r := NewReader(w.Bytes())
	for _, want := range values {
		got, err := r.GetValue()
		if err != nil {
			t.Fatalf("GetValue: %v", err)
		}
		if !got.Equal(want) {
			t.Errorf("got %+v, want %+v", got, want)
		}
	}
	if !r.EOF() {
		t.Error("expected EOF")
	}
}

func TestReaderTruncated(t *testing.T) {
	r := NewReader([]byte{0x80}) // incomplete varuint continuation byte
	if _, err := r.GetVarUint(); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got err=%v, want ErrTruncated", err)
	}
}

func TestReaderUnknownValueKind(t *testing.T) {
	r := NewReader([]byte{0xFF})
	if _, err := r.GetValue(); !errors.Is(err, ErrUnknownValueKind) {
		t.Fatalf("got err=%v, want ErrUnknownValueKind", err)
	}
}

func TestMixedSequence(t *testing.T) {
	w := NewWriter()
	w.PutVarUint(3)
	w.PutVString("items")
	w.PutValue(Int64(10))

	r := NewReader(w.Bytes())
	n, err := r.GetVarUint()
	if err != nil || n != 3 {
		t.Fatalf("GetVarUint: %v %d", err, n)
	}
	s, err := r.GetVString()
	if err != nil || s != "items" {
		t.Fatalf("GetVString: %v %q", err, s)
	}
	v, err := r.GetValue()
	if err != nil || !v.Equal(Int64(10)) {
		t.Fatalf("GetValue: %v %+v", err, v)
	}
	if !r.EOF() {
		t.Error("expected EOF")
	}
}
