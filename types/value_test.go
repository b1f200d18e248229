// Copyright 2025 The amqpd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package types

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSymbol(t *testing.T) {
	sym := Sym("test-symbol")
	assert.Equal(t, "test-symbol", sym.String())
	assert.Equal(t, Symbol("test-symbol"), sym)
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a     Value
		b     Value
		equal bool
	}{
		{name: "NullNull", a: Null{}, b: Null{}, equal: true},
		{name: "NullBool", a: Null{}, b: Bool(false), equal: false},
		{name: "IntInt", a: Int(42), b: Int(42), equal: true},
		{name: "IntIntDiff", a: Int(42), b: Int(100), equal: false},
		{name: "IntLong", a: Int(42), b: Long(42), equal: false},
		{name: "String", a: String("hello"), b: String("hello"), equal: true},
		{name: "StringDiff", a: String("hello"), b: String("world"), equal: false},
		{name: "Binary", a: Binary{1, 2, 3}, b: Binary{1, 2, 3}, equal: true},
		{name: "BinaryDiff", a: Binary{1, 2, 3}, b: Binary{1, 2}, equal: false},
		{
			name:  "List",
			a:     List{Int(1), String("a")},
			b:     List{Int(1), String("a")},
			equal: true,
		},
		{
			name:  "ListOrder",
			a:     List{Int(1), Int(2)},
			b:     List{Int(2), Int(1)},
			equal: false,
		},
		{
			name:  "MapOrderIrrelevant",
			a:     Map{"k1": Int(1), "k2": Int(2)},
			b:     Map{"k2": Int(2), "k1": Int(1)},
			equal: true,
		},
		{
			name:  "MapDiffValue",
			a:     Map{"k1": Int(1)},
			b:     Map{"k1": Int(2)},
			equal: false,
		},
		{
			name:  "NestedMap",
			a:     Map{"k": List{Map{"x": Null{}}}},
			b:     Map{"k": List{Map{"x": Null{}}}},
			equal: true,
		},
		{name: "Array", a: Array{Int(1)}, b: Array{Int(1)}, equal: true},
		{name: "ArrayVsList", a: Array{Int(1)}, b: List{Int(1)}, equal: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, Equal(tt.a, tt.b))
		})
	}
}

func TestUUIDString(t *testing.T) {
	u := UUID(uuid.MustParse("00112233-4455-6677-8899-aabbccddeeff"))
	assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", u.String())
}

func TestPlain(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  any
	}{
		{name: "Null", value: Null{}, want: nil},
		{name: "Bool", value: Bool(true), want: true},
		{name: "Uint", value: Uint(7), want: uint32(7)},
		{name: "String", value: String("s"), want: "s"},
		{name: "Symbol", value: Symbol("sym"), want: "sym"},
		{name: "Timestamp", value: Timestamp(123), want: int64(123)},
		{name: "List", value: List{Int(1), String("a")}, want: []any{int32(1), "a"}},
		{
			name:  "Map",
			value: Map{"k": Uint(1)},
			want:  map[string]any{"k": uint32(1)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plain(tt.value))
		})
	}
}

func TestDescribedError(t *testing.T) {
	err := NewError("amqp:internal-error").WithDescription("boom")
	assert.Equal(t, "amqp:internal-error: boom", err.Error())

	err = NewError("amqp:internal-error")
	assert.Equal(t, "amqp:internal-error", err.Error())

	err = NewError("amqp:internal-error").WithInfo(Map{"k": Int(1)})
	assert.NotNil(t, err.Info)
}
