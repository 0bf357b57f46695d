// Copyright (c) 2025, The cirg Authors.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromAny(t *testing.T) {
	tests := []struct {
		name string
		in   any
		kind Kind
		want any
	}{
		{"nil", nil, KindNull, nil},
		{"string", "x", KindString, "x"},
		{"bool", true, KindBool, true},
		{"uint8", uint8(4), KindUint8, uint8(4)},
		{"int8 widened", int8(-4), KindInt16, int16(-4)},
		{"int16", int16(-300), KindInt16, int16(-300)},
		{"uint16", uint16(300), KindUint16, uint16(300)},
		{"int32", int32(-5), KindInt32, int32(-5)},
		{"uint32", uint32(5), KindUint32, uint32(5)},
		{"int64", int64(-5), KindInt64, int64(-5)},
		{"uint64", uint64(5), KindUint64, uint64(5)},
		{"int", 9, KindInt64, int64(9)},
		{"float", 1.5, KindString, "1.5"},
		{"bytes", []byte{1, 2}, KindArray, []any{uint8(1), uint8(2)}},
		{"strings", []string{"a"}, KindArray, []any{"a"}},
		{"any slice", []any{"a", int32(1)}, KindArray, []any{"a", int32(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FromAny(tt.in)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.want, v.Any())
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", Null().String())
	assert.Equal(t, "abc", Str("abc").String())
	assert.Equal(t, "-3", Int16(-3).String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "[a 1]", Array(Str("a"), Uint8(1)).String())
}

func TestValue_Elements(t *testing.T) {
	assert.Nil(t, Str("a").Elements())
	assert.Len(t, Array(Str("a"), Str("b")).Elements(), 2)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "uint64", KindUint64.String())
	assert.Equal(t, "kind(200)", Kind(200).String())
}
