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
	"fmt"
	"strconv"
	"strings"
)

// Kind is the tag of a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindBool
	KindUint8
	KindInt16
	KindUint16
	KindInt32
	KindUint32
	KindInt64
	KindUint64
	KindArray
)

var kindNames = [...]string{
	KindNull:   "null",
	KindString: "string",
	KindBool:   "bool",
	KindUint8:  "uint8",
	KindInt16:  "int16",
	KindUint16: "uint16",
	KindInt32:  "int32",
	KindUint32: "uint32",
	KindInt64:  "int64",
	KindUint64: "uint64",
	KindArray:  "array",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

func (k Kind) signed() bool {
	return k == KindInt16 || k == KindInt32 || k == KindInt64
}

// Value is a tagged value as returned by the management-query interface.
// The zero Value is null.
type Value struct {
	kind Kind
	str  string
	// num holds unsigned values directly and signed values as their
	// two's complement bit pattern.
	num uint64
	arr []Value
}

// Convenience constructors for each tag.
func Null() Value             { return Value{} }
func Str(v string) Value      { return Value{kind: KindString, str: v} }
func Uint8(v uint8) Value     { return Value{kind: KindUint8, num: uint64(v)} }
func Int16(v int16) Value     { return Value{kind: KindInt16, num: uint64(int64(v))} }
func Uint16(v uint16) Value   { return Value{kind: KindUint16, num: uint64(v)} }
func Int32(v int32) Value     { return Value{kind: KindInt32, num: uint64(int64(v))} }
func Uint32(v uint32) Value   { return Value{kind: KindUint32, num: uint64(v)} }
func Int64(v int64) Value     { return Value{kind: KindInt64, num: uint64(v)} }
func Uint64(v uint64) Value   { return Value{kind: KindUint64, num: v} }
func Array(vs ...Value) Value { return Value{kind: KindArray, arr: vs} }
func Bool(v bool) Value {
	var n uint64
	if v {
		n = 1
	}
	return Value{kind: KindBool, num: n}
}

// Kind returns the tag of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value carries no data.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Any returns the underlying Go value.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindBool:
		return v.num == 1
	case KindUint8:
		return uint8(v.num)
	case KindInt16:
		return int16(int64(v.num))
	case KindUint16:
		return uint16(v.num)
	case KindInt32:
		return int32(int64(v.num))
	case KindUint32:
		return uint32(v.num)
	case KindInt64:
		return int64(v.num)
	case KindUint64:
		return v.num
	case KindArray:
		out := make([]any, len(v.arr))
		for i, e := range v.arr {
			out[i] = e.Any()
		}
		return out
	default:
		return nil
	}
}

// String returns a display form of the value.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString:
		return v.str
	case KindArray:
		parts := make([]string, len(v.arr))
		for i, e := range v.arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, " ") + "]"
	default:
		return fmt.Sprintf("%v", v.Any())
	}
}

// Elements returns the elements of an array value, or nil.
func (v Value) Elements() []Value {
	if v.kind != KindArray {
		return nil
	}
	return v.arr
}

// unsignedSources is the conversion table for unsigned targets: each target
// lists the source tags it accepts. Signed sources are accepted only when
// non-negative; string sources only for 64-bit targets.
var unsignedSources = map[Kind]map[Kind]bool{
	KindUint16: {
		KindUint8: true, KindUint16: true, KindInt16: true,
	},
	KindUint32: {
		KindUint8: true, KindUint16: true, KindUint32: true,
		KindInt16: true, KindInt32: true,
	},
	KindUint64: {
		KindUint8: true, KindUint16: true, KindUint32: true, KindUint64: true,
		KindInt16: true, KindInt32: true, KindInt64: true,
		KindString: true,
	},
}

// unsigned converts v to an unsigned integer for the given target width.
func (v Value) unsigned(target Kind) (uint64, bool) {
	if !unsignedSources[target][v.kind] {
		return 0, false
	}
	switch {
	case v.kind == KindString:
		n, err := strconv.ParseUint(v.str, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case v.kind.signed():
		if int64(v.num) < 0 {
			return 0, false
		}
		return v.num, true
	default:
		return v.num, true
	}
}

// FromAny converts a dynamically typed Go value, as produced by COM
// automation, into a Value. Slices become arrays; unknown types are
// rendered as strings.
func FromAny(x any) Value {
	switch val := x.(type) {
	case nil:
		return Null()
	case Value:
		return val
	case string:
		return Str(val)
	case bool:
		return Bool(val)
	case uint8:
		return Uint8(val)
	case int8:
		return Int16(int16(val))
	case int16:
		return Int16(val)
	case uint16:
		return Uint16(val)
	case int32:
		return Int32(val)
	case uint32:
		return Uint32(val)
	case int64:
		return Int64(val)
	case uint64:
		return Uint64(val)
	case int:
		return Int64(int64(val))
	case uint:
		return Uint64(uint64(val))
	case float32:
		return Str(strconv.FormatFloat(float64(val), 'f', -1, 32))
	case float64:
		return Str(strconv.FormatFloat(val, 'f', -1, 64))
	case []byte:
		out := make([]Value, len(val))
		for i, b := range val {
			out[i] = Uint8(b)
		}
		return Array(out...)
	case []string:
		out := make([]Value, len(val))
		for i, s := range val {
			out[i] = Str(s)
		}
		return Array(out...)
	case []any:
		out := make([]Value, len(val))
		for i, e := range val {
			out[i] = FromAny(e)
		}
		return Array(out...)
	default:
		return Str(fmt.Sprintf("%v", val))
	}
}
