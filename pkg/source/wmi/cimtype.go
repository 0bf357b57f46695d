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

package wmi

import (
	"strconv"

	"github.com/cirg-dev/cirg/pkg/variant"
)

// CIM property types as reported by SWbemProperty.CIMType.
const (
	cimSint8    = 16
	cimUint8    = 17
	cimSint16   = 2
	cimUint16   = 18
	cimSint32   = 3
	cimUint32   = 19
	cimSint64   = 20
	cimUint64   = 21
	cimArray    = 0x2000
)

// retag converts a value decoded from an automation VARIANT to the tag of its
// declared CIM type. Automation widens 8, 16 and 32 bit unsigned properties
// to VT_I4 and carries 64 bit integers as strings; without retagging the
// conversion table would see the wrong source kinds.
func retag(v variant.Value, cimType int32) variant.Value {
	if v.IsNull() {
		return v
	}
	if cimType&cimArray != 0 {
		elems := v.Elements()
		out := make([]variant.Value, len(elems))
		for i, e := range elems {
			out[i] = retag(e, cimType&^cimArray)
		}
		return variant.Array(out...)
	}

	n, ok := signedOf(v)
	switch cimType {
	case cimUint8:
		if ok {
			return variant.Uint8(uint8(n))
		}
	case cimSint8, cimSint16:
		if ok {
			return variant.Int16(int16(n))
		}
	case cimUint16:
		if ok {
			return variant.Uint16(uint16(n))
		}
	case cimSint32:
		if ok {
			return variant.Int32(int32(n))
		}
	case cimUint32:
		if ok {
			return variant.Uint32(uint32(n))
		}
	case cimSint64:
		if s, isStr := v.Any().(string); isStr {
			if p, err := strconv.ParseInt(s, 10, 64); err == nil {
				return variant.Int64(p)
			}
		}
	case cimUint64:
		// Left as a string-tagged value; uint64 extraction parses it.
	}
	return v
}

func signedOf(v variant.Value) (int64, bool) {
	switch x := v.Any().(type) {
	case uint8:
		return int64(x), true
	case int16:
		return int64(x), true
	case uint16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint32:
		return int64(x), true
	case int64:
		return x, true
	case uint64:
		return int64(x), true
	default:
		return 0, false
	}
}
