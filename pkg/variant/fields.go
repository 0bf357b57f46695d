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
	"errors"
	"slices"
)

// Fields extracts values from a single Record under an explicit field policy.
// Optional getters take the default to use when the key is missing or has an
// incompatible type, and remember the key as defaulted. Require getters
// record the failure; Err reports every required failure at once.
//
//	f := variant.NewFields(rec)
//	name := f.RequireString("Name")
//	speed := f.Uint32("MaxClockSpeed", 0)
//	if err := f.Err(); err != nil {
//		// skip the row
//	}
type Fields struct {
	rec       Record
	errs      []error
	defaulted []string
}

// NewFields returns an extractor over rec.
func NewFields(rec Record) *Fields {
	return &Fields{rec: rec}
}

func optional[T Scalar](f *Fields, key string, def T) T {
	v, err := Get[T](f.rec, key)
	if err != nil {
		f.defaulted = append(f.defaulted, key)
		return def
	}
	return v
}

func required[T Scalar](f *Fields, key string) T {
	v, err := Get[T](f.rec, key)
	if err != nil {
		f.errs = append(f.errs, err)
	}
	return v
}

// String returns the string at key, or def.
func (f *Fields) String(key, def string) string { return optional(f, key, def) }

// Bool returns the bool at key, or def.
func (f *Fields) Bool(key string, def bool) bool { return optional(f, key, def) }

// Uint16 returns the uint16 at key, or def.
func (f *Fields) Uint16(key string, def uint16) uint16 { return optional(f, key, def) }

// Uint32 returns the uint32 at key, or def.
func (f *Fields) Uint32(key string, def uint32) uint32 { return optional(f, key, def) }

// Uint64 returns the uint64 at key, or def.
func (f *Fields) Uint64(key string, def uint64) uint64 { return optional(f, key, def) }

// Strings returns the string array at key, or nil.
func (f *Fields) Strings(key string) []string {
	v, err := f.rec.Strings(key)
	if err != nil {
		f.defaulted = append(f.defaulted, key)
		return nil
	}
	return v
}

// Bytes returns the byte array at key truncated at the first zero, or nil.
func (f *Fields) Bytes(key string) []byte {
	v, err := f.rec.Bytes(key)
	if err != nil {
		f.defaulted = append(f.defaulted, key)
		return nil
	}
	return v
}

// RequireString returns the string at key and records a failure if absent.
func (f *Fields) RequireString(key string) string { return required[string](f, key) }

// RequireBool returns the bool at key and records a failure if absent.
func (f *Fields) RequireBool(key string) bool { return required[bool](f, key) }

// RequireUint32 returns the uint32 at key and records a failure if absent.
func (f *Fields) RequireUint32(key string) uint32 { return required[uint32](f, key) }

// RequireUint64 returns the uint64 at key and records a failure if absent.
func (f *Fields) RequireUint64(key string) uint64 { return required[uint64](f, key) }

// Defaulted lists the optional keys that fell back to their default, in
// extraction order, without duplicates.
func (f *Fields) Defaulted() []string {
	out := make([]string, 0, len(f.defaulted))
	for _, k := range f.defaulted {
		if !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// Err returns the joined required-field failures, or nil.
func (f *Fields) Err() error {
	return errors.Join(f.errs...)
}
