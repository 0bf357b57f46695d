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
	"fmt"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

var (
	// ErrKeyMissing is returned when a key is absent from a record or holds null.
	ErrKeyMissing = errors.New("key missing")
	// ErrTypeMismatch is returned when a key is present but its tag does not
	// convert to the requested type.
	ErrTypeMismatch = errors.New("type mismatch")
)

// ExtractError describes a failed typed extraction from a Record.
type ExtractError struct {
	Key  string
	Want Kind
	Got  Kind
	Err  error
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if errors.Is(e.Err, ErrKeyMissing) {
		return fmt.Sprintf("key %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("key %q: %v: want %s, got %s", e.Key, e.Err, e.Want, e.Got)
}

// Unwrap returns ErrKeyMissing or ErrTypeMismatch.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Code maps the failure onto the structured error taxonomy.
func (e *ExtractError) Code() cerrors.ErrorCode {
	if errors.Is(e.Err, ErrKeyMissing) {
		return cerrors.ErrCodeFieldMissing
	}
	return cerrors.ErrCodeFieldTypeMismatch
}

// Record is one row returned by a management-query: field name to tagged value.
type Record map[string]Value

func (r Record) lookup(key string, want Kind) (Value, error) {
	v, ok := r[key]
	if !ok || v.IsNull() {
		return Value{}, &ExtractError{Key: key, Want: want, Err: ErrKeyMissing}
	}
	return v, nil
}

func mismatch(key string, want Kind, v Value) error {
	return &ExtractError{Key: key, Want: want, Got: v.kind, Err: ErrTypeMismatch}
}

// Has reports whether the key is present with a non-null value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	return ok && !v.IsNull()
}

// String returns a string-tagged value.
func (r Record) String(key string) (string, error) {
	v, err := r.lookup(key, KindString)
	if err != nil {
		return "", err
	}
	if v.kind != KindString {
		return "", mismatch(key, KindString, v)
	}
	return v.str, nil
}

// Bool returns a bool-tagged value.
func (r Record) Bool(key string) (bool, error) {
	v, err := r.lookup(key, KindBool)
	if err != nil {
		return false, err
	}
	if v.kind != KindBool {
		return false, mismatch(key, KindBool, v)
	}
	return v.num == 1, nil
}

func (r Record) unsigned(key string, target Kind) (uint64, error) {
	v, err := r.lookup(key, target)
	if err != nil {
		return 0, err
	}
	n, ok := v.unsigned(target)
	if !ok {
		return 0, mismatch(key, target, v)
	}
	return n, nil
}

// Uint16 returns a value widened to uint16.
func (r Record) Uint16(key string) (uint16, error) {
	n, err := r.unsigned(key, KindUint16)
	if err != nil {
		return 0, err
	}
	if n > 0xFFFF {
		return 0, mismatch(key, KindUint16, r[key])
	}
	return uint16(n), nil
}

// Uint32 returns a value widened to uint32.
func (r Record) Uint32(key string) (uint32, error) {
	n, err := r.unsigned(key, KindUint32)
	if err != nil {
		return 0, err
	}
	if n > 0xFFFFFFFF {
		return 0, mismatch(key, KindUint32, r[key])
	}
	return uint32(n), nil
}

// Uint64 returns a value widened to uint64. String-tagged values are accepted
// when they parse as a non-negative decimal integer.
func (r Record) Uint64(key string) (uint64, error) {
	return r.unsigned(key, KindUint64)
}

// Array returns the elements of an array-tagged value.
func (r Record) Array(key string) ([]Value, error) {
	v, err := r.lookup(key, KindArray)
	if err != nil {
		return nil, err
	}
	if v.kind != KindArray {
		return nil, mismatch(key, KindArray, v)
	}
	return v.arr, nil
}

// Strings returns the string elements of an array-tagged value.
// Non-string elements are skipped.
func (r Record) Strings(key string) ([]string, error) {
	arr, err := r.Array(key)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		if e.kind == KindString {
			out = append(out, e.str)
		}
	}
	return out, nil
}

// Bytes returns an array of small integers as bytes, stopping at the first
// zero. Elements that are not 8 or 16 bit integers are skipped.
func (r Record) Bytes(key string) ([]byte, error) {
	arr, err := r.Array(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(arr))
	for _, e := range arr {
		switch e.kind {
		case KindUint8, KindUint16, KindInt16:
			b := byte(e.num)
			if b == 0 {
				return out, nil
			}
			out = append(out, b)
		}
	}
	return out, nil
}

// Scalar is the set of types Get can extract.
type Scalar interface {
	~string | ~bool | ~uint16 | ~uint32 | ~uint64
}

// Get extracts key from rec as T, returning an *ExtractError wrapping
// ErrKeyMissing or ErrTypeMismatch on failure.
func Get[T Scalar](rec Record, key string) (T, error) {
	var zero T
	var (
		out any
		err error
	)
	switch any(zero).(type) {
	case string:
		out, err = rec.String(key)
	case bool:
		out, err = rec.Bool(key)
	case uint16:
		out, err = rec.Uint16(key)
	case uint32:
		out, err = rec.Uint32(key)
	case uint64:
		out, err = rec.Uint64(key)
	default:
		return zero, fmt.Errorf("unsupported target type %T", zero)
	}
	if err != nil {
		return zero, err
	}
	return out.(T), nil
}

// GetOr extracts key from rec as T, or returns def on any failure.
func GetOr[T Scalar](rec Record, key string, def T) T {
	v, err := Get[T](rec, key)
	if err != nil {
		return def
	}
	return v
}
