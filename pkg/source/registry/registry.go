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

package registry

import (
	"errors"
	"strings"
)

// Root is a predefined top-level configuration-store key.
type Root uint8

const (
	LocalMachine Root = iota
	CurrentUser
)

// String returns the conventional short name of the root.
func (r Root) String() string {
	switch r {
	case LocalMachine:
		return "HKLM"
	case CurrentUser:
		return "HKCU"
	default:
		return "HK?"
	}
}

var (
	// ErrNotExist is returned when a key or value does not exist.
	ErrNotExist = errors.New("registry: key or value does not exist")
	// ErrUnexpectedType is returned when a value exists with another type.
	ErrUnexpectedType = errors.New("registry: unexpected value type")
)

// Key is an open, read-only configuration-store key.
type Key interface {
	// String returns a REG_SZ or REG_EXPAND_SZ value, unexpanded.
	String(name string) (string, error)
	// Integer returns a REG_DWORD or REG_QWORD value, or a REG_BINARY value
	// of at most eight bytes read as little-endian.
	Integer(name string) (uint64, error)
	SubKeyNames() ([]string, error)
	ValueNames() ([]string, error)
	OpenSubKey(path string) (Key, error)
	Close() error
}

// Store opens keys under a root.
type Store interface {
	Open(root Root, path string) (Key, error)
}

// Exists reports whether the key at path can be opened.
func Exists(s Store, root Root, path string) bool {
	k, err := s.Open(root, path)
	if err != nil {
		return false
	}
	k.Close()
	return true
}

// ReadString opens path and reads one string value.
func ReadString(s Store, root Root, path, name string) (string, error) {
	k, err := s.Open(root, path)
	if err != nil {
		return "", err
	}
	defer k.Close()
	return k.String(name)
}

// ReadInteger opens path and reads one integer value.
func ReadInteger(s Store, root Root, path, name string) (uint64, error) {
	k, err := s.Open(root, path)
	if err != nil {
		return 0, err
	}
	defer k.Close()
	return k.Integer(name)
}

// Join joins key path segments with backslashes.
func Join(parts ...string) string {
	return strings.Join(parts, `\`)
}
