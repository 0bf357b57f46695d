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

package header

import (
	"time"
)

// Kind is the type of a cirg document.
type Kind string

// KindSnapshot marks an inventory snapshot.
const KindSnapshot Kind = "Snapshot"

// Metadata keys written by Init.
const (
	MetadataTimestamp = "timestamp"
	MetadataVersion   = "version"
)

func (k Kind) String() string {
	return string(k)
}

// IsValid reports whether k is a known document kind.
func (k Kind) IsValid() bool {
	return k == KindSnapshot
}

// Header is the envelope every cirg document starts with.
type Header struct {
	Kind       Kind              `json:"kind,omitempty" yaml:"kind,omitempty"`
	APIVersion string            `json:"apiVersion,omitempty" yaml:"apiVersion,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Init resets h to a fresh envelope stamped with the current UTC time and,
// when non-empty, the producing tool's version.
func (h *Header) Init(kind Kind, apiVersion, version string) {
	h.Kind = kind
	h.APIVersion = apiVersion
	h.Metadata = map[string]string{
		MetadataTimestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if version != "" {
		h.Metadata[MetadataVersion] = version
	}
}

// Set records a metadata entry.
func (h *Header) Set(key, value string) {
	if h.Metadata == nil {
		h.Metadata = make(map[string]string)
	}
	h.Metadata[key] = value
}

// Get returns a metadata entry, or "" when absent.
func (h *Header) Get(key string) string {
	return h.Metadata[key]
}

// Timestamp parses the timestamp entry written by Init.
func (h *Header) Timestamp() (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, h.Get(MetadataTimestamp))
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}
