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

// Package version parses the dotted numeric versions Windows reports for
// the operating system, drivers and firmware specifications, such as
// "10.0.22631", "31.0.15.5222" or "1.38".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Error types for version parsing failures
var (
	ErrEmptyVersion      = errors.New("version string is empty")
	ErrTooManyComponents = errors.New("version has more than 4 components")
	ErrNonNumeric        = errors.New("version component is not numeric")
)

// MaxComponents is the number of components in a full Windows version:
// major, minor, build and revision.
const MaxComponents = 4

// Version is a dotted numeric version. Precision is the number of
// components that were present; the rest are zero.
type Version struct {
	Major     int `json:"major" yaml:"major"`
	Minor     int `json:"minor" yaml:"minor"`
	Build     int `json:"build" yaml:"build"`
	Revision  int `json:"revision" yaml:"revision"`
	Precision int `json:"precision" yaml:"precision"`
}

func (v Version) parts() [MaxComponents]int {
	return [MaxComponents]int{v.Major, v.Minor, v.Build, v.Revision}
}

// String returns the version with Precision components.
func (v Version) String() string {
	p := v.parts()
	n := v.Precision
	if n < 1 || n > MaxComponents {
		n = MaxComponents
	}
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(p[i])
	}
	return strings.Join(out, ".")
}

// ParseVersion parses one to four dot-separated non-negative integers.
// Surrounding whitespace and a leading "v" are ignored.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "v")
	if s == "" {
		return Version{}, ErrEmptyVersion
	}

	parts := strings.Split(s, ".")
	if len(parts) > MaxComponents {
		return Version{}, ErrTooManyComponents
	}

	var nums [MaxComponents]int
	for i, part := range parts {
		if part == "" {
			return Version{}, fmt.Errorf("%w: empty component", ErrNonNumeric)
		}
		num, err := strconv.ParseUint(part, 10, 31)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q", ErrNonNumeric, part)
		}
		nums[i] = int(num)
	}

	return Version{
		Major:     nums[0],
		Minor:     nums[1],
		Build:     nums[2],
		Revision:  nums[3],
		Precision: len(parts),
	}, nil
}

// WithRevision returns v extended to four components with the given revision.
func (v Version) WithRevision(rev int) Version {
	v.Revision = rev
	v.Precision = MaxComponents
	return v
}

// Compare returns -1 if v < other, 0 if equal and 1 if v > other. Missing
// components compare as zero.
func (v Version) Compare(other Version) int {
	a, b := v.parts(), other.parts()
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// IsValid reports whether v came from ParseVersion or an equivalent literal.
func (v Version) IsValid() bool {
	for _, p := range v.parts() {
		if p < 0 {
			return false
		}
	}
	return v.Precision >= 1 && v.Precision <= MaxComponents
}
