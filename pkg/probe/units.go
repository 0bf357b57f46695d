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

package probe

const (
	bytesPerMiB = 1 << 20
	bytesPerGiB = 1 << 30
)

// GiB converts a byte count to gibibytes.
func GiB(b uint64) float64 {
	return float64(b) / bytesPerGiB
}

// MiB converts a byte count to mebibytes.
func MiB(b uint64) float64 {
	return float64(b) / bytesPerMiB
}

// Percent returns part/whole*100, or 0 when whole is zero.
func Percent(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return part / whole * 100
}
