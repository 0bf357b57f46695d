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

package display

import (
	"context"
	"fmt"
)

// Mode is the current mode of one active display, in platform enumeration
// order. OK is false when the device was listed but its mode could not be
// read.
type Mode struct {
	Device    string
	Width     uint32
	Height    uint32
	RefreshHz uint32
	OK        bool
}

// Resolution returns "WxH", or "N/A" when the mode is unknown.
func (m Mode) Resolution() string {
	if !m.OK || m.Width == 0 || m.Height == 0 {
		return "N/A"
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// Enumerator lists the active displays.
type Enumerator interface {
	ActiveModes(ctx context.Context) ([]Mode, error)
}
