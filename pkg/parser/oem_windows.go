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

//go:build windows

package parser

import (
	"sync"

	"golang.org/x/sys/windows"
)

var (
	procGetOEMCP = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetOEMCP")
	oemOnce      sync.Once
	oemCP        uint32 = 437
)

// oemCodePage returns the system OEM code page, the encoding console tools
// write when their output is redirected.
func oemCodePage() uint32 {
	oemOnce.Do(func() {
		if err := procGetOEMCP.Find(); err != nil {
			return
		}
		if cp, _, _ := procGetOEMCP.Call(); cp != 0 {
			oemCP = uint32(cp)
		}
	})
	return oemCP
}
