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

import (
	"context"

	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// CPUInfo describes the first processor package.
type CPUInfo struct {
	Name              string `json:"name" yaml:"name"`
	Cores             uint32 `json:"cores" yaml:"cores"`
	LogicalProcessors uint32 `json:"logicalProcessors" yaml:"logicalProcessors"`
	MaxClockMHz       uint32 `json:"maxClockMhz" yaml:"maxClockMhz"`
	CurrentClockMHz   uint32 `json:"currentClockMhz" yaml:"currentClockMhz"`
	Socket            string `json:"socket" yaml:"socket"`
	L2CacheKB         uint32 `json:"l2CacheKb" yaml:"l2CacheKb"`
	L3CacheKB         uint32 `json:"l3CacheKb" yaml:"l3CacheKb"`
	Architecture      string `json:"architecture" yaml:"architecture"`
	Virtualization    bool   `json:"virtualization" yaml:"virtualization"`
	Status            string `json:"status" yaml:"status"`
	LoadPercent       uint16 `json:"loadPercent" yaml:"loadPercent"`
}

func (*CPUInfo) Category() Category { return CategoryCPU }

// ProcessorArchitecture maps Win32_Processor.Architecture.
func ProcessorArchitecture(code uint16) string {
	switch code {
	case 0:
		return "x86"
	case 5:
		return "ARM"
	case 6:
		return "ia64"
	case 9:
		return "x64"
	case 12:
		return "ARM64"
	default:
		return "Unknown"
	}
}

// CPUProbe reads the first Win32_Processor row.
type CPUProbe struct {
	WMI wmi.Querier
}

func (p *CPUProbe) Category() Category { return CategoryCPU }

func (p *CPUProbe) Fetch(ctx context.Context) (Record, error) {
	row, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT Name, NumberOfCores, NumberOfLogicalProcessors, MaxClockSpeed, CurrentClockSpeed, "+
			"SocketDesignation, L2CacheSize, L3CacheSize, Architecture, VirtualizationFirmwareEnabled, "+
			"Status, LoadPercentage FROM Win32_Processor")
	if err != nil {
		return nil, unavailable(CategoryCPU, "processor query failed", err)
	}

	f := variant.NewFields(row)
	return &CPUInfo{
		Name:              f.String("Name", ""),
		Cores:             f.Uint32("NumberOfCores", 0),
		LogicalProcessors: f.Uint32("NumberOfLogicalProcessors", 0),
		MaxClockMHz:       f.Uint32("MaxClockSpeed", 0),
		CurrentClockMHz:   f.Uint32("CurrentClockSpeed", 0),
		Socket:            f.String("SocketDesignation", ""),
		L2CacheKB:         f.Uint32("L2CacheSize", 0),
		L3CacheKB:         f.Uint32("L3CacheSize", 0),
		Architecture:      ProcessorArchitecture(f.Uint16("Architecture", 9)),
		Virtualization:    f.Bool("VirtualizationFirmwareEnabled", false),
		Status:            f.String("Status", ""),
		LoadPercent:       f.Uint16("LoadPercentage", 0),
	}, nil
}
