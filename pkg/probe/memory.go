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
	"log/slog"
	"strings"

	"github.com/cirg-dev/cirg/pkg/source/host"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// MemoryInfo describes installed memory modules and live usage.
type MemoryInfo struct {
	Slots         []MemorySlot `json:"slots" yaml:"slots"`
	TotalSlots    uint32       `json:"totalSlots" yaml:"totalSlots"`
	MaxCapacityGB uint64       `json:"maxCapacityGb" yaml:"maxCapacityGb"`
	TotalGB       float64      `json:"totalGb" yaml:"totalGb"`
	AvailableGB   float64      `json:"availableGb" yaml:"availableGb"`
	UsagePercent  float64      `json:"usagePercent" yaml:"usagePercent"`
}

// MemorySlot is one populated module.
type MemorySlot struct {
	BankLabel    string  `json:"bankLabel" yaml:"bankLabel"`
	CapacityGB   float64 `json:"capacityGb" yaml:"capacityGb"`
	SpeedMHz     uint32  `json:"speedMhz" yaml:"speedMhz"`
	MemoryType   string  `json:"memoryType" yaml:"memoryType"`
	FormFactor   string  `json:"formFactor" yaml:"formFactor"`
	Manufacturer string  `json:"manufacturer" yaml:"manufacturer"`
	PartNumber   string  `json:"partNumber" yaml:"partNumber"`
}

func (*MemoryInfo) Category() Category { return CategoryMemory }

// MemoryType maps Win32_PhysicalMemory.SMBIOSMemoryType.
func MemoryType(code uint16) string {
	switch code {
	case 20:
		return "DDR"
	case 21:
		return "DDR2"
	case 24:
		return "DDR3"
	case 26:
		return "DDR4"
	case 34:
		return "DDR5"
	default:
		return "Unknown"
	}
}

// MemoryFormFactor maps Win32_PhysicalMemory.FormFactor.
func MemoryFormFactor(code uint16) string {
	switch code {
	case 8:
		return "DIMM"
	case 12:
		return "SO-DIMM"
	default:
		return "Unknown"
	}
}

// MemoryProbe reads Win32_PhysicalMemory. The memory array and host usage
// counters are optional.
type MemoryProbe struct {
	WMI  wmi.Querier
	Host host.Stats
}

func (p *MemoryProbe) Category() Category { return CategoryMemory }

func (p *MemoryProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT BankLabel, Capacity, Speed, SMBIOSMemoryType, FormFactor, Manufacturer, PartNumber FROM Win32_PhysicalMemory")
	if err != nil {
		return nil, unavailable(CategoryMemory, "physical memory query failed", err)
	}

	info := &MemoryInfo{Slots: make([]MemorySlot, 0, len(rows))}
	for _, row := range rows {
		f := variant.NewFields(row)
		info.Slots = append(info.Slots, MemorySlot{
			BankLabel:    f.String("BankLabel", ""),
			CapacityGB:   GiB(f.Uint64("Capacity", 0)),
			SpeedMHz:     f.Uint32("Speed", 0),
			MemoryType:   MemoryType(f.Uint16("SMBIOSMemoryType", 0)),
			FormFactor:   MemoryFormFactor(f.Uint16("FormFactor", 0)),
			Manufacturer: f.String("Manufacturer", ""),
			PartNumber:   strings.TrimSpace(f.String("PartNumber", "")),
		})
	}

	if arr, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT MemoryDevices, MaxCapacity FROM Win32_PhysicalMemoryArray"); err == nil {
		info.TotalSlots = variant.GetOr[uint32](arr, "MemoryDevices", 0)
		// MaxCapacity is in KiB.
		info.MaxCapacityGB = variant.GetOr[uint64](arr, "MaxCapacity", 0) / (1024 * 1024)
	} else {
		slog.Debug("memory array query failed", "error", err)
	}

	if p.Host != nil {
		if st, err := p.Host.Memory(ctx); err == nil {
			info.TotalGB = GiB(st.Total)
			info.AvailableGB = GiB(st.Available)
			info.UsagePercent = Percent(float64(st.Used), float64(st.Total))
		} else {
			slog.Debug("host memory counters unavailable", "error", err)
		}
	}
	return info, nil
}
