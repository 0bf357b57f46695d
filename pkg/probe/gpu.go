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
	"fmt"

	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// GPUInfo lists the display adapters.
type GPUInfo struct {
	Adapters []GPUAdapter `json:"adapters" yaml:"adapters"`
}

// GPUAdapter is one display adapter. MemorySource is "registry" when the
// 64-bit driver value was used and "wmi" otherwise.
type GPUAdapter struct {
	Name          string  `json:"name" yaml:"name"`
	DriverVersion string  `json:"driverVersion" yaml:"driverVersion"`
	DriverDate    string  `json:"driverDate" yaml:"driverDate"`
	MemoryGB      float64 `json:"memoryGb" yaml:"memoryGb"`
	MemorySource  string  `json:"memorySource" yaml:"memorySource"`
	Resolution    string  `json:"resolution" yaml:"resolution"`
	RefreshRate   uint32  `json:"refreshRate" yaml:"refreshRate"`
	Status        string  `json:"status" yaml:"status"`
	Availability  string  `json:"availability" yaml:"availability"`
}

func (*GPUInfo) Category() Category { return CategoryGPU }

// VideoAvailability maps Win32_VideoController.Availability.
func VideoAvailability(code uint16) string {
	switch code {
	case 2:
		return "Unknown"
	case 3:
		return "Running/Full Power"
	case 4:
		return "Warning"
	case 5:
		return "In Test"
	case 8:
		return "Off Line"
	default:
		return "Other"
	}
}

// GPUProbe reads Win32_VideoController and reconciles adapter memory with
// the display class registry key.
type GPUProbe struct {
	WMI      wmi.Querier
	Registry registry.Store
}

func (p *GPUProbe) Category() Category { return CategoryGPU }

func (p *GPUProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, DriverVersion, DriverDate, AdapterRAM, CurrentHorizontalResolution, "+
			"CurrentVerticalResolution, CurrentRefreshRate, Status, Availability FROM Win32_VideoController")
	if err != nil {
		return nil, unavailable(CategoryGPU, "video controller query failed", err)
	}

	sizes := adapterMemory(p.Registry)
	info := &GPUInfo{Adapters: make([]GPUAdapter, 0, len(rows))}
	for _, row := range rows {
		f := variant.NewFields(row)
		name := f.String("Name", "")
		mem, src := resolveAdapterMemory(sizes, name, f.Uint64("AdapterRAM", 0))

		a := GPUAdapter{
			Name:          name,
			DriverVersion: f.String("DriverVersion", ""),
			DriverDate:    "N/A",
			MemoryGB:      GiB(mem),
			MemorySource:  src,
			Resolution:    "N/A",
			RefreshRate:   f.Uint32("CurrentRefreshRate", 0),
			Status:        f.String("Status", ""),
			Availability:  VideoAvailability(f.Uint16("Availability", 0)),
		}
		if d, err := ParseWMIDate(f.String("DriverDate", "")); err == nil {
			a.DriverDate = d.Format("2006-01-02")
		}
		w, h := f.Uint32("CurrentHorizontalResolution", 0), f.Uint32("CurrentVerticalResolution", 0)
		if w > 0 && h > 0 {
			a.Resolution = fmt.Sprintf("%dx%d", w, h)
		}
		info.Adapters = append(info.Adapters, a)
	}
	return info, nil
}
