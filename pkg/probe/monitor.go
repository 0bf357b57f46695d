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

	"github.com/cirg-dev/cirg/pkg/parser"
	"github.com/cirg-dev/cirg/pkg/source/display"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// MonitorInfo lists attached monitors.
type MonitorInfo struct {
	Monitors []Monitor `json:"monitors" yaml:"monitors"`
}

// Monitor pairs EDID identity with the current display mode.
type Monitor struct {
	Manufacturer      string `json:"manufacturer" yaml:"manufacturer"`
	Name              string `json:"name" yaml:"name"`
	SerialNumber      string `json:"serialNumber" yaml:"serialNumber"`
	YearOfManufacture uint16 `json:"yearOfManufacture" yaml:"yearOfManufacture"`
	Resolution        string `json:"resolution" yaml:"resolution"`
	RefreshRate       uint32 `json:"refreshRate" yaml:"refreshRate"`
}

func (*MonitorInfo) Category() Category { return CategoryMonitor }

// MonitorProbe reads WmiMonitorID and pairs rows with active display modes
// by enumeration order.
type MonitorProbe struct {
	WMI     wmi.Querier
	Display display.Enumerator
}

func (p *MonitorProbe) Category() Category { return CategoryMonitor }

func (p *MonitorProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceWMI,
		"SELECT ManufacturerName, UserFriendlyName, SerialNumberID, YearOfManufacture FROM WmiMonitorID")
	if err != nil {
		return nil, unavailable(CategoryMonitor, "monitor id query failed", err)
	}

	var active []display.Mode
	if p.Display != nil {
		active, err = p.Display.ActiveModes(ctx)
		if err != nil {
			slog.Debug("display enumeration failed", "error", err)
			active = nil
		}
	}
	modes := correlateModes(len(rows), active)
	if len(active) != len(rows) {
		slog.Debug("monitor and display counts differ, modes unavailable",
			"monitors", len(rows), "displays", len(active))
	}

	info := &MonitorInfo{Monitors: make([]Monitor, 0, len(rows))}
	for i, row := range rows {
		f := variant.NewFields(row)
		m := Monitor{
			Manufacturer:      parser.DecodeDescriptor(f.Bytes("ManufacturerName")),
			Name:              parser.DecodeDescriptor(f.Bytes("UserFriendlyName")),
			SerialNumber:      parser.DecodeDescriptor(f.Bytes("SerialNumberID")),
			YearOfManufacture: f.Uint16("YearOfManufacture", 0),
			Resolution:        modes[i].Resolution(),
		}
		if modes[i].OK {
			m.RefreshRate = modes[i].RefreshHz
		}
		info.Monitors = append(info.Monitors, m)
	}
	return info, nil
}
