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

	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// usbInfrastructure names controller plumbing that is not a user device.
var usbInfrastructure = []string{"Root Hub", "Generic Hub", "USB Composite Device"}

// USBInfo lists USB devices.
type USBInfo struct {
	Devices []USBDevice `json:"devices" yaml:"devices"`
}

// USBDevice is one USB-enumerated Plug and Play entity.
type USBDevice struct {
	Name         string `json:"name" yaml:"name"`
	DeviceID     string `json:"deviceId" yaml:"deviceId"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Status       string `json:"status" yaml:"status"`
}

func (*USBInfo) Category() Category { return CategoryUSB }

// USBProbe reads Win32_PnPEntity rows enumerated by the USB bus, without
// hubs and composite parents.
type USBProbe struct {
	WMI wmi.Querier
}

func (p *USBProbe) Category() Category { return CategoryUSB }

func (p *USBProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, PNPDeviceID, Manufacturer, Status FROM Win32_PnPEntity WHERE PNPDeviceID LIKE 'USB%'")
	if err != nil {
		return nil, unavailable(CategoryUSB, "pnp entity query failed", err)
	}

	info := &USBInfo{Devices: make([]USBDevice, 0, len(rows))}
	for _, row := range rows {
		f := variant.NewFields(row)
		d := USBDevice{
			Name:         f.RequireString("Name"),
			DeviceID:     f.String("PNPDeviceID", ""),
			Manufacturer: f.String("Manufacturer", ""),
			Status:       f.String("Status", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping usb device", "error", err)
			continue
		}
		if isUSBInfrastructure(d.Name) {
			continue
		}
		info.Devices = append(info.Devices, d)
	}
	return info, nil
}

func isUSBInfrastructure(name string) bool {
	for _, s := range usbInfrastructure {
		if strings.Contains(name, s) {
			return true
		}
	}
	return false
}
