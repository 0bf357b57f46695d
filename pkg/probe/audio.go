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

	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// AudioInfo lists sound devices.
type AudioInfo struct {
	Devices []AudioDevice `json:"devices" yaml:"devices"`
}

// AudioDevice is one Win32_SoundDevice row.
type AudioDevice struct {
	Name         string `json:"name" yaml:"name"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Status       string `json:"status" yaml:"status"`
	DeviceID     string `json:"deviceId" yaml:"deviceId"`
}

func (*AudioInfo) Category() Category { return CategoryAudio }

// AudioProbe reads Win32_SoundDevice.
type AudioProbe struct {
	WMI wmi.Querier
}

func (p *AudioProbe) Category() Category { return CategoryAudio }

func (p *AudioProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, Manufacturer, Status, DeviceID FROM Win32_SoundDevice")
	if err != nil {
		return nil, unavailable(CategoryAudio, "sound device query failed", err)
	}

	info := &AudioInfo{Devices: make([]AudioDevice, 0, len(rows))}
	for _, row := range rows {
		f := variant.NewFields(row)
		d := AudioDevice{
			Name:         f.RequireString("Name"),
			Manufacturer: f.String("Manufacturer", ""),
			Status:       f.String("Status", ""),
			DeviceID:     f.String("DeviceID", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping sound device", "error", err)
			continue
		}
		info.Devices = append(info.Devices, d)
	}
	return info, nil
}
