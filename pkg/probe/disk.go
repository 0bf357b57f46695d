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

// DiskInfo lists physical drives and fixed volumes.
type DiskInfo struct {
	PhysicalDisks []PhysicalDisk `json:"physicalDisks" yaml:"physicalDisks"`
	LogicalDisks  []LogicalDisk  `json:"logicalDisks" yaml:"logicalDisks"`
}

// PhysicalDisk is one drive. TypeMatch records which key resolved DiskType:
// "serial", "index" or "model".
type PhysicalDisk struct {
	Model         string  `json:"model" yaml:"model"`
	SerialNumber  string  `json:"serialNumber" yaml:"serialNumber"`
	InterfaceType string  `json:"interfaceType" yaml:"interfaceType"`
	MediaType     string  `json:"mediaType" yaml:"mediaType"`
	DiskType      string  `json:"diskType" yaml:"diskType"`
	TypeMatch     string  `json:"typeMatch" yaml:"typeMatch"`
	SizeGB        float64 `json:"sizeGb" yaml:"sizeGb"`
	Status        string  `json:"status" yaml:"status"`
}

// LogicalDisk is one local fixed volume.
type LogicalDisk struct {
	DeviceID     string  `json:"deviceId" yaml:"deviceId"`
	VolumeName   string  `json:"volumeName" yaml:"volumeName"`
	FileSystem   string  `json:"fileSystem" yaml:"fileSystem"`
	TotalGB      float64 `json:"totalGb" yaml:"totalGb"`
	FreeGB       float64 `json:"freeGb" yaml:"freeGb"`
	UsedGB       float64 `json:"usedGb" yaml:"usedGb"`
	UsagePercent float64 `json:"usagePercent" yaml:"usagePercent"`
}

func (*DiskInfo) Category() Category { return CategoryDisk }

// DiskProbe reads Win32_DiskDrive and Win32_LogicalDisk, resolving each
// drive's type against MSFT_PhysicalDisk.
type DiskProbe struct {
	WMI wmi.Querier
}

func (p *DiskProbe) Category() Category { return CategoryDisk }

func (p *DiskProbe) Fetch(ctx context.Context) (Record, error) {
	drives, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Model, SerialNumber, Index, InterfaceType, MediaType, Size, Status FROM Win32_DiskDrive")
	if err != nil {
		return nil, unavailable(CategoryDisk, "disk drive query failed", err)
	}

	storage, err := p.WMI.Query(ctx, wmi.NamespaceStorage,
		"SELECT DeviceId, SerialNumber, MediaType FROM MSFT_PhysicalDisk")
	if err != nil {
		slog.Debug("storage namespace unavailable, using model heuristic", "error", err)
	}
	types := newDiskTypes(storage)

	info := &DiskInfo{
		PhysicalDisks: make([]PhysicalDisk, 0, len(drives)),
		LogicalDisks:  []LogicalDisk{},
	}
	for _, row := range drives {
		f := variant.NewFields(row)
		serial := strings.TrimSpace(f.String("SerialNumber", ""))
		model := f.String("Model", "")
		index, idxErr := row.Uint32("Index")

		typ, match := types.resolve(serial, index, idxErr == nil, model)
		info.PhysicalDisks = append(info.PhysicalDisks, PhysicalDisk{
			Model:         model,
			SerialNumber:  serial,
			InterfaceType: f.String("InterfaceType", ""),
			MediaType:     f.String("MediaType", ""),
			DiskType:      typ,
			TypeMatch:     match,
			SizeGB:        GiB(f.Uint64("Size", 0)),
			Status:        f.String("Status", ""),
		})
	}

	volumes, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT DeviceID, VolumeName, FileSystem, Size, FreeSpace FROM Win32_LogicalDisk WHERE DriveType=3")
	if err != nil {
		slog.Debug("logical disk query failed", "error", err)
		return info, nil
	}
	for _, row := range volumes {
		f := variant.NewFields(row)
		total := GiB(f.Uint64("Size", 0))
		free := GiB(f.Uint64("FreeSpace", 0))
		used := max(total-free, 0)
		info.LogicalDisks = append(info.LogicalDisks, LogicalDisk{
			DeviceID:     f.String("DeviceID", ""),
			VolumeName:   f.String("VolumeName", ""),
			FileSystem:   f.String("FileSystem", ""),
			TotalGB:      total,
			FreeGB:       free,
			UsedGB:       used,
			UsagePercent: Percent(used, total),
		})
	}
	return info, nil
}
