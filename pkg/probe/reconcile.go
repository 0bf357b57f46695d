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
	"strconv"
	"strings"

	"github.com/cirg-dev/cirg/pkg/source/display"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// Disk types.
const (
	DiskTypeHDD     = "HDD"
	DiskTypeSSD     = "SSD"
	DiskTypeSCM     = "SCM"
	DiskTypeUnknown = "Unknown"
)

// Where a reconciled value came from.
const (
	MatchSerial = "serial"
	MatchIndex  = "index"
	MatchModel  = "model"

	SourceWMI      = "wmi"
	SourceRegistry = "registry"
	SourceFirmware = "firmware"
	SourceWUA      = "wua"
	SourceSystemd  = "systemd"
)

// mediaTypeName maps MSFT_PhysicalDisk.MediaType.
func mediaTypeName(code uint16) string {
	switch code {
	case 3:
		return DiskTypeHDD
	case 4:
		return DiskTypeSSD
	case 5:
		return DiskTypeSCM
	default:
		return DiskTypeUnknown
	}
}

// diskTypes is the storage-namespace view of physical disks, keyed by
// trimmed serial number and by device index.
type diskTypes struct {
	bySerial map[string]string
	byIndex  map[uint32]string
}

func newDiskTypes(rows []variant.Record) diskTypes {
	d := diskTypes{
		bySerial: make(map[string]string),
		byIndex:  make(map[uint32]string),
	}
	for _, row := range rows {
		f := variant.NewFields(row)
		typ := mediaTypeName(f.Uint16("MediaType", 0))

		if serial := strings.TrimSpace(f.String("SerialNumber", "")); serial != "" {
			d.bySerial[serial] = typ
		}
		if id, err := strconv.ParseUint(strings.TrimSpace(f.String("DeviceId", "")), 10, 32); err == nil {
			d.byIndex[uint32(id)] = typ
		}
	}
	return d
}

// resolve returns the disk type for a drive and which key matched. Serial
// wins over index, index wins over the model heuristic; a lower-precedence
// key is consulted only when every higher one is absent.
func (d diskTypes) resolve(serial string, index uint32, hasIndex bool, model string) (string, string) {
	if serial = strings.TrimSpace(serial); serial != "" {
		if typ, ok := d.bySerial[serial]; ok {
			return typ, MatchSerial
		}
	}
	if hasIndex {
		if typ, ok := d.byIndex[index]; ok {
			return typ, MatchIndex
		}
	}
	return guessDiskType(model), MatchModel
}

func guessDiskType(model string) string {
	upper := strings.ToUpper(model)
	for _, hint := range []string{"SSD", "NVME", "NVM"} {
		if strings.Contains(upper, hint) {
			return DiskTypeSSD
		}
	}
	return DiskTypeUnknown
}

// displayClassKey is the device class of display adapters.
const displayClassKey = `SYSTEM\CurrentControlSet\Control\Class\{4d36e968-e325-11ce-bfc1-08002be10318}`

// adapterMemory reads each display adapter driver's 64-bit memory size,
// keyed by its exact driver description. Adapters without a nonzero size
// are left out.
func adapterMemory(store registry.Store) map[string]uint64 {
	out := make(map[string]uint64)
	class, err := store.Open(registry.LocalMachine, displayClassKey)
	if err != nil {
		slog.Debug("display class key unavailable", "error", err)
		return out
	}
	defer class.Close()

	subs, err := class.SubKeyNames()
	if err != nil {
		return out
	}
	for _, name := range subs {
		sub, err := class.OpenSubKey(name)
		if err != nil {
			continue
		}
		desc, derr := sub.String("DriverDesc")
		size, serr := sub.Integer("HardwareInformation.qwMemorySize")
		sub.Close()
		if derr != nil || serr != nil || size == 0 {
			continue
		}
		out[desc] = size
	}
	return out
}

// resolveAdapterMemory prefers the registry size over the 32-bit WMI field.
func resolveAdapterMemory(regSizes map[string]uint64, name string, wmiBytes uint64) (uint64, string) {
	if size, ok := regSizes[name]; ok && size > 0 {
		return size, SourceRegistry
	}
	return wmiBytes, SourceWMI
}

// correlateModes pairs n monitors with active display modes by position.
// Monitors past the end of modes get the zero Mode, which renders as "N/A"
// with refresh 0.
func correlateModes(n int, modes []display.Mode) []display.Mode {
	out := make([]display.Mode, n)
	copy(out, modes)
	return out
}

// step is one source in a fallback chain.
type step[T any] struct {
	source string
	fetch  func(context.Context) (T, error)
}

// firstOf tries each step in order and returns the first success with the
// name of the source that produced it. Failures are degraded successes: they
// are logged at debug and the next step is tried.
func firstOf[T any](ctx context.Context, what string, steps ...step[T]) (T, string, bool) {
	for _, s := range steps {
		if ctx.Err() != nil {
			break
		}
		v, err := s.fetch(ctx)
		if err == nil {
			return v, s.source, true
		}
		slog.Debug("fallback source failed", "status", what, "source", s.source, "error", err)
	}
	var zero T
	return zero, "", false
}
