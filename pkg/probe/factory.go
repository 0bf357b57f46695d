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
	"fmt"
	"slices"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

// Factory creates probes with their dependencies.
// This interface enables dependency injection for testing.
type Factory interface {
	CreateProbes() []Probe
}

// DefaultFactory creates probes over a set of sources.
type DefaultFactory struct {
	Sources  Sources
	Options  Options
	Disabled []Category
}

// NewDefaultFactory creates a factory over the given sources with default
// options.
func NewDefaultFactory(src Sources) *DefaultFactory {
	return &DefaultFactory{
		Sources: src,
		Options: DefaultOptions(),
	}
}

// CreateProbes returns one probe per enabled category in snapshot order.
func (f *DefaultFactory) CreateProbes() []Probe {
	out := make([]Probe, 0, len(Categories))
	for _, c := range Categories {
		if slices.Contains(f.Disabled, c) {
			continue
		}
		p, err := f.Create(c)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Create returns the probe for category c.
func (f *DefaultFactory) Create(c Category) (Probe, error) {
	s, o := f.Sources, f.Options
	switch c {
	case CategoryComputer:
		return &ComputerProbe{WMI: s.WMI, Registry: s.Registry, Host: s.Host, Now: o.Now}, nil
	case CategoryCPU:
		return &CPUProbe{WMI: s.WMI}, nil
	case CategoryGPU:
		return &GPUProbe{WMI: s.WMI, Registry: s.Registry}, nil
	case CategoryMemory:
		return &MemoryProbe{WMI: s.WMI, Host: s.Host}, nil
	case CategoryDisk:
		return &DiskProbe{WMI: s.WMI}, nil
	case CategoryNetwork:
		return &NetworkProbe{WMI: s.WMI}, nil
	case CategoryMonitor:
		return &MonitorProbe{WMI: s.WMI, Display: s.Display}, nil
	case CategoryAudio:
		return &AudioProbe{WMI: s.WMI}, nil
	case CategoryUSB:
		return &USBProbe{WMI: s.WMI}, nil
	case CategoryPower:
		return &PowerProbe{Command: s.Command, WMI: s.WMI}, nil
	case CategorySecurity:
		return &SecurityProbe{WMI: s.WMI, Registry: s.Registry, Updates: s.Updates}, nil
	case CategoryProcess:
		return &ProcessProbe{Process: s.Process, Limit: o.ProcessLimit}, nil
	case CategoryService:
		return &ServiceProbe{WMI: s.WMI, Systemd: s.Systemd}, nil
	case CategoryStartup:
		return &StartupProbe{WMI: s.WMI}, nil
	case CategorySoftware:
		return &SoftwareProbe{Registry: s.Registry}, nil
	case CategoryHotfix:
		return &HotfixProbe{WMI: s.WMI, Limit: o.HotfixLimit}, nil
	case CategoryUsersGroups:
		return &UsersGroupsProbe{WMI: s.WMI}, nil
	case CategoryEnvironment:
		return &EnvironmentProbe{Registry: s.Registry}, nil
	case CategoryEventLog:
		return &EventLogProbe{
			Command:   s.Command,
			Window:    o.EventLogWindow,
			MaxEvents: o.EventLogMaxEvents,
			Now:       o.Now,
		}, nil
	case CategoryScheduledTask:
		return &ScheduledTaskProbe{Command: s.Command}, nil
	default:
		return nil, cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("no probe for category %q", c))
	}
}
