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

package host

import (
	"context"
	"time"

	gopshost "github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

// MemoryStats are the operating system's physical memory counters in bytes.
type MemoryStats struct {
	Total     uint64
	Available uint64
	Used      uint64
}

// Stats reads whole-machine counters.
type Stats interface {
	Memory(ctx context.Context) (MemoryStats, error)
	BootTime(ctx context.Context) (time.Time, error)
}

type stats struct{}

// New returns Stats backed by gopsutil.
func New() Stats {
	return stats{}
}

func (stats) Memory(ctx context.Context) (MemoryStats, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to read memory counters", err)
	}
	return MemoryStats{Total: vm.Total, Available: vm.Available, Used: vm.Used}, nil
}

func (stats) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := gopshost.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to read boot time", err)
	}
	return time.Unix(int64(secs), 0), nil
}
