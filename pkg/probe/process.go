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
	"cmp"
	"context"
	"slices"

	"github.com/cirg-dev/cirg/pkg/defaults"
	"github.com/cirg-dev/cirg/pkg/source/process"
)

// ProcessInfo lists the processes with the largest working sets.
type ProcessInfo struct {
	Processes []ProcessEntry `json:"processes" yaml:"processes"`
}

// ProcessEntry is one running process.
type ProcessEntry struct {
	Name       string  `json:"name" yaml:"name"`
	PID        int32   `json:"pid" yaml:"pid"`
	CPUSeconds float64 `json:"cpuSeconds" yaml:"cpuSeconds"`
	MemoryMB   float64 `json:"memoryMb" yaml:"memoryMb"`
	ExePath    string  `json:"exePath" yaml:"exePath"`
	Command    string  `json:"command" yaml:"command"`
}

func (*ProcessInfo) Category() Category { return CategoryProcess }

// ProcessProbe returns the top Limit processes by working set. Ties keep
// enumeration order. Limit is clamped to 1..defaults.ProcessLimit; zero
// or negative selects the maximum.
type ProcessProbe struct {
	Process process.Lister
	Limit   int
}

func (p *ProcessProbe) Category() Category { return CategoryProcess }

func (p *ProcessProbe) Fetch(ctx context.Context) (Record, error) {
	procs, err := p.Process.List(ctx)
	if err != nil {
		return nil, unavailable(CategoryProcess, "process enumeration failed", err)
	}

	slices.SortStableFunc(procs, func(a, b process.Info) int {
		return cmp.Compare(b.WorkingSet, a.WorkingSet)
	})
	limit := p.Limit
	if limit <= 0 || limit > defaults.ProcessLimit {
		limit = defaults.ProcessLimit
	}
	if len(procs) > limit {
		procs = procs[:limit]
	}

	info := &ProcessInfo{Processes: make([]ProcessEntry, 0, len(procs))}
	for _, pr := range procs {
		info.Processes = append(info.Processes, ProcessEntry{
			Name:       pr.Name,
			PID:        pr.PID,
			CPUSeconds: pr.CPUSeconds,
			MemoryMB:   MiB(pr.WorkingSet),
			ExePath:    pr.Exe,
			Command:    pr.Command,
		})
	}
	return info, nil
}
