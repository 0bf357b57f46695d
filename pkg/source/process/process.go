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

package process

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gopsproc "github.com/shirou/gopsutil/v3/process"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

// Info describes one running process.
type Info struct {
	PID        int32
	Name       string
	Exe        string
	Command    string
	WorkingSet uint64
	CPUSeconds float64
	Started    time.Time
}

// Lister enumerates running processes.
type Lister interface {
	List(ctx context.Context) ([]Info, error)
}

type lister struct{}

// New returns a Lister backed by gopsutil.
func New() Lister {
	return lister{}
}

// List returns every process that could be inspected. Processes that exit
// during enumeration or deny access to their memory counters are skipped;
// unreadable optional attributes are left empty.
func (lister) List(ctx context.Context) ([]Info, error) {
	procs, err := gopsproc.ProcessesWithContext(ctx)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to enumerate processes", err)
	}

	out := make([]Info, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		mi, err := p.MemoryInfoWithContext(ctx)
		if err != nil {
			slog.Debug("skipping process without memory info", "pid", p.Pid, "error", err)
			continue
		}

		info := Info{PID: p.Pid, WorkingSet: mi.RSS}
		info.Name, _ = p.NameWithContext(ctx)
		info.Exe, _ = p.ExeWithContext(ctx)
		if args, err := p.CmdlineSliceWithContext(ctx); err == nil {
			info.Command = strings.Join(args, " ")
		}
		if times, err := p.TimesWithContext(ctx); err == nil {
			info.CPUSeconds = times.User + times.System
		}
		if ms, err := p.CreateTimeWithContext(ctx); err == nil && ms > 0 {
			info.Started = time.UnixMilli(ms)
		}
		out = append(out, info)
	}
	return out, nil
}
