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

package sourcetest

import (
	"context"
	"sync"
	"time"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/display"
	"github.com/cirg-dev/cirg/pkg/source/host"
	"github.com/cirg-dev/cirg/pkg/source/process"
	"github.com/cirg-dev/cirg/pkg/source/systemd"
	"github.com/cirg-dev/cirg/pkg/source/wua"
)

// Display is a fixed display.Enumerator.
type Display struct {
	Modes []display.Mode
	Err   error
}

func (d Display) ActiveModes(ctx context.Context) ([]display.Mode, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return d.Modes, d.Err
}

// Command is a command.Runner returning canned output per tool name.
type Command struct {
	mu     sync.Mutex
	Output map[string]string
	Errs   map[string]error
	// Calls records the argument lists per tool.
	Calls map[string][][]string
}

// NewCommand returns an empty fake.
func NewCommand() *Command {
	return &Command{
		Output: make(map[string]string),
		Errs:   make(map[string]error),
		Calls:  make(map[string][][]string),
	}
}

func (c *Command) Run(ctx context.Context, name string, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls[name] = append(c.Calls[name], args)
	if err, ok := c.Errs[name]; ok {
		return "", err
	}
	out, ok := c.Output[name]
	if !ok {
		return "", cerrors.New(cerrors.ErrCodeSourceUnavailable, "command not found: "+name)
	}
	return out, nil
}

// Processes is a fixed process.Lister.
type Processes struct {
	Items []process.Info
	Err   error
}

func (p Processes) List(ctx context.Context) ([]process.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.Items, p.Err
}

// Host is a fixed host.Stats.
type Host struct {
	Mem     host.MemoryStats
	MemErr  error
	Boot    time.Time
	BootErr error
}

func (h Host) Memory(context.Context) (host.MemoryStats, error) { return h.Mem, h.MemErr }
func (h Host) BootTime(context.Context) (time.Time, error)     { return h.Boot, h.BootErr }

// Systemd is a fixed systemd.Lister.
type Systemd struct {
	Units []systemd.Unit
	Err   error
}

func (s Systemd) Services(context.Context) ([]systemd.Unit, error) { return s.Units, s.Err }

// Updates is a fixed wua.Searcher.
type Updates struct {
	Items []wua.Update
	Err   error
}

func (u Updates) Pending(context.Context) ([]wua.Update, error) { return u.Items, u.Err }

// Unavailable returns a SOURCE_UNAVAILABLE error for use as a fake's Err.
func Unavailable(msg string) error {
	return cerrors.New(cerrors.ErrCodeSourceUnavailable, msg)
}
