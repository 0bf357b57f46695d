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
	"fmt"
	"strings"
	"time"

	"github.com/cirg-dev/cirg/pkg/defaults"
	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/command"
	"github.com/cirg-dev/cirg/pkg/source/display"
	"github.com/cirg-dev/cirg/pkg/source/host"
	"github.com/cirg-dev/cirg/pkg/source/process"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/systemd"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/source/wua"
)

// Category names one inventory category.
type Category string

const (
	CategoryComputer      Category = "computer"
	CategoryCPU           Category = "cpu"
	CategoryGPU           Category = "gpu"
	CategoryMemory        Category = "memory"
	CategoryDisk          Category = "disk"
	CategoryNetwork       Category = "network"
	CategoryMonitor       Category = "monitor"
	CategoryAudio         Category = "audio"
	CategoryUSB           Category = "usb"
	CategoryPower         Category = "power"
	CategorySecurity      Category = "security"
	CategoryProcess       Category = "process"
	CategoryService       Category = "service"
	CategoryStartup       Category = "startup"
	CategorySoftware      Category = "software"
	CategoryHotfix        Category = "hotfix"
	CategoryUsersGroups   Category = "usersGroups"
	CategoryEnvironment   Category = "environment"
	CategoryEventLog      Category = "eventLog"
	CategoryScheduledTask Category = "scheduledTask"
)

// Categories lists every category in snapshot order.
var Categories = []Category{
	CategoryComputer,
	CategoryCPU,
	CategoryGPU,
	CategoryMemory,
	CategoryDisk,
	CategoryNetwork,
	CategoryMonitor,
	CategoryAudio,
	CategoryUSB,
	CategoryPower,
	CategorySecurity,
	CategoryProcess,
	CategoryService,
	CategoryStartup,
	CategorySoftware,
	CategoryHotfix,
	CategoryUsersGroups,
	CategoryEnvironment,
	CategoryEventLog,
	CategoryScheduledTask,
}

// String returns the category name.
func (c Category) String() string {
	return string(c)
}

// Index returns the position of c in Categories, or -1.
func (c Category) Index() int {
	for i, k := range Categories {
		if k == c {
			return i
		}
	}
	return -1
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), strings.TrimSpace(s)) {
			return c, nil
		}
	}
	return "", cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("unknown category %q", s))
}

// Record is the normalized result of one probe.
type Record interface {
	Category() Category
}

// Probe fetches one inventory category. Fetch is read-only and fails only
// when the category's primary source cannot be queried at all.
type Probe interface {
	Category() Category
	Fetch(ctx context.Context) (Record, error)
}

// Sources bundles the backing sources probes read from.
type Sources struct {
	WMI      wmi.Querier
	Registry registry.Store
	Display  display.Enumerator
	Command  command.Runner
	Process  process.Lister
	Host     host.Stats
	Systemd  systemd.Lister
	Updates  wua.Searcher
}

// DefaultSources returns the platform sources. Commands are bounded by
// commandTimeout.
func DefaultSources(commandTimeout time.Duration) Sources {
	return Sources{
		WMI:      wmi.New(),
		Registry: registry.New(),
		Display:  display.New(),
		Command:  command.NewRunner(commandTimeout),
		Process:  process.New(),
		Host:     host.New(),
		Systemd:  systemd.New(),
		Updates:  wua.New(),
	}
}

// Options tune probe-local policies.
type Options struct {
	EventLogWindow    time.Duration
	EventLogMaxEvents int
	ProcessLimit      int
	HotfixLimit       int
	// Now is the clock used for uptime and event windows.
	Now func() time.Time
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		EventLogWindow:    defaults.EventLogWindow,
		EventLogMaxEvents: defaults.EventLogMaxEvents,
		ProcessLimit:      defaults.ProcessLimit,
		HotfixLimit:       defaults.HotfixLimit,
		Now:               time.Now,
	}
}

// unavailable wraps a primary-source failure.
func unavailable(c Category, what string, err error) error {
	return cerrors.WrapWithContext(cerrors.ErrCodeSourceUnavailable,
		fmt.Sprintf("%s: %s", c, what), err,
		map[string]any{"category": string(c)})
}
