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

// StartupInfo lists programs launched at logon.
type StartupInfo struct {
	Items []StartupItem `json:"items" yaml:"items"`
}

// StartupItem is one Win32_StartupCommand row.
type StartupItem struct {
	Name     string `json:"name" yaml:"name"`
	Command  string `json:"command" yaml:"command"`
	Location string `json:"location" yaml:"location"`
	User     string `json:"user" yaml:"user"`
}

func (*StartupInfo) Category() Category { return CategoryStartup }

// StartupProbe reads Win32_StartupCommand.
type StartupProbe struct {
	WMI wmi.Querier
}

func (p *StartupProbe) Category() Category { return CategoryStartup }

func (p *StartupProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2, "SELECT Name, Command, Location, User FROM Win32_StartupCommand")
	if err != nil {
		return nil, unavailable(CategoryStartup, "startup command query failed", err)
	}

	info := &StartupInfo{Items: make([]StartupItem, 0, len(rows))}
	for _, row := range rows {
		f := variant.NewFields(row)
		item := StartupItem{
			Name:     f.RequireString("Name"),
			Command:  f.String("Command", ""),
			Location: f.String("Location", ""),
			User:     f.String("User", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping startup item", "error", err)
			continue
		}
		info.Items = append(info.Items, item)
	}
	return info, nil
}
