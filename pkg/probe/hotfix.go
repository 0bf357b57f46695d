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

	"github.com/cirg-dev/cirg/pkg/defaults"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// HotfixInfo lists installed quick-fix updates.
type HotfixInfo struct {
	Hotfixes []Hotfix `json:"hotfixes" yaml:"hotfixes"`
}

// Hotfix is one Win32_QuickFixEngineering row.
type Hotfix struct {
	HotfixID    string `json:"hotfixId" yaml:"hotfixId"`
	Description string `json:"description" yaml:"description"`
	InstalledBy string `json:"installedBy" yaml:"installedBy"`
	InstalledOn string `json:"installedOn" yaml:"installedOn"`
}

func (*HotfixInfo) Category() Category { return CategoryHotfix }

// HotfixProbe reads the first Limit Win32_QuickFixEngineering rows in
// enumeration order. A non-positive Limit selects defaults.HotfixLimit.
type HotfixProbe struct {
	WMI   wmi.Querier
	Limit int
}

func (p *HotfixProbe) Category() Category { return CategoryHotfix }

func (p *HotfixProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT HotFixID, Description, InstalledBy, InstalledOn FROM Win32_QuickFixEngineering")
	if err != nil {
		return nil, unavailable(CategoryHotfix, "quick fix query failed", err)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = defaults.HotfixLimit
	}

	info := &HotfixInfo{Hotfixes: []Hotfix{}}
	for _, row := range rows {
		if len(info.Hotfixes) == limit {
			break
		}
		f := variant.NewFields(row)
		h := Hotfix{
			HotfixID:    f.RequireString("HotFixID"),
			Description: f.String("Description", ""),
			InstalledBy: f.String("InstalledBy", ""),
			InstalledOn: f.String("InstalledOn", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping hotfix", "error", err)
			continue
		}
		info.Hotfixes = append(info.Hotfixes, h)
	}
	return info, nil
}
