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

// UsersGroupsInfo lists local accounts and groups.
type UsersGroupsInfo struct {
	Users  []LocalUser  `json:"users" yaml:"users"`
	Groups []LocalGroup `json:"groups" yaml:"groups"`
}

// LocalUser is one local account.
type LocalUser struct {
	Name        string `json:"name" yaml:"name"`
	Disabled    bool   `json:"disabled" yaml:"disabled"`
	Description string `json:"description" yaml:"description"`
}

// LocalGroup is one local group and its members.
type LocalGroup struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Members     []string `json:"members" yaml:"members"`
}

func (*UsersGroupsInfo) Category() Category { return CategoryUsersGroups }

// UsersGroupsProbe reads Win32_UserAccount and Win32_Group for local
// accounts. Group rows and membership are optional.
type UsersGroupsProbe struct {
	WMI wmi.Querier
}

func (p *UsersGroupsProbe) Category() Category { return CategoryUsersGroups }

func (p *UsersGroupsProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, Disabled, Description FROM Win32_UserAccount WHERE LocalAccount=True")
	if err != nil {
		return nil, unavailable(CategoryUsersGroups, "user account query failed", err)
	}

	info := &UsersGroupsInfo{
		Users:  make([]LocalUser, 0, len(rows)),
		Groups: []LocalGroup{},
	}
	for _, row := range rows {
		f := variant.NewFields(row)
		u := LocalUser{
			Name:        f.RequireString("Name"),
			Disabled:    f.Bool("Disabled", false),
			Description: f.String("Description", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping user account", "error", err)
			continue
		}
		info.Users = append(info.Users, u)
	}

	groups, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, Description FROM Win32_Group WHERE LocalAccount=True")
	if err != nil {
		slog.Debug("group query failed", "error", err)
		return info, nil
	}
	members := p.membership(ctx)
	for _, row := range groups {
		f := variant.NewFields(row)
		name := f.RequireString("Name")
		if f.Err() != nil {
			continue
		}
		m := members[name]
		if m == nil {
			m = []string{}
		}
		info.Groups = append(info.Groups, LocalGroup{
			Name:        name,
			Description: f.String("Description", ""),
			Members:     m,
		})
	}
	return info, nil
}

func (p *UsersGroupsProbe) membership(ctx context.Context) map[string][]string {
	out := make(map[string][]string)
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2, "SELECT GroupComponent, PartComponent FROM Win32_GroupUser")
	if err != nil {
		slog.Debug("group membership query failed", "error", err)
		return out
	}
	for _, row := range rows {
		g, gerr := row.String("GroupComponent")
		m, merr := row.String("PartComponent")
		if gerr != nil || merr != nil {
			continue
		}
		group, member := objectName(g), objectName(m)
		if group == "" || member == "" {
			continue
		}
		out[group] = append(out[group], member)
	}
	return out
}

// objectName extracts the last Name="..." key from a WMI object path such
// as `\\HOST\root\cimv2:Win32_Group.Domain="HOST",Name="Administrators"`.
func objectName(path string) string {
	const key = `Name="`
	i := strings.LastIndex(path, key)
	if i < 0 {
		return ""
	}
	rest := path[i+len(key):]
	name, _, ok := strings.Cut(rest, `"`)
	if !ok {
		return ""
	}
	return name
}
