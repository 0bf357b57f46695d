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

	"github.com/cirg-dev/cirg/pkg/source/systemd"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// ServiceInfo lists installed services.
type ServiceInfo struct {
	Services []Service `json:"services" yaml:"services"`
	Source   string    `json:"source" yaml:"source"`
}

// Service is one service.
type Service struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"displayName" yaml:"displayName"`
	State       string `json:"state" yaml:"state"`
	StartMode   string `json:"startMode" yaml:"startMode"`
	Account     string `json:"account" yaml:"account"`
	Path        string `json:"path" yaml:"path"`
	Description string `json:"description" yaml:"description"`
}

func (*ServiceInfo) Category() Category { return CategoryService }

// ServiceProbe reads Win32_Service. When WMI is unavailable and a systemd
// lister is configured, unit files are listed instead.
type ServiceProbe struct {
	WMI     wmi.Querier
	Systemd systemd.Lister
}

func (p *ServiceProbe) Category() Category { return CategoryService }

func (p *ServiceProbe) Fetch(ctx context.Context) (Record, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Name, DisplayName, State, StartMode, StartName, PathName, Description FROM Win32_Service")
	if err != nil {
		if p.Systemd == nil {
			return nil, unavailable(CategoryService, "service query failed", err)
		}
		slog.Debug("service query failed, listing systemd units", "error", err)
		return p.fromSystemd(ctx, err)
	}

	info := &ServiceInfo{Services: make([]Service, 0, len(rows)), Source: SourceWMI}
	for _, row := range rows {
		f := variant.NewFields(row)
		s := Service{
			Name:        f.RequireString("Name"),
			DisplayName: f.String("DisplayName", ""),
			State:       f.String("State", ""),
			StartMode:   f.String("StartMode", ""),
			Account:     f.String("StartName", ""),
			Path:        f.String("PathName", ""),
			Description: f.String("Description", ""),
		}
		if err := f.Err(); err != nil {
			slog.Debug("skipping service", "error", err)
			continue
		}
		info.Services = append(info.Services, s)
	}
	return info, nil
}

func (p *ServiceProbe) fromSystemd(ctx context.Context, wmiErr error) (Record, error) {
	units, err := p.Systemd.Services(ctx)
	if err != nil {
		slog.Debug("systemd units unavailable", "error", err)
		return nil, unavailable(CategoryService, "service query failed", wmiErr)
	}
	info := &ServiceInfo{Services: make([]Service, 0, len(units)), Source: SourceSystemd}
	for _, u := range units {
		info.Services = append(info.Services, Service{
			Name:        u.Name,
			DisplayName: u.Description,
			State:       u.ActiveState,
			StartMode:   u.UnitFileState,
			Account:     u.User,
			Path:        u.FragmentPath,
			Description: u.Description,
		})
	}
	return info, nil
}
