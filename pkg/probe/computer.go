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
	"log/slog"
	"strconv"
	"time"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/host"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
	"github.com/cirg-dev/cirg/pkg/version"
)

const currentVersionKey = `SOFTWARE\Microsoft\Windows NT\CurrentVersion`

// ComputerInfo identifies the machine, its operating system and firmware.
type ComputerInfo struct {
	Name            string `json:"name" yaml:"name"`
	Domain          string `json:"domain" yaml:"domain"`
	Manufacturer    string `json:"manufacturer" yaml:"manufacturer"`
	SystemType      string `json:"systemType" yaml:"systemType"`
	OperatingSystem OSInfo `json:"operatingSystem" yaml:"operatingSystem"`
	BIOS            BIOS   `json:"bios" yaml:"bios"`
}

// OSInfo describes the installed operating system.
type OSInfo struct {
	Name          string    `json:"name" yaml:"name"`
	Version       string    `json:"version" yaml:"version"`
	Build         string    `json:"build" yaml:"build"`
	BuildLab      string    `json:"buildLab" yaml:"buildLab"`
	Architecture  string    `json:"architecture" yaml:"architecture"`
	InstallDate   time.Time `json:"installDate" yaml:"installDate"`
	LastBoot      time.Time `json:"lastBoot" yaml:"lastBoot"`
	UptimeSeconds uint64    `json:"uptimeSeconds" yaml:"uptimeSeconds"`
	Timezone      string    `json:"timezone" yaml:"timezone"`
}

// BIOS describes the system firmware.
type BIOS struct {
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Version      string `json:"version" yaml:"version"`
	ReleaseDate  string `json:"releaseDate" yaml:"releaseDate"`
}

func (*ComputerInfo) Category() Category { return CategoryComputer }

// ComputerProbe reads Win32_ComputerSystem, Win32_OperatingSystem and
// Win32_BIOS. The system and OS rows are primary; everything else degrades.
type ComputerProbe struct {
	WMI      wmi.Querier
	Registry registry.Store
	Host     host.Stats
	Now      func() time.Time
}

func (p *ComputerProbe) Category() Category { return CategoryComputer }

func (p *ComputerProbe) Fetch(ctx context.Context) (Record, error) {
	sys, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT Name, Domain, Workgroup, PartOfDomain, Manufacturer, SystemType FROM Win32_ComputerSystem")
	if err != nil {
		return nil, unavailable(CategoryComputer, "computer system query failed", err)
	}
	osRow, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT Caption, Version, OSArchitecture, InstallDate, LastBootUpTime FROM Win32_OperatingSystem")
	if err != nil {
		return nil, unavailable(CategoryComputer, "operating system query failed", err)
	}

	f := variant.NewFields(sys)
	info := &ComputerInfo{
		Name:         f.String("Name", ""),
		Manufacturer: f.String("Manufacturer", ""),
		SystemType:   f.String("SystemType", ""),
	}
	if f.Bool("PartOfDomain", false) {
		info.Domain = f.String("Domain", "")
	} else {
		info.Domain = fmt.Sprintf("%s (Workgroup)", f.String("Workgroup", "WORKGROUP"))
	}

	info.OperatingSystem = p.operatingSystem(ctx, osRow)
	info.BIOS = p.bios(ctx)
	return info, nil
}

func (p *ComputerProbe) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *ComputerProbe) operatingSystem(ctx context.Context, row variant.Record) OSInfo {
	f := variant.NewFields(row)
	osInfo := OSInfo{
		Name:         f.String("Caption", ""),
		Architecture: f.String("OSArchitecture", ""),
		Version:      f.String("Version", ""),
		BuildLab:     "N/A",
	}
	osInfo.Build = p.build(osInfo.Version)

	if v, err := registry.ReadString(p.Registry, registry.LocalMachine, currentVersionKey, "DisplayVersion"); err == nil && v != "" {
		osInfo.Version = v
	}
	if v, err := registry.ReadString(p.Registry, registry.LocalMachine, currentVersionKey, "BuildLabEx"); err == nil && v != "" {
		osInfo.BuildLab = v
	}

	if t, err := ParseWMITime(f.String("InstallDate", "")); err == nil {
		osInfo.InstallDate = t
	}
	boot, err := ParseWMITime(f.String("LastBootUpTime", ""))
	if err != nil && p.Host != nil {
		slog.Debug("boot time not in WMI, using host counters", "error", err)
		boot, err = p.Host.BootTime(ctx)
	}
	if err == nil {
		osInfo.LastBoot = boot
		if up := p.now().Sub(boot); up > 0 {
			osInfo.UptimeSeconds = uint64(up / time.Second)
		}
	}

	if tz, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2, "SELECT Caption FROM Win32_TimeZone"); err == nil {
		osInfo.Timezone = variant.GetOr(tz, "Caption", "")
	} else {
		slog.Debug("time zone query failed", "error", err)
	}
	return osInfo
}

// build returns the kernel version with the update revision appended, as
// in "10.0.22631.3007". Unparseable versions are returned unchanged.
func (p *ComputerProbe) build(kernel string) string {
	v, err := version.ParseVersion(kernel)
	if err != nil {
		return kernel
	}
	ubr, err := registry.ReadInteger(p.Registry, registry.LocalMachine, currentVersionKey, "UBR")
	if err != nil || v.Precision != 3 {
		return v.String()
	}
	return v.WithRevision(int(ubr)).String()
}

func (p *ComputerProbe) bios(ctx context.Context) BIOS {
	row, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT Manufacturer, SMBIOSBIOSVersion, ReleaseDate FROM Win32_BIOS")
	if err != nil {
		slog.Debug("bios query failed", "error", err)
		return BIOS{}
	}
	f := variant.NewFields(row)
	b := BIOS{
		Manufacturer: f.String("Manufacturer", ""),
		Version:      f.String("SMBIOSBIOSVersion", ""),
	}
	if t, err := ParseWMIDate(f.String("ReleaseDate", "")); err == nil {
		b.ReleaseDate = t.Format(time.DateOnly)
	}
	return b
}

// ParseWMITime parses a CIM datetime such as "20240115083000.000000+060".
// The trailing sign and three digits are the offset from UTC in minutes;
// without them the time is taken as UTC.
func ParseWMITime(s string) (time.Time, error) {
	if len(s) < 14 {
		return time.Time{}, cerrors.New(cerrors.ErrCodeParseFailure, fmt.Sprintf("datetime too short: %q", s))
	}
	loc := time.UTC
	if len(s) >= 25 && (s[21] == '+' || s[21] == '-') {
		if mins, err := strconv.Atoi(s[22:25]); err == nil {
			if s[21] == '-' {
				mins = -mins
			}
			loc = time.FixedZone("", mins*60)
		}
	}
	t, err := time.ParseInLocation("20060102150405", s[:14], loc)
	if err != nil {
		return time.Time{}, cerrors.Wrap(cerrors.ErrCodeParseFailure, "invalid datetime", err)
	}
	return t, nil
}

// ParseWMIDate parses the date part (first eight characters) of a CIM datetime.
func ParseWMIDate(s string) (time.Time, error) {
	if len(s) < 8 {
		return time.Time{}, cerrors.New(cerrors.ErrCodeParseFailure, fmt.Sprintf("date too short: %q", s))
	}
	t, err := time.Parse("20060102", s[:8])
	if err != nil {
		return time.Time{}, cerrors.Wrap(cerrors.ErrCodeParseFailure, "invalid date", err)
	}
	return t, nil
}
