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
	"strconv"
	"strings"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/parser"
	"github.com/cirg-dev/cirg/pkg/source/command"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// runTimeUnknown is reported by Win32_Battery while on AC power.
const runTimeUnknown = 71582788

// PowerInfo holds the active power plan and the first battery, if any.
type PowerInfo struct {
	Plan    string       `json:"plan" yaml:"plan"`
	Battery *BatteryInfo `json:"battery" yaml:"battery"`
}

// BatteryInfo describes a battery. Capacities are "Unknown" when the
// firmware does not report them.
type BatteryInfo struct {
	Name               string `json:"name" yaml:"name"`
	Status             string `json:"status" yaml:"status"`
	ChargePercent      uint16 `json:"chargePercent" yaml:"chargePercent"`
	RunTimeMinutes     uint32 `json:"runTimeMinutes" yaml:"runTimeMinutes"`
	DesignCapacity     string `json:"designCapacity" yaml:"designCapacity"`
	FullChargeCapacity string `json:"fullChargeCapacity" yaml:"fullChargeCapacity"`
	Chemistry          string `json:"chemistry" yaml:"chemistry"`
}

func (*PowerInfo) Category() Category { return CategoryPower }

// BatteryChemistry maps Win32_Battery.Chemistry.
func BatteryChemistry(code uint16) string {
	switch code {
	case 2:
		return "Unknown"
	case 3:
		return "Lead Acid"
	case 4:
		return "Nickel Cadmium"
	case 5:
		return "Nickel Metal Hydride"
	case 6:
		return "Lithium-ion"
	default:
		return "Other"
	}
}

// PowerProbe runs powercfg for the active scheme and reads Win32_Battery.
type PowerProbe struct {
	Command command.Runner
	WMI     wmi.Querier
}

func (p *PowerProbe) Category() Category { return CategoryPower }

func (p *PowerProbe) Fetch(ctx context.Context) (Record, error) {
	out, err := p.Command.Run(ctx, "powercfg", "/getactivescheme")
	if err != nil {
		return nil, unavailable(CategoryPower, "powercfg failed", err)
	}
	plan, err := ParseActiveScheme(out)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeParseFailure, "power: unreadable powercfg output", err)
	}

	info := &PowerInfo{Plan: plan}
	if p.WMI != nil {
		info.Battery = p.battery(ctx)
	}
	return info, nil
}

// ParseActiveScheme extracts the plan name from the parenthesized suffix of
// the "Power Scheme GUID:" line, or "Unknown".
func ParseActiveScheme(out string) (string, error) {
	kv, err := parser.NewParser(parser.WithKVDelimiter(":")).Map([]byte(out))
	if err != nil {
		return "", err
	}
	line, ok := kv["Power Scheme GUID"]
	if !ok {
		return "Unknown", nil
	}
	start, end := strings.LastIndex(line, "("), strings.LastIndex(line, ")")
	if start >= 0 && start < end {
		return line[start+1 : end], nil
	}
	return "Unknown", nil
}

func (p *PowerProbe) battery(ctx context.Context) *BatteryInfo {
	row, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceCIMV2,
		"SELECT Name, Status, EstimatedChargeRemaining, EstimatedRunTime, DesignCapacity, "+
			"FullChargeCapacity, Chemistry FROM Win32_Battery")
	if err != nil {
		slog.Debug("no battery", "error", err)
		return nil
	}

	f := variant.NewFields(row)
	b := &BatteryInfo{
		Name:               f.RequireString("Name"),
		Status:             f.RequireString("Status"),
		ChargePercent:      uint16(f.RequireUint32("EstimatedChargeRemaining")),
		RunTimeMinutes:     f.RequireUint32("EstimatedRunTime"),
		DesignCapacity:     "Unknown",
		FullChargeCapacity: "Unknown",
		Chemistry:          BatteryChemistry(f.Uint16("Chemistry", 0)),
	}
	if err := f.Err(); err != nil {
		slog.Debug("incomplete battery row", "error", err)
		return nil
	}
	if b.RunTimeMinutes == runTimeUnknown {
		b.RunTimeMinutes = 0
	}
	if v, err := row.Uint32("DesignCapacity"); err == nil {
		b.DesignCapacity = strconv.FormatUint(uint64(v), 10)
	}
	if v, err := row.Uint32("FullChargeCapacity"); err == nil {
		b.FullChargeCapacity = strconv.FormatUint(uint64(v), 10)
	}
	return b
}
