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
	"strings"

	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

// NetworkInfo lists IP-enabled adapters.
type NetworkInfo struct {
	Adapters []NetworkAdapter `json:"adapters" yaml:"adapters"`
}

// NetworkAdapter joins an adapter's configuration with its link properties.
type NetworkAdapter struct {
	Name          string   `json:"name" yaml:"name"`
	Description   string   `json:"description" yaml:"description"`
	MACAddress    string   `json:"macAddress" yaml:"macAddress"`
	Speed         string   `json:"speed" yaml:"speed"`
	IPv4Addresses []string `json:"ipv4Addresses" yaml:"ipv4Addresses"`
	IPv6Addresses []string `json:"ipv6Addresses" yaml:"ipv6Addresses"`
	DNSServers    []string `json:"dnsServers" yaml:"dnsServers"`
	DHCPEnabled   bool     `json:"dhcpEnabled" yaml:"dhcpEnabled"`
	Gateway       string   `json:"gateway" yaml:"gateway"`
}

func (*NetworkInfo) Category() Category { return CategoryNetwork }

// FormatSpeed renders a link speed in bits per second.
func FormatSpeed(bps uint64) string {
	switch {
	case bps >= 1_000_000_000:
		return fmt.Sprintf("%.1f Gbps", float64(bps)/1e9)
	case bps >= 1_000_000:
		return fmt.Sprintf("%.0f Mbps", float64(bps)/1e6)
	case bps >= 1_000:
		return fmt.Sprintf("%.0f Kbps", float64(bps)/1e3)
	case bps > 0:
		return fmt.Sprintf("%d bps", bps)
	default:
		return "N/A"
	}
}

type netLink struct {
	name  string
	speed uint64
	mac   string
}

// NetworkProbe reads Win32_NetworkAdapterConfiguration and joins
// Win32_NetworkAdapter by Index.
type NetworkProbe struct {
	WMI wmi.Querier
}

func (p *NetworkProbe) Category() Category { return CategoryNetwork }

func (p *NetworkProbe) Fetch(ctx context.Context) (Record, error) {
	links := make(map[uint32]netLink)
	rows, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Index, Name, Speed, NetConnectionID, MACAddress FROM Win32_NetworkAdapter WHERE NetEnabled=True")
	if err != nil {
		slog.Debug("network adapter query failed", "error", err)
	}
	for _, row := range rows {
		idx, err := row.Uint32("Index")
		if err != nil {
			slog.Debug("skipping adapter without index", "error", err)
			continue
		}
		f := variant.NewFields(row)
		name := f.String("NetConnectionID", "")
		if name == "" {
			name = f.String("Name", "")
		}
		links[idx] = netLink{name: name, speed: f.Uint64("Speed", 0), mac: f.String("MACAddress", "")}
	}

	configs, err := p.WMI.Query(ctx, wmi.NamespaceCIMV2,
		"SELECT Index, Description, MACAddress, IPAddress, DNSServerSearchOrder, DefaultIPGateway, DHCPEnabled "+
			"FROM Win32_NetworkAdapterConfiguration WHERE IPEnabled=True")
	if err != nil {
		return nil, unavailable(CategoryNetwork, "adapter configuration query failed", err)
	}

	info := &NetworkInfo{Adapters: make([]NetworkAdapter, 0, len(configs))}
	for _, row := range configs {
		f := variant.NewFields(row)
		link := links[f.Uint32("Index", 0)]

		a := NetworkAdapter{
			Name:          link.name,
			Description:   f.String("Description", ""),
			MACAddress:    link.mac,
			Speed:         FormatSpeed(link.speed),
			IPv4Addresses: []string{},
			IPv6Addresses: []string{},
			DNSServers:    f.Strings("DNSServerSearchOrder"),
			DHCPEnabled:   f.Bool("DHCPEnabled", false),
		}
		if a.MACAddress == "" {
			a.MACAddress = f.String("MACAddress", "")
		}
		if a.DNSServers == nil {
			a.DNSServers = []string{}
		}
		for _, ip := range f.Strings("IPAddress") {
			if strings.Contains(ip, ":") {
				a.IPv6Addresses = append(a.IPv6Addresses, ip)
			} else {
				a.IPv4Addresses = append(a.IPv4Addresses, ip)
			}
		}
		if gw := f.Strings("DefaultIPGateway"); len(gw) > 0 {
			a.Gateway = gw[0]
		}
		info.Adapters = append(info.Adapters, a)
	}
	return info, nil
}
