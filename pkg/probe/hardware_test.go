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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/display"
	"github.com/cirg-dev/cirg/pkg/source/host"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/sourcetest"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/variant"
)

func bytesOf(s string) variant.Value {
	vals := make([]variant.Value, 0, len(s)+2)
	for _, b := range []byte(s) {
		vals = append(vals, variant.Uint16(uint16(b)))
	}
	return variant.Array(append(vals, variant.Uint16(0), variant.Uint16(0))...)
}

func TestParseWMITime(t *testing.T) {
	got, err := ParseWMITime("20240115083000.000000+060")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 7, 30, 0, 0, time.UTC)))

	got, err = ParseWMITime("20240115083000.000000-300")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC)))

	got, err = ParseWMITime("20240115083000")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC)))

	_, err = ParseWMITime("2024")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeParseFailure))

	_, err = ParseWMITime("2024AB15083000.000000+000")
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeParseFailure))
}

func TestComputerProbe(t *testing.T) {
	w := sourcetest.NewWMI().
		Add(wmi.NamespaceCIMV2, "Win32_ComputerSystem", variant.Record{
			"Name":         variant.Str("WS-01"),
			"PartOfDomain": variant.Bool(false),
			"Workgroup":    variant.Str("HOME"),
			"Manufacturer": variant.Str("Contoso"),
			"SystemType":   variant.Str("x64-based PC"),
		}).
		Add(wmi.NamespaceCIMV2, "Win32_OperatingSystem", variant.Record{
			"Caption":        variant.Str("Microsoft Windows 11 Pro"),
			"Version":        variant.Str("10.0.22631"),
			"OSArchitecture": variant.Str("64-bit"),
			"InstallDate":    variant.Str("20230301120000.000000+000"),
			"LastBootUpTime": variant.Str("20240115083000.000000+060"),
		}).
		Add(wmi.NamespaceCIMV2, "Win32_TimeZone", variant.Record{"Caption": variant.Str("(UTC+01:00) Amsterdam")}).
		Add(wmi.NamespaceCIMV2, "Win32_BIOS", variant.Record{
			"Manufacturer":      variant.Str("AMI"),
			"SMBIOSBIOSVersion": variant.Str("1.2.3"),
			"ReleaseDate":       variant.Str("20221005000000.000000+000"),
		})
	reg := sourcetest.NewRegistry().
		Set(registry.LocalMachine, currentVersionKey, "DisplayVersion", "23H2").
		Set(registry.LocalMachine, currentVersionKey, "UBR", uint32(3007))
	now := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	p := &ComputerProbe{WMI: w, Registry: reg, Now: func() time.Time { return now }}
	rec, err := p.Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*ComputerInfo)

	assert.Equal(t, "WS-01", info.Name)
	assert.Equal(t, "HOME (Workgroup)", info.Domain)
	assert.Equal(t, "23H2", info.OperatingSystem.Version)
	assert.Equal(t, "10.0.22631.3007", info.OperatingSystem.Build)
	assert.Equal(t, "N/A", info.OperatingSystem.BuildLab)
	assert.Equal(t, uint64(7200), info.OperatingSystem.UptimeSeconds)
	assert.Equal(t, "(UTC+01:00) Amsterdam", info.OperatingSystem.Timezone)
	assert.Equal(t, BIOS{Manufacturer: "AMI", Version: "1.2.3", ReleaseDate: "2022-10-05"}, info.BIOS)
	assert.Equal(t, CategoryComputer, info.Category())
}

func TestComputerProbe_DomainAndHostBootFallback(t *testing.T) {
	boot := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	w := sourcetest.NewWMI().
		Add(wmi.NamespaceCIMV2, "Win32_ComputerSystem", variant.Record{
			"Name":         variant.Str("WS-02"),
			"PartOfDomain": variant.Bool(true),
			"Domain":       variant.Str("corp.example.com"),
		}).
		Add(wmi.NamespaceCIMV2, "Win32_OperatingSystem", variant.Record{"Caption": variant.Str("Windows")})

	p := &ComputerProbe{
		WMI:      w,
		Registry: sourcetest.NewRegistry(),
		Host:     sourcetest.Host{Boot: boot},
		Now:      func() time.Time { return boot.Add(time.Minute) },
	}
	rec, err := p.Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*ComputerInfo)
	assert.Equal(t, "corp.example.com", info.Domain)
	assert.Equal(t, uint64(60), info.OperatingSystem.UptimeSeconds)
	assert.Equal(t, BIOS{}, info.BIOS)
}

func TestComputerProbe_PrimaryFailure(t *testing.T) {
	p := &ComputerProbe{WMI: sourcetest.NewWMI(), Registry: sourcetest.NewRegistry()}
	_, err := p.Fetch(context.Background())
	require.Error(t, err)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSourceUnavailable))
}

func TestCPUProbe(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_Processor", variant.Record{
		"Name":                          variant.Str("AMD Ryzen 9 7950X"),
		"NumberOfCores":                 variant.Uint32(16),
		"NumberOfLogicalProcessors":     variant.Uint32(32),
		"MaxClockSpeed":                 variant.Uint32(4501),
		"L3CacheSize":                   variant.Uint32(65536),
		"VirtualizationFirmwareEnabled": variant.Bool(true),
		"LoadPercentage":                variant.Uint16(12),
	})
	rec, err := (&CPUProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*CPUInfo)
	assert.Equal(t, uint32(16), info.Cores)
	assert.Equal(t, "x64", info.Architecture)
	assert.True(t, info.Virtualization)
	assert.Equal(t, uint16(12), info.LoadPercent)
	assert.Zero(t, info.L2CacheKB)
}

func TestProcessorArchitecture(t *testing.T) {
	assert.Equal(t, "x86", ProcessorArchitecture(0))
	assert.Equal(t, "ARM64", ProcessorArchitecture(12))
	assert.Equal(t, "Unknown", ProcessorArchitecture(7))
}

func TestGPUProbe(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_VideoController",
		variant.Record{
			"Name":                        variant.Str("NVIDIA GeForce RTX 4090"),
			"AdapterRAM":                  variant.Uint32(4 << 30 - 1),
			"DriverDate":                  variant.Str("20240105000000.000000-000"),
			"CurrentHorizontalResolution": variant.Uint32(3840),
			"CurrentVerticalResolution":   variant.Uint32(2160),
			"Availability":                variant.Uint16(3),
		},
		variant.Record{
			"Name":       variant.Str("Virtual Adapter"),
			"AdapterRAM": variant.Uint32(1 << 30),
		},
	)
	reg := sourcetest.NewRegistry().
		Set(registry.LocalMachine, displayClassKey+`\0000`, "DriverDesc", "NVIDIA GeForce RTX 4090").
		Set(registry.LocalMachine, displayClassKey+`\0000`, "HardwareInformation.qwMemorySize", uint64(24<<30))

	rec, err := (&GPUProbe{WMI: w, Registry: reg}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*GPUInfo)
	require.Len(t, info.Adapters, 2)

	rtx := info.Adapters[0]
	assert.InDelta(t, 24.0, rtx.MemoryGB, 1e-9)
	assert.Equal(t, SourceRegistry, rtx.MemorySource)
	assert.Equal(t, "2024-01-05", rtx.DriverDate)
	assert.Equal(t, "3840x2160", rtx.Resolution)
	assert.Equal(t, "Running/Full Power", rtx.Availability)

	virt := info.Adapters[1]
	assert.InDelta(t, 1.0, virt.MemoryGB, 1e-9)
	assert.Equal(t, SourceWMI, virt.MemorySource)
	assert.Equal(t, "N/A", virt.DriverDate)
	assert.Equal(t, "N/A", virt.Resolution)
	assert.Equal(t, "Other", virt.Availability)
}

func TestMemoryProbe(t *testing.T) {
	w := sourcetest.NewWMI().
		Add(wmi.NamespaceCIMV2, "Win32_PhysicalMemory",
			variant.Record{
				"BankLabel":        variant.Str("BANK 0"),
				"Capacity":         variant.Str("17179869184"),
				"Speed":            variant.Uint32(5600),
				"SMBIOSMemoryType": variant.Uint16(34),
				"FormFactor":       variant.Uint16(8),
				"PartNumber":       variant.Str("  CMK32GX5M2B5600C36  "),
			},
			variant.Record{"Capacity": variant.Uint64(8 << 30), "FormFactor": variant.Uint16(12)},
		).
		Add(wmi.NamespaceCIMV2, "Win32_PhysicalMemoryArray", variant.Record{
			"MemoryDevices": variant.Uint16(4),
			"MaxCapacity":   variant.Uint32(134217728),
		})
	h := sourcetest.Host{Mem: host.MemoryStats{Total: 32 << 30, Available: 24 << 30, Used: 8 << 30}}

	rec, err := (&MemoryProbe{WMI: w, Host: h}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*MemoryInfo)

	require.Len(t, info.Slots, 2)
	assert.InDelta(t, 16.0, info.Slots[0].CapacityGB, 1e-9)
	assert.Equal(t, "DDR5", info.Slots[0].MemoryType)
	assert.Equal(t, "DIMM", info.Slots[0].FormFactor)
	assert.Equal(t, "CMK32GX5M2B5600C36", info.Slots[0].PartNumber)
	assert.Equal(t, "Unknown", info.Slots[1].MemoryType)
	assert.Equal(t, "SO-DIMM", info.Slots[1].FormFactor)
	assert.Equal(t, uint32(4), info.TotalSlots)
	assert.Equal(t, uint64(128), info.MaxCapacityGB)
	assert.InDelta(t, 25.0, info.UsagePercent, 1e-9)
}

func TestMemoryProbe_OptionalSourcesFail(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_PhysicalMemory")
	h := sourcetest.Host{MemErr: sourcetest.Unavailable("no counters")}

	rec, err := (&MemoryProbe{WMI: w, Host: h}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*MemoryInfo)
	assert.Empty(t, info.Slots)
	assert.Zero(t, info.TotalSlots)
	assert.Zero(t, info.TotalGB)
}

func TestDiskProbe(t *testing.T) {
	w := sourcetest.NewWMI().
		Add(wmi.NamespaceCIMV2, "Win32_DiskDrive",
			variant.Record{
				"Model":        variant.Str("Samsung SSD 990 PRO 2TB"),
				"SerialNumber": variant.Str(" S6Z2NJ0W "),
				"Index":        variant.Uint32(0),
				"Size":         variant.Str("2147483648000"),
			},
			variant.Record{
				"Model": variant.Str("ST4000DM004"),
				"Index": variant.Uint32(1),
			},
			variant.Record{
				"Model": variant.Str("Generic NVMe Controller"),
			},
		).
		Add(wmi.NamespaceStorage, "MSFT_PhysicalDisk",
			storageDisk("0", "S6Z2NJ0W", 3),
			storageDisk("1", "", 3),
		).
		Add(wmi.NamespaceCIMV2, "Win32_LogicalDisk", variant.Record{
			"DeviceID":   variant.Str("C:"),
			"FileSystem": variant.Str("NTFS"),
			"Size":       variant.Str("107374182400"),
			"FreeSpace":  variant.Str("26843545600"),
		})

	rec, err := (&DiskProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*DiskInfo)

	require.Len(t, info.PhysicalDisks, 3)
	// The storage inventory says HDD for this serial; the serial match wins
	// over the model name.
	assert.Equal(t, DiskTypeHDD, info.PhysicalDisks[0].DiskType)
	assert.Equal(t, MatchSerial, info.PhysicalDisks[0].TypeMatch)
	assert.Equal(t, "S6Z2NJ0W", info.PhysicalDisks[0].SerialNumber)
	assert.Equal(t, MatchIndex, info.PhysicalDisks[1].TypeMatch)
	assert.Equal(t, DiskTypeSSD, info.PhysicalDisks[2].DiskType)
	assert.Equal(t, MatchModel, info.PhysicalDisks[2].TypeMatch)

	require.Len(t, info.LogicalDisks, 1)
	ld := info.LogicalDisks[0]
	assert.InDelta(t, 100.0, ld.TotalGB, 1e-9)
	assert.InDelta(t, 75.0, ld.UsedGB, 1e-9)
	assert.InDelta(t, 75.0, ld.UsagePercent, 1e-9)
}

func TestDiskProbe_StorageNamespaceMissing(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_DiskDrive", variant.Record{
		"Model": variant.Str("KINGSTON SA400S37240G SSD"),
		"Index": variant.Uint32(0),
	})
	rec, err := (&DiskProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*DiskInfo)
	assert.Equal(t, DiskTypeSSD, info.PhysicalDisks[0].DiskType)
	assert.Equal(t, MatchModel, info.PhysicalDisks[0].TypeMatch)
	assert.NotNil(t, info.LogicalDisks)
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		bps  uint64
		want string
	}{
		{0, "N/A"},
		{512, "512 bps"},
		{56_000, "56 Kbps"},
		{100_000_000, "100 Mbps"},
		{1_000_000_000, "1.0 Gbps"},
		{2_500_000_000, "2.5 Gbps"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSpeed(tt.bps))
	}
}

func TestNetworkProbe(t *testing.T) {
	w := sourcetest.NewWMI().
		Add(wmi.NamespaceCIMV2, "Win32_NetworkAdapter",
			variant.Record{
				"Index":           variant.Uint32(7),
				"Name":            variant.Str("Intel(R) Ethernet"),
				"NetConnectionID": variant.Str("Ethernet"),
				"Speed":           variant.Str("1000000000"),
				"MACAddress":      variant.Str("00:11:22:33:44:55"),
			},
			variant.Record{"Name": variant.Str("no index")},
		).
		Add(wmi.NamespaceCIMV2, "Win32_NetworkAdapterConfiguration",
			variant.Record{
				"Index":                variant.Uint32(7),
				"Description":          variant.Str("Intel(R) Ethernet Connection"),
				"IPAddress":            variant.Array(variant.Str("192.168.1.10"), variant.Str("fe80::1")),
				"DNSServerSearchOrder": variant.Array(variant.Str("1.1.1.1")),
				"DefaultIPGateway":     variant.Array(variant.Str("192.168.1.1"), variant.Str("fe80::fe")),
				"DHCPEnabled":          variant.Bool(true),
			},
			variant.Record{
				"Index":       variant.Uint32(12),
				"Description": variant.Str("Loopback"),
				"MACAddress":  variant.Str("AA:BB:CC:DD:EE:FF"),
			},
		)

	rec, err := (&NetworkProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*NetworkInfo)
	require.Len(t, info.Adapters, 2)

	eth := info.Adapters[0]
	assert.Equal(t, "Ethernet", eth.Name)
	assert.Equal(t, "1.0 Gbps", eth.Speed)
	assert.Equal(t, []string{"192.168.1.10"}, eth.IPv4Addresses)
	assert.Equal(t, []string{"fe80::1"}, eth.IPv6Addresses)
	assert.Equal(t, "192.168.1.1", eth.Gateway)
	assert.True(t, eth.DHCPEnabled)

	other := info.Adapters[1]
	assert.Empty(t, other.Name)
	assert.Equal(t, "N/A", other.Speed)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", other.MACAddress)
	assert.NotNil(t, other.DNSServers)
}

func TestNetworkProbe_ConfigurationUnavailable(t *testing.T) {
	_, err := (&NetworkProbe{WMI: sourcetest.NewWMI()}).Fetch(context.Background())
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSourceUnavailable))
}

func monitorRow(mfr, name string) variant.Record {
	return variant.Record{
		"ManufacturerName":  bytesOf(mfr),
		"UserFriendlyName":  bytesOf(name),
		"SerialNumberID":    bytesOf("123"),
		"YearOfManufacture": variant.Uint16(2022),
	}
}

func TestMonitorProbe(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceWMI, "WmiMonitorID",
		monitorRow("DEL", "DELL U2723QE"), monitorRow("SAM", "Odyssey G7"))

	tests := []struct {
		name    string
		display sourcetest.Display
		want    [][2]any
	}{
		{
			name: "counts match",
			display: sourcetest.Display{Modes: []display.Mode{
				{Width: 3840, Height: 2160, RefreshHz: 60, OK: true},
				{Width: 2560, Height: 1440, RefreshHz: 240, OK: true},
			}},
			want: [][2]any{{"3840x2160", uint32(60)}, {"2560x1440", uint32(240)}},
		},
		{
			name: "one mode unreadable",
			display: sourcetest.Display{Modes: []display.Mode{
				{Width: 3840, Height: 2160, RefreshHz: 60, OK: true},
				{RefreshHz: 99},
			}},
			want: [][2]any{{"3840x2160", uint32(60)}, {"N/A", uint32(0)}},
		},
		{
			name: "fewer active displays",
			display: sourcetest.Display{Modes: []display.Mode{
				{Width: 3840, Height: 2160, RefreshHz: 60, OK: true},
			}},
			want: [][2]any{{"3840x2160", uint32(60)}, {"N/A", uint32(0)}},
		},
		{
			name: "more active displays",
			display: sourcetest.Display{Modes: []display.Mode{
				{Width: 3840, Height: 2160, RefreshHz: 60, OK: true},
				{Width: 2560, Height: 1440, RefreshHz: 240, OK: true},
				{Width: 1920, Height: 1080, RefreshHz: 75, OK: true},
			}},
			want: [][2]any{{"3840x2160", uint32(60)}, {"2560x1440", uint32(240)}},
		},
		{
			name:    "enumeration fails",
			display: sourcetest.Display{Err: sourcetest.Unavailable("user32")},
			want:    [][2]any{{"N/A", uint32(0)}, {"N/A", uint32(0)}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := (&MonitorProbe{WMI: w, Display: tt.display}).Fetch(context.Background())
			require.NoError(t, err)
			info := rec.(*MonitorInfo)
			require.Len(t, info.Monitors, 2)
			assert.Equal(t, "DEL", info.Monitors[0].Manufacturer)
			assert.Equal(t, "Odyssey G7", info.Monitors[1].Name)
			assert.Equal(t, uint16(2022), info.Monitors[0].YearOfManufacture)
			for i, m := range info.Monitors {
				assert.Equal(t, tt.want[i][0], m.Resolution)
				assert.Equal(t, tt.want[i][1], m.RefreshRate)
			}
		})
	}
}

func TestAudioProbe_SkipsRowsWithoutName(t *testing.T) {
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_SoundDevice",
		variant.Record{"Name": variant.Str("Realtek High Definition Audio"), "Status": variant.Str("OK")},
		variant.Record{"Manufacturer": variant.Str("Nameless")},
	)
	rec, err := (&AudioProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*AudioInfo)
	require.Len(t, info.Devices, 1)
	assert.Equal(t, "OK", info.Devices[0].Status)
}

func TestUSBProbe_FiltersInfrastructure(t *testing.T) {
	row := func(name string) variant.Record {
		return variant.Record{"Name": variant.Str(name), "PNPDeviceID": variant.Str(`USB\VID_046D`)}
	}
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_PnPEntity",
		row("USB Root Hub (USB 3.0)"),
		row("Generic Hub"),
		row("USB Composite Device"),
		row("Logitech USB Receiver"),
	)
	rec, err := (&USBProbe{WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*USBInfo)
	require.Len(t, info.Devices, 1)
	assert.Equal(t, "Logitech USB Receiver", info.Devices[0].Name)
	assert.Contains(t, w.Queries()[0], "LIKE 'USB%'")
}

func TestParseActiveScheme(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want string
	}{
		{"balanced", "Power Scheme GUID: 381b4222-f694-41f0-9685-ff5bb260df2e  (Balanced)\r\n", "Balanced"},
		{"nested parentheses", "Power Scheme GUID: x  (High (custom) performance)", "custom) performance"},
		{"no name", "Power Scheme GUID: 381b4222", "Unknown"},
		{"empty", "", "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseActiveScheme(tt.out)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPowerProbe(t *testing.T) {
	cmd := sourcetest.NewCommand()
	cmd.Output["powercfg"] = "Power Scheme GUID: 381b4222-f694-41f0-9685-ff5bb260df2e  (Balanced)"
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_Battery", variant.Record{
		"Name":                     variant.Str("DELL 7FHHV"),
		"Status":                   variant.Str("OK"),
		"EstimatedChargeRemaining": variant.Uint16(87),
		"EstimatedRunTime":         variant.Uint32(runTimeUnknown),
		"DesignCapacity":           variant.Uint32(54000),
		"Chemistry":                variant.Uint16(6),
	})

	rec, err := (&PowerProbe{Command: cmd, WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	info := rec.(*PowerInfo)
	assert.Equal(t, "Balanced", info.Plan)
	require.NotNil(t, info.Battery)
	assert.Equal(t, uint16(87), info.Battery.ChargePercent)
	assert.Zero(t, info.Battery.RunTimeMinutes)
	assert.Equal(t, "54000", info.Battery.DesignCapacity)
	assert.Equal(t, "Unknown", info.Battery.FullChargeCapacity)
	assert.Equal(t, "Lithium-ion", info.Battery.Chemistry)
	assert.Equal(t, [][]string{{"/getactivescheme"}}, cmd.Calls["powercfg"])
}

func TestPowerProbe_NoBattery(t *testing.T) {
	cmd := sourcetest.NewCommand()
	cmd.Output["powercfg"] = "Power Scheme GUID: x  (Ultimate Performance)"
	w := sourcetest.NewWMI().Add(wmi.NamespaceCIMV2, "Win32_Battery")

	rec, err := (&PowerProbe{Command: cmd, WMI: w}).Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, rec.(*PowerInfo).Battery)
}

func TestPowerProbe_CommandFails(t *testing.T) {
	_, err := (&PowerProbe{Command: sourcetest.NewCommand(), WMI: sourcetest.NewWMI()}).Fetch(context.Background())
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSourceUnavailable))
}
