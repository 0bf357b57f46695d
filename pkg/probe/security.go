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

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/wmi"
	"github.com/cirg-dev/cirg/pkg/source/wua"
	"github.com/cirg-dev/cirg/pkg/variant"
)

const (
	secureBootStateKey = `SYSTEM\CurrentControlSet\Control\SecureBoot\State`
	controlKey         = `SYSTEM\CurrentControlSet\Control`
	bitLockerStatusKey = `SYSTEM\CurrentControlSet\Control\BitLockerStatus`
	tpmServiceKey      = `SYSTEM\CurrentControlSet\Services\TPM`
	tpmKey             = `SOFTWARE\Microsoft\Tpm`
	firewallPolicyKey  = `SYSTEM\CurrentControlSet\Services\SharedAccess\Parameters\FirewallPolicy`
	defenderKey        = `SOFTWARE\Microsoft\Windows Defender`
	uacPolicyKey       = `SOFTWARE\Microsoft\Windows\CurrentVersion\Policies\System`
	terminalServerKey  = `SYSTEM\CurrentControlSet\Control\Terminal Server`
	autoUpdateKey      = `SOFTWARE\Microsoft\Windows\CurrentVersion\WindowsUpdate\Auto Update`
)

// Firewall actions.
const (
	FirewallBlock = "Block"
	FirewallAllow = "Allow"
)

// SecurityInfo is the security posture. Every status is nil when no source
// could determine it; Source fields name the source that did.
type SecurityInfo struct {
	SecureBoot       *bool          `json:"secureBoot" yaml:"secureBoot"`
	SecureBootSource string         `json:"secureBootSource,omitempty" yaml:"secureBootSource,omitempty"`
	TPM              *TPMInfo       `json:"tpm" yaml:"tpm"`
	Antivirus        *AntivirusInfo `json:"antivirus" yaml:"antivirus"`
	Firewall         *FirewallInfo  `json:"firewall" yaml:"firewall"`
	UAC              *bool          `json:"uac" yaml:"uac"`
	RDPEnabled       *bool          `json:"rdpEnabled" yaml:"rdpEnabled"`
	BitLocker        *bool          `json:"bitLocker" yaml:"bitLocker"`
	BitLockerSource  string         `json:"bitLockerSource,omitempty" yaml:"bitLockerSource,omitempty"`
	PendingUpdates   *UpdateStatus  `json:"pendingUpdates" yaml:"pendingUpdates"`
}

// TPMInfo describes the trusted platform module.
type TPMInfo struct {
	Present      bool   `json:"present" yaml:"present"`
	Ready        bool   `json:"ready" yaml:"ready"`
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	Activated    bool   `json:"activated" yaml:"activated"`
	Version      string `json:"version" yaml:"version"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	Source       string `json:"source" yaml:"source"`
}

// AntivirusInfo lists registered antivirus products.
type AntivirusInfo struct {
	Products []AntivirusProduct `json:"products" yaml:"products"`
	Source   string             `json:"source" yaml:"source"`
}

// AntivirusProduct is one registered product. UpToDate is nil when the
// source does not report signature state.
type AntivirusProduct struct {
	Name     string `json:"name" yaml:"name"`
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	UpToDate *bool  `json:"upToDate" yaml:"upToDate"`
}

// FirewallInfo holds the per-profile firewall state. A profile is nil when
// its settings could not be read.
type FirewallInfo struct {
	Domain  *FirewallProfile `json:"domain" yaml:"domain"`
	Private *FirewallProfile `json:"private" yaml:"private"`
	Public  *FirewallProfile `json:"public" yaml:"public"`
	Source  string           `json:"source" yaml:"source"`
}

// FirewallProfile is the state of one firewall profile.
type FirewallProfile struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	Inbound  string `json:"inbound" yaml:"inbound"`
	Outbound string `json:"outbound" yaml:"outbound"`
}

// UpdateStatus describes updates not yet installed. Items is nil when only
// the registry was readable.
type UpdateStatus struct {
	Items          []UpdateItem `json:"items" yaml:"items"`
	RebootRequired bool         `json:"rebootRequired" yaml:"rebootRequired"`
	Source         string       `json:"source" yaml:"source"`
}

// UpdateItem is one pending update.
type UpdateItem struct {
	Title        string   `json:"title" yaml:"title"`
	KBArticleIDs []string `json:"kbArticleIds" yaml:"kbArticleIds"`
	Severity     string   `json:"severity,omitempty" yaml:"severity,omitempty"`
	Downloaded   bool     `json:"downloaded" yaml:"downloaded"`
	Mandatory    bool     `json:"mandatory" yaml:"mandatory"`
	Categories   []string `json:"categories" yaml:"categories"`
}

func (*SecurityInfo) Category() Category { return CategorySecurity }

// SecurityProbe assembles the security posture from fallback chains. No
// single source is primary, so Fetch never fails; statuses that no source
// could determine are nil.
type SecurityProbe struct {
	WMI      wmi.Querier
	Registry registry.Store
	Updates  wua.Searcher
}

func (p *SecurityProbe) Category() Category { return CategorySecurity }

func (p *SecurityProbe) Fetch(ctx context.Context) (Record, error) {
	info := &SecurityInfo{
		UAC:        p.uac(),
		RDPEnabled: p.rdp(),
	}

	if v, src, ok := firstOf(ctx, "secure boot",
		step[bool]{SourceRegistry, p.secureBootRegistry},
		step[bool]{SourceFirmware, p.secureBootFirmware},
	); ok {
		info.SecureBoot, info.SecureBootSource = &v, src
	}

	if v, _, ok := firstOf(ctx, "tpm",
		step[*TPMInfo]{SourceWMI, p.tpmWMI},
		step[*TPMInfo]{SourceRegistry, p.tpmRegistry},
	); ok {
		info.TPM = v
	}

	if v, src, ok := firstOf(ctx, "bitlocker",
		step[bool]{SourceWMI, p.bitLockerWMI},
		step[bool]{SourceRegistry, p.bitLockerRegistry},
	); ok {
		info.BitLocker, info.BitLockerSource = &v, src
	}

	if v, _, ok := firstOf(ctx, "firewall",
		step[*FirewallInfo]{SourceWMI, p.firewallWMI},
		step[*FirewallInfo]{SourceRegistry, p.firewallRegistry},
	); ok {
		info.Firewall = v
	}

	if v, _, ok := firstOf(ctx, "antivirus",
		step[*AntivirusInfo]{SourceWMI, p.antivirusWMI},
		step[*AntivirusInfo]{SourceRegistry, p.antivirusRegistry},
	); ok {
		info.Antivirus = v
	}

	if v, _, ok := firstOf(ctx, "pending updates",
		step[*UpdateStatus]{SourceWUA, p.updatesAgent},
		step[*UpdateStatus]{SourceRegistry, p.updatesRegistry},
	); ok {
		info.PendingUpdates = v
	}

	return info, nil
}

func boolPtr(b bool) *bool { return &b }

func notDetermined(what string) error {
	return cerrors.New(cerrors.ErrCodeFieldMissing, what+" not determined")
}

func (p *SecurityProbe) uac() *bool {
	v, err := registry.ReadInteger(p.Registry, registry.LocalMachine, uacPolicyKey, "EnableLUA")
	if err != nil {
		return nil
	}
	return boolPtr(v == 1)
}

func (p *SecurityProbe) rdp() *bool {
	k, err := p.Registry.Open(registry.LocalMachine, terminalServerKey)
	if err != nil {
		return nil
	}
	defer k.Close()
	deny, err := k.Integer("fDenyTSConnections")
	if err != nil {
		deny = 1
	}
	return boolPtr(deny == 0)
}

func (p *SecurityProbe) secureBootRegistry(context.Context) (bool, error) {
	v, err := registry.ReadInteger(p.Registry, registry.LocalMachine, secureBootStateKey, "UEFISecureBootEnabled")
	if err != nil {
		return false, err
	}
	return v == 1, nil
}

// secureBootFirmware only decides for legacy BIOS firmware, which cannot
// secure boot.
func (p *SecurityProbe) secureBootFirmware(context.Context) (bool, error) {
	v, err := registry.ReadInteger(p.Registry, registry.LocalMachine, controlKey, "PEFirmwareType")
	if err != nil {
		return false, err
	}
	if v == 1 {
		return false, nil
	}
	return false, notDetermined("secure boot on UEFI firmware")
}

func (p *SecurityProbe) tpmWMI(ctx context.Context) (*TPMInfo, error) {
	row, err := wmi.QueryFirst(ctx, p.WMI, wmi.NamespaceTPM,
		"SELECT IsReady_InitialValue, IsEnabled_InitialValue, IsActivated_InitialValue, SpecVersion, ManufacturerIdTxt FROM Win32_Tpm")
	if err != nil {
		return nil, err
	}
	f := variant.NewFields(row)
	return &TPMInfo{
		Present:      true,
		Ready:        f.Bool("IsReady_InitialValue", false),
		Enabled:      f.Bool("IsEnabled_InitialValue", false),
		Activated:    f.Bool("IsActivated_InitialValue", false),
		Version:      specVersion(f.String("SpecVersion", "")),
		Manufacturer: f.String("ManufacturerIdTxt", "Unknown"),
		Source:       SourceWMI,
	}, nil
}

func (p *SecurityProbe) tpmRegistry(context.Context) (*TPMInfo, error) {
	svc, err := p.Registry.Open(registry.LocalMachine, tpmServiceKey)
	if err != nil {
		return nil, err
	}
	svc.Close()

	info := &TPMInfo{
		Present:      true,
		Enabled:      true,
		Version:      "Unknown",
		Manufacturer: "Unknown",
		Source:       SourceRegistry,
	}
	k, err := p.Registry.Open(registry.LocalMachine, tpmKey)
	if err != nil {
		return info, nil
	}
	defer k.Close()

	if v, err := k.String("SpecVersion"); err == nil {
		info.Version = specVersion(v)
	} else if v, err := k.String("ManufacturerVersion"); err == nil && v != "" {
		info.Version = v
	}
	if v, err := k.String("ManufacturerDisplayName"); err == nil && v != "" {
		info.Manufacturer = v
	}
	if v, err := k.Integer("IsReady"); err == nil {
		info.Ready = v == 1
	}
	info.Activated = info.Ready
	return info, nil
}

// specVersion returns the first entry of a comma-separated spec version list.
func specVersion(s string) string {
	v, _, _ := strings.Cut(s, ",")
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return "Unknown"
}

func (p *SecurityProbe) bitLockerWMI(ctx context.Context) (bool, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceVolumeEncrypt, "SELECT ProtectionStatus FROM Win32_EncryptableVolume")
	if err != nil {
		return false, err
	}
	for _, row := range rows {
		if variant.GetOr[uint32](row, "ProtectionStatus", 0) == 1 {
			return true, nil
		}
	}
	return false, nil
}

func (p *SecurityProbe) bitLockerRegistry(context.Context) (bool, error) {
	v, err := registry.ReadInteger(p.Registry, registry.LocalMachine, bitLockerStatusKey, "BootStatus")
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// firewallAction maps MSFT_NetFirewallProfile actions; 0 means the profile
// uses the platform default.
func firewallAction(code uint16, def string) string {
	switch code {
	case 2:
		return FirewallAllow
	case 4:
		return FirewallBlock
	default:
		return def
	}
}

func (p *SecurityProbe) firewallWMI(ctx context.Context) (*FirewallInfo, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceStandardCIMV2,
		"SELECT Name, Enabled, DefaultInboundAction, DefaultOutboundAction FROM MSFT_NetFirewallProfile")
	if err != nil {
		return nil, err
	}
	info := &FirewallInfo{Source: SourceWMI}
	for _, row := range rows {
		f := variant.NewFields(row)
		prof := &FirewallProfile{
			// 2 is "not configured", which the platform treats as on.
			Enabled:  f.Uint16("Enabled", 0) != 0,
			Inbound:  firewallAction(f.Uint16("DefaultInboundAction", 0), FirewallBlock),
			Outbound: firewallAction(f.Uint16("DefaultOutboundAction", 0), FirewallAllow),
		}
		switch strings.ToLower(f.String("Name", "")) {
		case "domain":
			info.Domain = prof
		case "private":
			info.Private = prof
		case "public":
			info.Public = prof
		}
	}
	if info.Domain == nil && info.Private == nil && info.Public == nil {
		return nil, notDetermined("firewall profiles")
	}
	return info, nil
}

func (p *SecurityProbe) firewallRegistry(context.Context) (*FirewallInfo, error) {
	info := &FirewallInfo{Source: SourceRegistry}
	info.Domain = p.firewallProfile("DomainProfile")
	info.Private = p.firewallProfile("StandardProfile")
	info.Public = p.firewallProfile("PublicProfile")
	if info.Domain == nil && info.Private == nil && info.Public == nil {
		return nil, notDetermined("firewall profiles")
	}
	return info, nil
}

func (p *SecurityProbe) firewallProfile(name string) *FirewallProfile {
	k, err := p.Registry.Open(registry.LocalMachine, registry.Join(firewallPolicyKey, name))
	if err != nil {
		return nil
	}
	defer k.Close()

	integer := func(value string, def uint64) uint64 {
		v, err := k.Integer(value)
		if err != nil {
			return def
		}
		return v
	}
	action := func(v uint64) string {
		if v == 1 {
			return FirewallBlock
		}
		return FirewallAllow
	}
	return &FirewallProfile{
		Enabled:  integer("EnableFirewall", 0) == 1,
		Inbound:  action(integer("DefaultInboundAction", 1)),
		Outbound: action(integer("DefaultOutboundAction", 0)),
	}
}

// Security Center productState bits.
const (
	avStateEnabled  = 0x1000
	avStateOutdated = 0x10
)

func (p *SecurityProbe) antivirusWMI(ctx context.Context) (*AntivirusInfo, error) {
	rows, err := p.WMI.Query(ctx, wmi.NamespaceSecurityCenter2, "SELECT displayName, productState FROM AntiVirusProduct")
	if err != nil {
		return nil, err
	}
	info := &AntivirusInfo{Products: []AntivirusProduct{}, Source: SourceWMI}
	for _, row := range rows {
		f := variant.NewFields(row)
		name := f.RequireString("displayName")
		state := f.RequireUint32("productState")
		if f.Err() != nil {
			continue
		}
		info.Products = append(info.Products, AntivirusProduct{
			Name:     name,
			Enabled:  state&avStateEnabled != 0,
			UpToDate: boolPtr(state&avStateOutdated == 0),
		})
	}
	if len(info.Products) == 0 {
		return nil, notDetermined("antivirus products")
	}
	return info, nil
}

func (p *SecurityProbe) antivirusRegistry(context.Context) (*AntivirusInfo, error) {
	k, err := p.Registry.Open(registry.LocalMachine, defenderKey)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	disabled, err := k.Integer("DisableAntiSpyware")
	return &AntivirusInfo{
		Products: []AntivirusProduct{{
			Name:    "Microsoft Defender Antivirus",
			Enabled: err != nil || disabled == 0,
		}},
		Source: SourceRegistry,
	}, nil
}

func (p *SecurityProbe) rebootRequired() bool {
	return registry.Exists(p.Registry, registry.LocalMachine, registry.Join(autoUpdateKey, "RebootRequired"))
}

func (p *SecurityProbe) updatesAgent(ctx context.Context) (*UpdateStatus, error) {
	if p.Updates == nil {
		return nil, notDetermined("update agent")
	}
	updates, err := p.Updates.Pending(ctx)
	if err != nil {
		return nil, err
	}
	st := &UpdateStatus{
		Items:          make([]UpdateItem, 0, len(updates)),
		RebootRequired: p.rebootRequired(),
		Source:         SourceWUA,
	}
	for _, u := range updates {
		kbs := make([]string, 0, len(u.KBArticleIDs))
		for _, id := range u.KBArticleIDs {
			if !strings.HasPrefix(id, "KB") {
				id = fmt.Sprintf("KB%s", id)
			}
			kbs = append(kbs, id)
		}
		cats := u.Categories
		if cats == nil {
			cats = []string{}
		}
		st.Items = append(st.Items, UpdateItem{
			Title:        u.Title,
			KBArticleIDs: kbs,
			Severity:     u.Severity,
			Downloaded:   u.Downloaded,
			Mandatory:    u.Mandatory,
			Categories:   cats,
		})
	}
	return st, nil
}

func (p *SecurityProbe) updatesRegistry(context.Context) (*UpdateStatus, error) {
	if !registry.Exists(p.Registry, registry.LocalMachine, autoUpdateKey) {
		return nil, notDetermined("update state")
	}
	return &UpdateStatus{RebootRequired: p.rebootRequired(), Source: SourceRegistry}, nil
}
