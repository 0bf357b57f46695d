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
	"slices"
	"strings"

	"github.com/cirg-dev/cirg/pkg/source/registry"
)

const uninstallKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

// uninstallRoots are read in order; the first entry seen for a name wins.
var uninstallRoots = []struct {
	root registry.Root
	path string
}{
	{registry.LocalMachine, uninstallKey},
	{registry.LocalMachine, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CurrentUser, uninstallKey},
}

// SoftwareInfo lists installed programs sorted by name.
type SoftwareInfo struct {
	Programs []InstalledProgram `json:"programs" yaml:"programs"`
}

// InstalledProgram is one uninstall entry.
type InstalledProgram struct {
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Publisher   string `json:"publisher" yaml:"publisher"`
	InstallDate string `json:"installDate" yaml:"installDate"`
}

func (*SoftwareInfo) Category() Category { return CategorySoftware }

// SoftwareProbe reads the machine, 32-bit and per-user uninstall keys.
// Entries without a display name, system components and updates that name
// a parent are skipped. It fails only when none of the keys can be opened.
type SoftwareProbe struct {
	Registry registry.Store
}

func (p *SoftwareProbe) Category() Category { return CategorySoftware }

func (p *SoftwareProbe) Fetch(ctx context.Context) (Record, error) {
	seen := make(map[string]bool)
	info := &SoftwareInfo{Programs: []InstalledProgram{}}
	opened := 0
	var lastErr error

	for _, u := range uninstallRoots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		key, err := p.Registry.Open(u.root, u.path)
		if err != nil {
			slog.Debug("uninstall key unavailable", "root", u.root.String(), "path", u.path, "error", err)
			lastErr = err
			continue
		}
		opened++
		for _, prog := range readUninstallKey(key) {
			if seen[prog.Name] {
				continue
			}
			seen[prog.Name] = true
			info.Programs = append(info.Programs, prog)
		}
		key.Close()
	}
	if opened == 0 {
		return nil, unavailable(CategorySoftware, "no uninstall key could be opened", lastErr)
	}

	slices.SortStableFunc(info.Programs, func(a, b InstalledProgram) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return info, nil
}

func readUninstallKey(key registry.Key) []InstalledProgram {
	names, err := key.SubKeyNames()
	if err != nil {
		slog.Debug("cannot list uninstall entries", "error", err)
		return nil
	}

	var out []InstalledProgram
	for _, name := range names {
		sub, err := key.OpenSubKey(name)
		if err != nil {
			continue
		}
		if prog, ok := readProgram(sub); ok {
			out = append(out, prog)
		}
		sub.Close()
	}
	return out
}

func readProgram(k registry.Key) (InstalledProgram, bool) {
	name, err := k.String("DisplayName")
	if err != nil || name == "" {
		return InstalledProgram{}, false
	}
	if v, err := k.Integer("SystemComponent"); err == nil && v == 1 {
		return InstalledProgram{}, false
	}
	if parent, err := k.String("ParentKeyName"); err == nil && parent != "" {
		return InstalledProgram{}, false
	}

	str := func(value string) string {
		s, _ := k.String(value)
		return s
	}
	return InstalledProgram{
		Name:        name,
		Version:     str("DisplayVersion"),
		Publisher:   str("Publisher"),
		InstallDate: str("InstallDate"),
	}, true
}
