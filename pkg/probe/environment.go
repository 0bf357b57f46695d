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

	"github.com/cirg-dev/cirg/pkg/source/registry"
)

const systemEnvironmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`

// EnvironmentInfo holds the machine-wide environment variables. Keys
// serialize in sorted order.
type EnvironmentInfo struct {
	Variables map[string]string `json:"variables" yaml:"variables"`
}

func (*EnvironmentInfo) Category() Category { return CategoryEnvironment }

// EnvironmentProbe reads the system environment key. Values that are not
// strings are reported empty.
type EnvironmentProbe struct {
	Registry registry.Store
}

func (p *EnvironmentProbe) Category() Category { return CategoryEnvironment }

func (p *EnvironmentProbe) Fetch(ctx context.Context) (Record, error) {
	key, err := p.Registry.Open(registry.LocalMachine, systemEnvironmentKey)
	if err != nil {
		return nil, unavailable(CategoryEnvironment, "environment key unavailable", err)
	}
	defer key.Close()

	names, err := key.ValueNames()
	if err != nil {
		return nil, unavailable(CategoryEnvironment, "cannot list environment values", err)
	}

	info := &EnvironmentInfo{Variables: make(map[string]string, len(names))}
	for _, name := range names {
		v, _ := key.String(name)
		info.Variables[name] = v
	}
	return info, nil
}
