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

package systemd

import "context"

// Unit describes one systemd service unit.
type Unit struct {
	Name          string
	Description   string
	ActiveState   string
	SubState      string
	UnitFileState string
	User          string
	FragmentPath  string
}

// Lister lists service units from the system manager.
type Lister interface {
	Services(ctx context.Context) ([]Unit, error)
}
