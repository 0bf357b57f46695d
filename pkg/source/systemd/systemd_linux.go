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

//go:build linux

package systemd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coreos/go-systemd/v22/dbus"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

type lister struct{}

// New returns a Lister talking to systemd over D-Bus.
func New() Lister {
	return lister{}
}

// Services returns every loaded *.service unit. Per-unit properties that
// cannot be read are left empty.
func (lister) Services(ctx context.Context) ([]Unit, error) {
	conn, err := dbus.NewSystemdConnectionContext(ctx)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to connect to systemd", err)
	}
	defer conn.Close()

	statuses, err := conn.ListUnitsByPatternsContext(ctx, nil, []string{"*.service"})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeSourceUnavailable, "failed to list systemd units", err)
	}

	units := make([]Unit, 0, len(statuses))
	for _, st := range statuses {
		u := Unit{
			Name:        st.Name,
			Description: st.Description,
			ActiveState: st.ActiveState,
			SubState:    st.SubState,
		}
		u.UnitFileState = unitProperty(ctx, conn, st.Name, "UnitFileState")
		u.FragmentPath = unitProperty(ctx, conn, st.Name, "FragmentPath")
		if p, err := conn.GetServicePropertyContext(ctx, st.Name, "User"); err == nil {
			u.User = propString(p.Value.Value())
		}
		units = append(units, u)
	}
	return units, nil
}

func unitProperty(ctx context.Context, conn *dbus.Conn, unit, name string) string {
	p, err := conn.GetUnitPropertyContext(ctx, unit, name)
	if err != nil {
		slog.Debug("failed to read unit property", "unit", unit, "property", name, "error", err)
		return ""
	}
	return propString(p.Value.Value())
}

func propString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	default:
		return fmt.Sprintf("%v", s)
	}
}
