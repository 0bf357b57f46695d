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

package sourcetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/source/registry"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry().
		Set(registry.LocalMachine, `SOFTWARE\Vendor\App`, "Name", "App").
		Set(registry.LocalMachine, `SOFTWARE\Vendor\App`, "Size", uint32(12)).
		Set(registry.LocalMachine, `SOFTWARE\Vendor\App`, "Mem", []byte{0x00, 0x00, 0x00, 0x00, 0x02}).
		AddKey(registry.LocalMachine, `SOFTWARE\Vendor\Other`)

	assert.True(t, registry.Exists(r, registry.LocalMachine, `software\vendor`))
	assert.False(t, registry.Exists(r, registry.CurrentUser, `SOFTWARE\Vendor`))

	k, err := r.Open(registry.LocalMachine, `SOFTWARE\Vendor`)
	require.NoError(t, err)
	subs, err := k.SubKeyNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"App", "Other"}, subs)

	app, err := k.OpenSubKey("App")
	require.NoError(t, err)
	name, err := app.String("Name")
	require.NoError(t, err)
	assert.Equal(t, "App", name)

	size, err := app.Integer("Size")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), size)

	mem, err := app.Integer("Mem")
	require.NoError(t, err)
	assert.Equal(t, uint64(8<<30), mem)

	_, err = app.String("Size")
	assert.ErrorIs(t, err, registry.ErrUnexpectedType)

	_, err = app.String("Missing")
	assert.ErrorIs(t, err, registry.ErrNotExist)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeFieldMissing))

	require.NoError(t, app.Close())
	require.NoError(t, k.Close())
	assert.Zero(t, r.OpenKeys())

	_, err = r.Open(registry.LocalMachine, `SOFTWARE\Missing`)
	assert.ErrorIs(t, err, registry.ErrNotExist)
}

func TestRegistry_ReadHelpers(t *testing.T) {
	r := NewRegistry().Set(registry.LocalMachine, `A\B`, "V", "x").Set(registry.LocalMachine, `A\B`, "N", uint64(3))

	s, err := registry.ReadString(r, registry.LocalMachine, `A\B`, "V")
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	n, err := registry.ReadInteger(r, registry.LocalMachine, `A\B`, "N")
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)
	assert.Zero(t, r.OpenKeys())

	assert.Equal(t, `A\B\C`, registry.Join("A", "B", "C"))
	assert.Equal(t, "HKCU", registry.CurrentUser.String())
}
