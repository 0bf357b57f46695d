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

//go:build !windows

package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "github.com/cirg-dev/cirg/pkg/errors"
)

func TestExecRunner_Run(t *testing.T) {
	r := NewRunner(5 * time.Second)

	out, err := r.Run(t.Context(), "sh", "-c", "printf 'Power Scheme GUID: 1  (Balanced)\\n'")
	require.NoError(t, err)
	assert.Equal(t, "Power Scheme GUID: 1  (Balanced)\n", out)
}

func TestExecRunner_PartialOutput(t *testing.T) {
	r := NewRunner(5 * time.Second)

	out, err := r.Run(t.Context(), "sh", "-c", "echo partial; exit 3")
	require.NoError(t, err)
	assert.Equal(t, "partial\n", out)
}

func TestExecRunner_Failure(t *testing.T) {
	r := NewRunner(5 * time.Second)

	_, err := r.Run(t.Context(), "sh", "-c", "exit 2")
	require.Error(t, err)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSourceUnavailable))

	_, err = r.Run(t.Context(), "cirg-no-such-tool")
	require.Error(t, err)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeSourceUnavailable))
}

func TestExecRunner_Timeout(t *testing.T) {
	r := NewRunner(50 * time.Millisecond)

	_, err := r.Run(t.Context(), "sleep", "5")
	require.Error(t, err)
	assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeTimeout))
}
