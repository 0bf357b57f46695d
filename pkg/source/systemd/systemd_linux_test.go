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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLister_Services_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	units, err := New().Services(ctx)
	// Either D-Bus is unreachable or the cancelled context stops the call;
	// both must surface as an error rather than a partial list.
	if err == nil {
		t.Logf("systemd answered despite cancelled context with %d units", len(units))
		return
	}
	assert.Nil(t, units)
}

func TestLister_Services(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	units, err := New().Services(t.Context())
	if err != nil {
		t.Skipf("systemd not reachable: %v", err)
	}
	for _, u := range units {
		assert.NotEmpty(t, u.Name)
	}
	t.Logf("listed %d service units", len(units))
}

func TestPropString(t *testing.T) {
	assert.Equal(t, "", propString(nil))
	assert.Equal(t, "enabled", propString("enabled"))
	assert.Equal(t, "42", propString(42))
}
