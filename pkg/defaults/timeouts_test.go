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

package defaults

import (
	"testing"
	"time"
)

func TestTimeoutConstants(t *testing.T) {
	tests := []struct {
		name     string
		timeout  time.Duration
		minValue time.Duration
		maxValue time.Duration
	}{
		{"ProbeTimeout", ProbeTimeout, 10 * time.Second, 5 * time.Minute},
		{"CommandTimeout", CommandTimeout, 5 * time.Second, 2 * time.Minute},
		{"EventLogWindow", EventLogWindow, time.Hour, 7 * 24 * time.Hour},
		{"CLISnapshotTimeout", CLISnapshotTimeout, time.Minute, 30 * time.Minute},
		{"ServerReadTimeout", ServerReadTimeout, time.Second, time.Minute},
		{"ServerIdleTimeout", ServerIdleTimeout, 10 * time.Second, 10 * time.Minute},
		{"ServerShutdownTimeout", ServerShutdownTimeout, 5 * time.Second, 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.timeout < tt.minValue {
				t.Errorf("%s (%v) is below minimum expected value (%v)", tt.name, tt.timeout, tt.minValue)
			}
			if tt.timeout > tt.maxValue {
				t.Errorf("%s (%v) is above maximum expected value (%v)", tt.name, tt.timeout, tt.maxValue)
			}
		})
	}
}

func TestCommandTimeoutWithinProbeTimeout(t *testing.T) {
	// A probe that shells out must be able to finish its subprocess
	// before its own bound fires.
	if CommandTimeout >= ProbeTimeout {
		t.Errorf("CommandTimeout (%v) should be less than ProbeTimeout (%v)",
			CommandTimeout, ProbeTimeout)
	}
}

func TestProbeTimeoutWithinSnapshotTimeout(t *testing.T) {
	if ProbeTimeout >= CLISnapshotTimeout {
		t.Errorf("ProbeTimeout (%v) should be less than CLISnapshotTimeout (%v)",
			ProbeTimeout, CLISnapshotTimeout)
	}
}

func TestServerWriteTimeoutCoversSnapshot(t *testing.T) {
	if ServerWriteTimeout <= CLISnapshotTimeout {
		t.Errorf("ServerWriteTimeout (%v) should exceed CLISnapshotTimeout (%v)",
			ServerWriteTimeout, CLISnapshotTimeout)
	}
}

func TestListLimits(t *testing.T) {
	if ProcessLimit != 30 {
		t.Errorf("ProcessLimit = %d, want 30", ProcessLimit)
	}
	if HotfixLimit != 25 {
		t.Errorf("HotfixLimit = %d, want 25", HotfixLimit)
	}
	if EventLogMaxEvents != 15 {
		t.Errorf("EventLogMaxEvents = %d, want 15", EventLogMaxEvents)
	}
}
