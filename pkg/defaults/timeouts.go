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

import "time"

// Probe timeouts for data collection operations.
const (
	// ProbeTimeout bounds a single probe's execution. A probe that exceeds it
	// is reported as absent. Zero disables the bound.
	ProbeTimeout = 60 * time.Second

	// CommandTimeout bounds a single external tool invocation
	// (schtasks, powercfg, wevtutil).
	CommandTimeout = 30 * time.Second
)

// Event log query window.
const (
	// EventLogWindow is how far back the event log probe looks.
	EventLogWindow = 24 * time.Hour

	// EventLogMaxEvents is the newest-first event count requested per log.
	EventLogMaxEvents = 15
)

// Probe-local list limits.
const (
	// ProcessLimit is the number of processes kept, largest working set first.
	ProcessLimit = 30

	// HotfixLimit is the number of hotfix rows kept in enumeration order.
	HotfixLimit = 25
)

// CLI timeouts for command-line operations.
const (
	// CLISnapshotTimeout is the default timeout for a whole snapshot run.
	CLISnapshotTimeout = 5 * time.Minute
)

// Server timeouts for serve mode.
const (
	// ServerReadTimeout bounds reading a request.
	ServerReadTimeout = 10 * time.Second

	// ServerWriteTimeout bounds writing a response. It covers a full
	// snapshot collection.
	ServerWriteTimeout = CLISnapshotTimeout + 30*time.Second

	// ServerIdleTimeout bounds keep-alive connections.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout bounds graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Serve mode listener defaults.
const (
	ServerPort = 8080

	// ServerRateLimit is requests per second. A snapshot touches every
	// source on the machine, so the default is low.
	ServerRateLimit      = 1.0
	ServerRateLimitBurst = 2
)
