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

package snapshotter

import (
	"context"

	"github.com/cirg-dev/cirg/pkg/header"
	"github.com/cirg-dev/cirg/pkg/probe"
)

const (
	// APIDomain is the group of cirg resources.
	APIDomain = "cirg.dev"
	// APIVersion is the snapshot schema version.
	APIVersion = "v1alpha1"
	// FullAPIVersion is the value of the snapshot apiVersion field.
	FullAPIVersion = APIDomain + "/" + APIVersion
)

// Metadata keys set on every snapshot.
const (
	MetadataRunID    = "run-id"
	MetadataHostname = "hostname"
)

// Failure reasons recorded in ProbeFailure.Reason.
const (
	ReasonError   = "error"
	ReasonPanic   = "panic"
	ReasonTimeout = "timeout"
)

// Snapshotter defines the interface for collecting inventory snapshots.
type Snapshotter interface {
	Measure(ctx context.Context) error
}

// ProbeFailure describes a category that is absent from a snapshot.
type ProbeFailure struct {
	Category probe.Category `json:"category" yaml:"category"`
	Reason   string         `json:"reason" yaml:"reason"`
	Message  string         `json:"message" yaml:"message"`
}

// NewSnapshot creates an empty Snapshot with an initialized Failures slice.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Failures: make([]ProbeFailure, 0),
	}
}

// Snapshot is one point-in-time inventory of the machine. Each category is
// nil when its probe was disabled, failed, panicked or timed out.
type Snapshot struct {
	header.Header `json:",inline" yaml:",inline"`

	Computer      *probe.ComputerInfo      `json:"computer" yaml:"computer"`
	CPU           *probe.CPUInfo           `json:"cpu" yaml:"cpu"`
	GPU           *probe.GPUInfo           `json:"gpu" yaml:"gpu"`
	Memory        *probe.MemoryInfo        `json:"memory" yaml:"memory"`
	Disk          *probe.DiskInfo          `json:"disk" yaml:"disk"`
	Network       *probe.NetworkInfo       `json:"network" yaml:"network"`
	Monitor       *probe.MonitorInfo       `json:"monitor" yaml:"monitor"`
	Audio         *probe.AudioInfo         `json:"audio" yaml:"audio"`
	USB           *probe.USBInfo           `json:"usb" yaml:"usb"`
	Power         *probe.PowerInfo         `json:"power" yaml:"power"`
	Security      *probe.SecurityInfo      `json:"security" yaml:"security"`
	Process       *probe.ProcessInfo       `json:"process" yaml:"process"`
	Service       *probe.ServiceInfo       `json:"service" yaml:"service"`
	Startup       *probe.StartupInfo       `json:"startup" yaml:"startup"`
	Software      *probe.SoftwareInfo      `json:"software" yaml:"software"`
	Hotfix        *probe.HotfixInfo        `json:"hotfix" yaml:"hotfix"`
	UsersGroups   *probe.UsersGroupsInfo   `json:"usersGroups" yaml:"usersGroups"`
	Environment   *probe.EnvironmentInfo   `json:"environment" yaml:"environment"`
	EventLog      *probe.EventLogInfo      `json:"eventLog" yaml:"eventLog"`
	ScheduledTask *probe.ScheduledTaskInfo `json:"scheduledTask" yaml:"scheduledTask"`

	// Failures lists the categories that are absent because their probe did
	// not produce a record, in category order.
	Failures []ProbeFailure `json:"failures" yaml:"failures"`
}

// set stores rec in its category field. Records of unknown types are ignored.
func (s *Snapshot) set(rec probe.Record) bool {
	switch r := rec.(type) {
	case *probe.ComputerInfo:
		s.Computer = r
	case *probe.CPUInfo:
		s.CPU = r
	case *probe.GPUInfo:
		s.GPU = r
	case *probe.MemoryInfo:
		s.Memory = r
	case *probe.DiskInfo:
		s.Disk = r
	case *probe.NetworkInfo:
		s.Network = r
	case *probe.MonitorInfo:
		s.Monitor = r
	case *probe.AudioInfo:
		s.Audio = r
	case *probe.USBInfo:
		s.USB = r
	case *probe.PowerInfo:
		s.Power = r
	case *probe.SecurityInfo:
		s.Security = r
	case *probe.ProcessInfo:
		s.Process = r
	case *probe.ServiceInfo:
		s.Service = r
	case *probe.StartupInfo:
		s.Startup = r
	case *probe.SoftwareInfo:
		s.Software = r
	case *probe.HotfixInfo:
		s.Hotfix = r
	case *probe.UsersGroupsInfo:
		s.UsersGroups = r
	case *probe.EnvironmentInfo:
		s.Environment = r
	case *probe.EventLogInfo:
		s.EventLog = r
	case *probe.ScheduledTaskInfo:
		s.ScheduledTask = r
	default:
		return false
	}
	return true
}

// Present returns the categories that carry a record, in snapshot order.
func (s *Snapshot) Present() []probe.Category {
	present := []bool{
		s.Computer != nil, s.CPU != nil, s.GPU != nil, s.Memory != nil,
		s.Disk != nil, s.Network != nil, s.Monitor != nil, s.Audio != nil,
		s.USB != nil, s.Power != nil, s.Security != nil, s.Process != nil,
		s.Service != nil, s.Startup != nil, s.Software != nil, s.Hotfix != nil,
		s.UsersGroups != nil, s.Environment != nil, s.EventLog != nil,
		s.ScheduledTask != nil,
	}
	out := make([]probe.Category, 0, len(present))
	for i, ok := range present {
		if ok {
			out = append(out, probe.Categories[i])
		}
	}
	return out
}
