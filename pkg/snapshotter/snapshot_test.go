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
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirg-dev/cirg/pkg/header"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/sourcetest"
)

const testUninstallKey = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`

type fakeProbe struct {
	category probe.Category
	record   probe.Record
	err      error
	panicked any
	block    chan struct{}
	delay    time.Duration
	calls    atomic.Int32
}

func (p *fakeProbe) Category() probe.Category { return p.category }

func (p *fakeProbe) Fetch(ctx context.Context) (probe.Record, error) {
	p.calls.Add(1)
	if p.block != nil {
		<-p.block
	}
	if p.delay > 0 {
		time.Sleep(p.delay)
	}
	if p.panicked != nil {
		panic(p.panicked)
	}
	return p.record, p.err
}

type fakeFactory struct {
	probes []probe.Probe
}

func (f *fakeFactory) CreateProbes() []probe.Probe { return f.probes }

type mockSerializer struct {
	serialized any
	err        error
	closed     bool
}

func (m *mockSerializer) Close() error {
	m.closed = true
	return nil
}

func (m *mockSerializer) Serialize(_ context.Context, snapshot any) error {
	m.serialized = snapshot
	return m.err
}

func TestNewSnapshot(t *testing.T) {
	snap := NewSnapshot()
	require.NotNil(t, snap)
	assert.NotNil(t, snap.Failures)
	assert.Empty(t, snap.Failures)
	assert.Empty(t, snap.Present())
}

func TestHostSnapshotter_Isolation(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	software := &probe.SoftwareProbe{
		Registry: sourcetest.NewRegistry().AddKey(registry.LocalMachine, testUninstallKey),
	}

	s := &HostSnapshotter{
		Version:      "1.0.0",
		ProbeTimeout: 50 * time.Millisecond,
		Factory: &fakeFactory{probes: []probe.Probe{
			&fakeProbe{category: probe.CategoryComputer, record: &probe.ComputerInfo{Name: "WS-01"}},
			&fakeProbe{category: probe.CategoryCPU, err: errors.New("wmi unavailable")},
			&fakeProbe{category: probe.CategoryGPU, panicked: "boom"},
			&fakeProbe{category: probe.CategoryMemory, block: block},
			software,
		}},
	}

	snap := s.Collect(context.Background())
	require.NotNil(t, snap)

	require.NotNil(t, snap.Computer)
	assert.Equal(t, "WS-01", snap.Computer.Name)
	assert.Nil(t, snap.CPU)
	assert.Nil(t, snap.GPU)
	assert.Nil(t, snap.Memory)

	require.NotNil(t, snap.Software)
	assert.NotNil(t, snap.Software.Programs)
	assert.Empty(t, snap.Software.Programs)

	assert.Equal(t, []probe.Category{probe.CategoryComputer, probe.CategorySoftware}, snap.Present())

	require.Len(t, snap.Failures, 3)
	assert.Equal(t, probe.CategoryCPU, snap.Failures[0].Category)
	assert.Equal(t, ReasonError, snap.Failures[0].Reason)
	assert.Contains(t, snap.Failures[0].Message, "wmi unavailable")
	assert.Equal(t, probe.CategoryGPU, snap.Failures[1].Category)
	assert.Equal(t, ReasonPanic, snap.Failures[1].Reason)
	assert.Contains(t, snap.Failures[1].Message, "boom")
	assert.Equal(t, probe.CategoryMemory, snap.Failures[2].Category)
	assert.Equal(t, ReasonTimeout, snap.Failures[2].Reason)
}

func TestHostSnapshotter_FixedOrder(t *testing.T) {
	// Reverse order with the earliest category finishing last.
	probes := []probe.Probe{
		&fakeProbe{category: probe.CategoryEnvironment, record: &probe.EnvironmentInfo{}},
		&fakeProbe{category: probe.CategoryHotfix, err: errors.New("hotfix")},
		&fakeProbe{category: probe.CategoryCPU, err: errors.New("cpu"), delay: 10 * time.Millisecond},
		&fakeProbe{category: probe.CategoryComputer, record: &probe.ComputerInfo{}, delay: 20 * time.Millisecond},
	}

	snap := (&HostSnapshotter{Factory: &fakeFactory{probes: probes}}).Collect(context.Background())

	assert.Equal(t, []probe.Category{probe.CategoryComputer, probe.CategoryEnvironment}, snap.Present())
	require.Len(t, snap.Failures, 2)
	assert.Equal(t, probe.CategoryCPU, snap.Failures[0].Category)
	assert.Equal(t, probe.CategoryHotfix, snap.Failures[1].Category)
}

func TestHostSnapshotter_Concurrency(t *testing.T) {
	var probes []probe.Probe
	fakes := make([]*fakeProbe, 0, len(probe.Categories))
	for _, c := range probe.Categories {
		p := &fakeProbe{category: c, err: errors.New("down")}
		fakes = append(fakes, p)
		probes = append(probes, p)
	}

	snap := (&HostSnapshotter{
		Concurrency: 2,
		Factory:     &fakeFactory{probes: probes},
	}).Collect(context.Background())

	assert.Empty(t, snap.Present())
	assert.Len(t, snap.Failures, len(probe.Categories))
	for _, p := range fakes {
		assert.Equal(t, int32(1), p.calls.Load(), p.category)
	}
}

func TestHostSnapshotter_NilRecord(t *testing.T) {
	snap := (&HostSnapshotter{Factory: &fakeFactory{probes: []probe.Probe{
		&fakeProbe{category: probe.CategoryUSB},
	}}}).Collect(context.Background())

	assert.Nil(t, snap.USB)
	require.Len(t, snap.Failures, 1)
	assert.Equal(t, ReasonError, snap.Failures[0].Reason)
}

func TestHostSnapshotter_CanceledContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := (&HostSnapshotter{Factory: &fakeFactory{probes: []probe.Probe{
		&fakeProbe{category: probe.CategoryAudio, block: block},
	}}}).Collect(ctx)

	require.Len(t, snap.Failures, 1)
	assert.Equal(t, ReasonTimeout, snap.Failures[0].Reason)
}

func TestHostSnapshotter_Header(t *testing.T) {
	snap := (&HostSnapshotter{Version: "2.0.0", Factory: &fakeFactory{}}).Collect(context.Background())

	assert.Equal(t, header.KindSnapshot, snap.Kind)
	assert.Equal(t, FullAPIVersion, snap.APIVersion)
	assert.Equal(t, "2.0.0", snap.Metadata["version"])
	assert.NotEmpty(t, snap.Metadata["timestamp"])
	_, err := uuid.Parse(snap.Metadata[MetadataRunID])
	assert.NoError(t, err)
}

func TestHostSnapshotter_Measure(t *testing.T) {
	t.Run("serializes snapshot", func(t *testing.T) {
		ser := &mockSerializer{}
		s := &HostSnapshotter{
			Version:    "1.0.0",
			Serializer: ser,
			Factory: &fakeFactory{probes: []probe.Probe{
				&fakeProbe{category: probe.CategoryComputer, record: &probe.ComputerInfo{Name: "WS-02"}},
			}},
		}

		require.NoError(t, s.Measure(context.Background()))
		snap, ok := ser.serialized.(*Snapshot)
		require.True(t, ok)
		assert.Equal(t, "WS-02", snap.Computer.Name)
		assert.True(t, ser.closed)
	})

	t.Run("serializer error", func(t *testing.T) {
		s := &HostSnapshotter{
			Serializer: &mockSerializer{err: errors.New("disk full")},
			Factory:    &fakeFactory{},
		}
		err := s.Measure(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}

func TestSnapshot_JSON(t *testing.T) {
	snap := NewSnapshot()
	snap.Init(header.KindSnapshot, FullAPIVersion, "1.0.0")
	snap.Software = &probe.SoftwareInfo{Programs: []probe.InstalledProgram{}}
	snap.Failures = append(snap.Failures, ProbeFailure{Category: probe.CategoryCPU, Reason: ReasonTimeout})

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "Snapshot", out["kind"])
	assert.Nil(t, out["cpu"])
	assert.Contains(t, out, "cpu")
	assert.Equal(t, map[string]any{"programs": []any{}}, out["software"])
	failures, ok := out["failures"].([]any)
	require.True(t, ok)
	assert.Len(t, failures, 1)
}

func TestWriteMetrics(t *testing.T) {
	(&HostSnapshotter{Factory: &fakeFactory{probes: []probe.Probe{
		&fakeProbe{category: probe.CategoryStartup, record: &probe.StartupInfo{}},
	}}}).Collect(context.Background())

	path := filepath.Join(t.TempDir(), "cirg.prom")
	require.NoError(t, WriteMetrics(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "cirg_snapshot_probe_total")
	assert.Contains(t, string(data), `category="startup"`)
}
