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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cirg-dev/cirg/pkg/defaults"
	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/probe"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, defaults.ProbeTimeout, cfg.ProbeTimeout)
	assert.Equal(t, "json", cfg.Format)
	assert.NotNil(t, cfg.Disabled)
}

func TestLoad(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("overlay", func(t *testing.T) {
		path := writeFile(t, "cirg.yaml", `
probeTimeout: 45s
concurrency: 4
disabled: [eventLog, SCHEDULEDTASK]
processLimit: 12
serve:
  port: 9090
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 45*time.Second, cfg.ProbeTimeout)
		assert.Equal(t, 4, cfg.Concurrency)
		assert.Equal(t, 12, cfg.ProcessLimit)
		assert.Equal(t, defaults.HotfixLimit, cfg.HotfixLimit)
		assert.Equal(t, defaults.EventLogWindow, cfg.EventLogWindow)
		assert.Equal(t, 9090, cfg.Serve.Port)
		assert.Equal(t, defaults.ServerRateLimit, cfg.Serve.RateLimit)

		cats, err := cfg.DisabledCategories()
		require.NoError(t, err)
		assert.Equal(t, []probe.Category{probe.CategoryEventLog, probe.CategoryScheduledTask}, cats)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Load(writeFile(t, "cirg.yaml", "probeTimout: 1s\n"))
		require.Error(t, err)
		assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeInvalidRequest))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
	})
}

func TestLoad_JSONMatchesYAML(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "cirg.yaml", `
probeTimeout: 45s
commandTimeout: 10s
eventLogWindow: 12h
concurrency: 3
disabled: [gpu]
serve:
  port: 9090
`},
		{"json", "cirg.json", `{
  "probeTimeout": "45s",
  "commandTimeout": "10s",
  "eventLogWindow": "12h",
  "concurrency": 3,
  "disabled": ["gpu"],
  "serve": {"port": 9090}
}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, 45*time.Second, cfg.ProbeTimeout)
			assert.Equal(t, 10*time.Second, cfg.CommandTimeout)
			assert.Equal(t, 12*time.Hour, cfg.EventLogWindow)
			assert.Equal(t, 3, cfg.Concurrency)
			assert.Equal(t, []string{"gpu"}, cfg.Disabled)
			assert.Equal(t, 9090, cfg.Serve.Port)
			assert.Equal(t, defaults.HotfixLimit, cfg.HotfixLimit)
			assert.Equal(t, defaults.ServerRateLimit, cfg.Serve.RateLimit)
		})
	}
}

func TestLoad_JSONDurations(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    time.Duration
		wantErr bool
	}{
		{"string", `{"probeTimeout": "1m30s"}`, 90 * time.Second, false},
		{"nanoseconds", `{"probeTimeout": 2000000000}`, 2 * time.Second, false},
		{"absent keeps default", `{"concurrency": 1}`, defaults.ProbeTimeout, false},
		{"bad string", `{"probeTimeout": "soon"}`, 0, true},
		{"bool", `{"probeTimeout": true}`, 0, true},
		{"unknown key", `{"probeTimout": "1s"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, "cirg.json", tt.content))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeInvalidRequest))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.ProbeTimeout)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative probe timeout", func(c *Config) { c.ProbeTimeout = -time.Second }},
		{"negative command timeout", func(c *Config) { c.CommandTimeout = -1 }},
		{"zero window", func(c *Config) { c.EventLogWindow = 0 }},
		{"zero max events", func(c *Config) { c.EventLogMaxEvents = 0 }},
		{"negative concurrency", func(c *Config) { c.Concurrency = -2 }},
		{"negative process limit", func(c *Config) { c.ProcessLimit = -1 }},
		{"zero process limit", func(c *Config) { c.ProcessLimit = 0 }},
		{"process limit above cap", func(c *Config) { c.ProcessLimit = defaults.ProcessLimit + 1 }},
		{"zero hotfix limit", func(c *Config) { c.HotfixLimit = 0 }},
		{"unknown format", func(c *Config) { c.Format = "xml" }},
		{"port out of range", func(c *Config) { c.Serve.Port = 70000 }},
		{"zero rate limit", func(c *Config) { c.Serve.RateLimit = 0 }},
		{"zero burst", func(c *Config) { c.Serve.RateLimitBurst = 0 }},
		{"unknown category", func(c *Config) { c.Disabled = []string{"gpu", "printer"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, cerrors.IsCode(err, cerrors.ErrCodeInvalidRequest))
		})
	}
}

func TestValidate_ZeroMeansUnbounded(t *testing.T) {
	cfg := Default()
	cfg.ProbeTimeout = 0
	cfg.Concurrency = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_ProcessLimitBounds(t *testing.T) {
	for _, n := range []int{1, defaults.ProcessLimit} {
		cfg := Default()
		cfg.ProcessLimit = n
		assert.NoError(t, cfg.Validate(), "processLimit %d", n)
	}
}

func TestProbeOptions(t *testing.T) {
	cfg := Default()
	cfg.EventLogWindow = time.Hour
	cfg.EventLogMaxEvents = 5
	cfg.ProcessLimit = 10
	cfg.HotfixLimit = 3

	opts := cfg.ProbeOptions()
	assert.Equal(t, time.Hour, opts.EventLogWindow)
	assert.Equal(t, 5, opts.EventLogMaxEvents)
	assert.Equal(t, 10, opts.ProcessLimit)
	assert.Equal(t, 3, opts.HotfixLimit)
	assert.NotNil(t, opts.Now)
}
