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

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cirg-dev/cirg/pkg/config"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/server"
	"github.com/cirg-dev/cirg/pkg/source/process"
	"github.com/cirg-dev/cirg/pkg/source/registry"
	"github.com/cirg-dev/cirg/pkg/source/sourcetest"
)

const (
	testUninstallKey   = `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`
	testEnvironmentKey = `SYSTEM\CurrentControlSet\Control\Session Manager\Environment`
)

func fakeSources() probe.Sources {
	reg := sourcetest.NewRegistry().
		AddKey(registry.LocalMachine, testUninstallKey).
		Set(registry.LocalMachine, testEnvironmentKey, "OS", "Windows_NT")
	return probe.Sources{
		WMI:      sourcetest.NewWMI(),
		Registry: reg,
		Display:  sourcetest.Display{},
		Command:  sourcetest.NewCommand(),
		Process: sourcetest.Processes{Items: []process.Info{
			{PID: 4, Name: "System", WorkingSet: 1 << 20},
		}},
		Host:    sourcetest.Host{},
		Systemd: sourcetest.Systemd{Err: sourcetest.Unavailable("no systemd")},
		Updates: sourcetest.Updates{Err: sourcetest.Unavailable("no agent")},
	}
}

type snapshotBody struct {
	Kind     string `json:"kind" yaml:"kind"`
	Software *struct {
		Programs []any `json:"programs" yaml:"programs"`
	} `json:"software" yaml:"software"`
	Environment *struct {
		Variables map[string]string `json:"variables" yaml:"variables"`
	} `json:"environment" yaml:"environment"`
	CPU      any `json:"cpu" yaml:"cpu"`
	Failures []struct {
		Category string `json:"category" yaml:"category"`
		Reason   string `json:"reason" yaml:"reason"`
	} `json:"failures" yaml:"failures"`
}

func get(t *testing.T, cfg *config.Config, target string) *httptest.ResponseRecorder {
	t.Helper()
	s := NewServer(cfg, fakeSources(), "test")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSnapshot_JSON(t *testing.T) {
	rec := get(t, config.Default(), SnapshotPath)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var body snapshotBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Snapshot", body.Kind)
	require.NotNil(t, body.Software)
	assert.Empty(t, body.Software.Programs)
	require.NotNil(t, body.Environment)
	assert.Equal(t, "Windows_NT", body.Environment.Variables["OS"])

	// WMI is unavailable in the fakes.
	assert.Nil(t, body.CPU)
	assert.NotEmpty(t, body.Failures)
	assert.Equal(t, strconv.Itoa(len(body.Failures)), rec.Header().Get(HeaderFailures))
}

func TestSnapshot_Disable(t *testing.T) {
	cfg := config.Default()
	cfg.Disabled = []string{"software"}

	rec := get(t, cfg, SnapshotPath+"?disable=cpu,gpu&disable=environment")
	require.Equal(t, http.StatusOK, rec.Code)

	var body snapshotBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.Software)
	assert.Nil(t, body.Environment)
	for _, f := range body.Failures {
		assert.NotContains(t, []string{"cpu", "gpu", "software", "environment"}, f.Category)
	}
	assert.Equal(t, []string{"software"}, cfg.Disabled)
}

func TestSnapshot_Formats(t *testing.T) {
	tests := []struct {
		query       string
		contentType string
	}{
		{"?format=yaml", "application/yaml"},
		{"?format=TABLE", "text/plain; charset=utf-8"},
		{"?format=json", "application/json"},
		{"?format=markdown", "text/markdown; charset=utf-8"},
		{"?format=html", "text/html; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := get(t, config.Default(), SnapshotPath+tt.query+"&disable=eventLog")
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.NotEmpty(t, rec.Body.String())
		})
	}

	t.Run("yaml decodes", func(t *testing.T) {
		rec := get(t, config.Default(), SnapshotPath+"?format=yaml")
		var body snapshotBody
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Snapshot", body.Kind)
	})
}

func TestSnapshot_BadRequest(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown format", "?format=xml"},
		{"unknown category", "?disable=printer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, config.Default(), SnapshotPath+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp server.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, server.ErrCodeInvalidRequest, resp.Code)
			assert.False(t, resp.Retryable)
		})
	}
}

func TestSnapshot_MethodNotAllowed(t *testing.T) {
	s := NewServer(config.Default(), fakeSources(), "test")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, SnapshotPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodGet, rec.Header().Get("Allow"))
}

func TestNewServer_RateLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Serve.RateLimit = 0.001
	cfg.Serve.RateLimitBurst = 1
	cfg.Disabled = []string{"eventLog"}

	s := NewServer(cfg, fakeSources(), "test")
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, SnapshotPath, nil))
		assert.Equal(t, want, rec.Code, "request %d", i)
	}
}
