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
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/cirg-dev/cirg/pkg/defaults"
	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/serializer"
)

// Config is the full set of run settings.
type Config struct {
	// ProbeTimeout bounds each probe. Zero disables the bound.
	ProbeTimeout time.Duration `json:"probeTimeout" yaml:"probeTimeout"`
	// CommandTimeout bounds each external tool invocation.
	CommandTimeout time.Duration `json:"commandTimeout" yaml:"commandTimeout"`
	// Concurrency caps the number of probes running at once. Zero runs all.
	Concurrency int `json:"concurrency" yaml:"concurrency"`
	// Disabled lists category names that are not collected.
	Disabled []string `json:"disabled" yaml:"disabled"`

	EventLogWindow    time.Duration `json:"eventLogWindow" yaml:"eventLogWindow"`
	EventLogMaxEvents int           `json:"eventLogMaxEvents" yaml:"eventLogMaxEvents"`
	ProcessLimit      int           `json:"processLimit" yaml:"processLimit"`
	HotfixLimit       int           `json:"hotfixLimit" yaml:"hotfixLimit"`

	Format   string `json:"format" yaml:"format"`
	Output   string `json:"output" yaml:"output"`
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// Serve holds settings used only by serve mode.
	Serve ServeConfig `json:"serve" yaml:"serve"`
}

// ServeConfig holds HTTP listener settings.
type ServeConfig struct {
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`
	// RateLimit is the sustained request rate per second.
	RateLimit      float64 `json:"rateLimit" yaml:"rateLimit"`
	RateLimitBurst int     `json:"rateLimitBurst" yaml:"rateLimitBurst"`
}

// duration decodes a Go duration string ("45s", "24h") or a JSON number of
// nanoseconds.
type duration time.Duration

func (d *duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case string:
		parsed, err := time.ParseDuration(x)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", x, err)
		}
		*d = duration(parsed)
	case float64:
		*d = duration(time.Duration(x))
	default:
		return fmt.Errorf("invalid duration %s", b)
	}
	return nil
}

// UnmarshalJSON decodes c with duration fields written as Go duration
// strings, the same form YAML config files use. Unknown keys are rejected.
func (c *Config) UnmarshalJSON(b []byte) error {
	type plain Config
	aux := struct {
		*plain
		ProbeTimeout   *duration `json:"probeTimeout"`
		CommandTimeout *duration `json:"commandTimeout"`
		EventLogWindow *duration `json:"eventLogWindow"`
	}{
		plain:          (*plain)(c),
		ProbeTimeout:   (*duration)(&c.ProbeTimeout),
		CommandTimeout: (*duration)(&c.CommandTimeout),
		EventLogWindow: (*duration)(&c.EventLogWindow),
	}

	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(&aux)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		ProbeTimeout:      defaults.ProbeTimeout,
		CommandTimeout:    defaults.CommandTimeout,
		Disabled:          []string{},
		EventLogWindow:    defaults.EventLogWindow,
		EventLogMaxEvents: defaults.EventLogMaxEvents,
		ProcessLimit:      defaults.ProcessLimit,
		HotfixLimit:       defaults.HotfixLimit,
		Format:            string(serializer.FormatJSON),
		LogLevel:          "info",
		Serve: ServeConfig{
			Port:           defaults.ServerPort,
			RateLimit:      defaults.ServerRateLimit,
			RateLimitBurst: defaults.ServerRateLimitBurst,
		},
	}
}

// Load returns the defaults overlaid with the file at path. Keys absent from
// the file keep their default; unknown keys are rejected. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	r, err := serializer.NewFileReader(serializer.FormatFromPath(path), path)
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to open config %q", path), err)
	}
	defer func() {
		if closeErr := r.Close(); closeErr != nil {
			slog.Warn("failed to close config", "error", closeErr)
		}
	}()

	if err := r.Deserialize(cfg); err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInvalidRequest, fmt.Sprintf("failed to parse config %q", path), err)
	}

	slog.Debug("loaded config", slog.String("path", path))
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	durations := []struct {
		name string
		val  time.Duration
	}{
		{"probeTimeout", c.ProbeTimeout},
		{"commandTimeout", c.CommandTimeout},
		{"eventLogWindow", c.EventLogWindow},
	}
	for _, d := range durations {
		if d.val < 0 {
			return invalid("%s must not be negative: %s", d.name, d.val)
		}
	}

	ints := []struct {
		name string
		val  int
	}{
		{"concurrency", c.Concurrency},
		{"eventLogMaxEvents", c.EventLogMaxEvents},
	}
	for _, n := range ints {
		if n.val < 0 {
			return invalid("%s must not be negative: %d", n.name, n.val)
		}
	}

	if c.EventLogWindow == 0 {
		return invalid("eventLogWindow must be positive")
	}
	if c.EventLogMaxEvents == 0 {
		return invalid("eventLogMaxEvents must be positive")
	}
	if c.ProcessLimit < 1 || c.ProcessLimit > defaults.ProcessLimit {
		return invalid("processLimit must be between 1 and %d: %d", defaults.ProcessLimit, c.ProcessLimit)
	}
	if c.HotfixLimit < 1 {
		return invalid("hotfixLimit must be positive: %d", c.HotfixLimit)
	}

	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return invalid("serve.port out of range: %d", c.Serve.Port)
	}
	if c.Serve.RateLimit <= 0 {
		return invalid("serve.rateLimit must be positive")
	}
	if c.Serve.RateLimitBurst < 1 {
		return invalid("serve.rateLimitBurst must be at least 1")
	}

	if serializer.Format(c.Format).IsUnknown() {
		return invalid("unknown format %q, supported: %v", c.Format, serializer.SupportedFormats())
	}

	if _, err := c.DisabledCategories(); err != nil {
		return err
	}
	return nil
}

// DisabledCategories resolves Disabled into categories, ignoring duplicates.
func (c *Config) DisabledCategories() ([]probe.Category, error) {
	out := make([]probe.Category, 0, len(c.Disabled))
	seen := make(map[probe.Category]bool, len(c.Disabled))
	for _, name := range c.Disabled {
		cat, err := probe.ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if !seen[cat] {
			seen[cat] = true
			out = append(out, cat)
		}
	}
	return out, nil
}

// ProbeOptions returns the probe-local policies carried by c.
func (c *Config) ProbeOptions() probe.Options {
	opts := probe.DefaultOptions()
	opts.EventLogWindow = c.EventLogWindow
	opts.EventLogMaxEvents = c.EventLogMaxEvents
	opts.ProcessLimit = c.ProcessLimit
	opts.HotfixLimit = c.HotfixLimit
	return opts
}

func invalid(format string, args ...any) error {
	return cerrors.New(cerrors.ErrCodeInvalidRequest, fmt.Sprintf(format, args...))
}
