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

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/cirg-dev/cirg/pkg/config"
	"github.com/cirg-dev/cirg/pkg/defaults"
	"github.com/cirg-dev/cirg/pkg/logging"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/serializer"
	"github.com/cirg-dev/cirg/pkg/snapshotter"
)

// newSources returns the sources probes read from. Tests replace it.
var newSources = probe.DefaultSources

func snapshotCmd() *cli.Command {
	return &cli.Command{
		Name:                  "snapshot",
		EnableShellCompletion: true,
		Usage:                 "Capture an inventory snapshot of this machine",
		Description: `Capture a point-in-time inventory of the local machine including:
  - Computer, OS and BIOS identity
  - CPU, GPU, memory, disks, network adapters and monitors
  - Audio and USB devices, power plan and battery
  - Security posture (secure boot, TPM, antivirus, firewall, UAC, RDP,
    BitLocker, pending updates)
  - Processes, services, startup commands and scheduled tasks
  - Installed software, hotfixes, users and groups
  - System environment variables and recent event log errors

The snapshot can be output as JSON, YAML, a table, or a Markdown or HTML
report. Categories that could not be collected are null and listed under
"failures".

# Examples

Write YAML to a file:
  cirg snapshot -t yaml -o inventory.yaml

Skip slow categories and bound each probe:
  cirg snapshot --disable eventLog,scheduledTask --timeout 20s

Export run metrics for a textfile collector:
  cirg snapshot -o inventory.json --metrics-file /var/lib/node_exporter/cirg.prom`,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:    "timeout",
				Usage:   "Per-probe timeout, 0 disables",
				Value:   defaults.ProbeTimeout,
				Sources: cli.EnvVars("CIRG_PROBE_TIMEOUT"),
			},
			&cli.IntFlag{
				Name:    "concurrency",
				Usage:   "Maximum probes running at once, 0 runs all",
				Sources: cli.EnvVars("CIRG_CONCURRENCY"),
			},
			&cli.StringSliceFlag{
				Name:    "disable",
				Usage:   "Category to skip (can be repeated or comma separated)",
				Sources: cli.EnvVars("CIRG_DISABLE"),
			},
			&cli.StringFlag{
				Name:    "metrics-file",
				Usage:   "Write prometheus metrics of the run to this file",
				Sources: cli.EnvVars("CIRG_METRICS_FILE"),
			},
			&cli.BoolFlag{
				Name:  "fail-on-error",
				Usage: "Exit with non-zero status if any category could not be collected",
			},
			outputFlag(),
			formatFlag(),
		},
		Action: runSnapshot,
	}
}

func runSnapshot(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	disabled, err := cfg.DisabledCategories()
	if err != nil {
		return err
	}

	factory := probe.NewDefaultFactory(newSources(cfg.CommandTimeout))
	factory.Options = cfg.ProbeOptions()
	factory.Disabled = disabled

	w, err := serializer.NewFileWriterOrStdout(serializer.Format(cfg.Format), cfg.Output)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			slog.Warn("failed to close output", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, defaults.CLISnapshotTimeout)
	defer cancel()

	hs := &snapshotter.HostSnapshotter{
		Version:      version,
		Factory:      factory,
		Serializer:   w,
		ProbeTimeout: cfg.ProbeTimeout,
		Concurrency:  cfg.Concurrency,
	}

	snap := hs.Collect(ctx)
	if err := hs.Serializer.Serialize(ctx, snap); err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}

	if path := cmd.String("metrics-file"); path != "" {
		if err := snapshotter.WriteMetrics(path); err != nil {
			return fmt.Errorf("failed to write metrics to %q: %w", path, err)
		}
	}

	if cmd.Bool("fail-on-error") && len(snap.Failures) > 0 {
		return fmt.Errorf("%d of %d categories could not be collected", len(snap.Failures), len(snap.Failures)+len(snap.Present()))
	}
	return nil
}

// loadConfig reads --config and overlays the flags that were set.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	} else if cfg.LogLevel != "" {
		logging.SetDefaultStructuredLoggerWithLevel(name, version, cfg.LogLevel)
	}
	if cmd.IsSet("timeout") {
		cfg.ProbeTimeout = cmd.Duration("timeout")
	}
	if cmd.IsSet("concurrency") {
		cfg.Concurrency = cmd.Int("concurrency")
	}
	if cmd.IsSet("disable") {
		cfg.Disabled = append(cfg.Disabled, cmd.StringSlice("disable")...)
	}
	if cmd.IsSet("output") {
		cfg.Output = cmd.String("output")
	}
	if cmd.IsSet("format") {
		f, err := parseOutputFormat(cmd)
		if err != nil {
			return nil, err
		}
		cfg.Format = string(f)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
