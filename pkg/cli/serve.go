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

	"github.com/urfave/cli/v3"

	"github.com/cirg-dev/cirg/pkg/api"
	"github.com/cirg-dev/cirg/pkg/config"
	"github.com/cirg-dev/cirg/pkg/defaults"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve snapshots over HTTP",
		Description: `Run an HTTP server that collects a fresh snapshot per request.

Endpoints:
  GET /v1/snapshot?format=yaml&disable=eventLog   snapshot document
  GET /health                                      liveness
  GET /ready                                       readiness
  GET /metrics                                     prometheus metrics

Requests to /v1/snapshot are rate limited; collection is expensive.

# Examples

Listen on all interfaces, port 9090:
  cirg serve --port 9090

Allow one snapshot every ten seconds:
  cirg serve --rate-limit 0.1 --rate-burst 1`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Usage:   "Address to listen on (default: all interfaces)",
				Sources: cli.EnvVars("CIRG_ADDRESS"),
			},
			&cli.IntFlag{
				Name:    "port",
				Usage:   "Port to listen on",
				Value:   defaults.ServerPort,
				Sources: cli.EnvVars("CIRG_PORT", "PORT"),
			},
			&cli.FloatFlag{
				Name:    "rate-limit",
				Usage:   "Snapshot requests per second",
				Value:   defaults.ServerRateLimit,
				Sources: cli.EnvVars("CIRG_RATE_LIMIT"),
			},
			&cli.IntFlag{
				Name:    "rate-burst",
				Usage:   "Snapshot requests allowed in a burst",
				Value:   defaults.ServerRateLimitBurst,
				Sources: cli.EnvVars("CIRG_RATE_BURST"),
			},
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
				Usage:   "Category never collected (can be repeated or comma separated)",
				Sources: cli.EnvVars("CIRG_DISABLE"),
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadServeConfig(cmd)
	if err != nil {
		return err
	}
	return api.Serve(ctx, cfg, newSources(cfg.CommandTimeout), version)
}

// loadServeConfig is loadConfig plus the listener flags.
func loadServeConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("address") {
		cfg.Serve.Address = cmd.String("address")
	}
	if cmd.IsSet("port") {
		cfg.Serve.Port = cmd.Int("port")
	}
	if cmd.IsSet("rate-limit") {
		cfg.Serve.RateLimit = cmd.Float("rate-limit")
	}
	if cmd.IsSet("rate-burst") {
		cfg.Serve.RateLimitBurst = cmd.Int("rate-burst")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
