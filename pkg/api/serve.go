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
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/cirg-dev/cirg/pkg/config"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/server"
)

// Name identifies the serve-mode process in logs.
const Name = "cirg-server"

// NewServer wires the snapshot endpoint into a server configured from cfg.
// Port 0 picks an ephemeral port.
func NewServer(cfg *config.Config, src probe.Sources, version string) *server.Server {
	sc := server.NewConfig()
	sc.Address = cfg.Serve.Address
	sc.Port = cfg.Serve.Port
	sc.RateLimit = rate.Limit(cfg.Serve.RateLimit)
	sc.RateLimitBurst = cfg.Serve.RateLimitBurst

	h := NewSnapshotHandler(cfg, src, version)

	return server.New(
		server.WithConfig(sc),
		server.WithName(Name),
		server.WithVersion(version),
		server.WithHandler(SnapshotPath, h.Handle),
	)
}

// Serve runs serve mode until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, src probe.Sources, version string) error {
	s := NewServer(cfg, src, version)
	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}
	return nil
}
