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
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/cirg-dev/cirg/pkg/config"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/serializer"
	"github.com/cirg-dev/cirg/pkg/server"
	"github.com/cirg-dev/cirg/pkg/snapshotter"
)

// SnapshotPath is the route of the snapshot endpoint.
const SnapshotPath = "/v1/snapshot"

// HeaderFailures carries the number of categories that could not be
// collected.
const HeaderFailures = "X-Snapshot-Failures"

var contentTypes = map[serializer.Format]string{
	serializer.FormatJSON:     "application/json",
	serializer.FormatYAML:     "application/yaml",
	serializer.FormatTable:    "text/plain; charset=utf-8",
	serializer.FormatMarkdown: "text/markdown; charset=utf-8",
	serializer.FormatHTML:     "text/html; charset=utf-8",
}

// SnapshotHandler collects a fresh snapshot on every GET.
type SnapshotHandler struct {
	Config  *config.Config
	Sources probe.Sources
	Version string
}

// NewSnapshotHandler returns a handler for cfg over src.
func NewSnapshotHandler(cfg *config.Config, src probe.Sources, version string) *SnapshotHandler {
	return &SnapshotHandler{
		Config:  cfg,
		Sources: src,
		Version: version,
	}
}

// Handle serves GET /v1/snapshot.
//
// Query parameters:
//   - format: json, yaml, table, markdown or html; defaults to the configured format
//   - disable: categories to skip, comma separated or repeated; added to
//     the configured set
func (h *SnapshotHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, server.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{"method": r.Method})
		return
	}

	q := r.URL.Query()

	format := serializer.Format(h.Config.Format)
	if v := q.Get("format"); v != "" {
		format = serializer.Format(strings.ToLower(strings.TrimSpace(v)))
	}
	if format.IsUnknown() {
		server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
			"unknown format", false, map[string]any{
				"format":    string(format),
				"supported": serializer.SupportedFormats(),
			})
		return
	}

	disabled, err := h.disabled(q["disable"])
	if err != nil {
		server.WriteError(w, r, http.StatusBadRequest, server.ErrCodeInvalidRequest,
			err.Error(), false, nil)
		return
	}

	factory := probe.NewDefaultFactory(h.Sources)
	factory.Options = h.Config.ProbeOptions()
	factory.Disabled = disabled

	var buf bytes.Buffer
	hs := &snapshotter.HostSnapshotter{
		Version:      h.Version,
		Factory:      factory,
		Serializer:   serializer.NewWriter(format, &buf),
		ProbeTimeout: h.Config.ProbeTimeout,
		Concurrency:  h.Config.Concurrency,
	}

	snap := hs.Collect(r.Context())
	if err := hs.Serializer.Serialize(r.Context(), snap); err != nil {
		slog.Error("failed to serialize snapshot",
			"requestID", server.RequestID(r.Context()),
			"error", err)
		server.WriteError(w, r, http.StatusInternalServerError, server.ErrCodeInternalError,
			"failed to serialize snapshot", true, nil)
		return
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set(HeaderFailures, strconv.Itoa(len(snap.Failures)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Warn("failed to write snapshot", "error", err)
	}
}

// disabled merges the configured disabled categories with the request's.
func (h *SnapshotHandler) disabled(params []string) ([]probe.Category, error) {
	cfg := *h.Config
	cfg.Disabled = append([]string{}, h.Config.Disabled...)
	for _, p := range params {
		for _, name := range strings.Split(p, ",") {
			if name = strings.TrimSpace(name); name != "" {
				cfg.Disabled = append(cfg.Disabled, name)
			}
		}
	}
	return cfg.DisabledCategories()
}
