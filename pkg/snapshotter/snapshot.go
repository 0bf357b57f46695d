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
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cirg-dev/cirg/pkg/defaults"
	cerrors "github.com/cirg-dev/cirg/pkg/errors"
	"github.com/cirg-dev/cirg/pkg/header"
	"github.com/cirg-dev/cirg/pkg/probe"
	"github.com/cirg-dev/cirg/pkg/serializer"
)

// HostSnapshotter collects an inventory snapshot of the current machine.
// Every probe from the factory runs in its own goroutine; a probe that fails,
// panics or exceeds ProbeTimeout leaves its category empty and is listed in
// Snapshot.Failures. The other categories are unaffected.
type HostSnapshotter struct {
	// Version is the snapshotter version.
	Version string

	// Factory is the probe factory to use. If nil, the default factory over
	// the platform sources is used.
	Factory probe.Factory

	// Serializer is the serializer to use for output. If nil, a default stdout JSON serializer is used.
	Serializer serializer.Serializer

	// ProbeTimeout bounds each probe. Zero disables the bound.
	ProbeTimeout time.Duration

	// Concurrency caps the number of probes running at once. Zero or less
	// runs every probe at once.
	Concurrency int
}

// outcome is the result of one probe execution.
type outcome struct {
	category probe.Category
	record   probe.Record
	failure  *ProbeFailure
}

func failed(c probe.Category, reason, msg string) outcome {
	return outcome{
		category: c,
		failure:  &ProbeFailure{Category: c, Reason: reason, Message: msg},
	}
}

// Measure collects a snapshot and serializes it with the configured
// Serializer. A Serializer that also implements serializer.Closer is closed
// afterwards.
func (n *HostSnapshotter) Measure(ctx context.Context) error {
	snap := n.Collect(ctx)

	if n.Serializer == nil {
		n.Serializer = serializer.NewStdoutWriter(serializer.FormatJSON)
	}

	err := n.Serializer.Serialize(ctx, snap)
	if err != nil {
		slog.Error("failed to serialize", slog.String("error", err.Error()))
		err = fmt.Errorf("failed to serialize: %w", err)
	}

	if c, ok := n.Serializer.(serializer.Closer); ok {
		if closeErr := c.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close output: %w", closeErr)
		}
	}

	return err
}

// Collect runs every probe and assembles the snapshot in category order.
// It never fails: probe errors, panics and timeouts become nil categories.
func (n *HostSnapshotter) Collect(ctx context.Context) *Snapshot {
	if n.Factory == nil {
		n.Factory = probe.NewDefaultFactory(probe.DefaultSources(defaults.CommandTimeout))
	}

	slog.Debug("starting host snapshot")

	start := time.Now()
	defer func() {
		snapshotCollectionDuration.Observe(time.Since(start).Seconds())
	}()

	probes := n.Factory.CreateProbes()
	results := make([]outcome, len(probes))

	// Units never return an error.
	var g errgroup.Group
	limit := n.Concurrency
	if limit <= 0 {
		limit = len(probes)
	}
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, p := range probes {
		g.Go(func() error {
			results[i] = n.run(ctx, p)
			return nil
		})
	}
	_ = g.Wait()

	snap := n.assemble(results)

	status := "complete"
	if len(snap.Failures) > 0 {
		status = "partial"
	}
	snapshotCollectionTotal.WithLabelValues(status).Inc()
	present := snap.Present()
	snapshotCategoryCount.Set(float64(len(present)))

	slog.Debug("snapshot collection complete",
		slog.Int("present", len(present)),
		slog.Int("failed", len(snap.Failures)))

	return snap
}

// assemble builds the snapshot from results in category order, independent
// of the order in which probes completed.
func (n *HostSnapshotter) assemble(results []outcome) *Snapshot {
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].category.Index() < results[j].category.Index()
	})

	snap := NewSnapshot()
	snap.Init(header.KindSnapshot, FullAPIVersion, n.Version)
	snap.Set(MetadataRunID, uuid.NewString())
	if host, err := os.Hostname(); err == nil {
		snap.Set(MetadataHostname, host)
	}

	for _, o := range results {
		if o.failure == nil && !snap.set(o.record) {
			o = failed(o.category, ReasonError, fmt.Sprintf("unexpected record type %T", o.record))
		}
		if o.failure != nil {
			slog.Warn("probe did not produce a record",
				slog.String("category", o.category.String()),
				slog.String("reason", o.failure.Reason),
				slog.String("error", o.failure.Message))
			snap.Failures = append(snap.Failures, *o.failure)
		}
	}

	return snap
}

// run executes one probe under the per-probe timeout. When the timeout or
// ctx fires first, the probe goroutine is abandoned and its result discarded.
func (n *HostSnapshotter) run(ctx context.Context, p probe.Probe) outcome {
	c := p.Category()
	start := time.Now()

	pctx, cancel := ctx, context.CancelFunc(func() {})
	if n.ProbeTimeout > 0 {
		pctx, cancel = context.WithTimeout(ctx, n.ProbeTimeout)
	}
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		done <- fetch(pctx, p)
	}()

	var res outcome
	select {
	case res = <-done:
	case <-pctx.Done():
		err := cerrors.Wrap(cerrors.ErrCodeTimeout, fmt.Sprintf("%s probe did not finish", c), pctx.Err())
		res = failed(c, ReasonTimeout, err.Error())
	}

	status := "success"
	if res.failure != nil {
		status = res.failure.Reason
	}
	snapshotProbeDuration.WithLabelValues(c.String()).Observe(time.Since(start).Seconds())
	snapshotProbeTotal.WithLabelValues(c.String(), status).Inc()

	return res
}

// fetch calls the probe and converts errors and panics into failures.
func fetch(ctx context.Context, p probe.Probe) (res outcome) {
	c := p.Category()

	defer func() {
		if r := recover(); r != nil {
			slog.Debug("probe panicked",
				slog.String("category", c.String()),
				slog.String("stack", string(debug.Stack())))
			err := cerrors.New(cerrors.ErrCodeInternal, fmt.Sprintf("%s probe panicked: %v", c, r))
			res = failed(c, ReasonPanic, err.Error())
		}
	}()

	rec, err := p.Fetch(ctx)
	if err != nil {
		return failed(c, ReasonError, err.Error())
	}
	if rec == nil {
		return failed(c, ReasonError, fmt.Sprintf("%s probe returned no record", c))
	}
	return outcome{category: c, record: rec}
}
