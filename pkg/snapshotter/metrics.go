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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Snapshot collection metrics
	snapshotCollectionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cirg_snapshot_collection_duration_seconds",
			Help:    "Time taken to collect a complete inventory snapshot",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		},
	)

	snapshotCollectionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cirg_snapshot_collection_total",
			Help: "Total number of snapshot collections",
		},
		[]string{"status"}, // complete or partial
	)

	snapshotProbeDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cirg_snapshot_probe_duration_seconds",
			Help:    "Time taken by individual probes",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"category"},
	)

	snapshotProbeTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cirg_snapshot_probe_total",
			Help: "Total number of probe executions by outcome",
		},
		[]string{"category", "status"}, // success, error, panic, timeout
	)

	snapshotCategoryCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cirg_snapshot_categories",
			Help: "Number of categories present in the last collected snapshot",
		},
	)
)

// WriteMetrics writes the current metrics to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
