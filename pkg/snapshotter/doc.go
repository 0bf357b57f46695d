// Package snapshotter collects a point-in-time inventory snapshot of the
// current Windows machine.
//
// A HostSnapshotter obtains one probe per enabled category from a
// probe.Factory and runs them concurrently. Each probe is isolated: an error,
// a panic or a timeout leaves its category nil and adds a ProbeFailure, and
// never affects other categories. The snapshot is assembled in fixed category
// order regardless of completion order, and Collect itself cannot fail.
//
// # Usage
//
//	s := &snapshotter.HostSnapshotter{
//	    Version:      "v1.0.0",
//	    ProbeTimeout: 60 * time.Second,
//	}
//	snap := s.Collect(ctx)
//	for _, f := range snap.Failures {
//	    fmt.Println(f.Category, f.Reason)
//	}
//
// Measure collects and serializes in one call, writing JSON to stdout unless
// a Serializer is set:
//
//	s.Serializer = serializer.NewFileWriterOrStdout(serializer.FormatYAML, "inv.yaml")
//	if err := s.Measure(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Metrics
//
// Collection and per-probe durations, probe outcomes by status and the number
// of present categories are registered with the default prometheus registry.
// WriteMetrics dumps them in text format for a textfile collector.
package snapshotter
