// Package defaults provides centralized configuration constants for cirg.
//
// This package defines timeout values, list limits and query windows used
// across the codebase. Centralizing these values keeps probes, the
// snapshotter and the CLI consistent.
//
// # Categories
//
//   - Probe timeouts: per-probe and per-subprocess bounds
//   - Event log window: how much history the event log probe requests
//   - List limits: probe-local truncation (processes, hotfixes)
//   - CLI timeouts: bound on a whole snapshot run
//
// # Usage
//
// Import and use constants directly:
//
//	import "github.com/cirg-dev/cirg/pkg/defaults"
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.CommandTimeout)
//	defer cancel()
//
// Values that users may tune are also exposed through pkg/config, which
// falls back to these constants.
package defaults
