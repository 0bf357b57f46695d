// Package config holds the run settings of a cirg snapshot.
//
// Settings start from the values in pkg/defaults, are overlaid by an optional
// YAML file and finally by command-line flags or CIRG_* environment variables
// (applied by pkg/cli). Validate rejects negative durations and limits and
// unknown category or format names.
//
//	probeTimeout: 45s
//	concurrency: 8
//	disabled: [eventLog, scheduledTask]
//	processLimit: 50
package config
