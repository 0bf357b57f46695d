// Package cli implements the cirg command-line interface.
//
// # Commands
//
// snapshot - capture an inventory snapshot of the local machine:
//
//	cirg snapshot [--output FILE] [--format json|yaml|table|markdown|html] [--timeout 60s]
//	              [--concurrency N] [--disable CATEGORY]... [--metrics-file FILE]
//	              [--fail-on-error]
//
// serve - collect snapshots on demand over HTTP (GET /v1/snapshot):
//
//	cirg serve [--address ADDR] [--port 8080] [--rate-limit 1] [--rate-burst 2]
//	           [--timeout 60s] [--concurrency N] [--disable CATEGORY]...
//
// categories - list category names in snapshot order:
//
//	cirg categories
//
// # Global Flags
//
//	--config      YAML config file (CIRG_CONFIG)
//	--log-level   debug, info, warn, error (CIRG_LOG_LEVEL, LOG_LEVEL)
//	--help, -h    Show command help
//	--version, -v Show version information
//
// Settings are resolved in order: built-in defaults, the config file, then
// flags and their CIRG_* environment variables. Logs are JSON on stderr; the
// snapshot goes to stdout unless --output is given.
package cli
