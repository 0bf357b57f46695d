// Package logging provides structured logging utilities for cirg components.
//
// # Overview
//
// This package wraps the standard library slog package with cirg-specific defaults
// and conventions for consistent logging across all components. It supports
// environment-based log level configuration, module/version context injection,
// and automatic source location tracking for debug logs.
//
// # Features
//
//   - Structured JSON logging to stderr
//   - Environment-based log level configuration (LOG_LEVEL)
//   - Automatic module and version context
//   - Source location tracking for debug logs
//   - Flexible log level parsing
//   - Integration with standard library log package
//
// # Log Levels
//
// Supported log levels (case-insensitive):
//   - DEBUG: Detailed diagnostic information with source location
//   - INFO: General informational messages (default)
//   - WARN/WARNING: Warning messages for potentially problematic situations
//   - ERROR: Error messages for failures requiring attention
//
// # Usage
//
// Setting the default logger (recommended):
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("cirg", "v1.0.0")
//	    defer slog.Info("application started")
//
//	    // Use slog as normal
//	    slog.Info("processing request", "id", "req-123")
//	    slog.Debug("detailed state", "data", complexObject)
//	    slog.Error("operation failed", "error", err)
//	}
//
// Creating a custom logger:
//
//	logger := logging.NewStructuredLogger("cirg", "v2.0.0", "debug")
//	logger.Info("snapshot starting", "probes", 20)
//
// Setting explicit log level:
//
//	logging.SetDefaultStructuredLoggerWithLevel("cirg", "v1.0.0", "warn")
//
// Converting standard library logger:
//
//	stdLogger := logging.NewLogLogger(slog.LevelInfo, false)
//	stdLogger.Println("legacy log message")
//
// # Environment Configuration
//
// The LOG_LEVEL environment variable controls logging verbosity:
//
//	LOG_LEVEL=debug cirg snapshot
//	LOG_LEVEL=error cirg snapshot --format json
//
// If LOG_LEVEL is not set, defaults to INFO level.
//
// # Output Format
//
// All logs are written to stderr in JSON format:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "INFO",
//	    "msg": "snapshot complete",
//	    "module": "cirg",
//	    "version": "v1.0.0",
//	    "categories": 20
//	}
//
// Debug logs include source location:
//
//	{
//	    "time": "2025-01-15T10:30:00.123Z",
//	    "level": "DEBUG",
//	    "source": {
//	        "function": "probe.(*diskProbe).Fetch",
//	        "file": "disk.go",
//	        "line": 45
//	    },
//	    "msg": "disk type resolved by model heuristic",
//	    "module": "cirg",
//	    "version": "v1.0.0"
//	}
//
// # Best Practices
//
// 1. Set default logger early in main():
//
//	func main() {
//	    logging.SetDefaultStructuredLogger("cirg", version)
//	    // ...
//	}
//
// 2. Include context in log messages:
//
//	slog.Debug("wmi query failed",
//	    "namespace", `root\SecurityCenter2`,
//	    "class", "AntiVirusProduct",
//	    "error", err,
//	)
//
// 3. Use appropriate log levels:
//
//	slog.Debug("falling back to registry", "status", "tpm") // Troubleshooting
//	slog.Info("snapshot complete")                          // Normal operations
//	slog.Warn("probe failed", "category", "gpu")           // Degraded result
//	slog.Error("failed to serialize")                       // Errors requiring action
//
// # Integration
//
// This package is used by:
//   - pkg/cli - CLI command logging
//   - pkg/probe - fallback and skipped-row diagnostics at debug level
//   - pkg/snapshotter - per-probe outcome logging
//
// All components share consistent logging format and configuration.
package logging
