// Package errors provides structured error types for better observability
// and programmatic error handling across the application.
//
// Probes classify their failures with one of the codes below so the
// snapshotter and the CLI can tell a missing source apart from a parse
// problem or a refused privilege.
//
// Example usage:
//
//	err := errors.WrapWithContext(
//	    errors.ErrCodeSourceUnavailable,
//	    "failed to query WMI",
//	    cause,
//	    map[string]any{
//	        "namespace": `root\cimv2`,
//	        "class":     "Win32_Processor",
//	    },
//	)
package errors
