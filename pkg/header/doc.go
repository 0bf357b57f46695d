// Package header provides the envelope written at the top of every cirg
// document.
//
// A Header carries the document Kind, its APIVersion and a flat metadata map.
// Init stamps the metadata with an RFC3339 UTC "timestamp" and the tool
// "version":
//
//	var h header.Header
//	h.Init(header.KindSnapshot, "cirg.dev/v1alpha1", "v1.0.0")
//
// Serialized, the fields sit inline at the top of the document:
//
//	kind: Snapshot
//	apiVersion: cirg.dev/v1alpha1
//	metadata:
//	  timestamp: "2025-12-30T10:30:00Z"
//	  version: v1.0.0
package header
