// Package api exposes snapshot collection over HTTP.
//
// It configures pkg/server with one application route:
//
//	GET /v1/snapshot?format=yaml&disable=eventLog,scheduledTask
//
// Each request collects a fresh snapshot; nothing is cached. The response
// status is 200 whenever the snapshot was produced, including partial
// snapshots. The X-Snapshot-Failures header carries the number of
// categories that could not be collected, and the body lists them under
// "failures". An unknown format or category is a 400.
//
// System endpoints (/health, /ready, /metrics) come from pkg/server.
package api
