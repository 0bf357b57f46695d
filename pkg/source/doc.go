// Package source groups the adapters probes read the machine through.
//
// Each subpackage exposes a small interface (wmi.Querier, registry.Store,
// display.Enumerator, command.Runner, process.Lister, systemd.Lister) with a
// platform implementation behind build tags. On platforms where a source does
// not exist the constructor still succeeds and every call returns a
// SOURCE_UNAVAILABLE error, so probes degrade the same way they do on a
// locked-down Windows host. Package sourcetest provides in-memory fakes of
// every interface for tests.
package source
