// Package sourcetest provides in-memory fakes of every source interface so
// probes and the snapshotter can be tested on any platform.
//
//	w := sourcetest.NewWMI().
//	    Add(wmi.NamespaceCIMV2, "Win32_Processor", variant.Record{"Name": variant.Str("CPU")})
//	r := sourcetest.NewRegistry().
//	    Set(registry.LocalMachine, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, "DisplayVersion", "23H2")
package sourcetest
