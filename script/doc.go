// Package script exposes device-tree sessions to Starlark scripts through
// a "dtree" module.
//
//	dtree.open("/proc/device-tree")
//	for d in dtree.devices():
//	    print("%s 0x%x" % (d.name, d.base), d.compat)
//	uart = dtree.bycompat("ns16550a")
//	dtree.close()
//
// Devices are frozen structs with name, base, high, compat and path
// fields. Lookups return None when nothing matches; dtree.iserror() tells a
// miss from a failure. dtree.open() and dtree.close() must be paired.
package script
