// Package dtree discovers memory-mapped peripherals by scanning a device
// tree exposed as a directory hierarchy, normally /proc/device-tree.
//
// # Overview
//
// Every directory named "<id>@<hex>" is a device. Its base address comes
// from the unit address in the name unless a "reg" property of exactly two
// big-endian 32-bit cells (base, size) overrides it. The "compatible"
// property lists the drivers the device works with.
//
// Devices that share an identifier are renamed "<id>-00", "<id>-01", ... in
// ascending base-address order, so every name in a scan is unique.
//
// # Usage
//
//	s := dtree.New(dtree.Options{Logger: logger})
//	if err := s.Open("/proc/device-tree"); err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	for d := s.Next(); d != nil; d = s.Next() {
//	    fmt.Println(d)
//	    s.Free(d)
//	}
//
//	uart := s.FindByCompatible("xlnx,xps-uartlite-1.00.a")
//	if uart == nil && s.IsError() {
//	    return s.Err()
//	}
//
// # Errors
//
// A Session keeps the first failure since the last Open in an error cell
// (IsError, Err, ErrorText). Operations that return nil for "not found"
// record a failure there instead, so callers check IsError to tell the two
// apart. Failures below the root do not fail Open: the affected subtree is
// skipped and reported through Diagnostics.
//
// # Thread Safety
//
// A Session is not safe for concurrent use.
package dtree
